package helper

import (
	"fmt"

	"github.com/gosimple/slug"
)

// GenerateUniqueSlug slugifies name and appends -1, -2 ... until exists
// reports the candidate as free.
func GenerateUniqueSlug(name string, exists func(string) (bool, error)) (string, error) {
	base := slug.Make(name)
	result := base
	i := 1

	for {
		taken, err := exists(result)
		if err != nil {
			return "", err
		}
		if !taken {
			return result, nil
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}
}
