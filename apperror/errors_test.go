package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("lock: %w", SeatUnavailableError{SeatIDs: []uint{2}})

	assert.True(t, IsSeatUnavailable(err))
	assert.Equal(t, "SeatUnavailable", Kind(err))
	assert.Equal(t, "lock: seats unavailable: 2", err.Error())
}

func TestInternalKeepsTypedErrors(t *testing.T) {
	typed := HoldExpiredError{HoldID: "h1"}
	assert.Equal(t, typed, Internal("payment", typed))

	raw := errors.New("connection reset")
	wrapped := Internal("payment", raw)
	assert.True(t, IsInternal(wrapped))
	assert.ErrorIs(t, wrapped, raw)
	assert.Nil(t, Internal("payment", nil))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "seat 7 not found", NotFoundError{Resource: "seat", ID: 7}.Error())
	assert.Equal(t, "passengers[0].age: must be between 1 and 120",
		ValidationError{Field: "passengers[0].age", Reason: "must be between 1 and 120"}.Error())
	assert.Equal(t, "seats unavailable: 1,3", SeatUnavailableError{SeatIDs: []uint{1, 3}}.Error())
	assert.Equal(t, "", Kind(errors.New("plain")))
}
