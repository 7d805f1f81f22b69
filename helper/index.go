package helper

import (
	"bus_booking/config"
	"bus_booking/model"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	JwtSecret      = []byte(config.Config("JWT_SECRET"))
	AccessTokenTTL = 60 * time.Minute
)

// ConfigureTokens replaces the signing secret and token lifetime.
func ConfigureTokens(secret string, ttl time.Duration) {
	if secret != "" {
		JwtSecret = []byte(secret)
	}
	if ttl > 0 {
		AccessTokenTTL = ttl
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func GenerateAccessToken(tokenClaim model.TokenClaim, now time.Time) (model.TokenData, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	expiresAt := now.Add(AccessTokenTTL)

	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = tokenClaim.UserId
	claims["vendorId"] = tokenClaim.VendorId
	claims["email"] = tokenClaim.Email
	claims["role"] = tokenClaim.Role
	claims["iat"] = now.Unix()
	claims["exp"] = expiresAt.Unix()

	t, err := token.SignedString(JwtSecret)
	if err != nil {
		return model.TokenData{}, err
	}
	return model.TokenData{AccessToken: t, ExpiresAt: expiresAt, Role: tokenClaim.Role}, nil
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JwtSecret, nil
	})
}

// ClaimFromToken reads the claims written by GenerateAccessToken.
func ClaimFromToken(token *jwt.Token) (model.TokenClaim, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.TokenClaim{}, errors.New("invalid token claims")
	}
	claim := model.TokenClaim{}
	if v, ok := claims["userId"].(float64); ok {
		claim.UserId = uint(v)
	}
	if v, ok := claims["vendorId"].(float64); ok {
		claim.VendorId = uint(v)
	}
	claim.Email, _ = claims["email"].(string)
	claim.Role, _ = claims["role"].(string)
	if claim.Role == "" || claim.SubjectId() == 0 {
		return model.TokenClaim{}, errors.New("token has no subject")
	}
	return claim, nil
}
