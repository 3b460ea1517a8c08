package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSecret = errors.New("JWT_SECRET is not configured")

// IssueVendorToken signs a token that scopes its bearer to one store.
func IssueVendorToken(secret, userID, storeID string, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, ErrNoSecret
	}
	expiresAt := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"user_id":  userID,
		"store_id": storeID,
		"role":     "vendor",
		"exp":      expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
