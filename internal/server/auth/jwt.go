// Package auth mints and verifies the HS256 session tokens issued by the
// demo login flow.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sprayworks/foamdesk/internal/common"
)

// Claims carries the standard registered claims plus the account
// identifier the session is scoped to.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string
}

// GenerateToken signs a session token for accountID with the given
// validity window.
func GenerateToken(accountID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		AccountID: accountID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetAccountIDFromToken parses and verifies a session token and returns the
// account id it was minted for.
func GetAccountIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.AccountID, nil
}
