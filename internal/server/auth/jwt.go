// Package auth issues and verifies the signed session tokens that gate
// every protected API operation. Tokens are stateless: all identity data
// lives in the claims and no server-side lookup is needed to verify them.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prodshot/prodshot/internal/common"
)

// Claims embeds the registered claim set plus the public user fields the
// client needs without an extra round trip.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// GenerateToken mints an HS256 token for the given user that expires after
// validityDuration.
func GenerateToken(userID int64, name, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Name:   name,
		Email:  email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry and returns the embedded
// claims. Malformed, forged, and expired tokens all yield an error.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
