package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avolkov/hearth/internal/common"
)

// Claims carries the standard registered claims plus the owner id of the
// unlocked admin profile.
type Claims struct {
	jwt.RegisteredClaims
	OwnerID string
}

// GenerateToken signs a session token for ownerID, valid for validityDuration.
func GenerateToken(ownerID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		OwnerID: ownerID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// OwnerIDFromToken validates the token and returns the embedded owner id.
func OwnerIDFromToken(tokenString string, secretKey []byte) (string, error) {
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

	return claims.OwnerID, nil
}
