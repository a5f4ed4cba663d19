package utils

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Claims represents the JWT claims attached to every issued token. The
// subject of the token is the user's document id.
type Claims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

// GenerateJWT signs a token for the given user id.
func GenerateJWT(userID string, secret []byte, expiration time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(expiration).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies a bearer token (with or without the "Bearer " prefix)
// and returns its claims. Callers treat any error as an anonymous caller.
func ParseToken(tokenStr string, secret []byte) (*Claims, error) {
	tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.NewValidationError("token is not valid", jwt.ValidationErrorClaimsInvalid)
	}
	return claims, nil
}
