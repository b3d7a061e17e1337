package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("session token is invalid")

type SessionClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a token identifying userID that expires after ttl.
func GenerateSessionToken(secret []byte, userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ParseSessionToken verifies tokenString and returns the user id it carries.
// Expired, tampered and non-HMAC tokens yield ErrInvalidSession.
func ParseSessionToken(secret []byte, tokenString string) (uint, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidSession
	}
	if claims.UserID == 0 {
		return 0, ErrInvalidSession
	}
	return claims.UserID, nil
}
