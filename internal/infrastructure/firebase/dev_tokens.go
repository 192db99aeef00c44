package firebase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DevTokenManager issues and verifies HS256 tokens for local development,
// standing in for Firebase when no project is configured.
type DevTokenManager struct {
	secretKey []byte
	duration  time.Duration
}

func NewDevTokenManager(secretKey string, duration time.Duration) *DevTokenManager {
	return &DevTokenManager{
		secretKey: []byte(secretKey),
		duration:  duration,
	}
}

// GenerateToken issues a token whose subject is the token identifier.
func (m *DevTokenManager) GenerateToken(_ context.Context, identity string) (string, error) {
	if identity == "" {
		return "", errors.New("identity is required")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   identity,
		Issuer:    "surplusmarket-dev",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
}

func (m *DevTokenManager) VerifyToken(_ context.Context, tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}

	return claims.Subject, nil
}
