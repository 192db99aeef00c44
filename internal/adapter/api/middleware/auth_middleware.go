package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"surplusmarket/pkg/errors"
	"surplusmarket/pkg/response"
)

// IdentityKey is the echo context key holding the caller's token identifier.
const IdentityKey = "identity"

// TokenVerifier checks a bearer token and returns its subject.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func bearerToken(c echo.Context) (string, bool) {
	parts := strings.Split(c.Request().Header.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return response.Error(c, errors.Unauthorized("Not authenticated", nil))
		}

		identity, err := m.verifier.VerifyToken(c.Request().Context(), token)
		if err != nil || identity == "" {
			return response.Error(c, errors.Unauthorized("Not authenticated", err))
		}

		c.Set(IdentityKey, identity)
		return next(c)
	}
}

// OptionalAuthenticate sets the identity when a valid token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return next(c)
		}

		if identity, err := m.verifier.VerifyToken(c.Request().Context(), token); err == nil {
			c.Set(IdentityKey, identity)
		}
		return next(c)
	}
}

// Identity returns the authenticated identity, or "" for anonymous requests.
func Identity(c echo.Context) string {
	identity, _ := c.Get(IdentityKey).(string)
	return identity
}
