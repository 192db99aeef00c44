package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"surplusmarket/pkg/errors"
	"surplusmarket/pkg/response"
)

// TokenIssuer mints bearer tokens for a token identifier.
type TokenIssuer interface {
	GenerateToken(ctx context.Context, identity string) (string, error)
}

type DevTokenHandler struct {
	issuer TokenIssuer
}

var devTokenHandler *DevTokenHandler

func NewDevTokenHandler(issuer TokenIssuer) *DevTokenHandler {
	return &DevTokenHandler{
		issuer: issuer,
	}
}

func SetupDevTokenHandler(issuer TokenIssuer) {
	devTokenHandler = NewDevTokenHandler(issuer)
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

// GenerateToken issues a token for the identity query parameter.
func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	identity := c.QueryParam("identity")
	if identity == "" {
		return response.Error(c, errors.BadRequest("identity is required", nil))
	}

	token, err := h.issuer.GenerateToken(c.Request().Context(), identity)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to generate token", err))
	}

	return response.Success(c, map[string]string{
		"token":    token,
		"identity": identity,
	})
}
