package handler

import (
	"github.com/labstack/echo/v4"

	"surplusmarket/internal/adapter/api/middleware"
	"surplusmarket/internal/usecase"
	"surplusmarket/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type registerProfileRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	Name        string `json:"name" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	ShopName    string `json:"shop_name" validate:"omitempty,max=100"`
	ShopAddress string `json:"shop_address" validate:"omitempty,max=300"`
}

// RegisterProfile creates the caller's profile on first sign-in.
func (h *UserHandler) RegisterProfile(c echo.Context) error {
	var req registerProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, created, err := h.userUseCase.RegisterProfile(c.Request().Context(), middleware.Identity(c), usecase.RegisterProfileInput{
		Email:       req.Email,
		Name:        req.Name,
		Phone:       req.Phone,
		ImageURL:    req.ImageURL,
		ShopName:    req.ShopName,
		ShopAddress: req.ShopAddress,
	})
	if err != nil {
		return response.Error(c, err)
	}

	if created {
		return response.Created(c, user)
	}
	return response.Success(c, user)
}

func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	user, err := h.userUseCase.ResolveIdentity(c.Request().Context(), middleware.Identity(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetUserProfile(c echo.Context) error {
	user, err := h.userUseCase.GetUserProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
