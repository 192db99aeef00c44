package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"surplusmarket/internal/usecase"
	"surplusmarket/pkg/response"
)

type CatalogHandler struct {
	catalogUseCase *usecase.CatalogUseCase
	userUseCase    *usecase.UserUseCase
}

func NewCatalogHandler(catalogUseCase *usecase.CatalogUseCase, userUseCase *usecase.UserUseCase) *CatalogHandler {
	return &CatalogHandler{
		catalogUseCase: catalogUseCase,
		userUseCase:    userUseCase,
	}
}

type createMasterItemRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category" validate:"max=50"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

type createListingRequest struct {
	MasterItemID string     `json:"master_item_id" validate:"required"`
	Description  string     `json:"description" validate:"max=1000"`
	ImageURL     string     `json:"image_url" validate:"omitempty,url"`
	Price        float64    `json:"price" validate:"gt=0"`
	Quantity     float64    `json:"quantity" validate:"gt=0"`
	Unit         string     `json:"unit" validate:"required,max=20"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

type setListingActiveRequest struct {
	IsActive bool `json:"is_active"`
}

func (h *CatalogHandler) CreateMasterItem(c echo.Context) error {
	var req createMasterItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.catalogUseCase.CreateMasterItem(c.Request().Context(), req.Name, req.Category, req.ImageURL)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

func (h *CatalogHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	sellerID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	listing, err := h.catalogUseCase.CreateListing(c.Request().Context(), sellerID, usecase.CreateListingInput{
		MasterItemID: req.MasterItemID,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Price:        req.Price,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		ExpiresAt:    req.ExpiresAt,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *CatalogHandler) GetListing(c echo.Context) error {
	listing, err := h.catalogUseCase.GetListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *CatalogHandler) SetListingActive(c echo.Context) error {
	var req setListingActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	sellerID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.catalogUseCase.SetListingActive(c.Request().Context(), sellerID, c.Param("id"), req.IsActive); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"is_active": req.IsActive})
}
