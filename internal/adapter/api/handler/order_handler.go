package handler

import (
	"github.com/labstack/echo/v4"

	"surplusmarket/internal/adapter/api/middleware"
	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/usecase"
	"surplusmarket/pkg/response"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type createOrderRequest struct {
	ListingID       string  `json:"listing_id" validate:"required"`
	Quantity        float64 `json:"quantity"`
	ContactMethod   string  `json:"contact_method" validate:"required,oneof=pickup delivery both"`
	DeliveryAddress string  `json:"delivery_address"`
	PreferredTime   string  `json:"preferred_time"`
	BuyerMessage    string  `json:"buyer_message" validate:"max=1000"`
	BuyerPhone      string  `json:"buyer_phone"`
}

type respondToOrderRequest struct {
	Status          string `json:"status" validate:"required,oneof=accepted rejected"`
	SellerResponse  string `json:"seller_response" validate:"max=1000"`
	RejectionReason string `json:"rejection_reason" validate:"max=1000"`
}

type completeOrderRequest struct {
	CompletionNotes string `json:"completion_notes" validate:"max=1000"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.orderUseCase.CreateOrder(c.Request().Context(), middleware.Identity(c), usecase.CreateOrderInput{
		ListingID:       req.ListingID,
		Quantity:        req.Quantity,
		ContactMethod:   entity.ContactMethod(req.ContactMethod),
		DeliveryAddress: req.DeliveryAddress,
		PreferredTime:   req.PreferredTime,
		BuyerMessage:    req.BuyerMessage,
		BuyerPhone:      req.BuyerPhone,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

func (h *OrderHandler) GetUserOrders(c echo.Context) error {
	orders, err := h.orderUseCase.GetUserOrders(c.Request().Context(), middleware.Identity(c), usecase.OrderFilter{
		Type:   c.QueryParam("type"),
		Status: entity.OrderStatus(c.QueryParam("status")),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, orders)
}

func (h *OrderHandler) GetPendingOrdersCount(c echo.Context) error {
	count, err := h.orderUseCase.GetPendingOrdersCount(c.Request().Context(), middleware.Identity(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"count": count})
}

func (h *OrderHandler) GetOrderByID(c echo.Context) error {
	order, err := h.orderUseCase.GetOrderByID(c.Request().Context(), middleware.Identity(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) RespondToOrder(c echo.Context) error {
	var req respondToOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	err := h.orderUseCase.RespondToOrder(c.Request().Context(), middleware.Identity(c), usecase.RespondToOrderInput{
		OrderID:         c.Param("id"),
		Status:          entity.OrderStatus(req.Status),
		SellerResponse:  req.SellerResponse,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"success": true})
}

func (h *OrderHandler) CompleteOrder(c echo.Context) error {
	var req completeOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.orderUseCase.CompleteOrder(c.Request().Context(), middleware.Identity(c), c.Param("id"), req.CompletionNotes); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"success": true})
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	var req cancelOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.orderUseCase.CancelOrder(c.Request().Context(), middleware.Identity(c), c.Param("id"), req.Reason); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"success": true})
}
