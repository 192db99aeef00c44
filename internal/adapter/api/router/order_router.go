package router

import (
	"github.com/labstack/echo/v4"

	"surplusmarket/internal/adapter/api/handler"
	"surplusmarket/internal/adapter/api/middleware"
)

func SetupOrderRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	orderHandler := handler.GetOrderHandler()

	// Pending count works for anonymous callers and returns 0.
	e.GET("/v1/orders/pending-count", orderHandler.GetPendingOrdersCount, authMiddleware.OptionalAuthenticate)

	orders := e.Group("/v1/orders")
	orders.Use(authMiddleware.Authenticate)

	orders.POST("", orderHandler.CreateOrder)
	orders.GET("", orderHandler.GetUserOrders)
	orders.GET("/:id", orderHandler.GetOrderByID)
	orders.POST("/:id/respond", orderHandler.RespondToOrder)
	orders.POST("/:id/complete", orderHandler.CompleteOrder)
	orders.POST("/:id/cancel", orderHandler.CancelOrder)
}
