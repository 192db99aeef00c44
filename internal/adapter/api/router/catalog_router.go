package router

import (
	"github.com/labstack/echo/v4"

	"surplusmarket/internal/adapter/api/handler"
	"surplusmarket/internal/adapter/api/middleware"
)

func SetupCatalogRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	catalogHandler := handler.GetCatalogHandler()

	e.GET("/v1/listings/:id", catalogHandler.GetListing)

	listings := e.Group("/v1/listings")
	listings.Use(authMiddleware.Authenticate)
	listings.POST("", catalogHandler.CreateListing)
	listings.PUT("/:id/active", catalogHandler.SetListingActive)

	masterItems := e.Group("/v1/master-items")
	masterItems.Use(authMiddleware.Authenticate)
	masterItems.POST("", catalogHandler.CreateMasterItem)
}
