package router

import (
	"github.com/labstack/echo/v4"

	"surplusmarket/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, environment string) {
	SetupUserRouter(e, authMiddleware)
	SetupCatalogRouter(e, authMiddleware)
	SetupOrderRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupHealthRouter(e)
	SetupDevRouter(e, environment)
}
