package router

import (
	"github.com/labstack/echo/v4"

	"surplusmarket/internal/adapter/api/handler"
	"surplusmarket/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	notificationHandler := handler.GetNotificationHandler()

	notifications := e.Group("/v1/notifications")
	notifications.Use(authMiddleware.Authenticate)

	notifications.GET("", notificationHandler.GetUserNotifications)
	notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
	notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
	notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)
}
