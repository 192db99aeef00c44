package router

import (
	"github.com/labstack/echo/v4"

	"surplusmarket/internal/adapter/api/handler"
	"surplusmarket/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("", chatHandler.CreateChat)
	chatGroup.GET("", chatHandler.GetUserChats)
	chatGroup.GET("/:id", chatHandler.GetChatByID)
	chatGroup.PUT("/:id/read", chatHandler.MarkMessagesAsRead)
	chatGroup.PUT("/:id/block", chatHandler.ToggleChatBlock)

	chatGroup.POST("/:id/messages", chatHandler.SendMessage)
	chatGroup.GET("/:id/messages", chatHandler.GetChatMessages)
}
