package handler

import (
	"github.com/labstack/echo/v4"

	"surplusmarket/internal/adapter/api/middleware"
	"surplusmarket/internal/usecase"
	"surplusmarket/pkg/errors"
)

var (
	orderHandler        *OrderHandler
	chatHandler         *ChatHandler
	notificationHandler *NotificationHandler
	userHandler         *UserHandler
	catalogHandler      *CatalogHandler
)

func Setup(
	orderUseCase *usecase.OrderUseCase,
	chatUseCase *usecase.ChatUseCase,
	notificationUseCase *usecase.NotificationUseCase,
	userUseCase *usecase.UserUseCase,
	catalogUseCase *usecase.CatalogUseCase,
) {
	orderHandler = NewOrderHandler(orderUseCase)
	chatHandler = NewChatHandler(chatUseCase, userUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase, userUseCase)
	userHandler = NewUserHandler(userUseCase)
	catalogHandler = NewCatalogHandler(catalogUseCase, userUseCase)
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetCatalogHandler() *CatalogHandler {
	return catalogHandler
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	return c.Validate(req)
}

// currentUserID resolves the authenticated identity to a user id.
func currentUserID(c echo.Context, users *usecase.UserUseCase) (string, error) {
	user, err := users.ResolveIdentity(c.Request().Context(), middleware.Identity(c))
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
