package handler

import (
	"github.com/labstack/echo/v4"

	"surplusmarket/internal/usecase"
	"surplusmarket/pkg/response"
	"surplusmarket/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
	userUseCase         *usecase.UserUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase, userUseCase *usecase.UserUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		userUseCase:         userUseCase,
	}
}

func (h *NotificationHandler) GetUserNotifications(c echo.Context) error {
	userID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	limit := utils.GetLimitParam(c, 50, 100)
	notifications, err := h.notificationUseCase.GetUserNotifications(c.Request().Context(), userID, limit, utils.GetBoolParam(c, "unread"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, notifications)
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	count, err := h.notificationUseCase.GetUnreadCount(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"count": count})
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.notificationUseCase.MarkAsRead(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"success": true})
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	marked, err := h.notificationUseCase.MarkAllAsRead(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"marked": marked})
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	userID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.notificationUseCase.DeleteNotification(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"success": true})
}
