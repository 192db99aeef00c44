package handler

import (
	"github.com/labstack/echo/v4"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/usecase"
	"surplusmarket/pkg/errors"
	"surplusmarket/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
	userUseCase *usecase.UserUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase, userUseCase *usecase.UserUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
		userUseCase: userUseCase,
	}
}

// BuyerID is only set when the seller opens the chat with a buyer.
type createChatRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
	BuyerID   string `json:"buyer_id"`
}

type sendMessageRequest struct {
	Body        string `json:"body" validate:"max=2000"`
	MessageType string `json:"message_type" validate:"omitempty,oneof=text image location"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

type toggleBlockRequest struct {
	IsBlocked bool `json:"is_blocked"`
}

// CreateChat contacts the listing's seller, or, when buyer_id is given, lets
// the seller open the chat with that buyer.
func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req createChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	userID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	ctx := c.Request().Context()
	var chatID string
	if req.BuyerID == "" {
		chatID, err = h.chatUseCase.ContactSeller(ctx, userID, req.ListingID)
	} else {
		chatID, err = h.chatUseCase.ContactBuyer(ctx, userID, req.ListingID, req.BuyerID)
	}
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{"chat_id": chatID})
}

func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	chats, err := h.chatUseCase.GetUserChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, chats)
}

func (h *ChatHandler) GetChatByID(c echo.Context) error {
	userID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.GetChatByID(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return response.Error(c, err)
	}
	if chat == nil {
		return response.Error(c, errors.NotFound("Chat", nil))
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	userID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	messages, err := h.chatUseCase.GetChatMessages(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	userID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	messageID, err := h.chatUseCase.SendMessage(c.Request().Context(), usecase.SendMessageInput{
		ChatID:      c.Param("id"),
		SenderID:    userID,
		Body:        req.Body,
		MessageType: entity.MessageType(req.MessageType),
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{"message_id": messageID})
}

func (h *ChatHandler) MarkMessagesAsRead(c echo.Context) error {
	userID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	marked, err := h.chatUseCase.MarkMessagesAsRead(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"marked": marked})
}

func (h *ChatHandler) ToggleChatBlock(c echo.Context) error {
	var req toggleBlockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	userID, err := currentUserID(c, h.userUseCase)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.chatUseCase.ToggleChatBlock(c.Request().Context(), c.Param("id"), userID, req.IsBlocked); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"is_blocked": req.IsBlocked})
}
