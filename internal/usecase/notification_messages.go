package usecase

import (
	"fmt"
	"strings"

	"surplusmarket/internal/domain/entity"
)

const (
	ordersActionURL   = "/profile/orders"
	messagesActionURL = "/messages"
	defaultItemName   = "item"
)

func formatQuantity(q float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", q), "0"), ".")
}

func orderMetadata(order *entity.Order, itemName string) map[string]interface{} {
	return map[string]interface{}{
		"orderId":     order.ID,
		"listingId":   order.ListingID,
		"itemName":    itemName,
		"quantity":    order.Quantity,
		"unit":        order.Unit,
		"totalAmount": order.TotalAmount,
		"status":      string(order.Status),
	}
}

func newOrderReceivedNotification(order *entity.Order, itemName string) *entity.Notification {
	return &entity.Notification{
		UserID: order.SellerID,
		Type:   entity.NotificationOrderPlaced,
		Title:  "🛒 New Order Received!",
		Message: fmt.Sprintf("Someone wants to buy %s %s of %s. Please review and respond.",
			formatQuantity(order.Quantity), order.Unit, itemName),
		Category:    entity.CategoryOrders,
		RelatedID:   order.ID,
		RelatedType: entity.RelatedOrder,
		Metadata:    orderMetadata(order, itemName),
		ActionURL:   ordersActionURL,
		Priority:    entity.PriorityHigh,
		SenderID:    order.BuyerID,
	}
}

func orderPlacedConfirmation(order *entity.Order, itemName string) *entity.Notification {
	return &entity.Notification{
		UserID: order.BuyerID,
		Type:   entity.NotificationOrderPlaced,
		Title:  "📦 Order Placed Successfully!",
		Message: fmt.Sprintf("Your order for %s %s of %s has been sent to the seller. You'll be notified when they respond.",
			formatQuantity(order.Quantity), order.Unit, itemName),
		Category:    entity.CategoryOrders,
		RelatedID:   order.ID,
		RelatedType: entity.RelatedOrder,
		Metadata:    orderMetadata(order, itemName),
		ActionURL:   ordersActionURL,
		Priority:    entity.PriorityMedium,
	}
}

func orderResponseNotification(order *entity.Order, itemName string) *entity.Notification {
	n := &entity.Notification{
		UserID:      order.BuyerID,
		Category:    entity.CategoryOrders,
		RelatedID:   order.ID,
		RelatedType: entity.RelatedOrder,
		Metadata:    orderMetadata(order, itemName),
		ActionURL:   ordersActionURL,
		Priority:    entity.PriorityHigh,
		SenderID:    order.SellerID,
	}

	if order.Status == entity.OrderStatusAccepted {
		n.Type = entity.NotificationOrderAccepted
		n.Title = "✅ Order Accepted!"
		n.Message = fmt.Sprintf("Great news! The seller has accepted your order for %s. ", itemName)
		if order.SellerResponse != "" {
			n.Message += fmt.Sprintf("Message: %q", order.SellerResponse)
		} else {
			n.Message += "Check your orders for next steps."
		}
		return n
	}

	n.Type = entity.NotificationOrderRejected
	n.Title = "❌ Order Declined"
	n.Message = fmt.Sprintf("Unfortunately, your order for %s has been declined. ", itemName)
	reason := order.SellerResponse
	if reason == "" {
		reason = order.RejectionReason
	}
	if reason != "" {
		n.Message += fmt.Sprintf("Reason: %q", reason)
	} else {
		n.Message += "You can try contacting other sellers."
	}
	return n
}

func orderCompletedNotification(order *entity.Order, itemName, recipientID, completedBy string) *entity.Notification {
	message := fmt.Sprintf("The order for %s has been marked as completed.", itemName)
	if order.CompletionNotes != "" {
		message += fmt.Sprintf(" Notes: %q", order.CompletionNotes)
	}

	return &entity.Notification{
		UserID:      recipientID,
		Type:        entity.NotificationOrderCompleted,
		Title:       "✅ Order Completed!",
		Message:     message,
		Category:    entity.CategoryOrders,
		RelatedID:   order.ID,
		RelatedType: entity.RelatedOrder,
		Metadata:    orderMetadata(order, itemName),
		ActionURL:   ordersActionURL,
		Priority:    entity.PriorityMedium,
		SenderID:    completedBy,
	}
}

func orderCancelledNotification(order *entity.Order, itemName, recipientID, cancelledBy string) *entity.Notification {
	message := fmt.Sprintf("The %s has cancelled the order for %s.", order.RoleOf(cancelledBy), itemName)
	if order.RejectionReason != "" {
		message += fmt.Sprintf(" Reason: %q", order.RejectionReason)
	}

	return &entity.Notification{
		UserID:      recipientID,
		Type:        entity.NotificationOrderRejected,
		Title:       "❌ Order Cancelled",
		Message:     message,
		Category:    entity.CategoryOrders,
		RelatedID:   order.ID,
		RelatedType: entity.RelatedOrder,
		Metadata:    orderMetadata(order, itemName),
		ActionURL:   ordersActionURL,
		Priority:    entity.PriorityMedium,
		SenderID:    cancelledBy,
	}
}

func messageReceivedNotification(chat *entity.Chat, msg *entity.Message, senderName, itemName string) *entity.Notification {
	if senderName == "" {
		senderName = "Someone"
	}
	if itemName == "" {
		itemName = "your listing"
	}

	snippet := msg.Body
	if runes := []rune(snippet); len(runes) > 50 {
		snippet = string(runes[:50]) + "..."
	}

	return &entity.Notification{
		UserID:      chat.OtherParticipant(msg.SenderID),
		Type:        entity.NotificationMessageReceived,
		Title:       fmt.Sprintf("New message from %s", senderName),
		Message:     fmt.Sprintf("About %s: %s", itemName, snippet),
		Category:    entity.CategoryMessages,
		RelatedID:   chat.ID,
		RelatedType: entity.RelatedChat,
		Metadata: map[string]interface{}{
			"chatId":      chat.ID,
			"listingId":   chat.ListingID,
			"messageId":   msg.ID,
			"messageType": string(msg.MessageType),
		},
		ActionURL: messagesActionURL,
		Priority:  entity.PriorityMedium,
		SenderID:  msg.SenderID,
	}
}
