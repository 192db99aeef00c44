package usecase

import (
	"context"
	"time"

	"surplusmarket/internal/domain/entity"
)

// NotificationSender hands a notification off for delivery. Implementations
// must not block on persistence.
type NotificationSender interface {
	Dispatch(ctx context.Context, notification *entity.Notification) error
}

// KeyedLocker serializes callers that use the same key.
type KeyedLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// ActionLimiter reports whether key may perform action now, and if not, how
// long to wait.
type ActionLimiter interface {
	Allow(key, action string) (bool, time.Duration)
}

// BuyerOrderActions are the order mutations available to the buyer of an order.
type BuyerOrderActions interface {
	CreateOrder(ctx context.Context, identity string, input CreateOrderInput) (*CreateOrderResult, error)
	CompleteOrder(ctx context.Context, identity, orderID, completionNotes string) error
	CancelOrder(ctx context.Context, identity, orderID, reason string) error
}

// SellerOrderActions are the order mutations available to the seller of an order.
type SellerOrderActions interface {
	RespondToOrder(ctx context.Context, identity string, input RespondToOrderInput) error
	CompleteOrder(ctx context.Context, identity, orderID, completionNotes string) error
	CancelOrder(ctx context.Context, identity, orderID, reason string) error
}
