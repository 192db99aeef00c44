package repository

import (
	"context"

	"surplusmarket/internal/domain/entity"
)

type OrderRepository interface {
	// Create inserts a new order. It returns ErrPendingOrderExists when the
	// buyer already has a pending order on the listing.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// FindPending returns nil, nil when no pending order exists.
	FindPending(ctx context.Context, buyerID, listingID string) (*entity.Order, error)
	// Update applies mutate to the current stored order inside a transaction.
	// An error from mutate aborts the write and is returned unchanged.
	Update(ctx context.Context, id string, mutate func(order *entity.Order) error) (*entity.Order, error)
	ListByBuyer(ctx context.Context, buyerID string, status entity.OrderStatus) ([]*entity.Order, error)
	ListBySeller(ctx context.Context, sellerID string, status entity.OrderStatus) ([]*entity.Order, error)
	CountBySeller(ctx context.Context, sellerID string, status entity.OrderStatus) (int, error)
}
