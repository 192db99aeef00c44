package repository

import (
	"context"

	"surplusmarket/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type MasterItemRepository interface {
	Create(ctx context.Context, item *entity.MasterItem) error
	GetByID(ctx context.Context, id string) (*entity.MasterItem, error)
}
