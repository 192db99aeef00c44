package repository

import (
	"context"

	"surplusmarket/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByTokenIdentifier(ctx context.Context, tokenIdentifier string) (*entity.User, error)
}
