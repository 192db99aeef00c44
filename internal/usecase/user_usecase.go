package usecase

import (
	"context"
	"log"
	"strings"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

type RegisterProfileInput struct {
	Email       string
	Name        string
	Phone       string
	ImageURL    string
	ShopName    string
	ShopAddress string
}

// ResolveIdentity maps a verified token subject to the stored user.
func (uc *UserUseCase) ResolveIdentity(ctx context.Context, identity string) (*entity.User, error) {
	return resolveCaller(ctx, uc.userRepo, identity, "User")
}

// RegisterProfile creates the profile for identity, or returns the existing one.
func (uc *UserUseCase) RegisterProfile(ctx context.Context, identity string, input RegisterProfileInput) (*entity.User, bool, error) {
	if identity == "" {
		return nil, false, errors.Unauthorized("Not authenticated", nil)
	}

	existing, err := uc.userRepo.GetByTokenIdentifier(ctx, identity)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, false, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, false, errors.BadRequest("Name is required", nil)
	}

	user := &entity.User{
		TokenIdentifier: identity,
		Email:           input.Email,
		Name:            input.Name,
		Phone:           input.Phone,
		ImageURL:        input.ImageURL,
		ShopName:        input.ShopName,
		ShopAddress:     input.ShopAddress,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		log.Printf("RegisterProfile Error: %v", err)
		return nil, false, err
	}
	return user, true, nil
}

func (uc *UserUseCase) GetUserProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}
