package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
)

// CatalogUseCase manages the listings and master items that orders and
// chats refer to.
type CatalogUseCase struct {
	listingRepo    repository.ListingRepository
	masterItemRepo repository.MasterItemRepository
	notifier       NotificationSender
}

func NewCatalogUseCase(
	listingRepo repository.ListingRepository,
	masterItemRepo repository.MasterItemRepository,
	notifier NotificationSender,
) *CatalogUseCase {
	return &CatalogUseCase{
		listingRepo:    listingRepo,
		masterItemRepo: masterItemRepo,
		notifier:       notifier,
	}
}

type CreateListingInput struct {
	MasterItemID string
	Description  string
	ImageURL     string
	Price        float64
	Quantity     float64
	Unit         string
	ExpiresAt    *time.Time
}

func (uc *CatalogUseCase) CreateMasterItem(ctx context.Context, name, category, imageURL string) (*entity.MasterItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.BadRequest("Name is required", nil)
	}

	item := &entity.MasterItem{Name: name, Category: category, ImageURL: imageURL}
	if err := uc.masterItemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *CatalogUseCase) CreateListing(ctx context.Context, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	item, err := uc.masterItemRepo.GetByID(ctx, input.MasterItemID)
	if err != nil {
		return nil, err
	}
	if input.Price <= 0 {
		return nil, errors.BadRequest("Price must be greater than zero", nil)
	}
	if input.Quantity <= 0 {
		return nil, errors.BadRequest("Quantity must be greater than zero", nil)
	}
	if input.ExpiresAt != nil && input.ExpiresAt.Before(time.Now()) {
		return nil, errors.BadRequest("Expiry must be in the future", nil)
	}

	listing := &entity.Listing{
		SellerID:     sellerID,
		MasterItemID: item.ID,
		Description:  input.Description,
		ImageURL:     input.ImageURL,
		Price:        input.Price,
		Quantity:     input.Quantity,
		Unit:         input.Unit,
		IsActive:     true,
		ExpiresAt:    input.ExpiresAt,
	}
	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		log.Printf("CreateListing Error: %v", err)
		return nil, err
	}

	n := &entity.Notification{
		UserID:      sellerID,
		Type:        entity.NotificationListingCreated,
		Title:       "Listing published",
		Message:     fmt.Sprintf("Your listing for %s %s of %s is now live.", formatQuantity(listing.Quantity), listing.Unit, item.Name),
		Category:    entity.CategoryListings,
		RelatedID:   listing.ID,
		RelatedType: entity.RelatedListing,
		Priority:    entity.PriorityLow,
	}
	if err := uc.notifier.Dispatch(ctx, n); err != nil {
		log.Printf("Listing notification Error: %v", err)
	}

	return listing, nil
}

func (uc *CatalogUseCase) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

// SetListingActive lets a seller take a listing off the market or relist it.
func (uc *CatalogUseCase) SetListingActive(ctx context.Context, sellerID, listingID string, active bool) error {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.SellerID != sellerID {
		return errors.Forbidden("Unauthorized", nil)
	}
	return uc.listingRepo.SetActive(ctx, listingID, active)
}
