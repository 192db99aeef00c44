package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{client: client}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now()
	}

	if _, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing); err != nil {
		return errors.Internal("Failed to create listing", err)
	}
	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection("listings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}
	return &listing, nil
}

func (r *firestoreListingRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.client.Collection("listings").Doc(id).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: active},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Listing", err)
		}
		return errors.Internal("Failed to update listing", err)
	}
	return nil
}

type firestoreMasterItemRepository struct {
	client *firestore.Client
}

func NewFirestoreMasterItemRepository(client *firestore.Client) repository.MasterItemRepository {
	return &firestoreMasterItemRepository{client: client}
}

func (r *firestoreMasterItemRepository) Create(ctx context.Context, item *entity.MasterItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	if _, err := r.client.Collection("master_items").Doc(item.ID).Set(ctx, item); err != nil {
		return errors.Internal("Failed to create master item", err)
	}
	return nil
}

func (r *firestoreMasterItemRepository) GetByID(ctx context.Context, id string) (*entity.MasterItem, error) {
	doc, err := r.client.Collection("master_items").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Master item", err)
		}
		return nil, errors.Internal("Failed to get master item", err)
	}

	var item entity.MasterItem
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse master item data", err)
	}
	return &item, nil
}
