package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/pkg/errors"
)

func TestUserLookups(t *testing.T) {
	repo := NewSQLiteUserRepository(setupTestStore(t))
	ctx := context.Background()

	user := &entity.User{TokenIdentifier: "issuer|abc", Name: "Ravi", Phone: "555", ShopName: "Ravi's Greens"}
	require.NoError(t, repo.Create(ctx, user))

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi's Greens", byID.ShopName)

	byToken, err := repo.GetByTokenIdentifier(ctx, "issuer|abc")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byToken.ID)

	_, err = repo.GetByTokenIdentifier(ctx, "nobody")
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	err = repo.Create(ctx, &entity.User{TokenIdentifier: "issuer|abc", Name: "dup"})
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestListingAndMasterItem(t *testing.T) {
	store := setupTestStore(t)
	listings := NewSQLiteListingRepository(store)
	items := NewSQLiteMasterItemRepository(store)
	ctx := context.Background()

	item := &entity.MasterItem{Name: "Onion", Category: "vegetables"}
	require.NoError(t, items.Create(ctx, item))

	listing := &entity.Listing{SellerID: "s", MasterItemID: item.ID, Price: 2500, Quantity: 10, Unit: "kg", IsActive: true}
	require.NoError(t, listings.Create(ctx, listing))

	got, err := listings.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, got.Price)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.ExpiresAt)

	require.NoError(t, listings.SetActive(ctx, listing.ID, false))
	got, err = listings.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	gotItem, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Onion", gotItem.Name)

	_, err = items.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}
