package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
)

type sqliteListingRepository struct {
	store *SQLiteStore
}

func NewSQLiteListingRepository(store *SQLiteStore) repository.ListingRepository {
	return &sqliteListingRepository{store: store}
}

const listingColumns = `id, seller_id, master_item_id, description, image_url, price, quantity, unit, is_active, expires_at, created_at`

func (r *sqliteListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = nowUTC()
	}

	_, err := r.store.db.ExecContext(ctx, `INSERT INTO listings (`+listingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.ID, listing.SellerID, listing.MasterItemID, listing.Description, listing.ImageURL,
		listing.Price, listing.Quantity, listing.Unit, boolToInt(listing.IsActive),
		toNullUnix(listing.ExpiresAt), toUnix(listing.CreatedAt))
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}
	return nil
}

func (r *sqliteListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	var (
		listing   entity.Listing
		expiresAt sql.NullInt64
		createdAt int64
	)
	err := r.store.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, id).Scan(
		&listing.ID, &listing.SellerID, &listing.MasterItemID, &listing.Description, &listing.ImageURL,
		&listing.Price, &listing.Quantity, &listing.Unit, &listing.IsActive, &expiresAt, &createdAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Listing", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to read listing", err)
	}

	listing.ExpiresAt = fromNullUnix(expiresAt)
	listing.CreatedAt = fromUnix(createdAt)
	return &listing, nil
}

func (r *sqliteListingRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.store.db.ExecContext(ctx, `UPDATE listings SET is_active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return errors.Internal("Failed to update listing", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("Listing", nil)
	}
	return nil
}

type sqliteMasterItemRepository struct {
	store *SQLiteStore
}

func NewSQLiteMasterItemRepository(store *SQLiteStore) repository.MasterItemRepository {
	return &sqliteMasterItemRepository{store: store}
}

func (r *sqliteMasterItemRepository) Create(ctx context.Context, item *entity.MasterItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = nowUTC()
	}

	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO master_items (id, name, category, image_url, created_at) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Category, item.ImageURL, toUnix(item.CreatedAt))
	if err != nil {
		return errors.Internal("Failed to create master item", err)
	}
	return nil
}

func (r *sqliteMasterItemRepository) GetByID(ctx context.Context, id string) (*entity.MasterItem, error) {
	var (
		item      entity.MasterItem
		createdAt int64
	)
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, name, category, image_url, created_at FROM master_items WHERE id = ?`, id).Scan(
		&item.ID, &item.Name, &item.Category, &item.ImageURL, &createdAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Master item", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to read master item", err)
	}

	item.CreatedAt = fromUnix(createdAt)
	return &item, nil
}
