package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
)

type sqliteUserRepository struct {
	store *SQLiteStore
}

func NewSQLiteUserRepository(store *SQLiteStore) repository.UserRepository {
	return &sqliteUserRepository{store: store}
}

const userColumns = `id, token_identifier, email, name, phone, image_url, shop_name, shop_address, created_at`

func (r *sqliteUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = nowUTC()
	}

	_, err := r.store.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.TokenIdentifier, user.Email, user.Name, user.Phone,
		user.ImageURL, user.ShopName, user.ShopAddress, toUnix(user.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("User already exists")
		}
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *sqliteUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.store.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *sqliteUserRepository) GetByTokenIdentifier(ctx context.Context, tokenIdentifier string) (*entity.User, error) {
	row := r.store.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE token_identifier = ?`, tokenIdentifier)
	return scanUser(row)
}

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		user      entity.User
		createdAt int64
	)
	err := row.Scan(&user.ID, &user.TokenIdentifier, &user.Email, &user.Name, &user.Phone,
		&user.ImageURL, &user.ShopName, &user.ShopAddress, &createdAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to read user", err)
	}
	user.CreatedAt = fromUnix(createdAt)
	return &user, nil
}
