package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
)

type sqliteOrderRepository struct {
	store *SQLiteStore
}

func NewSQLiteOrderRepository(store *SQLiteStore) repository.OrderRepository {
	return &sqliteOrderRepository{store: store}
}

const orderColumns = `id, listing_id, buyer_id, seller_id, master_item_id, quantity, unit, price_per_unit,
	total_amount, contact_method, delivery_address, preferred_time, buyer_message, buyer_phone, buyer_name,
	status, seller_response, rejection_reason, responded_at, completed_at, completion_notes, created_at, updated_at`

func (r *sqliteOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := nowUTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = order.CreatedAt

	_, err := r.store.db.ExecContext(ctx, `INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.ListingID, order.BuyerID, order.SellerID, order.MasterItemID,
		order.Quantity, order.Unit, order.PricePerUnit, order.TotalAmount,
		string(order.ContactMethod), order.DeliveryAddress, order.PreferredTime,
		order.BuyerMessage, order.BuyerPhone, order.BuyerName,
		string(order.Status), order.SellerResponse, order.RejectionReason,
		toNullUnix(order.RespondedAt), toNullUnix(order.CompletedAt), order.CompletionNotes,
		toUnix(order.CreatedAt), toUnix(order.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrPendingOrderExists
		}
		return errors.Internal("Failed to create order", err)
	}
	return nil
}

func (r *sqliteOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	row := r.store.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	return scanOrder(row)
}

func (r *sqliteOrderRepository) FindPending(ctx context.Context, buyerID, listingID string) (*entity.Order, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE buyer_id = ? AND listing_id = ? AND status = ?`,
		buyerID, listingID, string(entity.OrderStatusPending))
	order, err := scanOrder(row)
	if errors.Is(err, "NOT_FOUND") {
		return nil, nil
	}
	return order, err
}

func (r *sqliteOrderRepository) Update(ctx context.Context, id string, mutate func(order *entity.Order) error) (*entity.Order, error) {
	var updated *entity.Order

	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		order, err := scanOrder(tx.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
		if err != nil {
			return err
		}

		if err := mutate(order); err != nil {
			return err
		}
		order.UpdatedAt = nowUTC()

		_, err = tx.ExecContext(ctx, `UPDATE orders SET status = ?, seller_response = ?, rejection_reason = ?,
			responded_at = ?, completed_at = ?, completion_notes = ?, updated_at = ? WHERE id = ?`,
			string(order.Status), order.SellerResponse, order.RejectionReason,
			toNullUnix(order.RespondedAt), toNullUnix(order.CompletedAt), order.CompletionNotes,
			toUnix(order.UpdatedAt), order.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrPendingOrderExists
			}
			return errors.Internal("Failed to update order", err)
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *sqliteOrderRepository) ListByBuyer(ctx context.Context, buyerID string, status entity.OrderStatus) ([]*entity.Order, error) {
	return r.listBy(ctx, "buyer_id", buyerID, status)
}

func (r *sqliteOrderRepository) ListBySeller(ctx context.Context, sellerID string, status entity.OrderStatus) ([]*entity.Order, error) {
	return r.listBy(ctx, "seller_id", sellerID, status)
}

// listBy only receives column names from this file.
func (r *sqliteOrderRepository) listBy(ctx context.Context, column, userID string, status entity.OrderStatus) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + column + ` = ?`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Internal("Failed to list orders", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("Failed to iterate orders", err)
	}
	return orders, nil
}

func (r *sqliteOrderRepository) CountBySeller(ctx context.Context, sellerID string, status entity.OrderStatus) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE seller_id = ?`
	args := []interface{}{sellerID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}

	var count int
	if err := r.store.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Internal("Failed to count orders", err)
	}
	return count, nil
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var (
		order                    entity.Order
		contactMethod, status    string
		respondedAt, completedAt sql.NullInt64
		createdAt, updatedAt     int64
	)
	err := row.Scan(&order.ID, &order.ListingID, &order.BuyerID, &order.SellerID, &order.MasterItemID,
		&order.Quantity, &order.Unit, &order.PricePerUnit, &order.TotalAmount,
		&contactMethod, &order.DeliveryAddress, &order.PreferredTime,
		&order.BuyerMessage, &order.BuyerPhone, &order.BuyerName,
		&status, &order.SellerResponse, &order.RejectionReason,
		&respondedAt, &completedAt, &order.CompletionNotes, &createdAt, &updatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Order", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to read order", err)
	}

	order.ContactMethod = entity.ContactMethod(contactMethod)
	order.Status = entity.OrderStatus(status)
	order.RespondedAt = fromNullUnix(respondedAt)
	order.CompletedAt = fromNullUnix(completedAt)
	order.CreatedAt = fromUnix(createdAt)
	order.UpdatedAt = fromUnix(updatedAt)
	return &order, nil
}
