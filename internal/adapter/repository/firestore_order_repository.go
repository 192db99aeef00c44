package repository

import (
	"context"
	stderrors "errors"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
)

const (
	ordersCollection = "orders"
	// pending_orders/{buyerId}_{listingId} exists while that pair has a pending order.
	pendingOrdersCollection = "pending_orders"
)

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func pendingOrderKey(buyerID, listingID string) string {
	return buyerID + "_" + listingID
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt

	orderRef := r.client.Collection(ordersCollection).Doc(order.ID)
	markerRef := r.client.Collection(pendingOrdersCollection).Doc(pendingOrderKey(order.BuyerID, order.ListingID))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if order.Status == entity.OrderStatusPending {
			_, err := tx.Get(markerRef)
			if err == nil {
				return repository.ErrPendingOrderExists
			}
			if status.Code(err) != codes.NotFound {
				return err
			}
			if err := tx.Create(markerRef, map[string]interface{}{
				"orderId":   order.ID,
				"createdAt": order.CreatedAt,
			}); err != nil {
				return err
			}
		}
		return tx.Create(orderRef, order)
	})
	if err != nil {
		if stderrors.Is(err, repository.ErrPendingOrderExists) || status.Code(err) == codes.AlreadyExists {
			return repository.ErrPendingOrderExists
		}
		log.Printf("Firestore error creating order %s: %v", order.ID, err)
		return errors.Internal("Failed to create order", err)
	}
	return nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.client.Collection(ordersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Order", err)
		}
		return nil, errors.Internal("Failed to get order", err)
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse order data", err)
	}
	return &order, nil
}

func (r *firestoreOrderRepository) FindPending(ctx context.Context, buyerID, listingID string) (*entity.Order, error) {
	doc, err := r.client.Collection(pendingOrdersCollection).Doc(pendingOrderKey(buyerID, listingID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errors.Internal("Failed to check pending orders", err)
	}

	orderID, _ := doc.Data()["orderId"].(string)
	order, err := r.GetByID(ctx, orderID)
	if errors.Is(err, "NOT_FOUND") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusPending {
		return nil, nil
	}
	return order, nil
}

func (r *firestoreOrderRepository) Update(ctx context.Context, id string, mutate func(order *entity.Order) error) (*entity.Order, error) {
	orderRef := r.client.Collection(ordersCollection).Doc(id)
	var (
		updated   *entity.Order
		mutateErr error
	)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(orderRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Order", err)
			}
			return err
		}

		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			return errors.Internal("Failed to parse order data", err)
		}

		before := order.Status
		if err := mutate(&order); err != nil {
			mutateErr = err
			return err
		}
		order.UpdatedAt = time.Now()

		if err := tx.Set(orderRef, &order); err != nil {
			return err
		}
		if before == entity.OrderStatusPending && order.Status != entity.OrderStatusPending {
			markerRef := r.client.Collection(pendingOrdersCollection).Doc(pendingOrderKey(order.BuyerID, order.ListingID))
			if err := tx.Delete(markerRef); err != nil {
				return err
			}
		}

		updated = &order
		return nil
	})
	if err != nil {
		if mutateErr != nil {
			return nil, mutateErr
		}
		return nil, asAppError(err, "Failed to update order")
	}
	return updated, nil
}

func (r *firestoreOrderRepository) ListByBuyer(ctx context.Context, buyerID string, status entity.OrderStatus) ([]*entity.Order, error) {
	return r.listBy(ctx, "buyerId", buyerID, status)
}

func (r *firestoreOrderRepository) ListBySeller(ctx context.Context, sellerID string, status entity.OrderStatus) ([]*entity.Order, error) {
	return r.listBy(ctx, "sellerId", sellerID, status)
}

func (r *firestoreOrderRepository) listBy(ctx context.Context, field, userID string, orderStatus entity.OrderStatus) ([]*entity.Order, error) {
	query := r.client.Collection(ordersCollection).Where(field, "==", userID)
	if orderStatus != "" {
		query = query.Where("status", "==", string(orderStatus))
	}
	iter := query.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var orders []*entity.Order
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating orders for %s %s: %v", field, userID, err)
			return nil, errors.Internal("Failed to list orders", err)
		}

		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			return nil, errors.Internal("Failed to parse order data", err)
		}
		orders = append(orders, &order)
	}
	return orders, nil
}

func (r *firestoreOrderRepository) CountBySeller(ctx context.Context, sellerID string, orderStatus entity.OrderStatus) (int, error) {
	query := r.client.Collection(ordersCollection).Where("sellerId", "==", sellerID)
	if orderStatus != "" {
		query = query.Where("status", "==", string(orderStatus))
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count orders", err)
	}
	return len(docs), nil
}

// asAppError passes application errors through and wraps anything else.
func asAppError(err error, message string) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.Internal(message, err)
}
