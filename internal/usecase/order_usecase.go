package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/internal/infrastructure/ratelimit"
	"surplusmarket/pkg/errors"
)

const pendingOrderExistsMsg = "You already have a pending order for this listing"

type OrderUseCase struct {
	orderRepo      repository.OrderRepository
	userRepo       repository.UserRepository
	listingRepo    repository.ListingRepository
	masterItemRepo repository.MasterItemRepository
	notifier       NotificationSender
	locker         KeyedLocker
	limiter        ActionLimiter
	projector      *Projector
}

var (
	_ BuyerOrderActions  = (*OrderUseCase)(nil)
	_ SellerOrderActions = (*OrderUseCase)(nil)
)

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	masterItemRepo repository.MasterItemRepository,
	notifier NotificationSender,
	locker KeyedLocker,
	limiter ActionLimiter,
	projector *Projector,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:      orderRepo,
		userRepo:       userRepo,
		listingRepo:    listingRepo,
		masterItemRepo: masterItemRepo,
		notifier:       notifier,
		locker:         locker,
		limiter:        limiter,
		projector:      projector,
	}
}

type CreateOrderInput struct {
	ListingID       string
	Quantity        float64
	ContactMethod   entity.ContactMethod
	DeliveryAddress string
	PreferredTime   string
	BuyerMessage    string
	BuyerPhone      string
}

type CreateOrderResult struct {
	OrderID string `json:"order_id"`
	Success bool   `json:"success"`
}

type RespondToOrderInput struct {
	OrderID         string
	Status          entity.OrderStatus
	SellerResponse  string
	RejectionReason string
}

type OrderFilter struct {
	Type   string // buyer, seller or all
	Status entity.OrderStatus
}

func (uc *OrderUseCase) CreateOrder(ctx context.Context, identity string, input CreateOrderInput) (*CreateOrderResult, error) {
	buyer, err := resolveCaller(ctx, uc.userRepo, identity, "Buyer")
	if err != nil {
		return nil, err
	}

	listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, errors.BadRequest("Listing is no longer active", nil)
	}

	seller, err := uc.userRepo.GetByID(ctx, listing.SellerID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.NotFound("Seller", err)
		}
		return nil, err
	}
	if seller.ID == buyer.ID {
		return nil, errors.BadRequest("You cannot order from your own listing", nil)
	}

	release, err := uc.locker.Acquire(ctx, fmt.Sprintf("order:%s:%s", buyer.ID, listing.ID))
	if err != nil {
		log.Printf("CreateOrder Error: failed to acquire lock: %v", err)
		return nil, errors.Internal("Failed to create order", err)
	}
	defer release()

	existing, err := uc.orderRepo.FindPending(ctx, buyer.ID, listing.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict(pendingOrderExistsMsg)
	}

	if input.Quantity <= 0 || input.Quantity > listing.Quantity {
		return nil, errors.BadRequest("Invalid quantity requested", nil)
	}
	if !input.ContactMethod.Valid() {
		return nil, errors.BadRequest("Invalid contact method", nil)
	}
	if input.ContactMethod == entity.ContactMethodDelivery && strings.TrimSpace(input.DeliveryAddress) == "" {
		return nil, errors.BadRequest("Delivery address is required for delivery orders", nil)
	}

	// Only attempts that would otherwise succeed count against the limit.
	if uc.limiter != nil {
		if ok, wait := uc.limiter.Allow(buyer.ID, ratelimit.ActionCreateOrder); !ok {
			return nil, errors.TooManyRequests("Too many orders. Please wait before placing another order", wait)
		}
	}

	phone := input.BuyerPhone
	if phone == "" {
		phone = buyer.Phone
	}

	order := &entity.Order{
		ListingID:       listing.ID,
		BuyerID:         buyer.ID,
		SellerID:        seller.ID,
		MasterItemID:    listing.MasterItemID,
		Quantity:        input.Quantity,
		Unit:            listing.Unit,
		PricePerUnit:    listing.Price,
		TotalAmount:     listing.Price * input.Quantity,
		ContactMethod:   input.ContactMethod,
		DeliveryAddress: input.DeliveryAddress,
		PreferredTime:   input.PreferredTime,
		BuyerMessage:    input.BuyerMessage,
		BuyerPhone:      phone,
		BuyerName:       buyer.Name,
		Status:          entity.OrderStatusPending,
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		if stderrors.Is(err, repository.ErrPendingOrderExists) {
			return nil, errors.Conflict(pendingOrderExistsMsg)
		}
		log.Printf("CreateOrder Error: %v", err)
		return nil, err
	}

	itemName := uc.projector.itemName(ctx, order.MasterItemID)
	uc.notify(ctx, newOrderReceivedNotification(order, itemName))
	uc.notify(ctx, orderPlacedConfirmation(order, itemName))

	return &CreateOrderResult{OrderID: order.ID, Success: true}, nil
}

func (uc *OrderUseCase) RespondToOrder(ctx context.Context, identity string, input RespondToOrderInput) error {
	seller, err := resolveCaller(ctx, uc.userRepo, identity, "User")
	if err != nil {
		return err
	}

	if input.Status != entity.OrderStatusAccepted && input.Status != entity.OrderStatusRejected {
		return errors.BadRequest("Invalid response status", nil)
	}

	order, err := uc.orderRepo.Update(ctx, input.OrderID, func(o *entity.Order) error {
		if o.SellerID != seller.ID {
			return errors.Forbidden("Unauthorized: You can only respond to your own orders", nil)
		}
		if o.Status != entity.OrderStatusPending {
			return errors.BadRequest("Order has already been responded to", nil)
		}

		now := time.Now().UTC()
		o.Status = input.Status
		o.SellerResponse = input.SellerResponse
		if input.Status == entity.OrderStatusRejected {
			o.RejectionReason = input.RejectionReason
		}
		o.RespondedAt = &now
		return nil
	})
	if err != nil {
		return err
	}

	uc.notify(ctx, orderResponseNotification(order, uc.projector.itemName(ctx, order.MasterItemID)))
	return nil
}

func (uc *OrderUseCase) CompleteOrder(ctx context.Context, identity, orderID, completionNotes string) error {
	caller, err := resolveCaller(ctx, uc.userRepo, identity, "User")
	if err != nil {
		return err
	}

	order, err := uc.orderRepo.Update(ctx, orderID, func(o *entity.Order) error {
		if !o.IsParticipant(caller.ID) {
			return errors.Forbidden("Unauthorized", nil)
		}
		if o.Status != entity.OrderStatusAccepted {
			return errors.BadRequest("Order must be accepted before it can be completed", nil)
		}

		now := time.Now().UTC()
		o.Status = entity.OrderStatusCompleted
		o.CompletedAt = &now
		o.CompletionNotes = completionNotes
		return nil
	})
	if err != nil {
		return err
	}

	itemName := uc.projector.itemName(ctx, order.MasterItemID)
	uc.notify(ctx, orderCompletedNotification(order, itemName, order.Counterparty(caller.ID), caller.ID))
	return nil
}

// CancelOrder lets either party withdraw from a pending or accepted order.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, identity, orderID, reason string) error {
	caller, err := resolveCaller(ctx, uc.userRepo, identity, "User")
	if err != nil {
		return err
	}

	order, err := uc.orderRepo.Update(ctx, orderID, func(o *entity.Order) error {
		if !o.IsParticipant(caller.ID) {
			return errors.Forbidden("Unauthorized", nil)
		}
		if o.Status == entity.OrderStatusCompleted {
			return errors.BadRequest("Cannot cancel completed orders", nil)
		}
		if !o.Status.CanTransitionTo(entity.OrderStatusCancelled) {
			return errors.BadRequest("Order can no longer be cancelled", nil)
		}

		now := time.Now().UTC()
		o.Status = entity.OrderStatusCancelled
		o.RejectionReason = reason
		o.RespondedAt = &now
		return nil
	})
	if err != nil {
		return err
	}

	itemName := uc.projector.itemName(ctx, order.MasterItemID)
	uc.notify(ctx, orderCancelledNotification(order, itemName, order.Counterparty(caller.ID), caller.ID))
	return nil
}

func (uc *OrderUseCase) GetUserOrders(ctx context.Context, identity string, filter OrderFilter) ([]*OrderView, error) {
	user, err := resolveCaller(ctx, uc.userRepo, identity, "User")
	if err != nil {
		return nil, err
	}

	if filter.Type == "" {
		filter.Type = "all"
	}
	if filter.Type != "buyer" && filter.Type != "seller" && filter.Type != "all" {
		return nil, errors.BadRequest("Invalid order type", nil)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errors.BadRequest("Invalid order status", nil)
	}

	var orders []*entity.Order
	if filter.Type == "buyer" || filter.Type == "all" {
		asBuyer, err := uc.orderRepo.ListByBuyer(ctx, user.ID, filter.Status)
		if err != nil {
			return nil, err
		}
		orders = append(orders, asBuyer...)
	}
	if filter.Type == "seller" || filter.Type == "all" {
		asSeller, err := uc.orderRepo.ListBySeller(ctx, user.ID, filter.Status)
		if err != nil {
			return nil, err
		}
		orders = append(orders, asSeller...)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return uc.projector.ProjectOrders(ctx, user.ID, orders), nil
}

// GetPendingOrdersCount is safe to call without a signed-in user.
func (uc *OrderUseCase) GetPendingOrdersCount(ctx context.Context, identity string) (int, error) {
	if identity == "" {
		return 0, nil
	}

	user, err := uc.userRepo.GetByTokenIdentifier(ctx, identity)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return 0, nil
		}
		return 0, err
	}

	return uc.orderRepo.CountBySeller(ctx, user.ID, entity.OrderStatusPending)
}

func (uc *OrderUseCase) GetOrderByID(ctx context.Context, identity, orderID string) (*OrderView, error) {
	user, err := resolveCaller(ctx, uc.userRepo, identity, "User")
	if err != nil {
		return nil, err
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsParticipant(user.ID) {
		return nil, errors.Forbidden("Unauthorized", nil)
	}

	return uc.projector.ProjectOrders(ctx, user.ID, []*entity.Order{order})[0], nil
}

func (uc *OrderUseCase) notify(ctx context.Context, n *entity.Notification) {
	if n.UserID == "" {
		return
	}
	if err := uc.notifier.Dispatch(ctx, n); err != nil {
		log.Printf("Order notification Error: %v", err)
	}
}
