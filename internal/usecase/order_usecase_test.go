package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/infrastructure/ratelimit"
	"surplusmarket/pkg/errors"
)

func TestCreateOrderComputesTotalAndNotifiesBothParties(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 2)

	order, err := env.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, 2500.0, order.PricePerUnit)
	assert.Equal(t, 5000.0, order.TotalAmount)
	assert.Equal(t, "kg", order.Unit)
	assert.Equal(t, buyer.Phone, order.BuyerPhone)
	assert.Equal(t, "Asha", order.BuyerName)

	sellerNotes := env.sender.forUser(seller.ID)
	require.Len(t, sellerNotes, 1)
	assert.Equal(t, entity.NotificationOrderPlaced, sellerNotes[0].Type)
	assert.Equal(t, entity.PriorityHigh, sellerNotes[0].Priority)
	assert.Equal(t, "🛒 New Order Received!", sellerNotes[0].Title)
	assert.Equal(t, buyer.ID, sellerNotes[0].SenderID)
	assert.Contains(t, sellerNotes[0].Message, "2 kg of Onion")

	buyerNotes := env.sender.forUser(buyer.ID)
	require.Len(t, buyerNotes, 1)
	assert.Equal(t, entity.PriorityMedium, buyerNotes[0].Priority)
	assert.Equal(t, "📦 Order Placed Successfully!", buyerNotes[0].Title)
}

func TestCreateOrderSnapshotsPrice(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, _ := env.seedMarket(t)
	ctx := context.Background()

	listing := env.createListing(t, seller.ID, 1200, 5)
	orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1.5)

	order, err := env.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, order.PricePerUnit*order.Quantity, order.TotalAmount)
	assert.Equal(t, 1800.0, order.TotalAmount)
}

func TestCreateOrderValidation(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	inactive := env.createListing(t, seller.ID, 100, 1)
	require.NoError(t, env.listings.SetActive(ctx, inactive.ID, false))

	orphan := env.createListing(t, "ghost-seller", 100, 1)

	tests := []struct {
		name     string
		identity string
		input    CreateOrderInput
		code     string
		message  string
	}{
		{
			name:    "unauthenticated",
			input:   CreateOrderInput{ListingID: listing.ID, Quantity: 1, ContactMethod: entity.ContactMethodPickup},
			code:    "UNAUTHORIZED",
			message: "Not authenticated",
		},
		{
			name:     "unknown buyer",
			identity: "nobody",
			input:    CreateOrderInput{ListingID: listing.ID, Quantity: 1, ContactMethod: entity.ContactMethodPickup},
			code:     "NOT_FOUND",
			message:  "Buyer not found",
		},
		{
			name:     "missing listing",
			identity: buyer.TokenIdentifier,
			input:    CreateOrderInput{ListingID: "missing", Quantity: 1, ContactMethod: entity.ContactMethodPickup},
			code:     "NOT_FOUND",
			message:  "Listing not found",
		},
		{
			name:     "inactive listing",
			identity: buyer.TokenIdentifier,
			input:    CreateOrderInput{ListingID: inactive.ID, Quantity: 1, ContactMethod: entity.ContactMethodPickup},
			code:     "BAD_REQUEST",
			message:  "Listing is no longer active",
		},
		{
			name:     "missing seller",
			identity: buyer.TokenIdentifier,
			input:    CreateOrderInput{ListingID: orphan.ID, Quantity: 1, ContactMethod: entity.ContactMethodPickup},
			code:     "NOT_FOUND",
			message:  "Seller not found",
		},
		{
			name:     "own listing",
			identity: seller.TokenIdentifier,
			input:    CreateOrderInput{ListingID: listing.ID, Quantity: 1, ContactMethod: entity.ContactMethodPickup},
			code:     "BAD_REQUEST",
			message:  "You cannot order from your own listing",
		},
		{
			name:     "zero quantity",
			identity: buyer.TokenIdentifier,
			input:    CreateOrderInput{ListingID: listing.ID, Quantity: 0, ContactMethod: entity.ContactMethodPickup},
			code:     "BAD_REQUEST",
			message:  "Invalid quantity requested",
		},
		{
			name:     "more than available",
			identity: buyer.TokenIdentifier,
			input:    CreateOrderInput{ListingID: listing.ID, Quantity: 11, ContactMethod: entity.ContactMethodPickup},
			code:     "BAD_REQUEST",
			message:  "Invalid quantity requested",
		},
		{
			name:     "delivery without address",
			identity: buyer.TokenIdentifier,
			input:    CreateOrderInput{ListingID: listing.ID, Quantity: 1, ContactMethod: entity.ContactMethodDelivery},
			code:     "BAD_REQUEST",
			message:  "Delivery address is required for delivery orders",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.orderUC.CreateOrder(ctx, tt.identity, tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
			assert.Equal(t, tt.message, errors.Message(err))
		})
	}

	orders, err := env.orders.ListByBuyer(ctx, buyer.ID, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, env.sender.forUser(seller.ID))
}

func TestCreateOrderRejectsSecondPendingOrder(t *testing.T) {
	env := setupTestEnv(t)
	buyer, _, listing := env.seedMarket(t)
	ctx := context.Background()

	env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)

	_, err := env.orderUC.CreateOrder(ctx, buyer.TokenIdentifier, CreateOrderInput{
		ListingID:     listing.ID,
		Quantity:      1,
		ContactMethod: entity.ContactMethodPickup,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
	assert.Equal(t, "You already have a pending order for this listing", errors.Message(err))

	orders, err := env.orders.ListByBuyer(ctx, buyer.ID, "")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCreateOrderRateLimitAppliesAfterValidation(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	other := env.createListing(t, seller.ID, 1000, 5)
	third := env.createListing(t, seller.ID, 1000, 5)
	ctx := context.Background()

	env.orderUC.limiter = ratelimit.NewRateLimiter(map[string]ratelimit.Policy{
		ratelimit.ActionCreateOrder: ratelimit.PerMinute(1, 2),
	})

	env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)

	// Rejected attempts do not use up the budget.
	for i := 0; i < 3; i++ {
		_, err := env.orderUC.CreateOrder(ctx, buyer.TokenIdentifier, CreateOrderInput{
			ListingID:     listing.ID,
			Quantity:      1,
			ContactMethod: entity.ContactMethodPickup,
		})
		assert.Equal(t, "You already have a pending order for this listing", errors.Message(err))

		_, err = env.orderUC.CreateOrder(ctx, buyer.TokenIdentifier, CreateOrderInput{
			ListingID:     other.ID,
			Quantity:      0,
			ContactMethod: entity.ContactMethodPickup,
		})
		assert.Equal(t, "Invalid quantity requested", errors.Message(err))
	}

	env.placeOrder(t, buyer.TokenIdentifier, other.ID, 1)

	_, err := env.orderUC.CreateOrder(ctx, buyer.TokenIdentifier, CreateOrderInput{
		ListingID:     third.ID,
		Quantity:      1,
		ContactMethod: entity.ContactMethodPickup,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "TOO_MANY_REQUESTS"))
}

func TestCreateOrderConcurrentCallersLeaveOnePending(t *testing.T) {
	env := setupTestEnv(t)
	buyer, _, listing := env.seedMarket(t)
	ctx := context.Background()

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.orderUC.CreateOrder(ctx, buyer.TokenIdentifier, CreateOrderInput{
				ListingID:     listing.ID,
				Quantity:      1,
				ContactMethod: entity.ContactMethodPickup,
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	pending, err := env.orders.ListByBuyer(ctx, buyer.ID, entity.OrderStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestCreateOrderAllowedAgainAfterResolution(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	first := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)
	require.NoError(t, env.orderUC.RespondToOrder(ctx, seller.TokenIdentifier, RespondToOrderInput{
		OrderID: first,
		Status:  entity.OrderStatusRejected,
	}))

	second := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)
	assert.NotEqual(t, first, second)
}

func TestRespondToOrderRejectedWithReason(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 2)

	err := env.orderUC.RespondToOrder(ctx, seller.TokenIdentifier, RespondToOrderInput{
		OrderID:         orderID,
		Status:          entity.OrderStatusRejected,
		RejectionReason: "Out of stock",
	})
	require.NoError(t, err)

	order, err := env.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusRejected, order.Status)
	assert.Equal(t, "Out of stock", order.RejectionReason)
	assert.NotNil(t, order.RespondedAt)

	notes := env.sender.forUser(buyer.ID)
	last := notes[len(notes)-1]
	assert.Equal(t, "❌ Order Declined", last.Title)
	assert.Equal(t, entity.NotificationOrderRejected, last.Type)
	assert.Equal(t, entity.PriorityHigh, last.Priority)
	assert.Contains(t, last.Message, `Reason: "Out of stock"`)
}

func TestRespondToOrderAcceptedIncludesSellerMessage(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 2)

	require.NoError(t, env.orderUC.RespondToOrder(ctx, seller.TokenIdentifier, RespondToOrderInput{
		OrderID:         orderID,
		Status:          entity.OrderStatusAccepted,
		SellerResponse:  "Come by after 5pm",
		RejectionReason: "ignored",
	}))

	order, err := env.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusAccepted, order.Status)
	assert.Empty(t, order.RejectionReason)

	notes := env.sender.forUser(buyer.ID)
	last := notes[len(notes)-1]
	assert.Equal(t, "✅ Order Accepted!", last.Title)
	assert.Equal(t, entity.NotificationOrderAccepted, last.Type)
	assert.Contains(t, last.Message, "Come by after 5pm")
}

func TestRespondToOrderGuards(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)

	err := env.orderUC.RespondToOrder(ctx, buyer.TokenIdentifier, RespondToOrderInput{
		OrderID: orderID, Status: entity.OrderStatusAccepted,
	})
	assert.Equal(t, "Unauthorized: You can only respond to your own orders", errors.Message(err))

	err = env.orderUC.RespondToOrder(ctx, seller.TokenIdentifier, RespondToOrderInput{
		OrderID: "missing", Status: entity.OrderStatusAccepted,
	})
	assert.Equal(t, "Order not found", errors.Message(err))

	err = env.orderUC.RespondToOrder(ctx, seller.TokenIdentifier, RespondToOrderInput{
		OrderID: orderID, Status: entity.OrderStatusCompleted,
	})
	assert.Equal(t, "Invalid response status", errors.Message(err))

	require.NoError(t, env.orderUC.RespondToOrder(ctx, seller.TokenIdentifier, RespondToOrderInput{
		OrderID: orderID, Status: entity.OrderStatusAccepted,
	}))
	err = env.orderUC.RespondToOrder(ctx, seller.TokenIdentifier, RespondToOrderInput{
		OrderID: orderID, Status: entity.OrderStatusRejected,
	})
	assert.Equal(t, "Order has already been responded to", errors.Message(err))

	order, err := env.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusAccepted, order.Status)
}

func TestConcurrentResponsesOnlyOneSucceeds(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, status := range []entity.OrderStatus{entity.OrderStatusAccepted, entity.OrderStatusRejected, entity.OrderStatusAccepted} {
		wg.Add(1)
		go func(status entity.OrderStatus) {
			defer wg.Done()
			err := env.orderUC.RespondToOrder(ctx, seller.TokenIdentifier, RespondToOrderInput{OrderID: orderID, Status: status})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(status)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestCompleteOrderRequiresAccepted(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)

	err := env.orderUC.CompleteOrder(ctx, seller.TokenIdentifier, orderID, "")
	require.Error(t, err)
	assert.Equal(t, "Order must be accepted before it can be completed", errors.Message(err))

	order, err := env.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
}

func TestCompleteOrderNotifiesCounterparty(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)
	require.NoError(t, env.orderUC.RespondToOrder(ctx, seller.TokenIdentifier, RespondToOrderInput{
		OrderID: orderID, Status: entity.OrderStatusAccepted,
	}))

	require.NoError(t, env.orderUC.CompleteOrder(ctx, buyer.TokenIdentifier, orderID, "Picked up"))

	order, err := env.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, order.Status)
	assert.Equal(t, "Picked up", order.CompletionNotes)
	assert.NotNil(t, order.CompletedAt)

	sellerNotes := env.sender.forUser(seller.ID)
	last := sellerNotes[len(sellerNotes)-1]
	assert.Equal(t, entity.NotificationOrderCompleted, last.Type)
	assert.Equal(t, entity.PriorityMedium, last.Priority)
	assert.Contains(t, last.Message, `Notes: "Picked up"`)

	err = env.orderUC.CancelOrder(ctx, seller.TokenIdentifier, orderID, "")
	assert.Equal(t, "Cannot cancel completed orders", errors.Message(err))
}

func TestCancelOrder(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)
	require.NoError(t, env.orderUC.CancelOrder(ctx, seller.TokenIdentifier, orderID, "Sold elsewhere"))

	order, err := env.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, order.Status)
	assert.Equal(t, "Sold elsewhere", order.RejectionReason)

	buyerNotes := env.sender.forUser(buyer.ID)
	last := buyerNotes[len(buyerNotes)-1]
	assert.Equal(t, "❌ Order Cancelled", last.Title)
	assert.Equal(t, entity.NotificationOrderRejected, last.Type)
	assert.Contains(t, last.Message, "The seller has cancelled")

	// Terminal orders cannot be cancelled again.
	err = env.orderUC.CancelOrder(ctx, buyer.TokenIdentifier, orderID, "")
	assert.Equal(t, "Order can no longer be cancelled", errors.Message(err))
}

func TestCancelRejectedOrderIsRefused(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)
	require.NoError(t, env.orderUC.RespondToOrder(ctx, seller.TokenIdentifier, RespondToOrderInput{
		OrderID: orderID, Status: entity.OrderStatusRejected,
	}))

	err := env.orderUC.CancelOrder(ctx, buyer.TokenIdentifier, orderID, "")
	assert.Equal(t, "Order can no longer be cancelled", errors.Message(err))

	order, err := env.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusRejected, order.Status)
}

func TestOrderMutationsRejectOutsiders(t *testing.T) {
	env := setupTestEnv(t)
	buyer, _, listing := env.seedMarket(t)
	outsider := env.createUser(t, "outsider-token", "Mallory")
	ctx := context.Background()

	orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)

	for _, id := range []string{orderID, "missing-order"} {
		err := env.orderUC.RespondToOrder(ctx, outsider.TokenIdentifier, RespondToOrderInput{OrderID: id, Status: entity.OrderStatusAccepted})
		assert.Error(t, err)
		err = env.orderUC.CompleteOrder(ctx, outsider.TokenIdentifier, id, "")
		assert.Error(t, err)
		err = env.orderUC.CancelOrder(ctx, outsider.TokenIdentifier, id, "")
		assert.Error(t, err)
		_, err = env.orderUC.GetOrderByID(ctx, outsider.TokenIdentifier, id)
		assert.Error(t, err)
	}

	err := env.orderUC.CancelOrder(ctx, outsider.TokenIdentifier, orderID, "")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
	assert.Equal(t, "Unauthorized", errors.Message(err))

	order, err := env.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
}

func TestStatusPathsStayLegal(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	type step func(orderID string) error
	respond := func(status entity.OrderStatus) step {
		return func(id string) error {
			return env.orderUC.RespondToOrder(ctx, seller.TokenIdentifier, RespondToOrderInput{OrderID: id, Status: status})
		}
	}
	complete := func(id string) error { return env.orderUC.CompleteOrder(ctx, buyer.TokenIdentifier, id, "") }
	cancel := func(id string) error { return env.orderUC.CancelOrder(ctx, buyer.TokenIdentifier, id, "") }

	steps := []step{respond(entity.OrderStatusAccepted), respond(entity.OrderStatusRejected), complete, cancel}

	for _, first := range steps {
		for _, second := range steps {
			for _, third := range steps {
				orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)

				prev := entity.OrderStatusPending
				for _, s := range []step{first, second, third} {
					err := s(orderID)
					order, getErr := env.orders.GetByID(ctx, orderID)
					require.NoError(t, getErr)

					if err == nil {
						assert.True(t, prev.CanTransitionTo(order.Status), "%s -> %s", prev, order.Status)
					} else {
						assert.Equal(t, prev, order.Status)
					}
					prev = order.Status
				}

				// Free the pending slot for the next path.
				if prev == entity.OrderStatusPending {
					require.NoError(t, cancel(orderID))
				}
			}
		}
	}
}

func TestGetUserOrders(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	other := env.createListing(t, buyer.ID, 300, 3)

	asBuyer := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)
	asSeller := env.placeOrder(t, seller.TokenIdentifier, other.ID, 1)

	all, err := env.orderUC.GetUserOrders(ctx, buyer.TokenIdentifier, OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, asSeller, all[0].ID)
	assert.Equal(t, "seller", all[0].UserRole)
	assert.Equal(t, asBuyer, all[1].ID)
	assert.Equal(t, "buyer", all[1].UserRole)
	require.NotNil(t, all[1].Listing)
	assert.Equal(t, "Onion", all[1].Listing.MasterItem.Name)
	require.NotNil(t, all[1].Seller)
	assert.Equal(t, "Ravi", all[1].Seller.Name)

	buying, err := env.orderUC.GetUserOrders(ctx, buyer.TokenIdentifier, OrderFilter{Type: "buyer"})
	require.NoError(t, err)
	require.Len(t, buying, 1)
	assert.Equal(t, asBuyer, buying[0].ID)

	accepted, err := env.orderUC.GetUserOrders(ctx, buyer.TokenIdentifier, OrderFilter{Status: entity.OrderStatusAccepted})
	require.NoError(t, err)
	assert.Empty(t, accepted)

	_, err = env.orderUC.GetUserOrders(ctx, buyer.TokenIdentifier, OrderFilter{Type: "middleman"})
	assert.Equal(t, "Invalid order type", errors.Message(err))
}

func TestGetPendingOrdersCount(t *testing.T) {
	env := setupTestEnv(t)
	buyer, seller, listing := env.seedMarket(t)
	ctx := context.Background()

	env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)

	count, err := env.orderUC.GetPendingOrdersCount(ctx, seller.TokenIdentifier)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = env.orderUC.GetPendingOrdersCount(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = env.orderUC.GetPendingOrdersCount(ctx, "unknown")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDispatchFailureDoesNotFailOrder(t *testing.T) {
	env := setupTestEnv(t)
	buyer, _, listing := env.seedMarket(t)
	env.sender.err = errors.Internal("Notification queue is full", nil)

	orderID := env.placeOrder(t, buyer.TokenIdentifier, listing.ID, 1)

	order, err := env.orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
}
