package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	sqliterepo "surplusmarket/internal/adapter/repository"
	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/internal/infrastructure/lock"
)

// recordingSender captures dispatched notifications synchronously.
type recordingSender struct {
	mu   sync.Mutex
	sent []*entity.Notification
	err  error
}

func (s *recordingSender) Dispatch(ctx context.Context, n *entity.Notification) error {
	if err := prepareNotification(n); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.err
}

func (s *recordingSender) forUser(userID string) []*entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*entity.Notification
	for _, n := range s.sent {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type testEnv struct {
	users         repository.UserRepository
	listings      repository.ListingRepository
	masterItems   repository.MasterItemRepository
	orders        repository.OrderRepository
	chats         repository.ChatRepository
	notifications repository.NotificationRepository

	sender    *recordingSender
	projector *Projector
	orderUC   *OrderUseCase
	chatUC    *ChatUseCase
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqliterepo.NewSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	env := &testEnv{
		users:         sqliterepo.NewSQLiteUserRepository(store),
		listings:      sqliterepo.NewSQLiteListingRepository(store),
		masterItems:   sqliterepo.NewSQLiteMasterItemRepository(store),
		orders:        sqliterepo.NewSQLiteOrderRepository(store),
		chats:         sqliterepo.NewSQLiteChatRepository(store),
		notifications: sqliterepo.NewSQLiteNotificationRepository(store),
		sender:        &recordingSender{},
	}
	env.projector = NewProjector(env.users, env.listings, env.masterItems)

	locker := lock.NewLocalLocker()
	env.orderUC = NewOrderUseCase(env.orders, env.users, env.listings, env.masterItems,
		env.sender, locker, nil, env.projector)
	env.chatUC = NewChatUseCase(env.chats, env.users, env.listings, env.masterItems,
		env.sender, locker, nil, env.projector)
	return env
}

func (env *testEnv) createUser(t *testing.T, identity, name string) *entity.User {
	t.Helper()

	user := &entity.User{
		TokenIdentifier: identity,
		Email:           identity + "@example.com",
		Name:            name,
		Phone:           "555-" + identity,
	}
	require.NoError(t, env.users.Create(context.Background(), user))
	return user
}

func (env *testEnv) createListing(t *testing.T, sellerID string, price, quantity float64) *entity.Listing {
	t.Helper()
	ctx := context.Background()

	item := &entity.MasterItem{Name: "Onion", Category: "vegetables"}
	require.NoError(t, env.masterItems.Create(ctx, item))

	listing := &entity.Listing{
		SellerID:     sellerID,
		MasterItemID: item.ID,
		Price:        price,
		Quantity:     quantity,
		Unit:         "kg",
		IsActive:     true,
	}
	require.NoError(t, env.listings.Create(ctx, listing))
	return listing
}

// seedMarket creates a buyer, a seller and a 10 kg listing priced at 2500.
func (env *testEnv) seedMarket(t *testing.T) (buyer, seller *entity.User, listing *entity.Listing) {
	t.Helper()

	buyer = env.createUser(t, "buyer-token", "Asha")
	seller = env.createUser(t, "seller-token", "Ravi")
	listing = env.createListing(t, seller.ID, 2500, 10)
	return buyer, seller, listing
}

func (env *testEnv) placeOrder(t *testing.T, identity, listingID string, quantity float64) string {
	t.Helper()

	result, err := env.orderUC.CreateOrder(context.Background(), identity, CreateOrderInput{
		ListingID:     listingID,
		Quantity:      quantity,
		ContactMethod: entity.ContactMethodPickup,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	return result.OrderID
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}
