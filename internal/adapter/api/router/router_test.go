package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surplusmarket/internal/adapter/api"
	"surplusmarket/internal/adapter/api/handler"
	"surplusmarket/internal/adapter/api/middleware"
	"surplusmarket/internal/adapter/repository"
	"surplusmarket/internal/infrastructure/firebase"
	"surplusmarket/internal/infrastructure/lock"
	"surplusmarket/internal/usecase"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	e      *echo.Echo
	tokens *firebase.DevTokenManager
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	store, err := repository.NewSQLiteStore(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	userRepo := repository.NewSQLiteUserRepository(store)
	listingRepo := repository.NewSQLiteListingRepository(store)
	masterItemRepo := repository.NewSQLiteMasterItemRepository(store)
	orderRepo := repository.NewSQLiteOrderRepository(store)
	chatRepo := repository.NewSQLiteChatRepository(store)
	notificationRepo := repository.NewSQLiteNotificationRepository(store)

	dispatcher := usecase.NewNotificationDispatcher(notificationRepo, 64)
	t.Cleanup(dispatcher.Close)

	locker := lock.NewLocalLocker()
	projector := usecase.NewProjector(userRepo, listingRepo, masterItemRepo)

	handler.Setup(
		usecase.NewOrderUseCase(orderRepo, userRepo, listingRepo, masterItemRepo, dispatcher, locker, nil, projector),
		usecase.NewChatUseCase(chatRepo, userRepo, listingRepo, masterItemRepo, dispatcher, locker, nil, projector),
		usecase.NewNotificationUseCase(notificationRepo, projector),
		usecase.NewUserUseCase(userRepo),
		usecase.NewCatalogUseCase(listingRepo, masterItemRepo, dispatcher),
	)
	handler.SetupHealthHandler(store)

	tokens := firebase.NewDevTokenManager("test-secret", time.Hour)
	handler.SetupDevTokenHandler(tokens)

	e := echo.New()
	e.Validator = api.NewValidator()
	Setup(e, middleware.NewAuthMiddleware(tokens), "development")

	return &testServer{e: e, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, identity string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if identity != "" {
		token, err := s.tokens.GenerateToken(context.Background(), identity)
		require.NoError(t, err)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode(t *testing.T, raw json.RawMessage, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, into))
}

// seed registers a buyer and a seller and publishes one listing.
func (s *testServer) seed(t *testing.T) (listingID string) {
	t.Helper()

	code, _ := s.do(t, http.MethodPost, "/v1/users/me", "buyer", map[string]string{"name": "Asha", "phone": "555-0100"})
	require.Equal(t, http.StatusCreated, code)
	code, _ = s.do(t, http.MethodPost, "/v1/users/me", "seller", map[string]string{"name": "Ravi", "shop_name": "Ravi Greens"})
	require.Equal(t, http.StatusCreated, code)

	code, env := s.do(t, http.MethodPost, "/v1/master-items", "seller", map[string]string{"name": "Onion", "category": "vegetables"})
	require.Equal(t, http.StatusCreated, code)
	var item struct {
		ID string `json:"id"`
	}
	decode(t, env.Data, &item)

	code, env = s.do(t, http.MethodPost, "/v1/listings", "seller", map[string]interface{}{
		"master_item_id": item.ID,
		"price":          2500,
		"quantity":       10,
		"unit":           "kg",
	})
	require.Equal(t, http.StatusCreated, code)
	var listing struct {
		ID string `json:"id"`
	}
	decode(t, env.Data, &listing)
	return listing.ID
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t)

	code, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/storage-health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestDevToken(t *testing.T) {
	s := setupTestServer(t)

	code, env := s.do(t, http.MethodGet, "/_dev/token?identity=someone", "", nil)
	require.Equal(t, http.StatusOK, code)

	var body struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &body)
	identity, err := s.tokens.VerifyToken(context.Background(), body.Token)
	require.NoError(t, err)
	assert.Equal(t, "someone", identity)
}

func TestRequiresAuthentication(t *testing.T) {
	s := setupTestServer(t)

	for _, path := range []string{"/v1/orders", "/v1/chats", "/v1/notifications"} {
		code, env := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, path)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, "Not authenticated", env.Error.Message)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderFlow(t *testing.T) {
	s := setupTestServer(t)
	listingID := s.seed(t)

	code, env := s.do(t, http.MethodPost, "/v1/orders", "buyer", map[string]interface{}{
		"listing_id":     listingID,
		"quantity":       2,
		"contact_method": "pickup",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var created struct {
		OrderID string `json:"order_id"`
		Success bool   `json:"success"`
	}
	decode(t, env.Data, &created)
	assert.True(t, created.Success)

	code, env = s.do(t, http.MethodPost, "/v1/orders", "buyer", map[string]interface{}{
		"listing_id":     listingID,
		"quantity":       1,
		"contact_method": "pickup",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "You already have a pending order for this listing", env.Error.Message)

	code, env = s.do(t, http.MethodGet, "/v1/orders/pending-count", "seller", nil)
	require.Equal(t, http.StatusOK, code)
	var count struct {
		Count int `json:"count"`
	}
	decode(t, env.Data, &count)
	assert.Equal(t, 1, count.Count)

	code, env = s.do(t, http.MethodGet, "/v1/orders/pending-count", "", nil)
	require.Equal(t, http.StatusOK, code)
	decode(t, env.Data, &count)
	assert.Zero(t, count.Count)

	code, env = s.do(t, http.MethodPost, "/v1/orders/"+created.OrderID+"/respond", "buyer", map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Unauthorized: You can only respond to your own orders", env.Error.Message)

	code, _ = s.do(t, http.MethodPost, "/v1/orders/"+created.OrderID+"/respond", "seller", map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodPost, "/v1/orders/"+created.OrderID+"/complete", "buyer", map[string]string{"completion_notes": "Thanks"})
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/v1/orders/"+created.OrderID, "seller", nil)
	require.Equal(t, http.StatusOK, code)
	var order struct {
		Status      string  `json:"status"`
		TotalAmount float64 `json:"total_amount"`
		UserRole    string  `json:"user_role"`
	}
	decode(t, env.Data, &order)
	assert.Equal(t, "completed", order.Status)
	assert.Equal(t, 5000.0, order.TotalAmount)
	assert.Equal(t, "seller", order.UserRole)

	code, env = s.do(t, http.MethodGet, "/v1/orders?type=buyer", "buyer", nil)
	require.Equal(t, http.StatusOK, code)
	var list struct {
		Count int `json:"count"`
	}
	decode(t, env.Data, &list)
	assert.Equal(t, 1, list.Count)
}

func TestCreateOrderValidation(t *testing.T) {
	s := setupTestServer(t)
	listingID := s.seed(t)

	code, env := s.do(t, http.MethodPost, "/v1/orders", "buyer", map[string]interface{}{
		"listing_id":     listingID,
		"quantity":       1,
		"contact_method": "teleport",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, env = s.do(t, http.MethodPost, "/v1/orders", "buyer", map[string]interface{}{
		"listing_id":     listingID,
		"quantity":       1,
		"contact_method": "delivery",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Delivery address is required for delivery orders", env.Error.Message)
}

func TestChatAndNotificationFlow(t *testing.T) {
	s := setupTestServer(t)
	listingID := s.seed(t)

	code, env := s.do(t, http.MethodPost, "/v1/chats", "buyer", map[string]string{"listing_id": listingID})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var chat struct {
		ChatID string `json:"chat_id"`
	}
	decode(t, env.Data, &chat)

	code, env = s.do(t, http.MethodPost, "/v1/chats", "seller", map[string]string{"listing_id": listingID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "You cannot contact yourself about your own listing", env.Error.Message)

	code, _ = s.do(t, http.MethodPost, "/v1/chats/"+chat.ChatID+"/messages", "buyer", map[string]string{"body": "Is it fresh?"})
	require.Equal(t, http.StatusCreated, code)

	code, env = s.do(t, http.MethodGet, "/v1/chats", "seller", nil)
	require.Equal(t, http.StatusOK, code)
	var chats struct {
		Items []struct {
			ID          string `json:"id"`
			UnreadCount int    `json:"unread_count"`
		} `json:"items"`
	}
	decode(t, env.Data, &chats)
	require.Len(t, chats.Items, 1)
	assert.Equal(t, 1, chats.Items[0].UnreadCount)

	code, _ = s.do(t, http.MethodPut, "/v1/chats/"+chat.ChatID+"/read", "seller", nil)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/v1/chats/"+chat.ChatID+"/messages", "seller", nil)
	require.Equal(t, http.StatusOK, code)
	var messages struct {
		Count int `json:"count"`
	}
	decode(t, env.Data, &messages)
	assert.Equal(t, 2, messages.Count)

	code, _ = s.do(t, http.MethodPut, "/v1/chats/"+chat.ChatID+"/block", "seller", map[string]bool{"is_blocked": true})
	require.Equal(t, http.StatusOK, code)
	code, env = s.do(t, http.MethodPost, "/v1/chats/"+chat.ChatID+"/messages", "buyer", map[string]string{"body": "Hello?"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Cannot send message to blocked chat", env.Error.Message)

	// Notifications are persisted asynchronously.
	require.Eventually(t, func() bool {
		_, env := s.do(t, http.MethodGet, "/v1/notifications/unread-count", "seller", nil)
		var count struct {
			Count int `json:"count"`
		}
		_ = json.Unmarshal(env.Data, &count)
		return count.Count == 2
	}, 2*time.Second, 20*time.Millisecond)

	code, env = s.do(t, http.MethodGet, "/v1/notifications?unread=true", "seller", nil)
	require.Equal(t, http.StatusOK, code)
	var notifications struct {
		Items []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"items"`
	}
	decode(t, env.Data, &notifications)
	require.Len(t, notifications.Items, 2)
	assert.Equal(t, "message_received", notifications.Items[0].Type)

	code, _ = s.do(t, http.MethodPut, "/v1/notifications/"+notifications.Items[0].ID+"/read", "buyer", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPut, "/v1/notifications/"+notifications.Items[0].ID+"/read", "seller", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodPut, "/v1/notifications/read-all", "seller", nil)
	require.Equal(t, http.StatusOK, code)
	var marked struct {
		Marked int `json:"marked"`
	}
	decode(t, env.Data, &marked)
	assert.Equal(t, 1, marked.Marked)

	code, _ = s.do(t, http.MethodDelete, "/v1/notifications/"+notifications.Items[1].ID, "seller", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestCreateOrderQuantityUsesDomainMessage(t *testing.T) {
	s := setupTestServer(t)
	listingID := s.seed(t)

	for _, quantity := range []float64{0, -2, 11} {
		code, env := s.do(t, http.MethodPost, "/v1/orders", "buyer", map[string]interface{}{
			"listing_id":     listingID,
			"quantity":       quantity,
			"contact_method": "pickup",
		})
		assert.Equal(t, http.StatusBadRequest, code, "quantity %v", quantity)
		require.NotNil(t, env.Error)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code)
		assert.Equal(t, "Invalid quantity requested", env.Error.Message)
	}

	code, env := s.do(t, http.MethodPost, "/v1/orders", "buyer", map[string]interface{}{
		"listing_id":     "does-not-exist",
		"quantity":       0,
		"contact_method": "pickup",
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Listing not found", env.Error.Message)
}

func TestSellerInitiatedChat(t *testing.T) {
	s := setupTestServer(t)
	listingID := s.seed(t)

	code, _ := s.do(t, http.MethodPost, "/v1/users/me", "mallory", map[string]string{"name": "Mallory"})
	require.Equal(t, http.StatusCreated, code)

	code, env := s.do(t, http.MethodGet, "/v1/users/me", "buyer", nil)
	require.Equal(t, http.StatusOK, code)
	var buyer struct {
		ID string `json:"id"`
	}
	decode(t, env.Data, &buyer)

	// Only the listing's seller may pick the buyer.
	code, env = s.do(t, http.MethodPost, "/v1/chats", "mallory", map[string]string{"listing_id": listingID, "buyer_id": buyer.ID})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, env = s.do(t, http.MethodPost, "/v1/chats", "mallory", map[string]string{"listing_id": "does-not-exist", "buyer_id": "ghost-user"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Listing not found", env.Error.Message)

	code, env = s.do(t, http.MethodPost, "/v1/chats", "seller", map[string]string{"listing_id": listingID, "buyer_id": "ghost-user"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Buyer not found", env.Error.Message)

	code, env = s.do(t, http.MethodPost, "/v1/chats", "seller", map[string]string{"listing_id": listingID, "buyer_id": buyer.ID})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var created struct {
		ChatID string `json:"chat_id"`
	}
	decode(t, env.Data, &created)

	code, env = s.do(t, http.MethodGet, "/v1/chats", "buyer", nil)
	require.Equal(t, http.StatusOK, code)
	var chats struct {
		Items []struct {
			ID               string `json:"id"`
			OtherParticipant struct {
				Name string `json:"name"`
			} `json:"other_participant"`
		} `json:"items"`
	}
	decode(t, env.Data, &chats)
	require.Len(t, chats.Items, 1)
	assert.Equal(t, created.ChatID, chats.Items[0].ID)
	assert.Equal(t, "Ravi", chats.Items[0].OtherParticipant.Name)

	code, env = s.do(t, http.MethodGet, "/v1/chats", "mallory", nil)
	require.Equal(t, http.StatusOK, code)
	decode(t, env.Data, &chats)
	assert.Empty(t, chats.Items)
}
