package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"surplusmarket/internal/adapter/api"
	"surplusmarket/internal/adapter/api/handler"
	apimiddleware "surplusmarket/internal/adapter/api/middleware"
	"surplusmarket/internal/adapter/api/router"
	"surplusmarket/internal/adapter/repository"
	domainrepo "surplusmarket/internal/domain/repository"
	"surplusmarket/internal/infrastructure/firebase"
	"surplusmarket/internal/infrastructure/lock"
	"surplusmarket/internal/infrastructure/ratelimit"
	"surplusmarket/internal/usecase"
	"surplusmarket/pkg/config"
)

type repositories struct {
	users         domainrepo.UserRepository
	listings      domainrepo.ListingRepository
	masterItems   domainrepo.MasterItemRepository
	orders        domainrepo.OrderRepository
	chats         domainrepo.ChatRepository
	notifications domainrepo.NotificationRepository
	health        handler.StorageChecker
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Firebase is optional in development, where dev tokens stand in for it.
	var firebaseAuthClient *firebase.FirebaseAuthClient
	var firestoreClient *firestore.Client
	if cfg.FirebaseProject != "" {
		firebaseApp, opts, err := firebase.NewApp(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}

		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth: %v", err)
		}
		firebaseAuthClient = firebase.NewFirebaseAuthClient(authClient, !cfg.IsDevelopment())

		if cfg.StorageDriver == config.StorageFirestore {
			firestoreClient, err = firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
			if err != nil {
				log.Fatalf("Failed to create Firestore client: %v", err)
			}
		}
	}

	repos, err := openRepositories(ctx, cfg, firestoreClient)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer repos.close()

	var locker usecase.KeyedLocker
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		defer redisClient.Close()

		log.Printf("Using Redis creation locks at %s", cfg.RedisAddr)
		locker = lock.NewRedisLocker(redisClient, time.Duration(cfg.LockTTLSeconds)*time.Second)
	} else {
		log.Printf("REDIS_ADDR not set, using in-process creation locks")
		locker = lock.NewLocalLocker()
	}

	limiter := ratelimit.NewRateLimiter(map[string]ratelimit.Policy{
		ratelimit.ActionSendMessage: ratelimit.PerMinute(int(cfg.MessageRatePerMinute), int(cfg.MessageRateBurst)),
		ratelimit.ActionRequest:     ratelimit.PerMinute(int(cfg.RequestRatePerMinute), int(cfg.RequestRatePerMinute/6)),
	})
	limiter.StartCleanupRoutine(10 * time.Minute)
	defer limiter.Stop()

	dispatcher := usecase.NewNotificationDispatcher(repos.notifications, int(cfg.NotificationQueueSize))
	defer dispatcher.Close()

	projector := usecase.NewProjector(repos.users, repos.listings, repos.masterItems)

	orderUseCase := usecase.NewOrderUseCase(repos.orders, repos.users, repos.listings, repos.masterItems,
		dispatcher, locker, limiter, projector)
	chatUseCase := usecase.NewChatUseCase(repos.chats, repos.users, repos.listings, repos.masterItems,
		dispatcher, locker, limiter, projector)
	notificationUseCase := usecase.NewNotificationUseCase(repos.notifications, projector)
	userUseCase := usecase.NewUserUseCase(repos.users)
	catalogUseCase := usecase.NewCatalogUseCase(repos.listings, repos.masterItems, dispatcher)

	handler.Setup(orderUseCase, chatUseCase, notificationUseCase, userUseCase, catalogUseCase)
	handler.SetupHealthHandler(repos.health)

	var verifier apimiddleware.TokenVerifier
	if cfg.IsDevelopment() || firebaseAuthClient == nil {
		devTokens := firebase.NewDevTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)
		handler.SetupDevTokenHandler(devTokens)
		verifier = devTokens
		log.Printf("Using development HS256 tokens")
	} else {
		verifier = firebaseAuthClient
	}

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(apimiddleware.RateLimit(limiter))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(verifier)
	router.Setup(e, authMiddleware, cfg.Environment)

	go func() {
		log.Printf("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Printf("Server stopped")
}

func openRepositories(ctx context.Context, cfg *config.Config, firestoreClient *firestore.Client) (*repositories, error) {
	if cfg.StorageDriver == config.StorageFirestore {
		log.Printf("Using Firestore storage for project %s", cfg.FirebaseProject)
		return &repositories{
			users:         repository.NewFirestoreUserRepository(firestoreClient),
			listings:      repository.NewFirestoreListingRepository(firestoreClient),
			masterItems:   repository.NewFirestoreMasterItemRepository(firestoreClient),
			orders:        repository.NewFirestoreOrderRepository(firestoreClient),
			chats:         repository.NewFirestoreChatRepository(firestoreClient),
			notifications: repository.NewFirestoreNotificationRepository(firestoreClient),
			health:        repository.NewFirestoreHealth(firestoreClient),
			close:         func() { _ = firestoreClient.Close() },
		}, nil
	}

	store, err := repository.NewSQLiteStore(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	log.Printf("Using SQLite storage at %s (driver %s)", cfg.SQLitePath, repository.SQLiteDriverName)

	return &repositories{
		users:         repository.NewSQLiteUserRepository(store),
		listings:      repository.NewSQLiteListingRepository(store),
		masterItems:   repository.NewSQLiteMasterItemRepository(store),
		orders:        repository.NewSQLiteOrderRepository(store),
		chats:         repository.NewSQLiteChatRepository(store),
		notifications: repository.NewSQLiteNotificationRepository(store),
		health:        store,
		close:         func() { _ = store.Close() },
	}, nil
}
