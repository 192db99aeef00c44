package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageFirestore = "firestore"
	StorageSQLite    = "sqlite"
)

type Config struct {
	ServerPort  string
	Environment string

	StorageDriver string
	SQLitePath    string

	FirebaseProject            string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string

	JWTSecret string
	JWTExpiry int64

	RedisAddr      string
	RedisPassword  string
	LockTTLSeconds int64

	NotificationQueueSize int64
	MessageRatePerMinute  int64
	MessageRateBurst      int64
	RequestRatePerMinute  int64
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageSQLite)),
		SQLitePath:    getEnv("SQLITE_PATH", "surplusmarket.db"),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry: getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		LockTTLSeconds: getEnvAsInt64("LOCK_TTL_SECONDS", 10),

		NotificationQueueSize: getEnvAsInt64("NOTIFICATION_QUEUE_SIZE", 256),
		MessageRatePerMinute:  getEnvAsInt64("MESSAGE_RATE_PER_MINUTE", 30),
		MessageRateBurst:      getEnvAsInt64("MESSAGE_RATE_BURST", 10),
		RequestRatePerMinute:  getEnvAsInt64("REQUEST_RATE_PER_MINUTE", 600),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORAGE_DRIVER=sqlite")
		}
	case StorageFirestore:
		if c.FirebaseProject == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required when STORAGE_DRIVER=firestore")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if !c.IsDevelopment() && c.FirebaseProject == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required outside development")
	}

	if c.NotificationQueueSize <= 0 {
		return fmt.Errorf("NOTIFICATION_QUEUE_SIZE must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
