package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// StorageChecker reports whether the backing store is reachable.
type StorageChecker interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	storage StorageChecker
}

var healthHandler *HealthHandler

func NewHealthHandler(storage StorageChecker) *HealthHandler {
	return &HealthHandler{
		storage: storage,
	}
}

func SetupHealthHandler(storage StorageChecker) {
	healthHandler = NewHealthHandler(storage)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) CheckStorageHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "Storage connection failed",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "Storage connected successfully",
	})
}
