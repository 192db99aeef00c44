package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
	"surplusmarket/pkg/logger"
)

const persistTimeout = 10 * time.Second

// NotificationDispatcher queues notifications and persists them from a single
// worker goroutine, so a failing notification store never affects the
// operation that triggered the notification.
type NotificationDispatcher struct {
	repo  repository.NotificationRepository
	queue chan *entity.Notification

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewNotificationDispatcher(repo repository.NotificationRepository, queueSize int) *NotificationDispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}

	d := &NotificationDispatcher{
		repo:  repo,
		queue: make(chan *entity.Notification, queueSize),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

// Dispatch validates and enqueues n. It never waits for persistence; a full
// queue drops the notification with a logged warning.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, n *entity.Notification) error {
	if err := prepareNotification(n); err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		logger.LogDispatchError(n.UserID, string(n.Type), fmt.Errorf("dispatcher closed"))
		return errors.Internal("Notification dispatcher is closed", nil)
	}

	select {
	case d.queue <- n:
		return nil
	default:
		logger.LogDispatchError(n.UserID, string(n.Type), fmt.Errorf("queue full"))
		return errors.Internal("Notification queue is full", nil)
	}
}

// Close stops accepting notifications and waits until the queue is drained.
func (d *NotificationDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

func (d *NotificationDispatcher) run() {
	defer close(d.done)

	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if err := d.repo.Create(ctx, n); err != nil {
			logger.LogDispatchError(n.UserID, string(n.Type), err)
		} else {
			logger.Debug("Notification %s (%s) stored for user %s", n.ID, n.Type, n.UserID)
		}
		cancel()
	}
}

func prepareNotification(n *entity.Notification) error {
	if n == nil {
		return errors.BadRequest("Notification is required", nil)
	}
	if n.UserID == "" {
		return errors.BadRequest("Notification recipient is required", nil)
	}
	if !n.Type.Valid() {
		return errors.BadRequest(fmt.Sprintf("Invalid notification type: %s", n.Type), nil)
	}
	if !n.Category.Valid() {
		return errors.BadRequest(fmt.Sprintf("Invalid notification category: %s", n.Category), nil)
	}
	if !n.RelatedType.Valid() {
		return errors.BadRequest(fmt.Sprintf("Invalid related type: %s", n.RelatedType), nil)
	}
	if n.Priority == "" {
		n.Priority = entity.PriorityMedium
	}
	if !n.Priority.Valid() {
		return errors.BadRequest(fmt.Sprintf("Invalid notification priority: %s", n.Priority), nil)
	}

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.IsRead = false
	n.ReadAt = nil
	n.CreatedAt = time.Now().UTC()
	return nil
}
