package service

import (
	"context"
	"time"

	"library-service/internal/models"
	"library-service/internal/redisclient"
)

// EventPublisher is the subset of broker.EventPublisher the services need
type EventPublisher interface {
	PublishInventoryChanged(ctx context.Context, event *models.InventoryChangedEvent) error
	PublishReviewRecorded(ctx context.Context, event *models.ReviewRecordedEvent) error
}

// Cache is the subset of redisclient.Client the services need. A nil Cache
// disables idempotency replay and availability caching.
type Cache interface {
	SetAvailability(ctx context.Context, bookID int64, a redisclient.Availability) (bool, error)
	GetAvailability(ctx context.Context, bookID int64) (redisclient.Availability, bool, error)
	SetIdempotencyKey(ctx context.Context, userID int64, key string, transactionID int64, ttl time.Duration) error
	GetIdempotencyKey(ctx context.Context, userID int64, key string) (int64, bool, error)
	AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

func availabilityOf(book *models.Book) redisclient.Availability {
	return redisclient.Availability{
		Quantity: book.Quantity,
		Status:   book.AvailabilityStatus,
		Version:  book.Version,
	}
}
