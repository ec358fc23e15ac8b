package service

import (
	"context"
	"fmt"

	"library-service/internal/models"
	"library-service/internal/redisclient"
	"library-service/internal/store"
	"library-service/internal/util"

	"go.uber.org/zap"
)

// AvailabilityService keeps the Redis availability cache in step with the
// store and answers availability reads from it
type AvailabilityService struct {
	repo   store.Repository
	cache  Cache
	logger *zap.Logger
}

// NewAvailabilityService creates a new availability service. cache may be nil.
func NewAvailabilityService(repo store.Repository, cache Cache) *AvailabilityService {
	return &AvailabilityService{repo: repo, cache: cache, logger: util.GetLogger()}
}

// Availability is the stock state reported to clients
type Availability struct {
	BookID             int64  `json:"book_id"`
	Quantity           int    `json:"quantity"`
	AvailabilityStatus string `json:"availability_status"`
	Version            int    `json:"version"`
	Source             string `json:"source"`
}

// Get returns a book's stock state, from the cache when possible
func (s *AvailabilityService) Get(ctx context.Context, slug string) (*Availability, error) {
	ctx, span := util.StartSpan(ctx, "AvailabilityService.Get")
	defer span.End()

	book, err := s.repo.GetBookBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, ok, err := s.cache.GetAvailability(ctx, book.ID)
		if err != nil {
			s.logger.Warn("Availability cache read failed, falling back to DB",
				zap.Int64("book_id", book.ID), zap.Error(err))
		} else if ok && cached.Version >= book.Version {
			return &Availability{
				BookID:             book.ID,
				Quantity:           cached.Quantity,
				AvailabilityStatus: cached.Status,
				Version:            cached.Version,
				Source:             "cache",
			}, nil
		}
	}

	return &Availability{
		BookID:             book.ID,
		Quantity:           book.Quantity,
		AvailabilityStatus: book.AvailabilityStatus,
		Version:            book.Version,
		Source:             "db",
	}, nil
}

// Project applies an inventory event to the cache
func (s *AvailabilityService) Project(ctx context.Context, event *models.InventoryChangedEvent) error {
	if s.cache == nil {
		return nil
	}
	written, err := s.cache.SetAvailability(ctx, event.BookID, redisclient.Availability{
		Quantity: event.Quantity,
		Status:   event.AvailabilityStatus,
		Version:  event.Version,
	})
	if err != nil {
		util.CacheUpdatesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to project %s for book %d: %w", event.EventType, event.BookID, err)
	}
	if written {
		util.CacheUpdatesTotal.WithLabelValues("written").Inc()
	} else {
		util.CacheUpdatesTotal.WithLabelValues("stale").Inc()
	}
	return nil
}

// ProjectReview refreshes the cached stock state's version after a review
// bumped the book version, re-reading the book from the store
func (s *AvailabilityService) ProjectReview(ctx context.Context, event *models.ReviewRecordedEvent) error {
	if s.cache == nil {
		return nil
	}
	book, err := s.repo.GetBookByID(ctx, event.BookID)
	if err != nil {
		return err
	}
	if _, err := s.cache.SetAvailability(ctx, book.ID, availabilityOf(book)); err != nil {
		util.CacheUpdatesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to refresh availability for book %d: %w", book.ID, err)
	}
	return nil
}

// Sync loads every book's stock state into the cache
func (s *AvailabilityService) Sync(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	ctx, span := util.StartSpan(ctx, "AvailabilityService.Sync")
	defer span.End()

	books, err := s.repo.GetAllBooks(ctx)
	if err != nil {
		return err
	}
	for i := range books {
		if _, err := s.cache.SetAvailability(ctx, books[i].ID, availabilityOf(&books[i])); err != nil {
			return fmt.Errorf("failed to sync availability for book %d: %w", books[i].ID, err)
		}
	}
	s.logger.Info("Availability synced to Redis", zap.Int("count", len(books)))
	return nil
}
