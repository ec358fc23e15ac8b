package service

import (
	"context"
	"fmt"
	"time"

	"library-service/internal/broker"
	"library-service/internal/lifecycle"
	"library-service/internal/models"
	"library-service/internal/store"
	"library-service/internal/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const idempotencyLockTTL = 30 * time.Second

// InventoryService runs borrow, rent, purchase and return against the store
type InventoryService struct {
	repo           store.Repository
	engine         *lifecycle.Engine
	cache          Cache
	publisher      EventPublisher
	idempotencyTTL time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// NewInventoryService creates a new inventory service. cache and publisher may be nil.
func NewInventoryService(
	repo store.Repository,
	engine *lifecycle.Engine,
	cache Cache,
	publisher EventPublisher,
	idempotencyTTL time.Duration,
) *InventoryService {
	return &InventoryService{
		repo:           repo,
		engine:         engine,
		cache:          cache,
		publisher:      publisher,
		idempotencyTTL: idempotencyTTL,
		logger:         util.GetLogger(),
		now:            time.Now,
	}
}

// ActionRequest identifies who acts on which book
type ActionRequest struct {
	BookSlug       string
	UserID         int64
	IdempotencyKey string
}

// ActionResponse is the committed result of an action
type ActionResponse struct {
	Book        *models.Book        `json:"book"`
	Transaction *models.Transaction `json:"transaction"`
	Replayed    bool                `json:"replayed"`
}

// Borrow takes a copy out for the borrow period at no charge
func (s *InventoryService) Borrow(ctx context.Context, req *ActionRequest) (*ActionResponse, error) {
	return s.apply(ctx, models.TransactionBorrow, req)
}

// Rent takes a copy out for the rent period at the rental price
func (s *InventoryService) Rent(ctx context.Context, req *ActionRequest) (*ActionResponse, error) {
	return s.apply(ctx, models.TransactionRent, req)
}

// Purchase sells a copy at the list price
func (s *InventoryService) Purchase(ctx context.Context, req *ActionRequest) (*ActionResponse, error) {
	return s.apply(ctx, models.TransactionPurchase, req)
}

// Return closes the user's oldest open borrow or rental of the book
func (s *InventoryService) Return(ctx context.Context, req *ActionRequest) (*ActionResponse, error) {
	return s.apply(ctx, models.TransactionReturn, req)
}

func (s *InventoryService) apply(ctx context.Context, action string, req *ActionRequest) (*ActionResponse, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService."+action,
		attribute.String("book.slug", req.BookSlug),
		attribute.Int64("user.id", req.UserID))
	defer span.End()

	start := time.Now()
	defer func() {
		util.LifecycleActionLatency.WithLabelValues(action).Observe(time.Since(start).Seconds())
	}()

	logger := s.logger.With(
		zap.String("action", action),
		zap.String("book_slug", req.BookSlug),
		zap.Int64("user_id", req.UserID))

	book, err := s.repo.GetBookBySlug(ctx, req.BookSlug)
	if err != nil {
		return nil, s.fail(span, action, err)
	}
	if _, err := s.repo.GetUser(ctx, req.UserID); err != nil {
		return nil, s.fail(span, action, err)
	}

	if req.IdempotencyKey != "" && s.cache != nil {
		// The stored result is checked under the lock so a request that
		// committed while this one waited is replayed, not applied again.
		lock := fmt.Sprintf("idempotency:%d:%s", req.UserID, req.IdempotencyKey)
		token := uuid.New().String()
		acquired, err := s.cache.AcquireLock(ctx, lock, token, idempotencyLockTTL)
		if err != nil {
			logger.Warn("Failed to acquire idempotency lock, continuing without it", zap.Error(err))
		} else if !acquired {
			return nil, s.fail(span, action, &lifecycle.Error{
				Kind:    lifecycle.KindConflict,
				Message: "a request with this idempotency key is already in progress",
			})
		} else {
			defer func() {
				if err := s.cache.ReleaseLock(context.Background(), lock, token); err != nil {
					logger.Warn("Failed to release idempotency lock", zap.Error(err))
				}
			}()
		}

		replay, err := s.replay(ctx, book, req)
		if err != nil {
			return nil, s.fail(span, action, err)
		}
		if replay != nil {
			logger.Info("Duplicate action request detected",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.Int64("transaction_id", replay.Transaction.ID))
			return replay, nil
		}
	}

	now := s.now()
	result, err := s.repo.ApplyAction(ctx, book.ID, req.UserID,
		func(locked *models.Book, holds []models.Transaction) (*lifecycle.Outcome, error) {
			return s.engine.Decide(action, locked, req.UserID, holds, now)
		})
	if err != nil {
		logger.Info("Lifecycle action rejected", zap.Error(err))
		return nil, s.fail(span, action, err)
	}

	util.LifecycleActionsTotal.WithLabelValues(action).Inc()
	logger.Info("Lifecycle action committed",
		zap.Int64("transaction_id", result.Transaction.ID),
		zap.Int("quantity", result.Book.Quantity),
		zap.String("availability_status", result.Book.AvailabilityStatus))

	if req.IdempotencyKey != "" && s.cache != nil {
		if err := s.cache.SetIdempotencyKey(ctx, req.UserID, req.IdempotencyKey, result.Transaction.ID, s.idempotencyTTL); err != nil {
			logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	s.afterCommit(ctx, result)

	return &ActionResponse{Book: result.Book, Transaction: result.Transaction}, nil
}

// replay answers a repeated idempotency key from the ledger
func (s *InventoryService) replay(ctx context.Context, book *models.Book, req *ActionRequest) (*ActionResponse, error) {
	transactionID, ok, err := s.cache.GetIdempotencyKey(ctx, req.UserID, req.IdempotencyKey)
	if err != nil {
		s.logger.Warn("Idempotency lookup failed, processing request", zap.Error(err))
		return nil, nil
	}
	if !ok {
		return nil, nil
	}

	entry, err := s.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if entry.BookID != book.ID || entry.UserID != req.UserID {
		return nil, lifecycle.Validation("idempotency key %q was used for a different request", req.IdempotencyKey)
	}

	current, err := s.repo.GetBookByID(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	util.IdempotentReplaysTotal.Inc()
	return &ActionResponse{Book: current, Transaction: entry, Replayed: true}, nil
}

// afterCommit publishes the change and refreshes the cache. Failures are
// logged only; the ledger is already committed.
func (s *InventoryService) afterCommit(ctx context.Context, result *store.ActionResult) {
	if s.cache != nil {
		if _, err := s.cache.SetAvailability(ctx, result.Book.ID, availabilityOf(result.Book)); err != nil {
			util.CacheUpdatesTotal.WithLabelValues("error").Inc()
			s.logger.Warn("Failed to update availability cache", zap.Int64("book_id", result.Book.ID), zap.Error(err))
		}
	}

	if s.publisher == nil {
		return
	}
	entry := result.Transaction
	event := &models.InventoryChangedEvent{
		BaseEvent:          broker.NewBaseEvent(models.EventTypeForTransaction(entry.TransactionType)),
		BookID:             result.Book.ID,
		UserID:             entry.UserID,
		TransactionID:      entry.ID,
		TransactionType:    entry.TransactionType,
		Amount:             entry.Amount.StringFixed(2),
		Quantity:           result.Book.Quantity,
		AvailabilityStatus: result.Book.AvailabilityStatus,
		Version:            result.Book.Version,
	}
	if err := s.publisher.PublishInventoryChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish inventory event",
			zap.String("event_type", event.EventType),
			zap.Int64("transaction_id", entry.ID),
			zap.Error(err))
	}
}

// fail records a rejected action on the span and the failure counter
func (s *InventoryService) fail(span trace.Span, action string, err error) error {
	reason := string(lifecycle.KindOf(err))
	if reason == "" {
		reason = "internal"
	}
	util.LifecycleActionsFailed.WithLabelValues(action, reason).Inc()
	util.RecordError(span, err)
	return err
}
