package service

import (
	"context"

	"library-service/internal/broker"
	"library-service/internal/lifecycle"
	"library-service/internal/models"
	"library-service/internal/store"
	"library-service/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ReviewService records reviews and keeps book ratings current
type ReviewService struct {
	repo      store.Repository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewReviewService creates a new review service. publisher may be nil.
func NewReviewService(repo store.Repository, publisher EventPublisher) *ReviewService {
	return &ReviewService{
		repo:      repo,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// ReviewRequest is a user's rating of a book
type ReviewRequest struct {
	BookSlug string `json:"-"`
	UserID   int64  `json:"-"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// RecordReview creates or replaces the user's review of the book and
// recomputes the book's rating from all of its reviews
func (s *ReviewService) RecordReview(ctx context.Context, req *ReviewRequest) (*store.ReviewResult, error) {
	ctx, span := util.StartSpan(ctx, "ReviewService.RecordReview",
		attribute.String("book.slug", req.BookSlug),
		attribute.Int64("user.id", req.UserID))
	defer span.End()

	if err := lifecycle.ValidateRating(req.Rating); err != nil {
		util.RecordError(span, err)
		return nil, err
	}

	book, err := s.repo.GetBookBySlug(ctx, req.BookSlug)
	if err != nil {
		util.RecordError(span, err)
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, req.UserID); err != nil {
		util.RecordError(span, err)
		return nil, err
	}

	result, err := s.repo.SaveReview(ctx, &models.Review{
		BookID:  book.ID,
		UserID:  req.UserID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, err
	}

	outcome := "updated"
	if result.Created {
		outcome = "created"
	}
	util.ReviewsRecordedTotal.WithLabelValues(outcome).Inc()
	s.logger.Info("Review recorded",
		zap.Int64("book_id", book.ID),
		zap.Int64("user_id", req.UserID),
		zap.String("outcome", outcome),
		zap.String("rating", result.Book.Rating.StringFixed(2)),
		zap.Int("total_reviews", result.Book.TotalReviews))

	if s.publisher != nil {
		event := &models.ReviewRecordedEvent{
			BaseEvent:    broker.NewBaseEvent(models.EventTypeReviewRecorded),
			BookID:       book.ID,
			UserID:       req.UserID,
			ReviewRating: req.Rating,
			BookRating:   result.Book.Rating.StringFixed(2),
			TotalReviews: result.Book.TotalReviews,
			Version:      result.Book.Version,
		}
		if err := s.publisher.PublishReviewRecorded(ctx, event); err != nil {
			s.logger.Error("Failed to publish review event", zap.Int64("book_id", book.ID), zap.Error(err))
		}
	}

	return result, nil
}
