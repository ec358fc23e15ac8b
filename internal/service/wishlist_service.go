package service

import (
	"context"

	"library-service/internal/models"
	"library-service/internal/store"
	"library-service/internal/util"

	"go.uber.org/zap"
)

// WishlistService manages per-user wishlists
type WishlistService struct {
	repo   store.Repository
	logger *zap.Logger
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(repo store.Repository) *WishlistService {
	return &WishlistService{repo: repo, logger: util.GetLogger()}
}

// Get returns the user's wishlist, creating it on first use
func (s *WishlistService) Get(ctx context.Context, userID int64) (*models.Wishlist, error) {
	ctx, span := util.StartSpan(ctx, "WishlistService.Get")
	defer span.End()

	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreateWishlist(ctx, userID)
}

// Add puts a book on the wishlist; adding a present book is a no-op
func (s *WishlistService) Add(ctx context.Context, userID int64, bookSlug string) (bool, error) {
	return s.change(ctx, "add", userID, bookSlug, s.repo.AddToWishlist)
}

// Remove takes a book off the wishlist; removing an absent book is a no-op
func (s *WishlistService) Remove(ctx context.Context, userID int64, bookSlug string) (bool, error) {
	return s.change(ctx, "remove", userID, bookSlug, s.repo.RemoveFromWishlist)
}

func (s *WishlistService) change(
	ctx context.Context,
	op string,
	userID int64,
	bookSlug string,
	apply func(ctx context.Context, wishlistID, bookID int64) (bool, error),
) (bool, error) {
	ctx, span := util.StartSpan(ctx, "WishlistService."+op)
	defer span.End()

	book, err := s.repo.GetBookBySlug(ctx, bookSlug)
	if err != nil {
		return false, err
	}
	wishlist, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}

	changed, err := apply(ctx, wishlist.ID, book.ID)
	if err != nil {
		util.RecordError(span, err)
		return false, err
	}
	if changed {
		util.WishlistChangesTotal.WithLabelValues(op).Inc()
		s.logger.Debug("Wishlist changed",
			zap.String("op", op),
			zap.Int64("user_id", userID),
			zap.Int64("book_id", book.ID))
	}
	return changed, nil
}
