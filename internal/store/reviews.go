package store

import (
	"context"
	"database/sql"
	"fmt"

	"library-service/internal/lifecycle"
	"library-service/internal/models"
)

// SaveReview upserts the (book, user) review and recomputes the book's
// rating and review count from every review of the book, all in one transaction.
func (s *Store) SaveReview(ctx context.Context, review *models.Review) (*ReviewResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var book models.Book
	err = tx.GetContext(ctx, &book, "SELECT "+bookColumns+" FROM books WHERE id = $1 FOR UPDATE", review.BookID)
	if err == sql.ErrNoRows {
		return nil, lifecycle.NotFound("book not found: %d", review.BookID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock book: %w", err)
	}

	var created bool
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO reviews (book_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (book_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`,
		review.BookID, review.UserID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt, &created)
	if err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	var ratings []int
	if err := tx.SelectContext(ctx, &ratings, "SELECT rating FROM reviews WHERE book_id = $1", book.ID); err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	mean, count := lifecycle.AggregateRatings(ratings)

	res, err := tx.ExecContext(ctx, `
		UPDATE books SET rating = $1, total_reviews = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND version = $4`,
		mean, count, book.ID, book.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to update rating: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, lifecycle.ErrConflict
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	book.Rating = mean
	book.TotalReviews = count
	book.Version++
	return &ReviewResult{Review: review, Book: &book, Created: created}, nil
}

// ListReviewsByBook retrieves a book's reviews, newest first
func (s *Store) ListReviewsByBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	reviews := []models.Review{}
	err := s.db.SelectContext(ctx, &reviews,
		"SELECT * FROM reviews WHERE book_id = $1 ORDER BY created_at DESC, id DESC", bookID)
	return reviews, err
}

// ListReviewsByUser retrieves a user's most recent reviews
func (s *Store) ListReviewsByUser(ctx context.Context, userID int64, limit int) ([]models.Review, error) {
	reviews := []models.Review{}
	err := s.db.SelectContext(ctx, &reviews,
		"SELECT * FROM reviews WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2", userID, limit)
	return reviews, err
}
