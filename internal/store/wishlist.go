package store

import (
	"context"

	"library-service/internal/models"
)

// GetOrCreateWishlist returns the user's wishlist with its books, creating
// an empty one on first use
func (s *Store) GetOrCreateWishlist(ctx context.Context, userID int64) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := s.db.GetContext(ctx, &wishlist, `
		INSERT INTO wishlists (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at`, userID)
	if err != nil {
		return nil, err
	}

	wishlist.Books = []models.Book{}
	err = s.db.SelectContext(ctx, &wishlist.Books, `
		SELECT b.id, b.title, b.author, b.slug, b.category_id, b.description, b.isbn, b.cover_image,
			b.publication_date, b.publisher, b.pages, b.language, b.price, b.rental_price,
			b.availability_status, b.last_action, b.quantity, b.rating, b.total_reviews,
			b.version, b.created_at, b.updated_at
		FROM wishlist_books wb
		JOIN books b ON b.id = wb.book_id
		WHERE wb.wishlist_id = $1
		ORDER BY wb.added_at DESC`, wishlist.ID)
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// AddToWishlist adds a book; reports false when it was already present
func (s *Store) AddToWishlist(ctx context.Context, wishlistID, bookID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO wishlist_books (wishlist_id, book_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		wishlistID, bookID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// RemoveFromWishlist removes a book; reports false when it was not present
func (s *Store) RemoveFromWishlist(ctx context.Context, wishlistID, bookID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM wishlist_books WHERE wishlist_id = $1 AND book_id = $2", wishlistID, bookID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// IsWishlisted reports membership without creating a wishlist
func (s *Store) IsWishlisted(ctx context.Context, userID, bookID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM wishlist_books wb
			JOIN wishlists w ON w.id = wb.wishlist_id
			WHERE w.user_id = $1 AND wb.book_id = $2)`, userID, bookID)
	return exists, err
}
