package store

import (
	"context"
	"database/sql"
	"fmt"

	"library-service/internal/lifecycle"
	"library-service/internal/models"
)

const openHoldsQuery = `
	SELECT t.id, t.transaction_type, t.book_id, t.user_id, t.amount, t.due_date,
		t.return_date, t.returns_id, t.status, t.created_at
	FROM transactions t
	WHERE t.user_id = $1
		AND t.transaction_type IN ('borrow', 'rent')
		AND t.status = 'completed'
		AND NOT EXISTS (SELECT 1 FROM transactions r WHERE r.returns_id = t.id)`

// ApplyAction runs one lifecycle action inside a transaction: the book row is
// locked FOR UPDATE, decide is evaluated against it, and the stock update is
// written with a version check before the ledger entry is appended.
func (s *Store) ApplyAction(ctx context.Context, bookID, userID int64, decide DecideFunc) (*ActionResult, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var book models.Book
	err = tx.GetContext(ctx, &book, "SELECT "+bookColumns+" FROM books WHERE id = $1 FOR UPDATE", bookID)
	if err == sql.ErrNoRows {
		return nil, lifecycle.NotFound("book not found: %d", bookID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock book: %w", err)
	}

	holds := []models.Transaction{}
	if err := tx.SelectContext(ctx, &holds,
		openHoldsQuery+" AND t.book_id = $2 ORDER BY t.created_at, t.id", userID, bookID); err != nil {
		return nil, fmt.Errorf("failed to load open holds: %w", err)
	}

	outcome, err := decide(&book, holds)
	if err != nil {
		return nil, err
	}

	// The row lock already serializes actions on this book. The version
	// predicate still rejects writers that updated the row without taking it.
	res, err := tx.ExecContext(ctx, `
		UPDATE books
		SET quantity = $1, availability_status = $2, last_action = $3,
			version = version + 1, updated_at = NOW()
		WHERE id = $4 AND version = $5`,
		outcome.Quantity, outcome.AvailabilityStatus, outcome.LastAction, book.ID, book.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, lifecycle.ErrConflict
	}

	entry := outcome.Entry
	err = tx.GetContext(ctx, &entry.ID, `
		INSERT INTO transactions (transaction_type, book_id, user_id, amount, due_date,
			return_date, returns_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		entry.TransactionType, entry.BookID, entry.UserID, entry.Amount, entry.DueDate,
		entry.ReturnDate, entry.ReturnsID, entry.Status, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	outcome.Apply(&book)
	book.Version++
	return &ActionResult{Book: &book, Transaction: &entry}, nil
}

// GetTransaction retrieves a ledger entry by ID
func (s *Store) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	var entry models.Transaction
	err := s.db.GetContext(ctx, &entry, `
		SELECT id, transaction_type, book_id, user_id, amount, due_date, return_date,
			returns_id, status, created_at
		FROM transactions WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, lifecycle.NotFound("transaction not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListOpenHolds retrieves a user's unreturned borrows and rentals, newest first
func (s *Store) ListOpenHolds(ctx context.Context, userID int64) ([]models.Transaction, error) {
	holds := []models.Transaction{}
	err := s.db.SelectContext(ctx, &holds, openHoldsQuery+" ORDER BY t.created_at DESC, t.id DESC", userID)
	return holds, err
}

// CountLoans counts every borrow and rental a user has made, returned or not
func (s *Store) CountLoans(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND transaction_type IN ('borrow', 'rent')", userID)
	return count, err
}
