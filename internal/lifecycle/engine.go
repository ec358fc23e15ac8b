// Package lifecycle decides whether a borrow, rent, purchase or return is
// legal for a book and computes the combined mutation to apply. It holds no
// state and performs no I/O; stores apply the Outcome inside their own
// transactional boundary.
package lifecycle

import (
	"fmt"
	"sort"
	"time"

	"library-service/internal/models"

	"github.com/shopspring/decimal"
)

const (
	DefaultBorrowPeriod = 14 * 24 * time.Hour
	DefaultRentPeriod   = 7 * 24 * time.Hour
)

// Policy holds the loan periods used to stamp due dates
type Policy struct {
	BorrowPeriod time.Duration
	RentPeriod   time.Duration
}

// DefaultPolicy returns the 14 day borrow / 7 day rent policy
func DefaultPolicy() Policy {
	return Policy{
		BorrowPeriod: DefaultBorrowPeriod,
		RentPeriod:   DefaultRentPeriod,
	}
}

// Outcome is the mutation produced by a legal action: the book's next stock
// state and the ledger entry to append.
type Outcome struct {
	Quantity           int
	AvailabilityStatus string
	LastAction         string
	Entry              models.Transaction
}

// Apply copies the stock state onto book
func (o *Outcome) Apply(book *models.Book) {
	book.Quantity = o.Quantity
	book.AvailabilityStatus = o.AvailabilityStatus
	book.LastAction = o.LastAction
}

// Engine evaluates lifecycle actions against a policy
type Engine struct {
	policy Policy
}

// NewEngine creates a lifecycle engine
func NewEngine(policy Policy) *Engine {
	if policy.BorrowPeriod <= 0 {
		policy.BorrowPeriod = DefaultBorrowPeriod
	}
	if policy.RentPeriod <= 0 {
		policy.RentPeriod = DefaultRentPeriod
	}
	return &Engine{policy: policy}
}

// Policy returns the engine's loan policy
func (e *Engine) Policy() Policy {
	return e.policy
}

// Decide dispatches to the action-specific rule. holds are the user's open
// borrow/rent entries for the book and are only consulted for returns.
func (e *Engine) Decide(action string, book *models.Book, userID int64, holds []models.Transaction, now time.Time) (*Outcome, error) {
	switch action {
	case models.TransactionBorrow:
		return e.Borrow(book, userID, now)
	case models.TransactionRent:
		return e.Rent(book, userID, now)
	case models.TransactionPurchase:
		return e.Purchase(book, userID, now)
	case models.TransactionReturn:
		return e.Return(book, userID, holds, now)
	}
	return nil, Validation("unknown action %q", action)
}

// Borrow takes one copy out of stock for free with a due date
func (e *Engine) Borrow(book *models.Book, userID int64, now time.Time) (*Outcome, error) {
	if !inStock(book) {
		return nil, ErrUnavailable
	}
	due := now.Add(e.policy.BorrowPeriod)
	return e.takeOne(book, models.Transaction{
		TransactionType: models.TransactionBorrow,
		BookID:          book.ID,
		UserID:          userID,
		Amount:          decimal.Zero,
		DueDate:         &due,
		Status:          models.TransactionStatusCompleted,
		CreatedAt:       now,
	}), nil
}

// Rent takes one copy out of stock at the rental price with a due date
func (e *Engine) Rent(book *models.Book, userID int64, now time.Time) (*Outcome, error) {
	if !book.RentalPrice.Valid || !book.RentalPrice.Decimal.IsPositive() {
		return nil, ErrNotRentable
	}
	if !inStock(book) {
		return nil, ErrUnavailable
	}
	due := now.Add(e.policy.RentPeriod)
	return e.takeOne(book, models.Transaction{
		TransactionType: models.TransactionRent,
		BookID:          book.ID,
		UserID:          userID,
		Amount:          book.RentalPrice.Decimal,
		DueDate:         &due,
		Status:          models.TransactionStatusCompleted,
		CreatedAt:       now,
	}), nil
}

// Purchase takes one copy out of stock permanently at the list price
func (e *Engine) Purchase(book *models.Book, userID int64, now time.Time) (*Outcome, error) {
	if !inStock(book) {
		return nil, ErrUnavailable
	}
	return e.takeOne(book, models.Transaction{
		TransactionType: models.TransactionPurchase,
		BookID:          book.ID,
		UserID:          userID,
		Amount:          book.Price,
		Status:          models.TransactionStatusCompleted,
		CreatedAt:       now,
	}), nil
}

// Return closes the oldest open hold and puts its copy back in stock.
// Purchases are never holds, so they cannot be returned.
func (e *Engine) Return(book *models.Book, userID int64, holds []models.Transaction, now time.Time) (*Outcome, error) {
	hold := OldestOpenHold(holds, book.ID, userID)
	if hold == nil {
		return nil, ErrNoActiveTransaction
	}
	holdID := hold.ID
	returned := now
	quantity := book.Quantity + 1
	return &Outcome{
		Quantity:           quantity,
		AvailabilityStatus: NextStatus(quantity, models.TransactionReturn),
		LastAction:         models.TransactionReturn,
		Entry: models.Transaction{
			TransactionType: models.TransactionReturn,
			BookID:          book.ID,
			UserID:          userID,
			Amount:          decimal.Zero,
			ReturnDate:      &returned,
			ReturnsID:       &holdID,
			Status:          models.TransactionStatusCompleted,
			CreatedAt:       now,
		},
	}, nil
}

func (e *Engine) takeOne(book *models.Book, entry models.Transaction) *Outcome {
	quantity := book.Quantity - 1
	return &Outcome{
		Quantity:           quantity,
		AvailabilityStatus: NextStatus(quantity, entry.TransactionType),
		LastAction:         entry.TransactionType,
		Entry:              entry,
	}
}

func inStock(book *models.Book) bool {
	return book.IsAvailable() && book.Quantity > 0
}

// NextStatus is the availability state machine: any positive stock is
// available; an empty shelf takes the state of the action that emptied it.
func NextStatus(quantity int, lastAction string) string {
	if quantity > 0 {
		return models.AvailabilityAvailable
	}
	switch lastAction {
	case models.TransactionBorrow:
		return models.AvailabilityBorrowed
	case models.TransactionRent:
		return models.AvailabilityRented
	default:
		// purchase, or a book stocked at zero with nothing out on loan
		return models.AvailabilitySold
	}
}

// OpenHolds derives the current holdings view from a ledger: completed
// borrow/rent entries that no return entry references. Result is ordered
// oldest first.
func OpenHolds(entries []models.Transaction) []models.Transaction {
	closed := make(map[int64]bool)
	for _, entry := range entries {
		if entry.TransactionType == models.TransactionReturn && entry.ReturnsID != nil {
			closed[*entry.ReturnsID] = true
		}
	}

	open := make([]models.Transaction, 0)
	for _, entry := range entries {
		if entry.IsHold() && !closed[entry.ID] {
			open = append(open, entry)
		}
	}
	sortOldestFirst(open)
	return open
}

// OldestOpenHold selects the hold a return closes: the oldest by creation
// time, ties broken by lowest ID.
func OldestOpenHold(holds []models.Transaction, bookID, userID int64) *models.Transaction {
	var oldest *models.Transaction
	for i := range holds {
		h := &holds[i]
		if !h.IsHold() || h.BookID != bookID || h.UserID != userID {
			continue
		}
		if oldest == nil || olderThan(h, oldest) {
			oldest = h
		}
	}
	return oldest
}

func olderThan(a, b *models.Transaction) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func sortOldestFirst(entries []models.Transaction) {
	sort.SliceStable(entries, func(i, j int) bool {
		return olderThan(&entries[i], &entries[j])
	})
}

// String renders an outcome for logs
func (o *Outcome) String() string {
	return fmt.Sprintf("%s: quantity=%d status=%s", o.Entry.TransactionType, o.Quantity, o.AvailabilityStatus)
}
