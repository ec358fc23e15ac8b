package lifecycle

import (
	"errors"
	"testing"
	"time"

	"library-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newBook(quantity int, rental *decimal.Decimal) *models.Book {
	b := &models.Book{
		ID:                 7,
		Title:              "Dune",
		Price:              decimal.RequireFromString("18.99"),
		AvailabilityStatus: models.AvailabilityAvailable,
		Quantity:           quantity,
	}
	if rental != nil {
		b.RentalPrice = decimal.NewNullDecimal(*rental)
	}
	return b
}

func TestBorrow_Success(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	book := newBook(2, nil)

	out, err := engine.Borrow(book, 1, now)

	require.NoError(t, err)
	assert.Equal(t, 1, out.Quantity)
	assert.Equal(t, models.AvailabilityAvailable, out.AvailabilityStatus)
	assert.Equal(t, models.TransactionBorrow, out.Entry.TransactionType)
	assert.True(t, out.Entry.Amount.IsZero())
	require.NotNil(t, out.Entry.DueDate)
	assert.Equal(t, now.Add(14*24*time.Hour), *out.Entry.DueDate)
	assert.Equal(t, models.TransactionStatusCompleted, out.Entry.Status)
	// the engine never mutates its input
	assert.Equal(t, 2, book.Quantity)
}

func TestBorrow_LastCopyMarksBorrowed(t *testing.T) {
	engine := NewEngine(DefaultPolicy())

	out, err := engine.Borrow(newBook(1, nil), 1, now)

	require.NoError(t, err)
	assert.Equal(t, 0, out.Quantity)
	assert.Equal(t, models.AvailabilityBorrowed, out.AvailabilityStatus)
}

func TestActions_ZeroQuantityUnavailable(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	rental := decimal.RequireFromString("2.99")

	for _, action := range []string{models.TransactionBorrow, models.TransactionRent, models.TransactionPurchase} {
		t.Run(action, func(t *testing.T) {
			book := newBook(0, &rental)
			out, err := engine.Decide(action, book, 1, nil, now)

			assert.Nil(t, out)
			assert.True(t, errors.Is(err, ErrUnavailable))
			assert.Equal(t, KindUnavailable, KindOf(err))
			assert.Equal(t, 0, book.Quantity)
			assert.Equal(t, models.AvailabilityAvailable, book.AvailabilityStatus)
		})
	}
}

func TestActions_NonAvailableStatusUnavailable(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	book := newBook(3, nil)
	book.AvailabilityStatus = models.AvailabilitySold

	_, err := engine.Purchase(book, 1, now)

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRent_NotRentableRegardlessOfQuantity(t *testing.T) {
	engine := NewEngine(DefaultPolicy())

	for _, quantity := range []int{0, 1, 5} {
		_, err := engine.Rent(newBook(quantity, nil), 1, now)
		assert.ErrorIs(t, err, ErrNotRentable)
	}

	zero := decimal.Zero
	_, err := engine.Rent(newBook(1, &zero), 1, now)
	assert.ErrorIs(t, err, ErrNotRentable)
}

func TestRent_Success(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	rental := decimal.RequireFromString("3.49")

	out, err := engine.Rent(newBook(1, &rental), 1, now)

	require.NoError(t, err)
	assert.Equal(t, 0, out.Quantity)
	assert.Equal(t, models.AvailabilityRented, out.AvailabilityStatus)
	assert.True(t, rental.Equal(out.Entry.Amount))
	assert.Equal(t, now.Add(7*24*time.Hour), *out.Entry.DueDate)
}

func TestPurchase_Success(t *testing.T) {
	engine := NewEngine(DefaultPolicy())

	out, err := engine.Purchase(newBook(1, nil), 1, now)

	require.NoError(t, err)
	assert.Equal(t, 0, out.Quantity)
	assert.Equal(t, models.AvailabilitySold, out.AvailabilityStatus)
	assert.Equal(t, "18.99", out.Entry.Amount.StringFixed(2))
	assert.Nil(t, out.Entry.DueDate)
}

func TestReturn_NoHold(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	purchase := models.Transaction{ID: 1, TransactionType: models.TransactionPurchase, BookID: 7, UserID: 1, Status: models.TransactionStatusCompleted}

	_, err := engine.Return(newBook(0, nil), 1, []models.Transaction{purchase}, now)

	assert.ErrorIs(t, err, ErrNoActiveTransaction)
}

func TestReturn_PicksOldestHold(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	holds := []models.Transaction{
		{ID: 9, TransactionType: models.TransactionRent, BookID: 7, UserID: 1, Status: models.TransactionStatusCompleted, CreatedAt: now.Add(-time.Hour)},
		{ID: 4, TransactionType: models.TransactionBorrow, BookID: 7, UserID: 1, Status: models.TransactionStatusCompleted, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, TransactionType: models.TransactionBorrow, BookID: 7, UserID: 2, Status: models.TransactionStatusCompleted, CreatedAt: now.Add(-3 * time.Hour)},
	}

	out, err := engine.Return(newBook(0, nil), 1, holds, now)

	require.NoError(t, err)
	require.NotNil(t, out.Entry.ReturnsID)
	assert.Equal(t, int64(4), *out.Entry.ReturnsID)
	assert.Equal(t, 1, out.Quantity)
	assert.Equal(t, models.AvailabilityAvailable, out.AvailabilityStatus)
	assert.Equal(t, now, *out.Entry.ReturnDate)
}

func TestScenario_RentFailsBorrowThenReturn(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	book := newBook(1, nil)

	_, err := engine.Rent(book, 1, now)
	require.ErrorIs(t, err, ErrNotRentable)
	assert.Equal(t, 1, book.Quantity)

	out, err := engine.Borrow(book, 1, now)
	require.NoError(t, err)
	out.Apply(book)
	hold := out.Entry
	hold.ID = 1
	assert.Equal(t, 0, book.Quantity)
	assert.Equal(t, models.AvailabilityBorrowed, book.AvailabilityStatus)

	later := now.Add(time.Hour)
	out, err = engine.Return(book, 1, OpenHolds([]models.Transaction{hold}), later)
	require.NoError(t, err)
	out.Apply(book)
	ret := out.Entry
	ret.ID = 2

	assert.Equal(t, 1, book.Quantity)
	assert.Equal(t, models.AvailabilityAvailable, book.AvailabilityStatus)
	assert.Equal(t, models.TransactionReturn, ret.TransactionType)
	assert.Equal(t, later, *ret.ReturnDate)
	// the original hold stays a borrow; it is closed by reference
	assert.Equal(t, models.TransactionBorrow, hold.TransactionType)
	assert.Empty(t, OpenHolds([]models.Transaction{hold, ret}))

	_, err = engine.Return(book, 1, OpenHolds([]models.Transaction{hold, ret}), later)
	assert.ErrorIs(t, err, ErrNoActiveTransaction)
}

func TestSoldBookBecomesAvailableOnlyThroughOtherHolds(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	book := newBook(2, nil)

	out, err := engine.Borrow(book, 1, now)
	require.NoError(t, err)
	out.Apply(book)
	hold := out.Entry
	hold.ID = 1

	out, err = engine.Purchase(book, 2, now.Add(time.Minute))
	require.NoError(t, err)
	out.Apply(book)
	assert.Equal(t, models.AvailabilitySold, book.AvailabilityStatus)

	// the buyer holds nothing
	_, err = engine.Return(book, 2, []models.Transaction{hold}, now)
	assert.ErrorIs(t, err, ErrNoActiveTransaction)

	out, err = engine.Return(book, 1, []models.Transaction{hold}, now)
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityAvailable, out.AvailabilityStatus)
	assert.Equal(t, 1, out.Quantity)
}

func TestNextStatus(t *testing.T) {
	assert.Equal(t, models.AvailabilityAvailable, NextStatus(3, models.TransactionBorrow))
	assert.Equal(t, models.AvailabilityBorrowed, NextStatus(0, models.TransactionBorrow))
	assert.Equal(t, models.AvailabilityRented, NextStatus(0, models.TransactionRent))
	assert.Equal(t, models.AvailabilitySold, NextStatus(0, models.TransactionPurchase))
	assert.Equal(t, models.AvailabilitySold, NextStatus(0, ""))
}

func TestDecide_UnknownAction(t *testing.T) {
	_, err := NewEngine(Policy{}).Decide("lend", newBook(1, nil), 1, nil, now)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestNewEngine_DefaultsZeroPolicy(t *testing.T) {
	engine := NewEngine(Policy{})
	assert.Equal(t, DefaultPolicy(), engine.Policy())
}
