package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the minimal identity the catalog references
type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Category groups books; deleting one cascades to its books
type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Slug        string `db:"slug" json:"slug"`
	Icon        string `db:"icon" json:"icon"`
	BookCount   int    `db:"book_count" json:"book_count,omitempty"`
}

// Book represents a catalog entry together with its stock state
type Book struct {
	ID                 int64               `db:"id" json:"id"`
	Title              string              `db:"title" json:"title"`
	Author             string              `db:"author" json:"author"`
	Slug               string              `db:"slug" json:"slug"`
	CategoryID         int64               `db:"category_id" json:"category_id"`
	Description        string              `db:"description" json:"description"`
	ISBN               string              `db:"isbn" json:"isbn"`
	CoverImage         string              `db:"cover_image" json:"cover_image"`
	PublicationDate    time.Time           `db:"publication_date" json:"publication_date"`
	Publisher          string              `db:"publisher" json:"publisher"`
	Pages              int                 `db:"pages" json:"pages"`
	Language           string              `db:"language" json:"language"`
	Price              decimal.Decimal     `db:"price" json:"price"`
	RentalPrice        decimal.NullDecimal `db:"rental_price" json:"rental_price"`
	AvailabilityStatus string              `db:"availability_status" json:"availability_status"`
	LastAction         string              `db:"last_action" json:"-"`
	Quantity           int                 `db:"quantity" json:"quantity"`
	Rating             decimal.Decimal     `db:"rating" json:"rating"`
	TotalReviews       int                 `db:"total_reviews" json:"total_reviews"`
	Version            int                 `db:"version" json:"version"`
	CreatedAt          time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time           `db:"updated_at" json:"updated_at"`
}

// IsAvailable reports whether the book can currently be borrowed, rented or purchased
func (b *Book) IsAvailable() bool {
	return b.AvailabilityStatus == AvailabilityAvailable
}

// Review is a user's rating of a book; at most one per (book, user)
type Review struct {
	ID        int64     `db:"id" json:"id"`
	BookID    int64     `db:"book_id" json:"book_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is one immutable ledger entry. A return entry points at
// the borrow/rent entry it closes through ReturnsID.
type Transaction struct {
	ID              int64           `db:"id" json:"id"`
	TransactionType string          `db:"transaction_type" json:"transaction_type"`
	BookID          int64           `db:"book_id" json:"book_id"`
	UserID          int64           `db:"user_id" json:"user_id"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	DueDate         *time.Time      `db:"due_date" json:"due_date,omitempty"`
	ReturnDate      *time.Time      `db:"return_date" json:"return_date,omitempty"`
	ReturnsID       *int64          `db:"returns_id" json:"returns_id,omitempty"`
	Status          string          `db:"status" json:"status"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// IsHold reports whether the entry represents a copy taken out of stock
// that is expected to come back
func (t *Transaction) IsHold() bool {
	return (t.TransactionType == TransactionBorrow || t.TransactionType == TransactionRent) &&
		t.Status == TransactionStatusCompleted
}

// Wishlist is a user's unordered set of books
type Wishlist struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Books     []Book    `db:"-" json:"books"`
}

// Availability statuses
const (
	AvailabilityAvailable = "available"
	AvailabilityBorrowed  = "borrowed"
	AvailabilityRented    = "rented"
	AvailabilitySold      = "sold"
)

// Transaction types
const (
	TransactionBorrow   = "borrow"
	TransactionRent     = "rent"
	TransactionPurchase = "purchase"
	TransactionReturn   = "return"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
)
