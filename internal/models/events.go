package models

import "time"

// Event types
const (
	EventTypeBookBorrowed   = "BOOK_BORROWED"
	EventTypeBookRented     = "BOOK_RENTED"
	EventTypeBookPurchased  = "BOOK_PURCHASED"
	EventTypeBookReturned   = "BOOK_RETURNED"
	EventTypeReviewRecorded = "REVIEW_RECORDED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// InventoryChangedEvent published after every successful lifecycle action
type InventoryChangedEvent struct {
	BaseEvent
	BookID             int64  `json:"book_id"`
	UserID             int64  `json:"user_id"`
	TransactionID      int64  `json:"transaction_id"`
	TransactionType    string `json:"transaction_type"`
	Amount             string `json:"amount"`
	Quantity           int    `json:"quantity"`
	AvailabilityStatus string `json:"availability_status"`
	Version            int    `json:"version"`
}

// ReviewRecordedEvent published after a review is created or updated
type ReviewRecordedEvent struct {
	BaseEvent
	BookID       int64  `json:"book_id"`
	UserID       int64  `json:"user_id"`
	ReviewRating int    `json:"review_rating"`
	BookRating   string `json:"book_rating"`
	TotalReviews int    `json:"total_reviews"`
	Version      int    `json:"version"`
}

// EventTypeForTransaction maps a ledger entry type to its event type
func EventTypeForTransaction(transactionType string) string {
	switch transactionType {
	case TransactionBorrow:
		return EventTypeBookBorrowed
	case TransactionRent:
		return EventTypeBookRented
	case TransactionPurchase:
		return EventTypeBookPurchased
	case TransactionReturn:
		return EventTypeBookReturned
	}
	return ""
}
