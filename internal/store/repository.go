package store

import (
	"context"
	"sort"
	"strings"

	"library-service/internal/lifecycle"
	"library-service/internal/models"
)

// DecideFunc receives the locked book and the user's open holds for it and
// returns the mutation to persist. Returning an error aborts with nothing written.
type DecideFunc func(book *models.Book, holds []models.Transaction) (*lifecycle.Outcome, error)

// ActionResult is the committed state after a lifecycle action
type ActionResult struct {
	Book        *models.Book
	Transaction *models.Transaction
}

// ReviewResult is the committed state after a review save
type ReviewResult struct {
	Review  *models.Review
	Book    *models.Book
	Created bool
}

// BookFilter narrows a catalog listing
type BookFilter struct {
	CategorySlug string
	Search       string
	Availability string
	Sort         string
	Page         int
	PageSize     int
}

// BookPage is one page of a catalog listing
type BookPage struct {
	Books      []models.Book `json:"books"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// Repository is the persistence contract shared by the Postgres and in-memory stores
type Repository interface {
	// Catalog
	CreateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, slug string) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateBook(ctx context.Context, book *models.Book) error
	GetBookByID(ctx context.Context, id int64) (*models.Book, error)
	GetBookBySlug(ctx context.Context, slug string) (*models.Book, error)
	ListBooks(ctx context.Context, filter BookFilter) (*BookPage, error)
	FeaturedBooks(ctx context.Context, limit int) ([]models.Book, error)
	GetAllBooks(ctx context.Context) ([]models.Book, error)
	UpdateCoverImage(ctx context.Context, bookID int64, path string) error
	ClearCatalog(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// Ledger
	ApplyAction(ctx context.Context, bookID, userID int64, decide DecideFunc) (*ActionResult, error)
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	ListOpenHolds(ctx context.Context, userID int64) ([]models.Transaction, error)
	CountLoans(ctx context.Context, userID int64) (int, error)

	// Reviews
	SaveReview(ctx context.Context, review *models.Review) (*ReviewResult, error)
	ListReviewsByBook(ctx context.Context, bookID int64) ([]models.Review, error)
	ListReviewsByUser(ctx context.Context, userID int64, limit int) ([]models.Review, error)

	// Wishlist
	GetOrCreateWishlist(ctx context.Context, userID int64) (*models.Wishlist, error)
	AddToWishlist(ctx context.Context, wishlistID, bookID int64) (bool, error)
	RemoveFromWishlist(ctx context.Context, wishlistID, bookID int64) (bool, error)
	IsWishlisted(ctx context.Context, userID, bookID int64) (bool, error)

	Close() error
}

const DefaultPageSize = 12

// Sort orders accepted by ListBooks
const (
	SortNewest  = "newest"
	SortRating  = "rating"
	SortTitle   = "title"
	SortPopular = "popular"
)

// Availability filters accepted by ListBooks
const (
	FilterAvailable = "available"
	FilterBorrowed  = "borrowed"
)

// normalize fills defaults and lowercases the enumerated fields
func (f BookFilter) normalize() BookFilter {
	f.Sort = strings.ToLower(strings.TrimSpace(f.Sort))
	switch f.Sort {
	case SortNewest, SortRating, SortTitle, SortPopular:
	default:
		f.Sort = SortNewest
	}
	f.Availability = strings.ToLower(strings.TrimSpace(f.Availability))
	f.Search = strings.TrimSpace(f.Search)
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	return f
}

// clampPage keeps page inside [1, last page]
func clampPage(page, total, pageSize int) (int, int) {
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}

func sortBooks(books []models.Book, order string) {
	sort.SliceStable(books, func(i, j int) bool {
		a, b := books[i], books[j]
		switch order {
		case SortRating:
			if !a.Rating.Equal(b.Rating) {
				return a.Rating.GreaterThan(b.Rating)
			}
		case SortTitle:
			if a.Title != b.Title {
				return a.Title < b.Title
			}
			return a.ID < b.ID
		case SortPopular:
			if a.TotalReviews != b.TotalReviews {
				return a.TotalReviews > b.TotalReviews
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
