package service

import (
	"context"

	"library-service/internal/models"
	"library-service/internal/store"
	"library-service/internal/util"

	"go.uber.org/zap"
)

const (
	FeaturedLimit      = 8
	RecentReviewsLimit = 5
)

// CatalogService serves the read side: listings, book detail and the dashboard
type CatalogService struct {
	repo     store.Repository
	pageSize int
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo store.Repository, pageSize int) *CatalogService {
	if pageSize <= 0 {
		pageSize = store.DefaultPageSize
	}
	return &CatalogService{repo: repo, pageSize: pageSize, logger: util.GetLogger()}
}

// BookDetail is a book with its reviews and the viewer's wishlist state
type BookDetail struct {
	Book         *models.Book    `json:"book"`
	Reviews      []models.Review `json:"reviews"`
	IsWishlisted bool            `json:"is_wishlisted"`
}

// Holding is an open borrow or rental together with its book
type Holding struct {
	Transaction models.Transaction `json:"transaction"`
	Book        *models.Book       `json:"book"`
}

// Dashboard summarises one user's activity
type Dashboard struct {
	User          *models.User    `json:"user"`
	Holdings      []Holding       `json:"holdings"`
	TotalLoans    int             `json:"total_loans"`
	Wishlist      []models.Book   `json:"wishlist"`
	RecentReviews []models.Review `json:"recent_reviews"`
}

// ListBooks returns one page of the catalog
func (s *CatalogService) ListBooks(ctx context.Context, filter store.BookFilter) (*store.BookPage, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListBooks")
	defer span.End()

	filter.PageSize = s.pageSize
	return s.repo.ListBooks(ctx, filter)
}

// ListCategories returns all categories with book counts
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListCategories")
	defer span.End()

	return s.repo.ListCategories(ctx)
}

// DeleteCategory removes a category together with all of its books
func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteCategory")
	defer span.End()

	if err := s.repo.DeleteCategory(ctx, slug); err != nil {
		return err
	}
	s.logger.Warn("Category deleted with its books", zap.String("slug", slug))
	return nil
}

// Featured returns up to FeaturedLimit available books
func (s *CatalogService) Featured(ctx context.Context) ([]models.Book, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Featured")
	defer span.End()

	return s.repo.FeaturedBooks(ctx, FeaturedLimit)
}

// BookDetail loads a book by slug. userID 0 means an anonymous viewer.
func (s *CatalogService) BookDetail(ctx context.Context, slug string, userID int64) (*BookDetail, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.BookDetail")
	defer span.End()

	book, err := s.repo.GetBookBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repo.ListReviewsByBook(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	detail := &BookDetail{Book: book, Reviews: reviews}
	if userID != 0 {
		detail.IsWishlisted, err = s.repo.IsWishlisted(ctx, userID, book.ID)
		if err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// Dashboard gathers the user's open holdings, loan count, wishlist and recent reviews
func (s *CatalogService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Dashboard")
	defer span.End()

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	holds, err := s.repo.ListOpenHolds(ctx, userID)
	if err != nil {
		return nil, err
	}
	holdings := make([]Holding, 0, len(holds))
	for _, hold := range holds {
		book, err := s.repo.GetBookByID(ctx, hold.BookID)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, Holding{Transaction: hold, Book: book})
	}

	totalLoans, err := s.repo.CountLoans(ctx, userID)
	if err != nil {
		return nil, err
	}
	wishlist, err := s.repo.GetOrCreateWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repo.ListReviewsByUser(ctx, userID, RecentReviewsLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		User:          user,
		Holdings:      holdings,
		TotalLoans:    totalLoans,
		Wishlist:      wishlist.Books,
		RecentReviews: reviews,
	}, nil
}
