package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"library-service/internal/lifecycle"
	"library-service/internal/models"

	"github.com/gosimple/slug"
)

// MemoryStore is an in-process Repository with the same semantics as the
// Postgres store. A single mutex serialises every write, which stands in
// for the row lock.
type MemoryStore struct {
	mu sync.Mutex

	nextID       int64
	users        map[int64]*models.User
	categories   map[int64]*models.Category
	books        map[int64]*models.Book
	reviews      map[int64]*models.Review
	transactions []models.Transaction
	wishlists    map[int64]*models.Wishlist // keyed by user ID
	wishlisted   map[int64]map[int64]time.Time

	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]*models.User),
		categories: make(map[int64]*models.Category),
		books:      make(map[int64]*models.Book),
		reviews:    make(map[int64]*models.Review),
		wishlists:  make(map[int64]*models.Wishlist),
		wishlisted: make(map[int64]map[int64]time.Time),
		now:        time.Now,
	}
}

func (m *MemoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) CreateCategory(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if category.Slug == "" {
		category.Slug = slug.Make(category.Name)
	}
	for _, c := range m.categories {
		if c.Slug == category.Slug {
			return lifecycle.Validation("category slug already exists: %s", category.Slug)
		}
	}
	category.ID = m.id()
	c := *category
	m.categories[c.ID] = &c
	return nil
}

func (m *MemoryStore) DeleteCategory(ctx context.Context, categorySlug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, c := range m.categories {
		if c.Slug != categorySlug {
			continue
		}
		delete(m.categories, id)
		for bookID, b := range m.books {
			if b.CategoryID == id {
				m.deleteBookLocked(bookID)
			}
		}
		return nil
	}
	return lifecycle.NotFound("category not found: %s", categorySlug)
}

func (m *MemoryStore) deleteBookLocked(bookID int64) {
	delete(m.books, bookID)
	for id, r := range m.reviews {
		if r.BookID == bookID {
			delete(m.reviews, id)
		}
	}
	kept := m.transactions[:0]
	for _, t := range m.transactions {
		if t.BookID != bookID {
			kept = append(kept, t)
		}
	}
	m.transactions = kept
	for _, members := range m.wishlisted {
		delete(members, bookID)
	}
}

func (m *MemoryStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[int64]int)
	for _, b := range m.books {
		counts[b.CategoryID]++
	}
	categories := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		cat := *c
		cat.BookCount = counts[c.ID]
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *MemoryStore) CreateBook(ctx context.Context, book *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[book.CategoryID]; !ok {
		return lifecycle.NotFound("category not found: %d", book.CategoryID)
	}
	if book.Slug == "" {
		book.Slug = slug.Make(book.Title)
	}
	for _, b := range m.books {
		if b.Slug == book.Slug || b.ISBN == book.ISBN {
			return lifecycle.Validation("book slug or isbn already exists: %s", book.Slug)
		}
	}
	if book.AvailabilityStatus == "" {
		book.AvailabilityStatus = lifecycle.NextStatus(book.Quantity, "")
	}
	now := m.now()
	book.ID = m.id()
	book.Version = 1
	book.CreatedAt = now
	book.UpdatedAt = now
	b := *book
	m.books[b.ID] = &b
	return nil
}

func (m *MemoryStore) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok {
		return nil, lifecycle.NotFound("book not found: %d", id)
	}
	book := *b
	return &book, nil
}

func (m *MemoryStore) GetBookBySlug(ctx context.Context, bookSlug string) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.books {
		if b.Slug == bookSlug {
			book := *b
			return &book, nil
		}
	}
	return nil, lifecycle.NotFound("book not found: %s", bookSlug)
}

func (m *MemoryStore) ListBooks(ctx context.Context, filter BookFilter) (*BookPage, error) {
	filter = filter.normalize()

	m.mu.Lock()
	defer m.mu.Unlock()

	var categoryID int64 = -1
	if filter.CategorySlug != "" {
		for _, c := range m.categories {
			if c.Slug == filter.CategorySlug {
				categoryID = c.ID
			}
		}
	}
	search := strings.ToLower(filter.Search)

	matched := make([]models.Book, 0)
	for _, b := range m.books {
		if filter.CategorySlug != "" && b.CategoryID != categoryID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(b.Title), search) &&
			!strings.Contains(strings.ToLower(b.Author), search) &&
			!strings.Contains(strings.ToLower(b.Description), search) {
			continue
		}
		switch filter.Availability {
		case FilterAvailable:
			if b.AvailabilityStatus != models.AvailabilityAvailable {
				continue
			}
		case FilterBorrowed:
			if b.AvailabilityStatus != models.AvailabilityBorrowed && b.AvailabilityStatus != models.AvailabilityRented {
				continue
			}
		}
		matched = append(matched, *b)
	}
	sortBooks(matched, filter.Sort)

	page, totalPages := clampPage(filter.Page, len(matched), filter.PageSize)
	start := (page - 1) * filter.PageSize
	end := start + filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return &BookPage{
		Books:      matched[start:end],
		Page:       page,
		PageSize:   filter.PageSize,
		Total:      len(matched),
		TotalPages: totalPages,
	}, nil
}

func (m *MemoryStore) FeaturedBooks(ctx context.Context, limit int) ([]models.Book, error) {
	books, err := m.GetAllBooks(ctx)
	if err != nil {
		return nil, err
	}
	featured := make([]models.Book, 0, limit)
	for _, b := range books {
		if len(featured) == limit {
			break
		}
		if b.IsAvailable() {
			featured = append(featured, b)
		}
	}
	return featured, nil
}

func (m *MemoryStore) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	books := make([]models.Book, 0, len(m.books))
	for _, b := range m.books {
		books = append(books, *b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (m *MemoryStore) UpdateCoverImage(ctx context.Context, bookID int64, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[bookID]
	if !ok {
		return lifecycle.NotFound("book not found: %d", bookID)
	}
	b.CoverImage = path
	b.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) ClearCatalog(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.categories = make(map[int64]*models.Category)
	m.books = make(map[int64]*models.Book)
	m.reviews = make(map[int64]*models.Review)
	m.transactions = nil
	m.wishlisted = make(map[int64]map[int64]time.Time)
	return nil
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			u.Email = user.Email
			*user = *u
			return nil
		}
	}
	user.ID = m.id()
	user.CreatedAt = m.now()
	u := *user
	m.users[u.ID] = &u
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, lifecycle.NotFound("user not found: %d", id)
	}
	user := *u
	return &user, nil
}

func (m *MemoryStore) ApplyAction(ctx context.Context, bookID, userID int64, decide DecideFunc) (*ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.books[bookID]
	if !ok {
		return nil, lifecycle.NotFound("book not found: %d", bookID)
	}
	if _, ok := m.users[userID]; !ok {
		return nil, lifecycle.NotFound("user not found: %d", userID)
	}
	book := *stored

	outcome, err := decide(&book, m.openHoldsLocked(userID, bookID))
	if err != nil {
		return nil, err
	}
	entry := outcome.Entry
	entry.ID = m.id()
	m.transactions = append(m.transactions, entry)

	outcome.Apply(&book)
	book.Version++
	book.UpdatedAt = m.now()
	*stored = book

	return &ActionResult{Book: &book, Transaction: &entry}, nil
}

// openHoldsLocked returns the user's open holds, optionally for one book, oldest first
func (m *MemoryStore) openHoldsLocked(userID, bookID int64) []models.Transaction {
	var mine []models.Transaction
	for _, t := range m.transactions {
		if t.UserID == userID && (bookID == 0 || t.BookID == bookID) {
			mine = append(mine, t)
		}
	}
	return lifecycle.OpenHolds(mine)
}

func (m *MemoryStore) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.transactions {
		if t.ID == id {
			entry := t
			return &entry, nil
		}
	}
	return nil, lifecycle.NotFound("transaction not found: %d", id)
}

func (m *MemoryStore) ListOpenHolds(ctx context.Context, userID int64) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	holds := m.openHoldsLocked(userID, 0)
	for i, j := 0, len(holds)-1; i < j; i, j = i+1, j-1 {
		holds[i], holds[j] = holds[j], holds[i]
	}
	return holds, nil
}

func (m *MemoryStore) CountLoans(ctx context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, t := range m.transactions {
		if t.UserID == userID && (t.TransactionType == models.TransactionBorrow || t.TransactionType == models.TransactionRent) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) SaveReview(ctx context.Context, review *models.Review) (*ReviewResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.books[review.BookID]
	if !ok {
		return nil, lifecycle.NotFound("book not found: %d", review.BookID)
	}
	if _, ok := m.users[review.UserID]; !ok {
		return nil, lifecycle.NotFound("user not found: %d", review.UserID)
	}

	now := m.now()
	created := true
	for _, r := range m.reviews {
		if r.BookID == review.BookID && r.UserID == review.UserID {
			r.Rating = review.Rating
			r.Comment = review.Comment
			r.UpdatedAt = now
			*review = *r
			created = false
			break
		}
	}
	if created {
		review.ID = m.id()
		review.CreatedAt = now
		review.UpdatedAt = now
		r := *review
		m.reviews[r.ID] = &r
	}

	var ratings []int
	for _, r := range m.reviews {
		if r.BookID == review.BookID {
			ratings = append(ratings, r.Rating)
		}
	}
	stored.Rating, stored.TotalReviews = lifecycle.AggregateRatings(ratings)
	stored.Version++
	stored.UpdatedAt = now

	book := *stored
	saved := *review
	return &ReviewResult{Review: &saved, Book: &book, Created: created}, nil
}

func (m *MemoryStore) ListReviewsByBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	return m.listReviews(func(r *models.Review) bool { return r.BookID == bookID }, 0), nil
}

func (m *MemoryStore) ListReviewsByUser(ctx context.Context, userID int64, limit int) ([]models.Review, error) {
	return m.listReviews(func(r *models.Review) bool { return r.UserID == userID }, limit), nil
}

func (m *MemoryStore) listReviews(match func(*models.Review) bool, limit int) []models.Review {
	m.mu.Lock()
	defer m.mu.Unlock()

	reviews := make([]models.Review, 0)
	for _, r := range m.reviews {
		if match(r) {
			reviews = append(reviews, *r)
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		}
		return reviews[i].ID > reviews[j].ID
	})
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews
}

func (m *MemoryStore) GetOrCreateWishlist(ctx context.Context, userID int64) (*models.Wishlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return nil, lifecycle.NotFound("user not found: %d", userID)
	}
	w, ok := m.wishlists[userID]
	if !ok {
		w = &models.Wishlist{ID: m.id(), UserID: userID, CreatedAt: m.now()}
		m.wishlists[userID] = w
		m.wishlisted[w.ID] = make(map[int64]time.Time)
	}

	wishlist := *w
	wishlist.Books = []models.Book{}
	members := m.wishlisted[w.ID]
	for bookID := range members {
		if b, ok := m.books[bookID]; ok {
			wishlist.Books = append(wishlist.Books, *b)
		}
	}
	sort.Slice(wishlist.Books, func(i, j int) bool {
		return members[wishlist.Books[i].ID].After(members[wishlist.Books[j].ID])
	})
	return &wishlist, nil
}

func (m *MemoryStore) AddToWishlist(ctx context.Context, wishlistID, bookID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[bookID]; !ok {
		return false, lifecycle.NotFound("book not found: %d", bookID)
	}
	members, ok := m.wishlisted[wishlistID]
	if !ok {
		members = make(map[int64]time.Time)
		m.wishlisted[wishlistID] = members
	}
	if _, exists := members[bookID]; exists {
		return false, nil
	}
	members[bookID] = m.now()
	return true, nil
}

func (m *MemoryStore) RemoveFromWishlist(ctx context.Context, wishlistID, bookID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members := m.wishlisted[wishlistID]
	if _, exists := members[bookID]; !exists {
		return false, nil
	}
	delete(members, bookID)
	return true, nil
}

func (m *MemoryStore) IsWishlisted(ctx context.Context, userID, bookID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wishlists[userID]
	if !ok {
		return false, nil
	}
	_, exists := m.wishlisted[w.ID][bookID]
	return exists, nil
}
