package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"library-service/internal/lifecycle"
	"library-service/internal/models"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const bookColumns = `id, title, author, slug, category_id, description, isbn, cover_image,
	publication_date, publisher, pages, language, price, rental_price, availability_status,
	last_action, quantity, rating, total_reviews, version, created_at, updated_at`

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Migrate applies the embedded schema migrations
func (s *Store) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	driver, err := postgres.WithInstance(s.db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// CreateCategory inserts a category, deriving its slug from the name when absent
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.Slug == "" {
		category.Slug = slug.Make(category.Name)
	}
	return s.db.GetContext(ctx, &category.ID,
		"INSERT INTO categories (name, description, slug, icon) VALUES ($1, $2, $3, $4) RETURNING id",
		category.Name, category.Description, category.Slug, category.Icon)
}

// DeleteCategory removes a category and, through the foreign key, all of its books
func (s *Store) DeleteCategory(ctx context.Context, categorySlug string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE slug = $1", categorySlug)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lifecycle.NotFound("category not found: %s", categorySlug)
	}
	return nil
}

// ListCategories retrieves all categories with their book counts
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories, `
		SELECT c.id, c.name, c.description, c.slug, c.icon, COUNT(b.id) AS book_count
		FROM categories c
		LEFT JOIN books b ON b.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name`)
	return categories, err
}

// CreateBook inserts a book, deriving its slug from the title when absent
func (s *Store) CreateBook(ctx context.Context, book *models.Book) error {
	if book.Slug == "" {
		book.Slug = slug.Make(book.Title)
	}
	if book.AvailabilityStatus == "" {
		book.AvailabilityStatus = lifecycle.NextStatus(book.Quantity, "")
	}
	query := `
		INSERT INTO books (title, author, slug, category_id, description, isbn, cover_image,
			publication_date, publisher, pages, language, price, rental_price,
			availability_status, quantity, rating, total_reviews)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, version, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		book.Title, book.Author, book.Slug, book.CategoryID, book.Description, book.ISBN,
		book.CoverImage, book.PublicationDate, book.Publisher, book.Pages, book.Language,
		book.Price, book.RentalPrice, book.AvailabilityStatus, book.Quantity, book.Rating,
		book.TotalReviews,
	).Scan(&book.ID, &book.Version, &book.CreatedAt, &book.UpdatedAt)
}

// GetBookByID retrieves a book by ID
func (s *Store) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	err := s.db.GetContext(ctx, &book, "SELECT "+bookColumns+" FROM books WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, lifecycle.NotFound("book not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBookBySlug retrieves a book by slug
func (s *Store) GetBookBySlug(ctx context.Context, bookSlug string) (*models.Book, error) {
	var book models.Book
	err := s.db.GetContext(ctx, &book, "SELECT "+bookColumns+" FROM books WHERE slug = $1", bookSlug)
	if err == sql.ErrNoRows {
		return nil, lifecycle.NotFound("book not found: %s", bookSlug)
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListBooks retrieves one filtered, sorted page of the catalog
func (s *Store) ListBooks(ctx context.Context, filter BookFilter) (*BookPage, error) {
	filter = filter.normalize()

	var where []string
	var args []interface{}
	if filter.CategorySlug != "" {
		where = append(where, "category_id IN (SELECT id FROM categories WHERE slug = ?)")
		args = append(args, filter.CategorySlug)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		where = append(where, `(title ILIKE ? ESCAPE '\' OR author ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	switch filter.Availability {
	case FilterAvailable:
		where = append(where, "availability_status = 'available'")
	case FilterBorrowed:
		where = append(where, "availability_status IN ('borrowed', 'rented')")
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.db.Rebind("SELECT COUNT(*) FROM books"+clause), args...); err != nil {
		return nil, err
	}

	page, totalPages := clampPage(filter.Page, total, filter.PageSize)
	query := "SELECT " + bookColumns + " FROM books" + clause +
		" ORDER BY " + orderBy(filter.Sort) + " LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (page-1)*filter.PageSize)

	books := []models.Book{}
	if err := s.db.SelectContext(ctx, &books, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	return &BookPage{
		Books:      books,
		Page:       page,
		PageSize:   filter.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func orderBy(sortOrder string) string {
	switch sortOrder {
	case SortRating:
		return "rating DESC, created_at DESC, id DESC"
	case SortTitle:
		return "title ASC, id ASC"
	case SortPopular:
		return "total_reviews DESC, created_at DESC, id DESC"
	}
	return "created_at DESC, id DESC"
}

// FeaturedBooks retrieves up to limit available books
func (s *Store) FeaturedBooks(ctx context.Context, limit int) ([]models.Book, error) {
	books := []models.Book{}
	err := s.db.SelectContext(ctx, &books,
		"SELECT "+bookColumns+" FROM books WHERE availability_status = 'available' ORDER BY id LIMIT $1", limit)
	return books, err
}

// GetAllBooks retrieves every book ordered by ID
func (s *Store) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	err := s.db.SelectContext(ctx, &books, "SELECT "+bookColumns+" FROM books ORDER BY id")
	return books, err
}

// UpdateCoverImage sets the stored cover path of a book
func (s *Store) UpdateCoverImage(ctx context.Context, bookID int64, path string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE books SET cover_image = $1, updated_at = NOW() WHERE id = $2", path, bookID)
	return err
}

// ClearCatalog deletes every category and, by cascade, every book and its dependents
func (s *Store) ClearCatalog(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "TRUNCATE categories, books, reviews, transactions, wishlist_books CASCADE")
	return err
}

// CreateUser inserts a user, or returns the existing one with the same username
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email) VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, created_at`
	return s.db.QueryRowxContext(ctx, query, user.Username, user.Email).Scan(&user.ID, &user.CreatedAt)
}

// GetUser retrieves a user by ID
func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT id, username, email, created_at FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, lifecycle.NotFound("user not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
