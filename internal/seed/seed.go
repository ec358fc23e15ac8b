// Package seed loads the sample catalog into a store.
package seed

import (
	"context"
	"fmt"
	"time"

	"library-service/internal/models"
	"library-service/internal/store"
	"library-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CategorySpec describes one sample category
type CategorySpec struct {
	Name        string
	Description string
	Icon        string
}

// BookSpec describes one sample book. Prices are decimal strings and the
// publication date is YYYY-MM-DD.
type BookSpec struct {
	Title           string
	Author          string
	Category        string
	Description     string
	ISBN            string
	PublicationDate string
	Publisher       string
	Pages           int
	Language        string
	Price           string
	RentalPrice     string
	Quantity        int
}

// DemoUser is created so the sample catalog can be exercised immediately
var DemoUser = models.User{Username: "demo", Email: "demo@example.com"}

// Result counts what a load created
type Result struct {
	Categories int
	Books      int
	User       *models.User
}

// Load clears the catalog and inserts the given categories and books. The
// demo user is created if missing and kept across reloads.
func Load(ctx context.Context, repo store.Repository, categories []CategorySpec, books []BookSpec) (*Result, error) {
	logger := util.GetLogger()

	if err := repo.ClearCatalog(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear catalog: %w", err)
	}

	ids := make(map[string]int64, len(categories))
	for _, spec := range categories {
		category := &models.Category{Name: spec.Name, Description: spec.Description, Icon: spec.Icon}
		if err := repo.CreateCategory(ctx, category); err != nil {
			return nil, fmt.Errorf("failed to create category %q: %w", spec.Name, err)
		}
		ids[spec.Name] = category.ID
		logger.Info("Created category", zap.String("name", category.Name), zap.String("slug", category.Slug))
	}

	for _, spec := range books {
		book, err := spec.toBook(ids)
		if err != nil {
			return nil, err
		}
		if err := repo.CreateBook(ctx, book); err != nil {
			return nil, fmt.Errorf("failed to create book %q: %w", spec.Title, err)
		}
		logger.Info("Created book", zap.String("title", book.Title), zap.String("slug", book.Slug))
	}

	user := DemoUser
	if err := repo.CreateUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}

	return &Result{Categories: len(categories), Books: len(books), User: &user}, nil
}

func (spec BookSpec) toBook(categories map[string]int64) (*models.Book, error) {
	categoryID, ok := categories[spec.Category]
	if !ok {
		return nil, fmt.Errorf("book %q references unknown category %q", spec.Title, spec.Category)
	}
	published, err := time.Parse("2006-01-02", spec.PublicationDate)
	if err != nil {
		return nil, fmt.Errorf("book %q: invalid publication date: %w", spec.Title, err)
	}
	price, err := decimal.NewFromString(spec.Price)
	if err != nil {
		return nil, fmt.Errorf("book %q: invalid price: %w", spec.Title, err)
	}

	book := &models.Book{
		Title:           spec.Title,
		Author:          spec.Author,
		CategoryID:      categoryID,
		Description:     spec.Description,
		ISBN:            spec.ISBN,
		PublicationDate: published,
		Publisher:       spec.Publisher,
		Pages:           spec.Pages,
		Language:        spec.Language,
		Price:           price,
		Quantity:        spec.Quantity,
	}
	if spec.RentalPrice != "" {
		rental, err := decimal.NewFromString(spec.RentalPrice)
		if err != nil {
			return nil, fmt.Errorf("book %q: invalid rental price: %w", spec.Title, err)
		}
		book.RentalPrice = decimal.NewNullDecimal(rental)
	}
	return book, nil
}
