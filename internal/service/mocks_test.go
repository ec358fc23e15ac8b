package service

import (
	"context"
	"testing"
	"time"

	"library-service/internal/lifecycle"
	"library-service/internal/models"
	"library-service/internal/redisclient"
	"library-service/internal/store"
	"library-service/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	util.SetLogger(zap.NewNop())
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishInventoryChanged(ctx context.Context, event *models.InventoryChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishReviewRecorded(ctx context.Context, event *models.ReviewRecordedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockCache is a mock implementation of Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) SetAvailability(ctx context.Context, bookID int64, a redisclient.Availability) (bool, error) {
	args := m.Called(ctx, bookID, a)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) GetAvailability(ctx context.Context, bookID int64) (redisclient.Availability, bool, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(redisclient.Availability), args.Bool(1), args.Error(2)
}

func (m *MockCache) SetIdempotencyKey(ctx context.Context, userID int64, key string, transactionID int64, ttl time.Duration) error {
	args := m.Called(ctx, userID, key, transactionID, ttl)
	return args.Error(0)
}

func (m *MockCache) GetIdempotencyKey(ctx context.Context, userID int64, key string) (int64, bool, error) {
	args := m.Called(ctx, userID, key)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockCache) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, token, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseLock(ctx context.Context, key, token string) error {
	args := m.Called(ctx, key, token)
	return args.Error(0)
}

type fixture struct {
	repo *store.MemoryStore
	book *models.Book
	user *models.User
}

// newFixture seeds one category, one user and one book with the given stock
func newFixture(t *testing.T, quantity int, rental *decimal.Decimal) *fixture {
	ctx := context.Background()
	repo := store.NewMemoryStore()

	category := &models.Category{Name: "Fiction"}
	require.NoError(t, repo.CreateCategory(ctx, category))

	book := &models.Book{
		Title:      "Pride and Prejudice",
		Author:     "Jane Austen",
		CategoryID: category.ID,
		ISBN:       "9780141439518",
		Price:      decimal.RequireFromString("9.99"),
		Quantity:   quantity,
	}
	if rental != nil {
		book.RentalPrice = decimal.NewNullDecimal(*rental)
	}
	require.NoError(t, repo.CreateBook(ctx, book))

	user := &models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, repo.CreateUser(ctx, user))

	return &fixture{repo: repo, book: book, user: user}
}

func newEngine() *lifecycle.Engine {
	return lifecycle.NewEngine(lifecycle.DefaultPolicy())
}
