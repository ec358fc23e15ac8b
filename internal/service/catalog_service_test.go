package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"library-service/internal/lifecycle"
	"library-service/internal/models"
	"library-service/internal/redisclient"
	"library-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWishlist_AddRemoveIdempotent(t *testing.T) {
	f := newFixture(t, 1, nil)
	ctx := context.Background()
	svc := NewWishlistService(f.repo)

	changed, err := svc.Add(ctx, f.user.ID, f.book.Slug)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = svc.Add(ctx, f.user.ID, f.book.Slug)
	require.NoError(t, err)
	assert.False(t, changed)

	wishlist, err := svc.Get(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, wishlist.Books, 1)

	changed, err = svc.Remove(ctx, f.user.ID, f.book.Slug)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = svc.Remove(ctx, f.user.ID, f.book.Slug)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestWishlist_UnknownUser(t *testing.T) {
	f := newFixture(t, 1, nil)
	_, err := NewWishlistService(f.repo).Get(context.Background(), 4242)
	assert.True(t, errors.Is(err, lifecycle.ErrNotFound))
}

func TestBookDetail_ReportsWishlistState(t *testing.T) {
	f := newFixture(t, 1, nil)
	ctx := context.Background()
	catalog := NewCatalogService(f.repo, 0)

	detail, err := catalog.BookDetail(ctx, f.book.Slug, f.user.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsWishlisted)
	assert.Empty(t, detail.Reviews)

	_, err = NewWishlistService(f.repo).Add(ctx, f.user.ID, f.book.Slug)
	require.NoError(t, err)
	_, err = NewReviewService(f.repo, nil).RecordReview(ctx, &ReviewRequest{BookSlug: f.book.Slug, UserID: f.user.ID, Rating: 5})
	require.NoError(t, err)

	detail, err = catalog.BookDetail(ctx, f.book.Slug, f.user.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsWishlisted)
	assert.Len(t, detail.Reviews, 1)

	anonymous, err := catalog.BookDetail(ctx, f.book.Slug, 0)
	require.NoError(t, err)
	assert.False(t, anonymous.IsWishlisted)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, 3, nil)
	ctx := context.Background()
	inventory := NewInventoryService(f.repo, newEngine(), nil, nil, time.Hour)
	req := &ActionRequest{BookSlug: f.book.Slug, UserID: f.user.ID}

	_, err := inventory.Borrow(ctx, req)
	require.NoError(t, err)
	_, err = inventory.Borrow(ctx, req)
	require.NoError(t, err)
	_, err = inventory.Return(ctx, req)
	require.NoError(t, err)
	_, err = inventory.Purchase(ctx, req)
	require.NoError(t, err)

	dashboard, err := NewCatalogService(f.repo, 0).Dashboard(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, dashboard.Holdings, 1)
	assert.Equal(t, f.book.ID, dashboard.Holdings[0].Book.ID)
	assert.Equal(t, 2, dashboard.TotalLoans)
	assert.Empty(t, dashboard.Wishlist)
	assert.Empty(t, dashboard.RecentReviews)
}

func TestListBooks_UsesConfiguredPageSize(t *testing.T) {
	f := newFixture(t, 1, nil)
	page, err := NewCatalogService(f.repo, 5).ListBooks(context.Background(), store.BookFilter{})
	require.NoError(t, err)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, 1, page.Total)
}

func TestFeatured_OnlyAvailable(t *testing.T) {
	f := newFixture(t, 0, nil)
	featured, err := NewCatalogService(f.repo, 0).Featured(context.Background())
	require.NoError(t, err)
	assert.Empty(t, featured)
}

func TestAvailability_FallsBackToStoreOnMiss(t *testing.T) {
	f := newFixture(t, 2, nil)
	cache := new(MockCache)
	cache.On("GetAvailability", mock.Anything, f.book.ID).Return(redisclient.Availability{}, false, nil)

	got, err := NewAvailabilityService(f.repo, cache).Get(context.Background(), f.book.Slug)
	require.NoError(t, err)
	assert.Equal(t, "db", got.Source)
	assert.Equal(t, 2, got.Quantity)
}

func TestAvailability_ServesFreshCache(t *testing.T) {
	f := newFixture(t, 2, nil)
	cache := new(MockCache)
	cache.On("GetAvailability", mock.Anything, f.book.ID).
		Return(redisclient.Availability{Quantity: 2, Status: models.AvailabilityAvailable, Version: f.book.Version}, true, nil)

	got, err := NewAvailabilityService(f.repo, cache).Get(context.Background(), f.book.Slug)
	require.NoError(t, err)
	assert.Equal(t, "cache", got.Source)
}

func TestAvailability_ProjectAndSync(t *testing.T) {
	f := newFixture(t, 2, nil)
	cache := new(MockCache)
	svc := NewAvailabilityService(f.repo, cache)

	cache.On("SetAvailability", mock.Anything, f.book.ID, redisclient.Availability{
		Quantity: 1, Status: models.AvailabilityAvailable, Version: 2,
	}).Return(false, nil).Once()
	require.NoError(t, svc.Project(context.Background(), &models.InventoryChangedEvent{
		BookID: f.book.ID, Quantity: 1, AvailabilityStatus: models.AvailabilityAvailable, Version: 2,
	}))

	cache.On("SetAvailability", mock.Anything, f.book.ID, availabilityOf(f.book)).Return(true, nil).Once()
	require.NoError(t, svc.Sync(context.Background()))

	cache.AssertExpectations(t)
}
