package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"library-service/internal/lifecycle"
	"library-service/internal/models"
	"library-service/internal/service"
	"library-service/internal/store"
	"library-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router *gin.Engine
	repo   *store.MemoryStore
	book   *models.Book
	user   *models.User
	admin  *models.User
}

func setupTestServer(t *testing.T, quantity int) *testServer {
	util.SetLogger(zap.NewNop())
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	repo := store.NewMemoryStore()
	category := &models.Category{Name: "Mystery", Icon: "fa-user-secret"}
	require.NoError(t, repo.CreateCategory(ctx, category))
	book := &models.Book{
		Title:      "The Hound of the Baskervilles",
		Author:     "Arthur Conan Doyle",
		CategoryID: category.ID,
		ISBN:       "9780141034324",
		Price:      decimal.RequireFromString("7.99"),
		Quantity:   quantity,
	}
	require.NoError(t, repo.CreateBook(ctx, book))
	user := &models.User{Username: "holmes"}
	require.NoError(t, repo.CreateUser(ctx, user))
	admin := &models.User{Username: "lestrade"}
	require.NoError(t, repo.CreateUser(ctx, admin))

	handler := NewHandler(Services{
		Inventory:    service.NewInventoryService(repo, lifecycle.NewEngine(lifecycle.DefaultPolicy()), nil, nil, time.Hour),
		Reviews:      service.NewReviewService(repo, nil),
		Wishlist:     service.NewWishlistService(repo),
		Catalog:      service.NewCatalogService(repo, 0),
		Availability: service.NewAvailabilityService(repo, nil),
	}, map[string]Pinger{
		"store": func(ctx context.Context) error { return nil },
	}, []int64{admin.ID})

	router := gin.New()
	handler.SetupRoutes(router)
	return &testServer{router: router, repo: repo, book: book, user: user, admin: admin}
}

func (s *testServer) do(method, path string, userID int64, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(userIDHeader, strconv.FormatInt(userID, 10))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthAndReady(t *testing.T) {
	s := setupTestServer(t, 1)

	assert.Equal(t, http.StatusOK, s.do("GET", "/health", 0, nil).Code)

	w := s.do("GET", "/ready", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", decode(t, w)["status"])
}

func TestBorrowThenReturn(t *testing.T) {
	s := setupTestServer(t, 1)
	path := "/api/v1/books/" + s.book.Slug

	w := s.do("POST", path+"/borrow", s.user.ID, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	book := decode(t, w)["book"].(map[string]interface{})
	assert.Equal(t, float64(0), book["quantity"])
	assert.Equal(t, models.AvailabilityBorrowed, book["availability_status"])

	w = s.do("POST", path+"/borrow", s.user.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(lifecycle.KindUnavailable), decode(t, w)["code"])

	w = s.do("POST", path+"/return", s.user.ID, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	tx := decode(t, w)["transaction"].(map[string]interface{})
	assert.Equal(t, models.TransactionReturn, tx["transaction_type"])

	w = s.do("POST", path+"/return", s.user.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(lifecycle.KindNoActiveTransaction), decode(t, w)["code"])
}

func TestRent_NotRentable(t *testing.T) {
	s := setupTestServer(t, 1)

	w := s.do("POST", "/api/v1/books/"+s.book.Slug+"/rent", s.user.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(lifecycle.KindNotRentable), decode(t, w)["code"])
}

func TestActions_RequireUser(t *testing.T) {
	s := setupTestServer(t, 1)

	w := s.do("POST", "/api/v1/books/"+s.book.Slug+"/borrow", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req, _ := http.NewRequest("POST", "/api/v1/books/"+s.book.Slug+"/borrow", nil)
	req.Header.Set(userIDHeader, "abc")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownBookIs404(t *testing.T) {
	s := setupTestServer(t, 1)

	w := s.do("GET", "/api/v1/books/missing", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(lifecycle.KindNotFound), decode(t, w)["code"])
}

func TestRecordReview(t *testing.T) {
	s := setupTestServer(t, 1)
	path := "/api/v1/books/" + s.book.Slug + "/reviews"

	w := s.do("POST", path, s.user.ID, map[string]interface{}{"rating": 4, "comment": "elementary"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do("POST", path, s.user.ID, map[string]interface{}{"rating": 5})
	require.Equal(t, http.StatusOK, w.Code)
	book := decode(t, w)["book"].(map[string]interface{})
	assert.Equal(t, float64(1), book["total_reviews"])
	assert.Equal(t, "5", book["rating"])

	w = s.do("POST", path, s.user.ID, map[string]interface{}{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(lifecycle.KindValidation), decode(t, w)["code"])
}

func TestWishlistEndpoints(t *testing.T) {
	s := setupTestServer(t, 1)

	w := s.do("POST", "/api/v1/wishlist/"+s.book.Slug, s.user.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["added"])

	w = s.do("POST", "/api/v1/wishlist/"+s.book.Slug, s.user.ID, nil)
	assert.Equal(t, false, decode(t, w)["added"])

	w = s.do("GET", "/api/v1/books/"+s.book.Slug, s.user.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["is_wishlisted"])

	w = s.do("DELETE", "/api/v1/wishlist/"+s.book.Slug, s.user.ID, nil)
	assert.Equal(t, true, decode(t, w)["removed"])

	w = s.do("GET", "/api/v1/wishlist", s.user.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["books"])
}

func TestListBooksAndCategories(t *testing.T) {
	s := setupTestServer(t, 1)

	w := s.do("GET", "/api/v1/books?category=mystery&q=hound&sort=title&page=7", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, float64(1), page["page"])
	assert.Equal(t, float64(1), page["total"])
	assert.Equal(t, float64(store.DefaultPageSize), page["page_size"])

	w = s.do("GET", "/api/v1/books?search=HOUND", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = s.do("GET", "/api/v1/books?search=moriarty&q=hound", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["total"])

	w = s.do("GET", "/api/v1/categories", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	categories := decode(t, w)["categories"].([]interface{})
	require.Len(t, categories, 1)
	assert.Equal(t, float64(1), categories[0].(map[string]interface{})["book_count"])

	w = s.do("GET", "/api/v1/featured", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["books"], 1)

	w = s.do("GET", "/api/v1/books/"+s.book.Slug+"/availability", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "db", decode(t, w)["source"])
}

func TestDashboardEndpoint(t *testing.T) {
	s := setupTestServer(t, 2)

	require.Equal(t, http.StatusCreated, s.do("POST", "/api/v1/books/"+s.book.Slug+"/borrow", s.user.ID, nil).Code)

	w := s.do("GET", "/api/v1/dashboard", s.user.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["holdings"], 1)
	assert.Equal(t, float64(1), body["total_loans"])
}

func TestDeleteCategory(t *testing.T) {
	s := setupTestServer(t, 1)

	assert.Equal(t, http.StatusUnauthorized, s.do("DELETE", "/api/v1/categories/mystery", 0, nil).Code)

	w := s.do("DELETE", "/api/v1/categories/mystery", s.user.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, w)["code"])
	assert.Equal(t, http.StatusOK, s.do("GET", "/api/v1/books/"+s.book.Slug, 0, nil).Code)

	assert.Equal(t, http.StatusNoContent, s.do("DELETE", "/api/v1/categories/mystery", s.admin.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do("GET", "/api/v1/books/"+s.book.Slug, 0, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do("DELETE", "/api/v1/categories/mystery", s.admin.ID, nil).Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(lifecycle.KindConflict))
	assert.Equal(t, http.StatusInternalServerError, statusFor(lifecycle.KindOf(errors.New("boom"))))
}
