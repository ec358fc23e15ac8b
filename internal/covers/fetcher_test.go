package covers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"library-service/internal/models"
	"library-service/internal/store"
	"library-service/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newGoogleBooks serves a volumes endpoint: "Dune" has large and thumbnail
// links, anything else has no results
func newGoogleBooks(t *testing.T) *httptest.Server {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/volumes" && strings.HasPrefix(r.URL.Query().Get("q"), "Dune"):
			fmt.Fprintf(w, `{"items":[{"volumeInfo":{"imageLinks":{"thumbnail":"%[1]s/img/small","large":"%[1]s/img/large"}}}]}`, srv.URL)
		case r.URL.Path == "/volumes":
			fmt.Fprint(w, `{"items":[]}`)
		case r.URL.Path == "/img/large":
			w.Write([]byte("LARGE"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupCover_PrefersLargest(t *testing.T) {
	srv := newGoogleBooks(t)
	client := NewClient(srv.URL + "/")

	link, err := client.LookupCover(context.Background(), "Dune", "Frank Herbert")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/img/large", link)

	_, err = client.LookupCover(context.Background(), "Unknown", "Nobody")
	assert.ErrorIs(t, err, ErrNoCover)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "guns-germs-and-steel.jpg", FileName("Guns, Germs, and Steel"))
}

func TestFetcher_Run(t *testing.T) {
	util.SetLogger(zap.NewNop())
	srv := newGoogleBooks(t)
	ctx := context.Background()

	repo := store.NewMemoryStore()
	category := &models.Category{Name: "Science Fiction"}
	require.NoError(t, repo.CreateCategory(ctx, category))
	for _, title := range []string{"Dune", "Unknown"} {
		require.NoError(t, repo.CreateBook(ctx, &models.Book{
			Title: title, Author: "A", CategoryID: category.ID, ISBN: title, Price: decimal.NewFromInt(1), Quantity: 1,
		}))
	}

	dir := t.TempDir()
	report, err := NewFetcher(repo, NewClient(srv.URL), dir, 2).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Success)
	assert.Equal(t, int64(1), report.Failed)

	content, err := os.ReadFile(filepath.Join(dir, "dune.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "LARGE", string(content))

	book, err := repo.GetBookBySlug(ctx, "dune")
	require.NoError(t, err)
	assert.Equal(t, "book_covers/dune.jpg", book.CoverImage)

	unknown, err := repo.GetBookBySlug(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, unknown.CoverImage)
}
