package covers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"library-service/internal/models"
	"library-service/internal/store"
	"library-service/internal/util"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StoredPrefix is prepended to the file name in books.cover_image
const StoredPrefix = "book_covers/"

// Report counts the outcome of a fetch run
type Report struct {
	Success int64
	Failed  int64
}

// Fetcher downloads a cover for every book and records its path
type Fetcher struct {
	repo        store.Repository
	client      *Client
	dir         string
	concurrency int
	logger      *zap.Logger
}

// NewFetcher creates a fetcher writing into dir
func NewFetcher(repo store.Repository, client *Client, dir string, concurrency int) *Fetcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Fetcher{
		repo:        repo,
		client:      client,
		dir:         dir,
		concurrency: concurrency,
		logger:      util.GetLogger(),
	}
}

// FileName is the on-disk name of a book's cover
func FileName(title string) string {
	return slug.Make(title) + ".jpg"
}

// Run fetches covers for every book. A failure for one book is counted
// and logged; only store and filesystem setup errors abort the run.
func (f *Fetcher) Run(ctx context.Context) (*Report, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create covers dir: %w", err)
	}

	books, err := f.repo.GetAllBooks(ctx)
	if err != nil {
		return nil, err
	}

	var report Report
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i := range books {
		book := books[i]
		g.Go(func() error {
			if err := f.fetchOne(gctx, &book); err != nil {
				atomic.AddInt64(&report.Failed, 1)
				f.logger.Warn("Failed to fetch cover", zap.String("title", book.Title), zap.Error(err))
				return nil
			}
			atomic.AddInt64(&report.Success, 1)
			f.logger.Info("Downloaded cover", zap.String("title", book.Title))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f.logger.Info("Finished downloading book covers",
		zap.Int64("success", report.Success),
		zap.Int64("failed", report.Failed))
	return &report, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, book *models.Book) error {
	imageURL, err := f.client.LookupCover(ctx, book.Title, book.Author)
	if err != nil {
		return err
	}

	name := FileName(book.Title)
	path := filepath.Join(f.dir, name)
	tmp := path + ".part"

	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := f.client.Download(ctx, imageURL, file); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}

	return f.repo.UpdateCoverImage(ctx, book.ID, StoredPrefix+name)
}
