// Package scan builds the wallpaper catalog from a folder of images.
package scan

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/duskpaper/internal/catalog"
	"github.com/jmylchreest/duskpaper/internal/image"
)

// Extractor computes the colour fractions of one image file.
type Extractor interface {
	Extract(path string) (catalog.Entry, error)
}

// Saver persists a catalog.
type Saver interface {
	Save(c *catalog.Catalog) error
}

// Report summarises a scan.
type Report struct {
	Folder  string
	Found   int
	Skipped []string
	Catalog *catalog.Catalog
}

// Scanned returns the number of images that made it into the catalog.
func (r Report) Scanned() int {
	return r.Catalog.Len()
}

// Scanner walks a folder and extracts features from every image in it.
type Scanner struct {
	Extractor Extractor
	Store     Saver
	Jobs      int
	Logger    hclog.Logger
}

// New creates a Scanner. jobs <= 0 uses GOMAXPROCS workers.
func New(extractor Extractor, store Saver, jobs int, logger hclog.Logger) *Scanner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Scanner{Extractor: extractor, Store: store, Jobs: jobs, Logger: logger}
}

// Run scans folder recursively, replaces the stored catalog with the result
// and returns a report. Images that cannot be read are logged and skipped.
func (s *Scanner) Run(ctx context.Context, folder string) (Report, error) {
	logger := s.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	paths, err := image.WalkImages(folder)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list images: %w", err)
	}
	logger.Info("scanning wallpapers", "folder", folder, "images", len(paths))

	jobs := s.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]catalog.Entry, len(paths))
	ok := make([]bool, len(paths))
	var (
		mu      sync.Mutex
		skipped []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := s.Extractor.Extract(path)
			if err != nil {
				logger.Warn("skipping image", "path", path, "error", err)
				mu.Lock()
				skipped = append(skipped, path)
				mu.Unlock()
				return nil
			}
			results[i] = entry
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("scan interrupted: %w", err)
	}
	// Wait returns nil when the parent was cancelled before any job started.
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("scan interrupted: %w", err)
	}

	c := catalog.New()
	for i, entry := range results {
		if ok[i] {
			c.Add(entry)
		}
	}
	c = c.Sorted(compareEntries)

	if s.Store != nil {
		if err := s.Store.Save(c); err != nil {
			return Report{}, fmt.Errorf("failed to save catalog: %w", err)
		}
	}

	logger.Info("scan complete", "catalogued", c.Len(), "skipped", len(skipped))
	return Report{Folder: folder, Found: len(paths), Skipped: skipped, Catalog: c}, nil
}

// compareEntries orders entries by red, then blue, then light fraction.
func compareEntries(a, b catalog.Entry) int {
	return cmp.Or(
		cmp.Compare(a.Red, b.Red),
		cmp.Compare(a.Blue, b.Blue),
		cmp.Compare(a.Light, b.Light),
		cmp.Compare(a.Path, b.Path),
	)
}
