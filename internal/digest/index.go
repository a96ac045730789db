package digest

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/photocat/internal/media"
)

// Index is the set of content digests known to exist under the
// destination root. It is owned by a single run: Seed may insert
// concurrently, but once seeding completes all access is sequential.
// Never share an Index across runs.
type Index struct {
	mu      sync.Mutex
	digests map[string]struct{}
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{digests: make(map[string]struct{})}
}

// Add records that a file with digest sum exists under the root.
func (ix *Index) Add(sum string) {
	ix.mu.Lock()
	ix.digests[sum] = struct{}{}
	ix.mu.Unlock()
}

// Contains reports whether sum is already placed.
func (ix *Index) Contains(sum string) bool {
	ix.mu.Lock()
	_, ok := ix.digests[sum]
	ix.mu.Unlock()
	return ok
}

// Len returns the number of distinct digests recorded.
func (ix *Index) Len() int {
	ix.mu.Lock()
	n := len(ix.digests)
	ix.mu.Unlock()
	return n
}

// Seed walks root once and records the digest of every supported media
// file found. This is the most expensive step for a large archive, so
// hashing fans out across workers; the sweep is read-only and
// order-independent, which makes that safe. The directory walk itself
// stays sequential and streams entries rather than buffering the tree.
// Unreadable files are logged and skipped.
func Seed(ctx context.Context, ix *Index, root string, log *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("cannot access destination path, skipping", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !media.IsSupported(d.Name()) {
			return nil
		}
		g.Go(func() error {
			sum, err := Hash(path)
			if err != nil {
				log.Warn("cannot hash destination file, skipping", "path", path, "error", err)
				return nil
			}
			ix.Add(sum)
			return nil
		})
		return nil
	})

	if werr := g.Wait(); werr != nil && err == nil {
		err = werr
	}
	return err
}
