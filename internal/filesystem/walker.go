package filesystem

import (
	"context"
	"io/fs"
	"runtime"
	"time"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// Entry is the metadata the walker yields for each regular file.
type Entry struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// EntryFunc receives discovered files. Callbacks may run concurrently from
// multiple walker goroutines and must be safe for parallel use.
type EntryFunc func(Entry) error

// SkipFunc receives entries the walker could not stat. May run concurrently.
type SkipFunc func(models.SkippedEntry)

// Walker enumerates regular files under a root. It never follows symlinks and
// never aborts on per-entry failures; those are reported through the skip
// callback and the walk continues.
type Walker struct {
	exclude map[string]bool
	workers int
	logger  *zap.Logger
}

// NewWalker creates a new filesystem walker
func NewWalker(exclude []string, workers int, logger *zap.Logger) *Walker {
	// Build exclude map for fast lookup
	ex := make(map[string]bool)
	for _, dir := range exclude {
		ex[dir] = true
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Walker{
		exclude: ex,
		workers: workers,
		logger:  logger,
	}
}

// Walk traverses the tree rooted at root. Cancellation is observed between
// directory entries; a cancelled walk returns ctx.Err().
func (w *Walker) Walk(ctx context.Context, root string, fn EntryFunc, skip SkipFunc) error {
	conf := fastwalk.Config{Follow: false, NumWorkers: w.workers}

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return fs.SkipAll
		}

		if err != nil {
			w.logger.Debug("Error accessing path", zap.String("path", path), zap.Error(err))
			if skip != nil {
				skip(models.SkippedEntry{Path: path, Reason: err.Error()})
			}
			return nil // Continue walking
		}

		if d.IsDir() {
			if w.exclude[d.Name()] {
				w.logger.Debug("Skipping excluded directory", zap.String("path", path))
				return fastwalk.SkipDir
			}
			return nil
		}

		// Symlinks are skipped outright: following them risks cycles and
		// double-counting, and fastwalk does not resolve them with Follow off.
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if skip != nil {
				skip(models.SkippedEntry{Path: path, Reason: err.Error()})
			}
			return nil
		}

		return fn(Entry{Path: path, Size: info.Size(), ModTime: info.ModTime()})
	}

	if err := fastwalk.Walk(&conf, root, walkFn); err != nil {
		return err
	}
	return ctx.Err()
}

// Count runs a metadata-only pass and returns the number of regular files the
// walk would yield. Used to establish the progress denominator.
func (w *Walker) Count(ctx context.Context, root string) (int, error) {
	var counter entryCounter
	err := w.Walk(ctx, root, counter.add, nil)
	return counter.count(), err
}
