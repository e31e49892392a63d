// Package dedup finds exact duplicate files through three mandatory phases:
// size bucketing, sampled-fingerprint filtering, and full-content
// confirmation. A file never joins a group on the sampled fingerprint alone.
package dedup

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/hashing"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// Resolver confirms duplicate groups among classified file records.
type Resolver struct {
	engine  *hashing.Engine
	workers int
	logger  *zap.Logger
}

// NewResolver creates a new duplicate resolver
func NewResolver(engine *hashing.Engine, workers int, logger *zap.Logger) *Resolver {
	if workers <= 0 {
		workers = 4
	}
	return &Resolver{
		engine:  engine,
		workers: workers,
		logger:  logger,
	}
}

// Result carries the confirmed groups plus the entries dropped by mid-hash
// I/O failures.
type Result struct {
	Groups  []*models.DuplicateGroup
	Skipped []models.SkippedEntry
}

// Resolve runs the three phases over the inventory. Fingerprints are written
// back onto the records as they are computed. Per-file hash failures exclude
// the file and continue; only cancellation aborts.
func (r *Resolver) Resolve(ctx context.Context, records []*models.FileRecord) (*Result, error) {
	result := &Result{}

	// Phase 1: bucket by exact size. Singleton buckets are non-duplicates and
	// are never hashed. Empty files are excluded outright: there is nothing
	// to reclaim and no content to confirm.
	bySize := make(map[int64][]*models.FileRecord)
	for _, rec := range records {
		if rec.Size > 0 {
			bySize[rec.Size] = append(bySize[rec.Size], rec)
		}
	}

	// Phase 2: sampled fingerprints within multi-member size buckets.
	type cheapKey struct {
		size int64
		fp   string
	}
	byCheap := make(map[cheapKey][]*models.FileRecord)
	for size, bucket := range bySize {
		if len(bucket) < 2 {
			continue
		}
		for _, rec := range bucket {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			fp, err := r.engine.CheapFingerprint(rec.Path, rec.Size)
			if err != nil {
				r.logger.Debug("Sampled fingerprint failed",
					zap.String("path", rec.Path),
					zap.Error(err))
				result.Skipped = append(result.Skipped, models.SkippedEntry{
					Path:   rec.Path,
					Reason: "unreadable during fingerprinting: " + err.Error(),
				})
				continue
			}
			rec.CheapFingerprint = fp
			key := cheapKey{size: size, fp: fp}
			byCheap[key] = append(byCheap[key], rec)
		}
	}

	// Phase 3: full-content confirmation of surviving candidates. This step
	// is what rules out files that agree in size and all sampled windows yet
	// differ elsewhere.
	var candidates []*models.FileRecord
	for _, bucket := range byCheap {
		if len(bucket) >= 2 {
			candidates = append(candidates, bucket...)
		}
	}

	skipped, err := r.strongFingerprints(ctx, candidates)
	if err != nil {
		return nil, err
	}
	result.Skipped = append(result.Skipped, skipped...)

	type strongKey struct {
		size int64
		fp   string
	}
	byStrong := make(map[strongKey][]*models.FileRecord)
	for _, rec := range candidates {
		if rec.StrongFingerprint == "" {
			continue // hash failed, already recorded as skipped
		}
		key := strongKey{size: rec.Size, fp: rec.StrongFingerprint}
		byStrong[key] = append(byStrong[key], rec)
	}

	for key, members := range byStrong {
		if len(members) < 2 {
			continue
		}
		result.Groups = append(result.Groups, buildGroup(key.fp, members))
	}

	// Largest reclaimable savings first; ties by canonical path for
	// deterministic reports.
	sort.Slice(result.Groups, func(i, j int) bool {
		a, b := result.Groups[i], result.Groups[j]
		if a.WastedBytes != b.WastedBytes {
			return a.WastedBytes > b.WastedBytes
		}
		return a.CanonicalPath < b.CanonicalPath
	})

	return result, nil
}

// strongFingerprints computes full-content digests across a worker pool and
// writes them onto the records.
func (r *Resolver) strongFingerprints(ctx context.Context, candidates []*models.FileRecord) ([]models.SkippedEntry, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	fileChan := make(chan *models.FileRecord, r.workers*2)

	var mu sync.Mutex
	var skipped []models.SkippedEntry

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range fileChan {
				fp, err := r.engine.StrongFingerprint(ctx, rec.Path)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					r.logger.Debug("Strong fingerprint failed",
						zap.String("path", rec.Path),
						zap.Error(err))
					mu.Lock()
					skipped = append(skipped, models.SkippedEntry{
						Path:   rec.Path,
						Reason: "unreadable during hashing: " + err.Error(),
					})
					mu.Unlock()
					continue
				}
				rec.StrongFingerprint = fp
			}
		}()
	}

	for _, rec := range candidates {
		select {
		case <-ctx.Done():
			close(fileChan)
			wg.Wait()
			return nil, ctx.Err()
		case fileChan <- rec:
		}
	}
	close(fileChan)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return skipped, nil
}

// buildGroup assembles a confirmed group. The canonical member is the
// earliest-modified file, ties broken by lexicographically smallest path.
func buildGroup(fingerprint string, members []*models.FileRecord) *models.DuplicateGroup {
	canonical := members[0]
	for _, rec := range members[1:] {
		if rec.ModTime.Before(canonical.ModTime) ||
			(rec.ModTime.Equal(canonical.ModTime) && rec.Path < canonical.Path) {
			canonical = rec
		}
	}

	group := &models.DuplicateGroup{
		Fingerprint:   fingerprint,
		CanonicalPath: canonical.Path,
		WastedBytes:   int64(len(members)-1) * members[0].Size,
	}
	for _, rec := range members {
		group.Members = append(group.Members, models.DuplicateMember{
			Path:    rec.Path,
			Size:    rec.Size,
			ModTime: rec.ModTime,
		})
	}
	sort.Slice(group.Members, func(i, j int) bool {
		return group.Members[i].Path < group.Members[j].Path
	})

	return group
}
