package core

import (
	"sort"
	"sync"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// inventory collects file records and skipped entries from concurrent
// classification callbacks. Paths are unique: a later record for a path the
// walk already produced is ignored.
type inventory struct {
	mu      sync.Mutex
	byPath  map[string]*models.FileRecord
	skips   []models.SkippedEntry
	skipSet map[string]bool
}

func newInventory() *inventory {
	return &inventory{
		byPath:  make(map[string]*models.FileRecord),
		skipSet: make(map[string]bool),
	}
}

func (inv *inventory) add(rec *models.FileRecord) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if _, seen := inv.byPath[rec.Path]; !seen {
		inv.byPath[rec.Path] = rec
	}
}

func (inv *inventory) skip(entry models.SkippedEntry) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if !inv.skipSet[entry.Path] {
		inv.skipSet[entry.Path] = true
		inv.skips = append(inv.skips, entry)
	}
}

// records returns the inventory sorted by path. Called only after the
// classification barrier, when no callbacks are running.
func (inv *inventory) records() []*models.FileRecord {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make([]*models.FileRecord, 0, len(inv.byPath))
	for _, rec := range inv.byPath {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (inv *inventory) skipped() []models.SkippedEntry {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make([]models.SkippedEntry, len(inv.skips))
	copy(out, inv.skips)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
