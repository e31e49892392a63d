package models

import "time"

// Confidence expresses how strict the evidence behind an erasability
// suggestion was.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// DuplicateMember is one file inside a duplicate group.
type DuplicateMember struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// DuplicateGroup is a set of files confirmed byte-identical by a full-content
// fingerprint. Membership always requires strong-fingerprint equality; the
// sampled fingerprint only filters candidates.
type DuplicateGroup struct {
	Fingerprint   string            `json:"fingerprint"` // strong fingerprint shared by all members
	Members       []DuplicateMember `json:"members"`
	CanonicalPath string            `json:"canonical_path"` // earliest mod time, ties by smallest path
	WastedBytes   int64             `json:"wasted_bytes"`   // (len(members)-1) * size
}

// ErasabilitySuggestion proposes removing a derived file whose regeneration
// source was verified to exist in the same inventory. The engine only
// suggests; it never deletes.
type ErasabilitySuggestion struct {
	Path                string     `json:"path"`
	ReasonCode          string     `json:"reason_code"`
	Reason              string     `json:"reason"`
	PrerequisitePaths   []string   `json:"prerequisite_paths"`
	RegenerationCommand string     `json:"regeneration_command"`
	Confidence          Confidence `json:"confidence"`
}

// Mismatch reports a file whose content signature disagrees with its name.
type Mismatch struct {
	Path          string   `json:"path"`
	DeclaredKind  FileKind `json:"declared_kind"`
	SignatureKind Format   `json:"signature_kind"`
}

// CategoryStats aggregates inventory totals for one category.
type CategoryStats struct {
	Count          int     `json:"count"`
	TotalSizeBytes int64   `json:"total_size_bytes"`
	Percentage     float64 `json:"percentage"` // share of total scanned bytes
}

// ScanReport is the immutable result of one completed scan. A new scan
// replaces the previous report only atomically on completion; a scan in
// progress never exposes partial state.
type ScanReport struct {
	ID        string    `json:"id"`
	Root      string    `json:"root"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	TotalFiles     int   `json:"total_files"`
	TotalSizeBytes int64 `json:"total_size_bytes"`

	Files      []*FileRecord              `json:"files"`
	Categories map[Category]CategoryStats `json:"categories"`

	DuplicateGroups []*DuplicateGroup        `json:"duplicate_groups"`
	Mismatches      []Mismatch               `json:"mismatches"`
	Suggestions     []*ErasabilitySuggestion `json:"erasability_suggestions"`
	Skipped         []SkippedEntry           `json:"skipped_entries"`
}

// WastedBytes sums the reclaimable bytes across all duplicate groups.
func (r *ScanReport) WastedBytes() int64 {
	var total int64
	for _, g := range r.DuplicateGroups {
		total += g.WastedBytes
	}
	return total
}

// Duration is the wall-clock time the scan took.
func (r *ScanReport) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
