package models

import "time"

// FileRecord describes one regular file discovered during a scan. Records are
// immutable after the classification phase except for the fingerprint fields,
// which the duplicate resolver fills in on demand.
type FileRecord struct {
	Path    string    `json:"path"` // absolute canonical path, unique per report
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`

	// Kind is the resolved classification: signature-derived when the header
	// matched, name-derived otherwise.
	Kind FileKind `json:"kind"`

	// DeclaredKind is what the filename alone implies.
	DeclaredKind FileKind `json:"declared_kind"`

	// SignatureFormat is the format resolved from header bytes, or
	// FormatUnknown when no signature matched.
	SignatureFormat   Format `json:"signature_format"`
	SignatureResolved bool   `json:"signature_resolved"`

	// Mismatch is set when the resolved signature is incompatible with the
	// formats the filename can legitimately contain.
	Mismatch bool `json:"mismatch"`

	// Fingerprints are empty until the duplicate resolver needs them.
	CheapFingerprint  string `json:"cheap_fingerprint,omitempty"`
	StrongFingerprint string `json:"strong_fingerprint,omitempty"`
}

// SkippedEntry records a path the scan could not fully process. Per-entry
// failures never abort a scan; they accumulate here.
type SkippedEntry struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}
