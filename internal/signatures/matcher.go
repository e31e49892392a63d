// Package signatures resolves file formats from header bytes using a fixed,
// ordered table of byte signatures. Matching is a pure function of the header:
// the same bytes always resolve to the same format.
package signatures

import (
	"unicode/utf8"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// Sniff matches header bytes against the signature table. resolved is true
// only for a concrete signature hit; the plain-text / unknown-binary fallback
// is a best-effort tag, not a resolution, and never drives mismatch checks.
func Sniff(header []byte) (format models.Format, resolved bool) {
	if len(header) == 0 {
		return models.FormatUnknown, false
	}

	for _, sig := range table {
		if sig.match(header) {
			return sig.format, true
		}
	}

	if looksTextual(header) {
		return models.FormatPlainText, false
	}
	return models.FormatBinary, false
}

// looksTextual reports whether the header is plausibly text: valid UTF-8 with
// no NUL bytes in the sniffed prefix.
func looksTextual(header []byte) bool {
	for _, b := range header {
		if b == 0 {
			return false
		}
	}
	// Tolerate a rune truncated by the prefix boundary.
	for trim := 0; trim < utf8.UTFMax && len(header) > 0; trim++ {
		if utf8.Valid(header) {
			return true
		}
		header = header[:len(header)-1]
	}
	return utf8.Valid(header)
}
