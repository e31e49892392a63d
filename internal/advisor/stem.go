package advisor

import (
	"path/filepath"
	"regexp"
	"strings"
)

// processingTokens are name fragments that describe processing state rather
// than sample identity; they are dropped during stem extraction.
var processingTokens = map[string]bool{
	"r1": true, "r2": true, "read1": true, "read2": true,
	"paired": true, "unpaired": true, "trimmed": true,
	"sorted": true, "unsorted": true, "collated": true,
	"dedup": true, "markdup": true, "recal": true, "filtered": true,
}

var stemSeparators = regexp.MustCompile(`[._-]+`)

// sampleStem derives the same-sample key for a path.
//
// The rule, exactly: lowercase the base name, cut everything from the first
// dot onward (all dotted extension suffixes), split the remainder on '.', '-'
// and '_', drop processing tokens, and rejoin with '.'. So
// "Sample1_R1.trimmed.fastq.gz", "sample1.sorted.bam" and "sample1.sam" all
// share the stem "sample1".
func sampleStem(path string) string {
	name := strings.ToLower(filepath.Base(path))
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}

	parts := stemSeparators.Split(name, -1)
	kept := parts[:0]
	for _, part := range parts {
		if part == "" || processingTokens[part] {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, ".")
}
