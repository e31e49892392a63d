// Package classify resolves a file's kind from its header bytes, falling back
// to name patterns, and flags files whose name disagrees with their content.
// Classification is a pure function of (header bytes, file name).
package classify

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/signatures"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// Result is the outcome of classifying one file.
type Result struct {
	// Kind is the resolved classification: signature-derived when the header
	// matched, name-derived otherwise.
	Kind models.FileKind

	// DeclaredKind is what the filename alone implies.
	DeclaredKind models.FileKind

	SignatureFormat   models.Format
	SignatureResolved bool

	// Mismatch is set when the resolved signature is incompatible with the
	// formats the filename can legitimately contain. Unresolved signatures
	// (plain text, unknown binary) never produce mismatches.
	Mismatch bool
}

// Classify resolves the kind of the file at path from its header bytes and
// name. Zero-length files and files shorter than the signature table's needs
// resolve via the name tables alone.
func Classify(path string, header []byte) Result {
	name := strings.ToLower(filepath.Base(path))
	decl := parseName(name)

	sigFormat, resolved := signatures.Sniff(header)

	res := Result{
		DeclaredKind:      decl.kind(),
		SignatureFormat:   sigFormat,
		SignatureResolved: resolved,
	}

	if !resolved {
		if decl.known {
			res.Kind = decl.kind()
		} else {
			// Carry the sniffer's best-effort tag so reports can distinguish
			// stray text from opaque binaries.
			res.Kind = models.FileKind{Category: models.CategoryUnclassified, Format: sigFormat}
		}
		return res
	}

	res.Mismatch = isMismatch(decl, sigFormat)

	if sigFormat.IsContainer() {
		if res.Mismatch || !decl.known {
			res.Kind = models.FileKind{Category: models.CategoryUnclassified, Format: sigFormat}
		} else {
			res.Kind = decl.kind()
		}
		return res
	}

	res.Kind = models.FileKind{Category: formatCategory(sigFormat), Format: sigFormat}
	return res
}

// declared is the parse of a filename into container, logical format and
// category.
type declared struct {
	container models.Format // GZIP, BGZF or ""
	logical   models.Format // FASTQ, BAM, ... or ""
	category  models.Category
	known     bool
}

func (d declared) kind() models.FileKind {
	if !d.known {
		return models.Unclassified
	}
	format := d.logical
	if format == "" {
		format = d.container
	}
	if format == "" {
		format = models.FormatUnknown
	}
	return models.FileKind{Category: d.category, Format: format}
}

var logicalExtensions = map[string]models.Format{
	"bam":   models.FormatBAM,
	"cram":  models.FormatCRAM,
	"bcf":   models.FormatBCF,
	"vcf":   models.FormatVCF,
	"gvcf":  models.FormatVCF,
	"sam":   models.FormatSAM,
	"fastq": models.FormatFASTQ,
	"fq":    models.FormatFASTQ,
	"fasta": models.FormatFASTA,
	"fa":    models.FormatFASTA,
	"sra":   models.FormatSRA,
}

// extensionCategories maps extensions to workflow categories. The table
// mirrors the domain's conventional layout: raw reads and archives, alignments,
// regenerable intermediates, and deliverables.
var extensionCategories = map[string]models.Category{
	"fastq": models.CategoryRawSequencing,
	"fq":    models.CategoryRawSequencing,
	"sra":   models.CategoryRawSequencing,
	"cram":  models.CategoryRawSequencing,
	"fasta": models.CategoryRawSequencing,
	"fa":    models.CategoryRawSequencing,

	"bam": models.CategoryAligned,
	"sam": models.CategoryAligned,

	"bai":     models.CategoryIntermediate,
	"csi":     models.CategoryIntermediate,
	"fai":     models.CategoryIntermediate,
	"vcf":     models.CategoryIntermediate,
	"gvcf":    models.CategoryIntermediate,
	"bcf":     models.CategoryIntermediate,
	"bed":     models.CategoryIntermediate,
	"metrics": models.CategoryIntermediate,
	"log":     models.CategoryIntermediate,
	"tmp":     models.CategoryIntermediate,
}

// finalOutputPattern matches deliverable tables and documents: tsv/csv/xlsx/
// pdf/html files whose name carries a reporting keyword.
var finalOutputPattern = regexp.MustCompile(`(?:final|report|summary|results|annotation)[^/]*\.(?:tsv|csv|xlsx|pdf|html)$`)

// parseName decomposes a lowercased file name into container and logical
// extension, then assigns a category from the fixed tables.
func parseName(name string) declared {
	if finalOutputPattern.MatchString(name) {
		return declared{
			logical:  models.FormatPlainText,
			category: models.CategoryFinalOutput,
			known:    true,
		}
	}

	// Processing manifests are pipeline by-products; the advisor relies on
	// them as provenance evidence, so they must classify.
	if strings.HasSuffix(name, ".manifest.json") {
		return declared{
			logical:  models.FormatPlainText,
			category: models.CategoryIntermediate,
			known:    true,
		}
	}

	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return declared{}
	}
	suffixes := parts[1:]

	var d declared
	last := suffixes[len(suffixes)-1]
	switch last {
	case "gz", "gzip":
		d.container = models.FormatGzip
	case "bgz", "bgzf":
		d.container = models.FormatBGZF
	}

	logicalExt := last
	if d.container != "" {
		if len(suffixes) < 2 {
			// Bare .gz with no inner extension: container known, kind not.
			d.category = models.CategoryUnclassified
			d.known = true
			return d
		}
		logicalExt = suffixes[len(suffixes)-2]
	}

	if format, ok := logicalExtensions[logicalExt]; ok {
		d.logical = format
	}
	if category, ok := extensionCategories[logicalExt]; ok {
		d.category = category
		d.known = true
	} else if d.container != "" {
		d.category = models.CategoryUnclassified
		d.known = true
	}
	return d
}

// expectedFormats returns the signature formats a declared name can
// legitimately contain, or nil when the name carries no expectation.
func expectedFormats(d declared) []models.Format {
	switch d.container {
	case models.FormatGzip:
		// .gz is honest about plain gzip, and BGZF is a valid gzip stream.
		return []models.Format{models.FormatGzip, models.FormatBGZF}
	case models.FormatBGZF:
		return []models.Format{models.FormatBGZF}
	}

	switch d.logical {
	case models.FormatBAM:
		// On-disk BAM is BGZF-wrapped; a raw BAM stream is also acceptable.
		return []models.Format{models.FormatBGZF, models.FormatBAM}
	case models.FormatCRAM:
		return []models.Format{models.FormatCRAM}
	case models.FormatBCF:
		return []models.Format{models.FormatBCF, models.FormatBGZF}
	case models.FormatVCF:
		return []models.Format{models.FormatVCF}
	case models.FormatSAM:
		return []models.Format{models.FormatSAM}
	case models.FormatFASTQ:
		return []models.Format{models.FormatFASTQ}
	case models.FormatFASTA:
		return []models.Format{models.FormatFASTA}
	}
	return nil
}

func isMismatch(d declared, sig models.Format) bool {
	expected := expectedFormats(d)
	if expected == nil {
		return false
	}
	for _, f := range expected {
		if sig == f {
			return false
		}
	}
	return true
}

// formatCategory maps a concrete signature format to its workflow category.
func formatCategory(f models.Format) models.Category {
	switch f {
	case models.FormatFASTQ, models.FormatFASTA, models.FormatCRAM, models.FormatSRA:
		return models.CategoryRawSequencing
	case models.FormatBAM, models.FormatSAM:
		return models.CategoryAligned
	case models.FormatVCF, models.FormatBCF:
		return models.CategoryIntermediate
	}
	return models.CategoryUnclassified
}
