package models

// Category is the role a file plays in a sequencing workflow.
type Category string

const (
	CategoryRawSequencing Category = "raw_sequencing"
	CategoryAligned       Category = "aligned"
	CategoryIntermediate  Category = "intermediate"
	CategoryFinalOutput   Category = "final_output"
	CategoryUnclassified  Category = "unclassified"
)

// Categories lists all classified categories in report order.
var Categories = []Category{
	CategoryRawSequencing,
	CategoryAligned,
	CategoryIntermediate,
	CategoryFinalOutput,
	CategoryUnclassified,
}

// Format is the concrete content format of a file, resolved from its byte
// signature when possible and from its name otherwise.
type Format string

const (
	FormatBAM   Format = "BAM"
	FormatCRAM  Format = "CRAM"
	FormatSAM   Format = "SAM"
	FormatVCF   Format = "VCF"
	FormatBCF   Format = "BCF"
	FormatFASTQ Format = "FASTQ"
	FormatFASTA Format = "FASTA"
	FormatSRA   Format = "SRA"

	// Container formats. BGZF is the blocked gzip variant used by BAM, BCF
	// and tabix-indexed files; plain GZIP is not seekable and is a distinct
	// format for mismatch purposes.
	FormatGzip Format = "GZIP"
	FormatBGZF Format = "BGZF"

	FormatPlainText Format = "TEXT"
	FormatBinary    Format = "BINARY"
	FormatUnknown   Format = "UNKNOWN"
)

// FileKind pairs a workflow category with a concrete format.
type FileKind struct {
	Category Category `json:"category"`
	Format   Format   `json:"format"`
}

// Unclassified is the kind assigned when neither signature nor name resolves.
var Unclassified = FileKind{Category: CategoryUnclassified, Format: FormatUnknown}

// IsContainer reports whether f is a compression container rather than a
// logical format.
func (f Format) IsContainer() bool {
	return f == FormatGzip || f == FormatBGZF
}
