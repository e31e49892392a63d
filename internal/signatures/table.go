package signatures

import (
	"bytes"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// byteSignature is one entry in the fixed signature table. Entries are
// evaluated in order; the first match wins.
type byteSignature struct {
	format models.Format
	match  func(header []byte) bool
}

// MaxSignatureLength is the minimum header prefix needed to evaluate every
// signature in the table. Text cues (VCF, SAM) scan up to this bound.
const MaxSignatureLength = 256

// table is the closed set of known byte signatures. New formats extend this
// table, not branching logic elsewhere.
var table = []byteSignature{
	// BGZF before plain gzip: BGZF is gzip with a BC extra subfield, so the
	// narrower check must run first.
	{models.FormatBGZF, isBGZF},
	{models.FormatGzip, isGzip},

	// Binary formats. On-disk BAM and BCF are normally BGZF-wrapped and hit
	// the container checks above; the raw magics cover uncompressed streams.
	{models.FormatBAM, prefix("BAM\x01")},
	{models.FormatCRAM, prefix("CRAM")},
	{models.FormatBCF, prefix("BCF")},

	// Text formats, from the most to the least specific leading cue. VCF and
	// SAM headers both start with '@'-free comment-ish lines, so their
	// structural cues are checked before the generic FASTQ/FASTA leads.
	{models.FormatVCF, isVCF},
	{models.FormatSAM, isSAM},
	{models.FormatFASTQ, isFASTQ},
	{models.FormatFASTA, prefix(">")},
}

func prefix(magic string) func([]byte) bool {
	m := []byte(magic)
	return func(header []byte) bool {
		return bytes.HasPrefix(header, m)
	}
}

func isGzip(header []byte) bool {
	return len(header) >= 3 && header[0] == 0x1f && header[1] == 0x8b && header[2] == 0x08
}

// isBGZF checks the gzip FEXTRA flag and scans the extra field for the BC
// subfield that identifies blocked gzip (the container used by BAM, BCF and
// tabix-compressed VCF).
func isBGZF(header []byte) bool {
	if !isGzip(header) || len(header) < 12 {
		return false
	}
	if header[3]&0x04 == 0 { // FLG.FEXTRA
		return false
	}
	xlen := int(header[10]) | int(header[11])<<8
	extra := header[12:]
	if xlen > len(extra) {
		xlen = len(extra)
	}
	for off := 0; off+4 <= xlen; {
		si1, si2 := extra[off], extra[off+1]
		slen := int(extra[off+2]) | int(extra[off+3])<<8
		if si1 == 'B' && si2 == 'C' && slen == 2 {
			return true
		}
		off += 4 + slen
	}
	return false
}

func isVCF(header []byte) bool {
	bound := len(header)
	if bound > MaxSignatureLength {
		bound = MaxSignatureLength
	}
	return bytes.Contains(header[:bound], []byte("##fileformat=VCF"))
}

func isSAM(header []byte) bool {
	for _, tag := range []string{"@HD\t", "@SQ\t", "@RG\t", "@PG\t"} {
		if bytes.HasPrefix(header, []byte(tag)) {
			return true
		}
	}
	return false
}

// isFASTQ requires the '@' lead plus a record-structure cue: a later line
// starting with '+' (the separator) within the sniffed prefix, or a short
// header where the cue has not fit yet.
func isFASTQ(header []byte) bool {
	if len(header) == 0 || header[0] != '@' {
		return false
	}
	nl := bytes.IndexByte(header, '\n')
	if nl < 0 {
		// Single truncated line; the '@' lead is the best evidence available.
		return true
	}
	return bytes.Contains(header, []byte("\n+")) || len(header) < MaxSignatureLength
}
