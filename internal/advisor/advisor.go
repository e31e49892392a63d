// Package advisor applies a fixed, ordered, conservative rule table over the
// classified inventory to suggest removable intermediates. Every suggestion
// references prerequisite files verified to exist and classify in the same
// inventory; the engine never deletes anything itself.
package advisor

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// Reason codes carried by suggestions.
const (
	ReasonSAMFromBAM      = "sam_regenerable_from_bam"
	ReasonSAMFromCRAM     = "sam_regenerable_from_cram"
	ReasonBAMFromCRAM     = "bam_superseded_by_cram"
	ReasonRawFASTQTrimmed = "raw_fastq_superseded_by_trimmed"
	ReasonSRAExtracted    = "sra_superseded_by_fastq"
)

// Advisor produces erasability suggestions.
type Advisor struct {
	logger *zap.Logger
}

// NewAdvisor creates a new erasability advisor
func NewAdvisor(logger *zap.Logger) *Advisor {
	return &Advisor{logger: logger}
}

// Suggest evaluates the rule table against the inventory. Duplicate groups
// feed the cascade guard: a canonical copy is never suggested for erasure
// while another copy in its group is already targeted, and a file referenced
// as a prerequisite is never itself a target.
func (a *Advisor) Suggest(records []*models.FileRecord, groups []*models.DuplicateGroup) []*models.ErasabilitySuggestion {
	bySample := make(map[string][]*models.FileRecord)
	var stems []string
	for _, rec := range records {
		stem := sampleStem(rec.Path)
		if _, seen := bySample[stem]; !seen {
			stems = append(stems, stem)
		}
		bySample[stem] = append(bySample[stem], rec)
	}
	sort.Strings(stems) // deterministic suggestion order

	guard := newCascadeGuard(groups)

	var suggestions []*models.ErasabilitySuggestion
	for _, stem := range stems {
		sample := bySample[stem]
		for _, candidate := range a.evaluateSample(sample) {
			if !guard.admit(candidate) {
				a.logger.Debug("Suggestion suppressed by cascade guard",
					zap.String("path", candidate.Path),
					zap.String("reason_code", candidate.ReasonCode))
				continue
			}
			suggestions = append(suggestions, candidate)
		}
	}

	return suggestions
}

// evaluateSample runs the ordered rules over one same-sample record set.
func (a *Advisor) evaluateSample(sample []*models.FileRecord) []*models.ErasabilitySuggestion {
	var out []*models.ErasabilitySuggestion

	sams := withFormat(sample, models.FormatSAM)
	bams := withFormat(sample, models.FormatBAM)
	crams := withFormat(sample, models.FormatCRAM)
	fastqs := withFormat(sample, models.FormatFASTQ)
	sras := withFormat(sample, models.FormatSRA)
	hasIndex := hasSuffixIn(sample, ".bai", ".csi")
	manifest := firstWithSuffix(sample, ".manifest.json")

	// Rule 1: SAM is an intermediate once a BAM or CRAM for the sample
	// exists; it can be re-emitted on demand.
	for _, sam := range sams {
		if bam := bestPrerequisite(bams); bam != nil {
			confidence := models.ConfidenceMedium
			if hasIndex && bam.SignatureResolved {
				confidence = models.ConfidenceHigh
			} else if !bam.SignatureResolved {
				confidence = models.ConfidenceLow
			}
			out = append(out, &models.ErasabilitySuggestion{
				Path:                sam.Path,
				ReasonCode:          ReasonSAMFromBAM,
				Reason:              "SAM is an intermediate; re-emit from the retained BAM",
				PrerequisitePaths:   []string{bam.Path},
				RegenerationCommand: fmt.Sprintf("samtools view -h %s > %s", shellQuote(bam.Path), shellQuote(sam.Path)),
				Confidence:          confidence,
			})
		} else if cram := bestPrerequisite(crams); cram != nil {
			confidence := models.ConfidenceMedium
			if !cram.SignatureResolved {
				confidence = models.ConfidenceLow
			}
			out = append(out, &models.ErasabilitySuggestion{
				Path:                sam.Path,
				ReasonCode:          ReasonSAMFromCRAM,
				Reason:              "SAM is an intermediate; re-emit from the retained CRAM (reference required)",
				PrerequisitePaths:   []string{cram.Path},
				RegenerationCommand: fmt.Sprintf("samtools view -h -T <ref.fa> %s > %s", shellQuote(cram.Path), shellQuote(sam.Path)),
				Confidence:          confidence,
			})
		}
	}

	// Rule 2: BAM superseded by CRAM.
	if cram := bestPrerequisite(crams); cram != nil {
		for _, bam := range bams {
			confidence := models.ConfidenceMedium
			if !cram.SignatureResolved {
				confidence = models.ConfidenceLow
			}
			out = append(out, &models.ErasabilitySuggestion{
				Path:                bam.Path,
				ReasonCode:          ReasonBAMFromCRAM,
				Reason:              "BAM superseded by CRAM; reconstructable from CRAM (reference required)",
				PrerequisitePaths:   []string{cram.Path},
				RegenerationCommand: fmt.Sprintf("samtools view -b -T <ref.fa> -o %s %s", shellQuote(bam.Path), shellQuote(cram.Path)),
				Confidence:          confidence,
			})
		}
	}

	// Rule 3: raw untrimmed reads superseded once trimmed reads plus a
	// processing manifest exist. Without the manifest the provenance of the
	// trimmed reads is unverified and nothing is suggested.
	raw, trimmed := splitTrimmed(fastqs)
	if manifest != nil && len(trimmed) > 0 {
		prereqs := make([]string, 0, len(trimmed)+1)
		confidence := models.ConfidenceHigh
		for _, fq := range trimmed {
			prereqs = append(prereqs, fq.Path)
			if !fq.SignatureResolved {
				confidence = models.ConfidenceMedium
			}
		}
		prereqs = append(prereqs, manifest.Path)
		for _, fq := range raw {
			out = append(out, &models.ErasabilitySuggestion{
				Path:                fq.Path,
				ReasonCode:          ReasonRawFASTQTrimmed,
				Reason:              "raw reads superseded by trimmed reads with a recorded processing manifest",
				PrerequisitePaths:   prereqs,
				RegenerationCommand: "n/a (trimmed reads and manifest are retained as the processing record)",
				Confidence:          confidence,
			})
		}
	}

	// Rule 4: an SRA archive is redundant once extracted reads are retained.
	if len(fastqs) > 0 {
		prereqs := make([]string, 0, len(fastqs))
		confidence := models.ConfidenceMedium
		for _, fq := range fastqs {
			prereqs = append(prereqs, fq.Path)
			if !fq.SignatureResolved {
				confidence = models.ConfidenceLow
			}
		}
		for _, sra := range sras {
			out = append(out, &models.ErasabilitySuggestion{
				Path:                sra.Path,
				ReasonCode:          ReasonSRAExtracted,
				Reason:              "SRA archive redundant while extracted reads are retained locally",
				PrerequisitePaths:   prereqs,
				RegenerationCommand: "fasterq-dump --split-files <accession> (re-extracts the retained reads)",
				Confidence:          confidence,
			})
		}
	}

	return out
}

// withFormat selects records resolved (or declared) as the given format,
// excluding anything unclassified or flagged as a name/content mismatch.
// Mismatched files are neither targets nor prerequisites: their true content
// is in doubt.
func withFormat(sample []*models.FileRecord, format models.Format) []*models.FileRecord {
	var out []*models.FileRecord
	for _, rec := range sample {
		if rec.Mismatch || rec.Kind.Category == models.CategoryUnclassified {
			continue
		}
		if rec.Kind.Format == format {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// bestPrerequisite prefers a signature-verified record over a name-only one.
func bestPrerequisite(records []*models.FileRecord) *models.FileRecord {
	var fallback *models.FileRecord
	for _, rec := range records {
		if rec.SignatureResolved {
			return rec
		}
		if fallback == nil {
			fallback = rec
		}
	}
	return fallback
}

func hasSuffixIn(sample []*models.FileRecord, suffixes ...string) bool {
	for _, rec := range sample {
		lower := strings.ToLower(rec.Path)
		for _, suffix := range suffixes {
			if strings.HasSuffix(lower, suffix) {
				return true
			}
		}
	}
	return false
}

func firstWithSuffix(sample []*models.FileRecord, suffix string) *models.FileRecord {
	var best *models.FileRecord
	for _, rec := range sample {
		if strings.HasSuffix(strings.ToLower(rec.Path), suffix) {
			if best == nil || rec.Path < best.Path {
				best = rec
			}
		}
	}
	return best
}

func splitTrimmed(fastqs []*models.FileRecord) (raw, trimmed []*models.FileRecord) {
	for _, fq := range fastqs {
		if strings.Contains(strings.ToLower(filepath.Base(fq.Path)), "trimmed") {
			trimmed = append(trimmed, fq)
		} else {
			raw = append(raw, fq)
		}
	}
	return raw, trimmed
}

// shellQuote single-quotes a path for inclusion in a command template.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
