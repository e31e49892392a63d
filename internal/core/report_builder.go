package core

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// assembleReport builds the immutable report snapshot from the outputs of the
// completed phases. EndTime is stamped by the orchestrator at the moment the
// report is published.
func assembleReport(
	root string,
	startTime time.Time,
	records []*models.FileRecord,
	groups []*models.DuplicateGroup,
	suggestions []*models.ErasabilitySuggestion,
	skipped []models.SkippedEntry,
) *models.ScanReport {
	report := &models.ScanReport{
		ID:              uuid.NewString(),
		Root:            root,
		StartTime:       startTime,
		Files:           records,
		Categories:      make(map[models.Category]models.CategoryStats),
		DuplicateGroups: groups,
		Suggestions:     suggestions,
		Skipped:         skipped,
	}

	for _, rec := range records {
		report.TotalFiles++
		report.TotalSizeBytes += rec.Size

		stats := report.Categories[rec.Kind.Category]
		stats.Count++
		stats.TotalSizeBytes += rec.Size
		report.Categories[rec.Kind.Category] = stats

		if rec.Mismatch {
			report.Mismatches = append(report.Mismatches, models.Mismatch{
				Path:          rec.Path,
				DeclaredKind:  rec.DeclaredKind,
				SignatureKind: rec.SignatureFormat,
			})
		}
	}

	for category, stats := range report.Categories {
		if report.TotalSizeBytes > 0 {
			stats.Percentage = float64(stats.TotalSizeBytes) / float64(report.TotalSizeBytes) * 100
		}
		report.Categories[category] = stats
	}

	sort.Slice(report.Mismatches, func(i, j int) bool {
		return report.Mismatches[i].Path < report.Mismatches[j].Path
	})

	return report
}
