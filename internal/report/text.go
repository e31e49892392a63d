package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// generateText generates a plain text report
func (g *Generator) generateText(report *models.ScanReport, outputFile string) error {
	var sb strings.Builder

	// Header
	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString("  SEQUENCING DATA SCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n\n")

	// Summary
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	sb.WriteString(fmt.Sprintf("Report ID:        %s\n", report.ID))
	sb.WriteString(fmt.Sprintf("Scan Root:        %s\n", report.Root))
	sb.WriteString(fmt.Sprintf("Start Time:       %s\n", report.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("End Time:         %s\n", report.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", FormatDuration(report.Duration())))
	sb.WriteString(fmt.Sprintf("Total Files:      %d\n", report.TotalFiles))
	sb.WriteString(fmt.Sprintf("Total Size:       %s (%d bytes)\n", formatBytes(report.TotalSizeBytes), report.TotalSizeBytes))
	sb.WriteString(fmt.Sprintf("Skipped Entries:  %d\n", len(report.Skipped)))
	sb.WriteString("\n")

	// Category breakdown
	sb.WriteString("FILES BY CATEGORY\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	for _, category := range models.Categories {
		stats, ok := report.Categories[category]
		if !ok || stats.Count == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-18s %6d files  %12s  %5.1f%%\n",
			category, stats.Count, formatBytes(stats.TotalSizeBytes), stats.Percentage))
	}
	sb.WriteString("\n")

	// Duplicates
	sb.WriteString("DUPLICATE GROUPS\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n\n")
	if len(report.DuplicateGroups) == 0 {
		sb.WriteString("No duplicates found.\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("%d groups, %s reclaimable\n\n", len(report.DuplicateGroups), formatBytes(report.WastedBytes())))
		for i, group := range report.DuplicateGroups {
			sb.WriteString(fmt.Sprintf("[%d] fingerprint %s\n", i+1, group.Fingerprint))
			sb.WriteString(strings.Repeat("-", 79) + "\n")
			sb.WriteString(fmt.Sprintf("Copies:      %d\n", len(group.Members)))
			sb.WriteString(fmt.Sprintf("Wasted:      %s\n", formatBytes(group.WastedBytes)))
			for _, member := range group.Members {
				marker := "   "
				if member.Path == group.CanonicalPath {
					marker = " * "
				}
				sb.WriteString(fmt.Sprintf("%s%s (modified %s)\n", marker, member.Path, member.ModTime.Format("2006-01-02 15:04:05")))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("(* marks the canonical copy)\n\n")
	}

	// Mismatches
	if len(report.Mismatches) > 0 {
		sb.WriteString("EXTENSION/CONTENT MISMATCHES\n")
		sb.WriteString(strings.Repeat("=", 79) + "\n\n")
		for _, m := range report.Mismatches {
			sb.WriteString(fmt.Sprintf("File:        %s\n", m.Path))
			sb.WriteString(fmt.Sprintf("Declared:    %s\n", m.DeclaredKind.Format))
			sb.WriteString(fmt.Sprintf("Content:     %s\n", m.SignatureKind))
			sb.WriteString("\n")
		}
	}

	// Erasability suggestions
	sb.WriteString("ERASABLE FILE CANDIDATES\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n\n")
	if len(report.Suggestions) == 0 {
		sb.WriteString("No erasable candidates identified.\n\n")
	} else {
		for i, s := range report.Suggestions {
			sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, s.Path))
			sb.WriteString(strings.Repeat("-", 79) + "\n")
			sb.WriteString(fmt.Sprintf("Confidence:  %s\n", strings.ToUpper(string(s.Confidence))))
			sb.WriteString(fmt.Sprintf("Reason:      %s\n", s.Reason))
			for _, p := range s.PrerequisitePaths {
				sb.WriteString(fmt.Sprintf("Requires:    %s\n", p))
			}
			sb.WriteString(fmt.Sprintf("Regenerate:  %s\n", s.RegenerationCommand))
			sb.WriteString("\n")
		}
	}

	// Skipped entries
	if len(report.Skipped) > 0 {
		sb.WriteString("SKIPPED ENTRIES\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, entry := range report.Skipped {
			sb.WriteString(fmt.Sprintf("  %s (%s)\n", entry.Path, entry.Reason))
		}
		sb.WriteString("\n")
	}

	return os.WriteFile(outputFile, []byte(sb.String()), 0644)
}
