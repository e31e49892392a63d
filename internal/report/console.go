package report

import (
	"fmt"
	"strings"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
	colorOrange = "\033[38;5;208m"
	colorGray   = "\033[38;5;245m"
)

// printConsole prints the report to stdout with colors
func (g *Generator) printConsole(report *models.ScanReport) {
	fmt.Println()

	// Summary header
	fmt.Printf("%s%sSCAN COMPLETE%s\n", colorBold, colorCyan, colorReset)
	fmt.Println()

	// Stats
	fmt.Printf("  %sRoot:%s      %s\n", colorGray, colorReset, report.Root)
	fmt.Printf("  %sFiles:%s     %d\n", colorGray, colorReset, report.TotalFiles)
	fmt.Printf("  %sSize:%s      %s\n", colorGray, colorReset, formatBytes(report.TotalSizeBytes))
	fmt.Printf("  %sDuration:%s  %s\n", colorGray, colorReset, FormatDuration(report.Duration()))
	fmt.Println()

	// Category breakdown
	fmt.Printf("%s%sCATEGORIES%s\n", colorBold, colorWhite, colorReset)
	for _, category := range models.Categories {
		stats, ok := report.Categories[category]
		if !ok || stats.Count == 0 {
			continue
		}
		fmt.Printf("  %s%-16s%s %5d files  %10s  %5.1f%%\n",
			colorGray, category, colorReset,
			stats.Count, formatBytes(stats.TotalSizeBytes), stats.Percentage)
	}
	fmt.Println()

	// Duplicates
	if len(report.DuplicateGroups) > 0 {
		fmt.Printf("  %s%s⚠ DUPLICATE GROUPS: %d (%s wasted)%s\n",
			colorBold, colorOrange, len(report.DuplicateGroups), formatBytes(report.WastedBytes()), colorReset)
		fmt.Println()
		fmt.Printf("%s%s%s\n", colorGray, strings.Repeat("─", 63), colorReset)
		for i, group := range report.DuplicateGroups {
			fmt.Printf("\n  %s%s[%d]%s %d copies, %s wasted\n",
				colorBold, colorWhite, i+1, colorReset, len(group.Members), formatBytes(group.WastedBytes))
			for _, member := range group.Members {
				marker := " "
				if member.Path == group.CanonicalPath {
					marker = "*" // canonical copy
				}
				fmt.Printf("      %s %s%s%s\n", marker, colorDim, member.Path, colorReset)
			}
		}
		fmt.Println()
		fmt.Printf("%s%s%s\n", colorGray, strings.Repeat("─", 63), colorReset)
	} else {
		fmt.Printf("  %s%s✓ No duplicates found%s\n", colorBold, colorGreen, colorReset)
	}
	fmt.Println()

	// Mismatches
	if len(report.Mismatches) > 0 {
		fmt.Printf("  %s%s⚠ EXTENSION/CONTENT MISMATCHES: %d%s\n", colorBold, colorRed, len(report.Mismatches), colorReset)
		for _, m := range report.Mismatches {
			fmt.Printf("      %s%s%s  declared %s, content %s\n",
				colorOrange, m.Path, colorReset, m.DeclaredKind.Format, m.SignatureKind)
		}
		fmt.Println()
	}

	// Erasability suggestions
	if len(report.Suggestions) > 0 {
		fmt.Printf("  %s%sERASABLE FILE CANDIDATES: %d%s\n", colorBold, colorYellow, len(report.Suggestions), colorReset)
		for i, s := range report.Suggestions {
			fmt.Printf("\n  %s%s[%d]%s %s\n", colorBold, colorWhite, i+1, colorReset, s.Path)
			fmt.Printf("      %sConfidence:%s  %s%s%s\n", colorGray, colorReset, confidenceColor(s.Confidence), strings.ToUpper(string(s.Confidence)), colorReset)
			fmt.Printf("      %sReason:%s      %s\n", colorGray, colorReset, s.Reason)
			for _, p := range s.PrerequisitePaths {
				fmt.Printf("      %sRequires:%s    %s\n", colorGray, colorReset, p)
			}
			fmt.Printf("      %sRegenerate:%s  %s%s%s\n", colorGray, colorReset, colorDim, s.RegenerationCommand, colorReset)
		}
		fmt.Println()
	}

	if len(report.Skipped) > 0 {
		fmt.Printf("  %sSkipped %d unreadable entries%s\n", colorGray, len(report.Skipped), colorReset)
		fmt.Println()
	}
}

// confidenceColor returns ANSI color for a suggestion confidence level
func confidenceColor(c models.Confidence) string {
	switch c {
	case models.ConfidenceHigh:
		return colorGreen
	case models.ConfidenceMedium:
		return colorYellow
	case models.ConfidenceLow:
		return colorOrange
	default:
		return colorWhite
	}
}
