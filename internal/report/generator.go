package report

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/config"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// Generator renders completed scan reports in various formats. It reads the
// report snapshot and never mutates it.
type Generator struct {
	config *config.Config
	logger *zap.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger) *Generator {
	return &Generator{
		config: cfg,
		logger: logger,
	}
}

// Generate renders the report in the configured format and returns the output
// path ("" for console output).
func (g *Generator) Generate(report *models.ScanReport) (string, error) {
	format := g.config.ReportFormat
	outputFile := g.config.OutputFile

	// If no format specified, print to console
	if format == "" {
		g.printConsole(report)
		return "", nil
	}

	// Generate default filename if not specified
	if outputFile == "" {
		timestamp := time.Now().Format("20060102-150405")
		switch format {
		case "json":
			outputFile = fmt.Sprintf("SEQSCAN-REPORT-%s.json", timestamp)
		case "txt", "text":
			outputFile = fmt.Sprintf("SEQSCAN-REPORT-%s.txt", timestamp)
		case "msgpack":
			outputFile = fmt.Sprintf("SEQSCAN-REPORT-%s.msgpack", timestamp)
		}
	}

	var err error
	switch format {
	case "json":
		err = g.generateJSON(report, outputFile)
	case "txt", "text":
		err = g.generateText(report, outputFile)
	case "msgpack":
		err = g.generateMsgpack(report, outputFile)
	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}
	if err != nil {
		return "", err
	}

	g.logger.Info("Report written",
		zap.String("format", format),
		zap.String("path", outputFile))
	return outputFile, nil
}

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

func formatBytes(n int64) string {
	return humanize.IBytes(uint64(n))
}
