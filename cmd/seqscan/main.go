package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/config"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/core"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/report"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// ANSI colors
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[38;5;245m"
)

var (
	version = "0.1.0"
	logger  *zap.Logger
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "seqscan",
		Short: "Seqscan - Content Analysis for Sequencing Data Directories",
		Long: `Scans directories of sequencing data, classifies files by content signature,
finds byte-identical duplicates and suggests safely erasable derived files.
The scanner reads only; it never deletes or modifies anything.`,
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			printBanner()
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(formatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printBanner prints the startup banner
func printBanner() {
	fmt.Println()
	fmt.Printf("%s", colorCyan)
	fmt.Println("▄████▄ ██████ ▄████▄ ▄████▄ ▄████▄ ▄████▄ ███  ██")
	fmt.Println("▀███▄▄ ██▄▄   ██  ██ ▀███▄▄ ██     ██▄▄██ ██ ▀▄██")
	fmt.Println("▄▄███▀ ██▀▀   ██▀███ ▄▄███▀ ██  ▄▄ ██▀▀██ ██   ██")
	fmt.Println("▀████▀ ██████ ▀████▀ ▀████▀ ▀████▀ ██  ██ ██   ██")
	fmt.Printf("%s", colorReset)
	fmt.Println()
	fmt.Printf("%sSequencing Data Scanner v%s%s\n", colorGray, version, colorReset)
	fmt.Println()
}

// initLogger builds the logger once per invocation. Verbose gets a development
// console logger, everything else logs errors only.
func initLogger() error {
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
			Encoding:         "json",
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig:    zap.NewProductionEncoderConfig(),
		}
		logger, err = cfg.Build()
	}
	return err
}

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var (
		workers      int
		exclude      []string
		reportFormat string
		outputFile   string
		sampleWindow string
		hashChunk    string
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory of sequencing data",
		Long:  `Recursively scan a directory: classify files, detect duplicates and extension mismatches, and propose erasable derived files.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if err := validateFlags(reportFormat); err != nil {
				fmt.Printf("\n  %s✗ Invalid parameter:%s %s\n\n", colorRed, colorReset, err.Error())
				return err
			}

			if err := initLogger(); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
				return err
			}
			defer logger.Sync()

			cfg, err := config.LoadConfig()
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}

			// Override config with CLI flags
			if workers > 0 {
				cfg.Workers = workers
			}
			if len(exclude) > 0 {
				cfg.Exclude = exclude
			}
			if reportFormat != "" {
				cfg.ReportFormat = reportFormat
			}
			if outputFile != "" {
				cfg.OutputFile = outputFile
			}
			if sampleWindow != "" {
				cfg.SampleWindow = sampleWindow
			}
			if hashChunk != "" {
				cfg.HashChunk = hashChunk
			}

			orchestrator := core.NewOrchestrator(cfg, logger)

			// Progress rendering: rewrite the same line per phase.
			var lastPhase models.Phase
			orchestrator.SetProgressCallback(func(p models.Progress) {
				if lastPhase == p.Phase {
					fmt.Print("\033[1A\033[K")
				}
				lastPhase = p.Phase

				if p.Total > 0 {
					pct := float64(p.Processed) / float64(p.Total) * 100
					barWidth := 30
					filled := int(float64(barWidth) * float64(p.Processed) / float64(p.Total))
					bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
					fmt.Printf("  %s%-14s%s [%s%s%s] %s%.1f%%%s (%d/%d)\n",
						colorGray, phaseLabel(p.Phase), colorReset,
						colorCyan, bar, colorReset, colorCyan, pct, colorReset, p.Processed, p.Total)
				}
			})

			fmt.Println()
			fmt.Printf("  %sScanning:%s  %s\n\n", colorGray, colorReset, path)

			switch orchestrator.Start(path) {
			case core.InvalidRoot:
				return fmt.Errorf("invalid scan root: %s", path)
			case core.Conflict:
				return fmt.Errorf("a scan is already in progress")
			}
			orchestrator.Wait()

			status := orchestrator.Status()
			if status.Error != "" {
				return fmt.Errorf("scan failed: %s", status.Error)
			}

			result, ok := orchestrator.Report()
			if !ok {
				return fmt.Errorf("scan produced no report")
			}

			generator := report.NewGenerator(cfg, logger)
			reportPath, err := generator.Generate(result)
			if err != nil {
				logger.Error("Report generation failed", zap.Error(err))
				return err
			}
			if reportPath != "" {
				fmt.Printf("  %sReport:%s    %s%s%s\n", colorGray, colorReset, colorCyan, reportPath, colorReset)
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Number of worker goroutines (default: CPU cores * 2)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Directory names to exclude (comma-separated)")
	cmd.Flags().StringVarP(&reportFormat, "report", "r", "", "Report format: txt, json, msgpack (default: console output)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path")
	cmd.Flags().StringVar(&sampleWindow, "sample-window", "", "Sampled fingerprint window size (default: 64K)")
	cmd.Flags().StringVar(&hashChunk, "hash-chunk", "", "Streaming hash chunk size (default: 4M)")

	return cmd
}

// validateFlags validates CLI flag values
func validateFlags(reportFormat string) error {
	if reportFormat != "" {
		validFormats := []string{"txt", "text", "json", "msgpack"}
		if !contains(validFormats, reportFormat) {
			return fmt.Errorf("--report must be one of: %s (got: %s)", strings.Join(validFormats, ", "), reportFormat)
		}
	}
	return nil
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func phaseLabel(phase models.Phase) string {
	switch phase {
	case models.PhaseCounting:
		return "Counting:"
	case models.PhaseClassifying:
		return "Classifying:"
	case models.PhaseDeduplicating:
		return "Deduplicating:"
	case models.PhaseFinalizing:
		return "Finalizing:"
	default:
		return string(phase) + ":"
	}
}

// formatsCmd creates the formats command
func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List recognized formats and categories",
		Long:  `Display the content signatures and filename rules the classifier recognizes.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("SIGNATURE-DETECTED FORMATS (header bytes win over filename):")
			fmt.Println("  ✓ BGZF       blocked gzip used by BAM, BCF and tabix-indexed files")
			fmt.Println("  ✓ GZIP       plain gzip stream")
			fmt.Println("  ✓ BAM        binary alignments (inside BGZF)")
			fmt.Println("  ✓ CRAM       reference-compressed alignments")
			fmt.Println("  ✓ BCF        binary variant calls (inside BGZF)")
			fmt.Println("  ✓ SAM        text alignments (@HD/@SQ header)")
			fmt.Println("  ✓ VCF        text variant calls (##fileformat=VCF)")
			fmt.Println("  ✓ FASTQ      reads with quality lines")
			fmt.Println("  ✓ FASTA      reference or contig sequences")
			fmt.Println("")
			fmt.Println("FILENAME-ONLY FORMATS (no reliable byte signature):")
			fmt.Println("  ◆ SRA        .sra archives")
			fmt.Println("  ◆ indexes    .bai, .csi, .fai")
			fmt.Println("")
			fmt.Println("CATEGORIES:")
			fmt.Println("  raw_sequencing   fastq, fasta, sra, cram sources")
			fmt.Println("  aligned          bam, sam")
			fmt.Println("  intermediate     indexes, vcf/bcf, beds, metrics, logs")
			fmt.Println("  final_output     final/report/summary tables and documents")
			fmt.Println("  unclassified     nothing matched, or signature contradicts the name")
			fmt.Println("")
			fmt.Println("EXAMPLES:")
			fmt.Println("  seqscan scan /data/run42                     # Console summary")
			fmt.Println("  seqscan scan --report=json /data/run42       # Machine-readable report")
			fmt.Println("  seqscan scan --exclude=tmp,.git /data/run42  # Skip directories")
		},
	}
}
