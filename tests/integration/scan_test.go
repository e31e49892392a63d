package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/config"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/core"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/report"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

// bgzfHeader is a minimal BGZF block header: gzip magic, FEXTRA set, and the
// BC extra subfield that distinguishes BGZF from plain gzip.
var bgzfHeader = []byte{
	0x1f, 0x8b, 0x08, 0x04,
	0x00, 0x00, 0x00, 0x00,
	0x00, 0xff,
	0x06, 0x00,
	'B', 'C', 0x02, 0x00,
	0x1b, 0x00,
}

var plainGzipHeader = []byte{0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0xaa, 0xbb}

func writeFile(t *testing.T, root, name string, content []byte, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	if !mtime.IsZero() {
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
	return path
}

// buildSampleRun lays out a small but realistic sequencing run directory.
func buildSampleRun(t *testing.T, root string) {
	t.Helper()
	base := time.Now().Add(-48 * time.Hour).Truncate(time.Second)

	fastq := []byte("@read1\nACGTACGTACGT\n+\nFFFFFFFFFFFF\n@read2\nTTTTACGTACGT\n+\nFFFFFFFFFFFF\n")

	// Raw reads plus a byte-identical copy under another name.
	writeFile(t, root, "raw/sample1.fastq", fastq, base)
	writeFile(t, root, "backup/sample1_copy.fastq", fastq, base.Add(2*time.Hour))

	// Aligned pair: a SAM next to its sorted, indexed BAM.
	writeFile(t, root, "aligned/sample1.sam", []byte("@HD\tVN:1.6\tSO:coordinate\nread1\t0\tchr1\t100\n"), base)
	writeFile(t, root, "aligned/sample1.sorted.bam", bgzfHeader, base.Add(time.Hour))
	writeFile(t, root, "aligned/sample1.sorted.bam.bai", []byte{0x01, 0x02, 0x03, 0x04}, base.Add(time.Hour))

	// A .bam that is actually a plain gzip stream.
	writeFile(t, root, "aligned/corrupt.bam", plainGzipHeader, base)

	// Variant calls and run paperwork.
	writeFile(t, root, "calls/sample1.vcf", []byte("##fileformat=VCFv4.2\n#CHROM\tPOS\tID\n"), base)
	writeFile(t, root, "final_summary.tsv", []byte("sample\treads\nsample1\t2\n"), base)

	// Excluded directory content must never appear in the report.
	writeFile(t, root, "tmp/scratch.fastq", fastq, base)
}

func runFullScan(t *testing.T, cfg *config.Config, root string) *models.ScanReport {
	t.Helper()
	o := core.NewOrchestrator(cfg, zap.NewNop())
	require.Equal(t, core.Accepted, o.Start(root))
	o.Wait()

	status := o.Status()
	require.Equal(t, models.PhaseCompleted, status.Phase, "scan error: %s", status.Error)

	result, ok := o.Report()
	require.True(t, ok)
	return result
}

func TestFullPipeline(t *testing.T) {
	root := t.TempDir()
	buildSampleRun(t, root)

	cfg := &config.Config{
		Workers:      2,
		Exclude:      []string{"tmp"},
		HeaderPrefix: 1024,
		SampleWindow: "4K",
		HashChunk:    "64K",
	}
	result := runFullScan(t, cfg, root)

	// Inventory: 8 files, tmp/ excluded.
	assert.Equal(t, 8, result.TotalFiles)
	for _, rec := range result.Files {
		assert.NotContains(t, rec.Path, string(filepath.Separator)+"tmp"+string(filepath.Separator))
	}

	// Duplicate pair with the older copy canonical.
	require.Len(t, result.DuplicateGroups, 1)
	group := result.DuplicateGroups[0]
	assert.Len(t, group.Members, 2)
	assert.Equal(t, "sample1.fastq", filepath.Base(group.CanonicalPath))
	assert.Equal(t, group.Members[0].Size, group.WastedBytes)
	assert.Equal(t, result.WastedBytes(), group.WastedBytes)

	// The fake BAM is the only mismatch and lands in unclassified.
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, "corrupt.bam", filepath.Base(result.Mismatches[0].Path))
	for _, rec := range result.Files {
		if filepath.Base(rec.Path) == "corrupt.bam" {
			assert.True(t, rec.Mismatch)
			assert.Equal(t, models.CategoryUnclassified, rec.Kind.Category)
		}
	}

	// The SAM next to its indexed BAM is suggested erasable.
	var samSuggestion *models.ErasabilitySuggestion
	for _, s := range result.Suggestions {
		if filepath.Base(s.Path) == "sample1.sam" {
			samSuggestion = s
		}
	}
	require.NotNil(t, samSuggestion, "expected a suggestion for sample1.sam")
	assert.Equal(t, models.ConfidenceHigh, samSuggestion.Confidence)
	require.Len(t, samSuggestion.PrerequisitePaths, 1)
	assert.Equal(t, "sample1.sorted.bam", filepath.Base(samSuggestion.PrerequisitePaths[0]))
	assert.Contains(t, samSuggestion.RegenerationCommand, "samtools view")

	// The corrupt BAM never becomes a prerequisite.
	for _, s := range result.Suggestions {
		for _, p := range s.PrerequisitePaths {
			assert.NotEqual(t, "corrupt.bam", filepath.Base(p))
		}
	}

	// Category totals add up to the inventory.
	var count int
	var size int64
	for _, stats := range result.Categories {
		count += stats.Count
		size += stats.TotalSizeBytes
	}
	assert.Equal(t, result.TotalFiles, count)
	assert.Equal(t, result.TotalSizeBytes, size)
}

func TestFullPipeline_ReportFormats(t *testing.T) {
	root := t.TempDir()
	buildSampleRun(t, root)

	outDir := t.TempDir()
	cfg := &config.Config{
		Workers:      2,
		Exclude:      []string{"tmp"},
		HeaderPrefix: 1024,
		SampleWindow: "4K",
		HashChunk:    "64K",
		ReportFormat: "json",
		OutputFile:   filepath.Join(outDir, "scan.json"),
	}
	result := runFullScan(t, cfg, root)

	jsonPath, err := report.NewGenerator(cfg, zap.NewNop()).Generate(result)
	require.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded models.ScanReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result.ID, decoded.ID)
	assert.Equal(t, result.TotalFiles, decoded.TotalFiles)
	assert.Len(t, decoded.DuplicateGroups, len(result.DuplicateGroups))

	// Same report through the binary encoder.
	cfg.ReportFormat = "msgpack"
	cfg.OutputFile = filepath.Join(outDir, "scan.msgpack")
	packPath, err := report.NewGenerator(cfg, zap.NewNop()).Generate(result)
	require.NoError(t, err)

	packed, err := os.ReadFile(packPath)
	require.NoError(t, err)
	roundTripped, err := report.DecodeMsgpack(packed)
	require.NoError(t, err)
	assert.Equal(t, result.ID, roundTripped.ID)
	assert.Equal(t, result.TotalSizeBytes, roundTripped.TotalSizeBytes)
}

// Re-scanning after the tree changed replaces the report atomically: the old
// report stays available during the scan and the new one fully supersedes it.
func TestFullPipeline_RescanReplacesReport(t *testing.T) {
	root := t.TempDir()
	buildSampleRun(t, root)

	cfg := &config.Config{
		Workers:      2,
		Exclude:      []string{"tmp"},
		HeaderPrefix: 1024,
		SampleWindow: "4K",
		HashChunk:    "64K",
	}
	o := core.NewOrchestrator(cfg, zap.NewNop())
	require.Equal(t, core.Accepted, o.Start(root))
	o.Wait()
	first, ok := o.Report()
	require.True(t, ok)

	// Remove the duplicate copy and rescan.
	require.NoError(t, os.Remove(filepath.Join(root, "backup", "sample1_copy.fastq")))
	require.Equal(t, core.Accepted, o.Start(root))
	o.Wait()
	second, ok := o.Report()
	require.True(t, ok)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.TotalFiles-1, second.TotalFiles)
	assert.Empty(t, second.DuplicateGroups)
}
