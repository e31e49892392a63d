package dedup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AIGeneRegulation/Sequencing-Data-Manager/internal/hashing"
	"github.com/AIGeneRegulation/Sequencing-Data-Manager/pkg/models"
)

const testWindow = 4 * 1024

func newTestResolver() *Resolver {
	return NewResolver(hashing.NewEngine(testWindow, 1024), 2, zap.NewNop())
}

func record(t *testing.T, dir, name string, content []byte, mtime time.Time) *models.FileRecord {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return &models.FileRecord{Path: path, Size: int64(len(content)), ModTime: mtime}
}

func patterned(n int, seed byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i) ^ seed
	}
	return buf
}

// Two identical large files under different names form exactly one group with
// the earlier-modified file as canonical.
func TestResolve_IdenticalPair(t *testing.T) {
	dir := t.TempDir()
	content := patterned(10*testWindow, 0)
	older := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	newer := older.Add(time.Hour)

	a := record(t, dir, "run1.bam", content, newer)
	b := record(t, dir, "backup.bam", content, older)
	c := record(t, dir, "unrelated.bam", patterned(10*testWindow, 9), newer)

	result, err := newTestResolver().Resolve(context.Background(), []*models.FileRecord{a, b, c})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(result.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(result.Groups))
	}
	g := result.Groups[0]
	if len(g.Members) != 2 {
		t.Fatalf("group has %d members, want 2", len(g.Members))
	}
	if g.CanonicalPath != b.Path {
		t.Errorf("canonical = %s, want earlier-modified %s", g.CanonicalPath, b.Path)
	}
	if want := int64(len(content)); g.WastedBytes != want {
		t.Errorf("WastedBytes = %d, want %d", g.WastedBytes, want)
	}
	if g.Fingerprint == "" {
		t.Error("group fingerprint is empty")
	}
	for _, m := range g.Members {
		if m.Size != int64(len(content)) {
			t.Errorf("member %s size = %d, want %d", m.Path, m.Size, len(content))
		}
	}
}

// Files sharing size and all sampled windows but differing elsewhere must be
// rejected by the full-content confirmation phase.
func TestResolve_FalseCandidateRejected(t *testing.T) {
	dir := t.TempDir()
	size := 10 * testWindow
	a := patterned(size, 0)
	b := append([]byte(nil), a...)
	b[3*testWindow] ^= 0xff // untouched by any sampled window

	mtime := time.Now().Truncate(time.Second)
	recA := record(t, dir, "a.bin", a, mtime)
	recB := record(t, dir, "b.bin", b, mtime)

	result, err := newTestResolver().Resolve(context.Background(), []*models.FileRecord{recA, recB})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if recA.CheapFingerprint != recB.CheapFingerprint {
		t.Fatal("test fixture broken: cheap fingerprints should collide")
	}
	if len(result.Groups) != 0 {
		t.Errorf("got %d groups, want 0: strong confirmation must reject the pair", len(result.Groups))
	}
}

func TestResolve_SingletonsNeverHashed(t *testing.T) {
	dir := t.TempDir()
	mtime := time.Now().Truncate(time.Second)
	a := record(t, dir, "a.bin", patterned(100, 0), mtime)
	b := record(t, dir, "b.bin", patterned(200, 0), mtime)

	result, err := newTestResolver().Resolve(context.Background(), []*models.FileRecord{a, b})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(result.Groups) != 0 {
		t.Errorf("got %d groups, want 0", len(result.Groups))
	}
	if a.CheapFingerprint != "" || b.CheapFingerprint != "" {
		t.Error("singleton size buckets must not be fingerprinted")
	}
}

func TestResolve_EmptyFilesExcluded(t *testing.T) {
	dir := t.TempDir()
	mtime := time.Now().Truncate(time.Second)
	a := record(t, dir, "a.empty", nil, mtime)
	b := record(t, dir, "b.empty", nil, mtime)

	result, err := newTestResolver().Resolve(context.Background(), []*models.FileRecord{a, b})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(result.Groups) != 0 {
		t.Errorf("got %d groups for empty files, want 0", len(result.Groups))
	}
}

func TestResolve_CanonicalTieBreakByPath(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("x"), 512)
	mtime := time.Now().Truncate(time.Second)

	a := record(t, dir, "zzz.txt", content, mtime)
	b := record(t, dir, "aaa.txt", content, mtime)

	result, err := newTestResolver().Resolve(context.Background(), []*models.FileRecord{a, b})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(result.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(result.Groups))
	}
	if result.Groups[0].CanonicalPath != b.Path {
		t.Errorf("canonical = %s, want lexicographically smaller %s", result.Groups[0].CanonicalPath, b.Path)
	}
}

func TestResolve_UnreadableFileSkipped(t *testing.T) {
	dir := t.TempDir()
	content := patterned(512, 0)
	mtime := time.Now().Truncate(time.Second)
	a := record(t, dir, "a.bin", content, mtime)
	b := record(t, dir, "b.bin", content, mtime)

	// A record pointing at a missing file lands in the same size bucket but
	// fails fingerprinting; the scan must continue without it.
	ghost := &models.FileRecord{
		Path:    filepath.Join(dir, "ghost.bin"),
		Size:    int64(len(content)),
		ModTime: mtime,
	}

	result, err := newTestResolver().Resolve(context.Background(), []*models.FileRecord{a, b, ghost})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("got %d skipped entries, want 1", len(result.Skipped))
	}
	if result.Skipped[0].Path != ghost.Path {
		t.Errorf("skipped path = %s, want %s", result.Skipped[0].Path, ghost.Path)
	}
	if len(result.Groups) != 1 || len(result.Groups[0].Members) != 2 {
		t.Error("readable pair must still form a group")
	}
}

func TestResolve_NoPathInTwoGroups(t *testing.T) {
	dir := t.TempDir()
	mtime := time.Now().Truncate(time.Second)
	one := patterned(512, 1)
	two := patterned(512, 2)

	records := []*models.FileRecord{
		record(t, dir, "a1.bin", one, mtime),
		record(t, dir, "a2.bin", one, mtime),
		record(t, dir, "b1.bin", two, mtime),
		record(t, dir, "b2.bin", two, mtime),
	}

	result, err := newTestResolver().Resolve(context.Background(), records)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(result.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(result.Groups))
	}
	seen := map[string]bool{}
	for _, g := range result.Groups {
		for _, m := range g.Members {
			if seen[m.Path] {
				t.Errorf("path %s appears in two groups", m.Path)
			}
			seen[m.Path] = true
		}
	}
}

func TestResolve_Cancelled(t *testing.T) {
	dir := t.TempDir()
	mtime := time.Now().Truncate(time.Second)
	content := patterned(512, 0)
	records := []*models.FileRecord{
		record(t, dir, "a.bin", content, mtime),
		record(t, dir, "b.bin", content, mtime),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestResolver().Resolve(ctx, records); err != context.Canceled {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}
