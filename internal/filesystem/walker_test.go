package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalker_Walk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), []byte("aaa"))
	writeFile(t, filepath.Join(root, "sub", "b.txt"), []byte("bbbb"))
	writeFile(t, filepath.Join(root, ".git", "config"), []byte("x"))

	w := NewWalker([]string{".git"}, 2, zap.NewNop())

	var mu sync.Mutex
	var paths []string
	err := w.Walk(context.Background(), root, func(e Entry) error {
		mu.Lock()
		paths = append(paths, filepath.Base(e.Path))
		mu.Unlock()
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	sort.Strings(paths)
	want := []string{"a.txt", "b.txt"}
	if len(paths) != len(want) {
		t.Fatalf("Walk() yielded %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Walk() yielded %v, want %v", paths, want)
			break
		}
	}
}

func TestWalker_SkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.txt")
	writeFile(t, target, []byte("data"))
	if err := os.Symlink(target, filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	w := NewWalker(nil, 1, zap.NewNop())
	count, err := w.Count(context.Background(), root)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1 (symlink must not be followed)", count)
	}
}

func TestWalker_Cancellation(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFile(t, filepath.Join(root, "sub", string(rune('a'+i))+".txt"), []byte("x"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWalker(nil, 1, zap.NewNop())
	err := w.Walk(ctx, root, func(Entry) error { return nil }, nil)
	if err != context.Canceled {
		t.Errorf("Walk() with cancelled context error = %v, want context.Canceled", err)
	}
}

func TestWalker_Count(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), []byte("1"))
	writeFile(t, filepath.Join(root, "b"), []byte("2"))
	writeFile(t, filepath.Join(root, "c", "d"), []byte("3"))

	w := NewWalker(nil, 2, zap.NewNop())
	count, err := w.Count(context.Background(), root)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}
