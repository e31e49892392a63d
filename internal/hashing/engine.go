// Package hashing computes the two content fingerprints the duplicate
// resolver relies on: a cheap sampled digest for candidate filtering and a
// strong full-content digest for confirmation.
package hashing

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// Engine computes file fingerprints. Safe for concurrent use.
type Engine struct {
	window int64 // sample window size W
	chunk  int   // streaming read size
}

// NewEngine creates a hash engine with the given sample window and streaming
// chunk size. Non-positive values fall back to 64 KiB / 4 MiB.
func NewEngine(window int64, chunk int) *Engine {
	if window <= 0 {
		window = 64 * 1024
	}
	if chunk <= 0 {
		chunk = 4 * 1024 * 1024
	}
	return &Engine{window: window, chunk: chunk}
}

// Window returns the sample window size in bytes.
func (e *Engine) Window() int64 {
	return e.window
}

// CheapFingerprint computes a fast sampled digest. Files of at most twice the
// window size are hashed in full, so for them the cheap fingerprint is exactly
// as accurate as a complete read. Larger files hash the size plus the first,
// middle and last window, which never confirms a duplicate on its own.
func (e *Engine) CheapFingerprint(path string, size int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := xxh3.New()

	if size <= 2*e.window {
		if _, err := io.Copy(h, f); err != nil {
			return "", fmt.Errorf("failed to hash content: %w", err)
		}
		return fmt.Sprintf("%016x", h.Sum64()), nil
	}

	var sizeBytes [8]byte
	binary.LittleEndian.PutUint64(sizeBytes[:], uint64(size))
	h.Write(sizeBytes[:])

	windows := []int64{0, size/2 - e.window/2, size - e.window}
	buf := make([]byte, e.window)
	for _, off := range windows {
		if _, err := f.Seek(off, io.SeekStart); err != nil {
			return "", fmt.Errorf("failed to seek to window: %w", err)
		}
		n, err := io.ReadFull(f, buf)
		if err != nil && err != io.ErrUnexpectedEOF {
			return "", fmt.Errorf("failed to read window: %w", err)
		}
		h.Write(buf[:n])
	}

	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// StrongFingerprint streams the entire file through SHA-256 in fixed-size
// chunks. Memory stays bounded regardless of file size; cancellation is
// observed between chunks.
func (e *Engine) StrongFingerprint(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, e.chunk)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read content: %w", err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
