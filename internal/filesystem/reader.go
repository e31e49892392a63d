package filesystem

import (
	"fmt"
	"io"
	"os"
)

// ReadHeader reads up to n bytes from the start of the file. Files shorter
// than n return what they have; classification handles short prefixes.
func ReadHeader(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	return buf[:read], nil
}
