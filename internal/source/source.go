// Package source splits a sensor log into whitespace-separated tokens.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// MaxTokenSize bounds a single token. Sensor values are a handful of
// characters; anything longer is a corrupt log.
const MaxTokenSize = 64 * 1024

// Scanner yields the tokens of a reader one at a time.
type Scanner struct {
	sc *bufio.Scanner
}

// NewScanner returns a Scanner reading whitespace-separated tokens from r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), MaxTokenSize)
	sc.Split(bufio.ScanWords)
	return &Scanner{sc: sc}
}

// Next returns the next token, or io.EOF once the input is exhausted.
// Any other error comes from the underlying reader.
func (s *Scanner) Next() (string, error) {
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", fmt.Errorf("source: scan: %w", err)
	}
	return "", io.EOF
}

// File is a Scanner over an opened file. Close releases the file.
type File struct {
	*Scanner
	f *os.File
}

// Open opens path for token scanning.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open: %w", err)
	}
	return &File{Scanner: NewScanner(f), f: f}, nil
}

// Close closes the underlying file.
func (f *File) Close() error { return f.f.Close() }
