// Package textfile reads practice text one line at a time.
package textfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const maxLineBytes = 1 << 20

// Reader is a forward-only line provider. Lines are returned without their
// trailing "\n" or "\r\n"; empty lines are kept.
type Reader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	done    bool
}

// Open opens the file at path for reading.
func Open(path string) (*Reader, error) {
	if path == "" {
		return nil, fmt.Errorf("text file path is empty")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	r := NewReader(file)
	r.closer = file
	return r, nil
}

// NewReader wraps an io.Reader.
func NewReader(src io.Reader) *Reader {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &Reader{scanner: scanner}
}

// Next returns the next line. It returns false once the input is exhausted
// or a read fails; check Err to tell the two apart.
func (r *Reader) Next() (string, bool) {
	if r.done {
		return "", false
	}
	if !r.scanner.Scan() {
		r.done = true
		return "", false
	}
	return r.scanner.Text(), true
}

// Err returns the first read error, if any.
func (r *Reader) Err() error {
	return r.scanner.Err()
}

// Close releases the underlying file, if Open created one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
