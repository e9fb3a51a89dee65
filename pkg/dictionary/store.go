package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordcheck/internal/utils"
)

// ErrStoreClosed is returned when appending to a store after Close.
var ErrStoreClosed = errors.New("word store is closed")

// WordStore persists learned words. Implementations are append-only.
type WordStore interface {
	Append(word string) error
	Close() error
}

// FileStore appends newline-delimited words to a file. The handle is
// acquired when the store is opened and released once by Close, which
// also flushes any buffered words.
type FileStore struct {
	path string
	file *os.File
	w    *bufio.Writer
}

// OpenFileStore opens path for appending, creating it and its parent
// directory if missing.
func OpenFileStore(path string) (*FileStore, error) {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create store dir for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open word store %s: %w", path, err)
	}
	return &FileStore{path: path, file: f, w: bufio.NewWriter(f)}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Append writes word followed by a newline and flushes it to the file.
func (s *FileStore) Append(word string) error {
	if s.file == nil {
		return ErrStoreClosed
	}
	if _, err := s.w.WriteString(word + "\n"); err != nil {
		return fmt.Errorf("failed to append %q to %s: %w", word, s.path, err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("failed to append %q to %s: %w", word, s.path, err)
	}
	return nil
}

// Close flushes and releases the file. Calling it twice is a no-op.
func (s *FileStore) Close() error {
	if s.file == nil {
		return nil
	}
	flushErr := s.w.Flush()
	closeErr := s.file.Close()
	s.file = nil
	if flushErr != nil {
		return fmt.Errorf("failed to flush word store %s: %w", s.path, flushErr)
	}
	return closeErr
}

// WriterStore adapts any io.Writer, mostly for tests and embedding.
type WriterStore struct {
	W io.Writer
}

func (s WriterStore) Append(word string) error {
	_, err := io.WriteString(s.W, word+"\n")
	return err
}

func (s WriterStore) Close() error { return nil }
