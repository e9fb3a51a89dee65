package document

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Stage is the temporary output file corrected lines are written to until
// the session exports or destroys it.
type Stage struct {
	path   string
	file   *os.File
	w      *bufio.Writer
	closed bool
}

// NewStage creates a uniquely named staging file in dir, or in the OS
// temp dir when dir is empty.
func NewStage(dir string) (*Stage, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create staging dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, "wordcheck-"+uuid.NewString()+".tmp")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}
	log.Debugf("Staging output at %s", path)
	return &Stage{path: path, file: f, w: bufio.NewWriter(f)}, nil
}

// Path is the staging file location.
func (s *Stage) Path() string {
	return s.path
}

// WriteString appends text to the staged output.
func (s *Stage) WriteString(text string) error {
	if s.closed {
		return ErrClosed
	}
	if _, err := s.w.WriteString(text); err != nil {
		return fmt.Errorf("failed to write staged output: %w", err)
	}
	return nil
}

// Close flushes and closes the staging file. It is safe to call twice.
func (s *Stage) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	flushErr := s.w.Flush()
	if err := s.file.Close(); err != nil && flushErr == nil {
		return fmt.Errorf("failed to close staged output: %w", err)
	}
	if flushErr != nil {
		return fmt.Errorf("failed to flush staged output: %w", flushErr)
	}
	return nil
}

// MoveTo closes the stage and relocates it to dst, inserting suffix before
// the extension until a free name is found. It returns the final path.
func (s *Stage) MoveTo(dst, suffix string) (string, error) {
	if err := s.Close(); err != nil {
		return "", err
	}
	final, err := utils.MoveNoClobber(s.path, dst, suffix)
	if err != nil {
		return "", fmt.Errorf("failed to move staged output to %s: %w", dst, err)
	}
	log.Debugf("Staged output moved to %s", final)
	return final, nil
}

// Destroy closes the stage and deletes the staging file.
func (s *Stage) Destroy() error {
	if err := s.Close(); err != nil {
		log.Warnf("Closing staged output before delete: %v", err)
	}
	if err := os.Remove(s.path); err != nil {
		return fmt.Errorf("failed to delete staged output %s: %w", s.path, err)
	}
	return nil
}
