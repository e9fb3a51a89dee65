package dictionary

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/charmbracelet/log"
)

// ErrNotText is returned for word lists that sniff as a known binary format.
var ErrNotText = errors.New("word list is not plain text")

// ValidateWordList checks that filename exists, is a regular file and does
// not start with the magic number of a binary format. Empty files are valid,
// a fresh user dictionary is empty.
func ValidateWordList(filename string) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat word list %s: %w", filename, err)
	}
	if !fileInfo.Mode().IsRegular() {
		return fmt.Errorf("word list %s is not a regular file", filename)
	}
	if fileInfo.Size() == 0 {
		return nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open word list %s: %w", filename, err)
	}
	defer file.Close()

	header := make([]byte, utils.SniffLen)
	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if kind, binary := utils.SniffBinary(header[:n]); binary {
		return fmt.Errorf("%s looks like %s: %w", filename, kind, ErrNotText)
	}

	log.Debugf("Word list %s validated (%d bytes)", filename, fileInfo.Size())
	return nil
}
