package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// LoadStats reports what a single word-list source contributed.
type LoadStats struct {
	Source   string
	Lines    int
	Inserted int
	Skipped  int // blank or non-alphabetic lines
}

// Source is a named word list.
type Source struct {
	Name   string
	Reader io.Reader
}

// loadWords streams r line by line into t. Blank lines, duplicates and
// lines with characters outside a..z are tolerated and counted as skipped.
func loadWords(t *Trie, name string, r io.Reader) (LoadStats, error) {
	stats := LoadStats{Source: name}
	scanner := bufio.NewScanner(r)
	// words_alpha style lists are one short word per line, but be generous
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		stats.Lines++
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			stats.Skipped++
			continue
		}
		before := t.Len()
		if !t.Insert(word) {
			stats.Skipped++
			continue
		}
		if t.Len() > before {
			stats.Inserted++
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read word list %s: %w", name, err)
	}
	log.Debugf("Loaded %s: lines=%d inserted=%d skipped=%d", name, stats.Lines, stats.Inserted, stats.Skipped)
	return stats, nil
}

// OpenSource opens a word-list file after validating it looks like text.
// A missing file is reported with os.ErrNotExist so callers can decide
// whether an absent list is acceptable.
func OpenSource(path string) (*os.File, error) {
	if err := ValidateWordList(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	return f, nil
}

// isMissing reports whether err means the file does not exist.
func isMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
