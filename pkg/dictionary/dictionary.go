// Package dictionary holds the word lists a spell check session validates against:
// a 26-way trie loaded from a stock list and a user list, plus the append-only
// store where newly learned words are persisted.
package dictionary

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Dictionary owns one Trie and the store learned words are appended to.
// It is not safe for concurrent use; each session owns its own instance
// or treats a shared one as read-only.
type Dictionary struct {
	trie  *Trie
	store WordStore
	// cache is nil or exactly trie.Enumerate()
	cache      []string
	generation uint64
}

// New returns an empty dictionary persisting additions to store.
// A nil store keeps additions in memory only.
func New(store WordStore) *Dictionary {
	return &Dictionary{trie: NewTrie(), store: store}
}

// Open builds a dictionary from the stock list and the user list, and opens
// the user list for appending. A missing user list is created; a missing or
// unreadable stock list is an error.
func Open(stockPath, userPath string) (*Dictionary, error) {
	store, err := OpenFileStore(userPath)
	if err != nil {
		return nil, err
	}
	d := New(store)

	if err := d.LoadFile(stockPath); err != nil {
		store.Close()
		return nil, err
	}
	if err := d.LoadFile(userPath); err != nil && !isMissing(err) {
		store.Close()
		return nil, err
	}
	log.Debugf("Dictionary ready: %d words", d.Len())
	return d, nil
}

// Load inserts every word of every source.
func (d *Dictionary) Load(sources ...Source) ([]LoadStats, error) {
	all := make([]LoadStats, 0, len(sources))
	for _, src := range sources {
		stats, err := loadWords(d.trie, src.Name, src.Reader)
		all = append(all, stats)
		if err != nil {
			return all, err
		}
	}
	d.invalidate()
	return all, nil
}

// LoadFile loads one word-list file.
func (d *Dictionary) LoadFile(path string) error {
	f, err := OpenSource(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = d.Load(Source{Name: path, Reader: f})
	return err
}

// AddWord learns word. It returns false when word is empty, contains a
// non-alphabetic character or is already known. Otherwise the lowercased
// word is inserted, appended to the store and the word cache is dropped.
// The error is non-nil only when the store write fails; the word stays
// learned for this session in that case.
func (d *Dictionary) AddWord(word string) (bool, error) {
	if !isAlphabetic(word) {
		return false, nil
	}
	lower := toLowerASCII(word)
	if d.trie.Search(lower) {
		return false, nil
	}
	d.trie.Insert(lower)
	d.invalidate()

	if d.store != nil {
		if err := d.store.Append(lower); err != nil {
			return true, fmt.Errorf("failed to persist %q: %w", lower, err)
		}
	}
	log.Debugf("Learned word %q", lower)
	return true, nil
}

// Contains reports membership; word must already be normalized to lowercase.
func (d *Dictionary) Contains(word string) bool {
	return d.trie.Search(word)
}

// AllWords returns every word in lexicographic order. The slice is cached
// until the next mutation and must not be modified by callers.
func (d *Dictionary) AllWords() []string {
	if d.cache == nil {
		d.cache = d.trie.Enumerate()
	}
	return d.cache
}

// Len is the number of distinct words.
func (d *Dictionary) Len() int {
	return d.trie.Len()
}

// Generation changes every time the word set may have changed. Caches
// derived from the dictionary compare it to detect staleness.
func (d *Dictionary) Generation() uint64 {
	return d.generation
}

// Close flushes and releases the store.
func (d *Dictionary) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}

func (d *Dictionary) invalidate() {
	d.cache = nil
	d.generation++
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
