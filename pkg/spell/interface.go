// Package spell decides whether words are valid and ranks replacement
// suggestions by a restricted edit distance over the whole dictionary.
package spell

// Lexicon is the word source a Checker validates against.
// *dictionary.Dictionary satisfies it.
type Lexicon interface {
	// Contains reports membership of an already lowercased word
	Contains(word string) bool

	// AllWords returns every word in lexicographic order
	AllWords() []string

	// AddWord learns a word, false when it is rejected or already known
	AddWord(word string) (bool, error)

	// Generation changes whenever the word set may have changed
	Generation() uint64
}

// IChecker is the surface a document scanner needs from a spell checker.
type IChecker interface {
	IsAcronym(w string) bool
	CheckCapitalization(w string) bool
	IsValidWord(w string) bool
	IgnoreAll(w string)
	IsIgnored(w string) bool
	AddToDictionary(w string) (bool, error)
	StripMarkup(s string) string
	Suggestions(w string) []string
}

var _ IChecker = (*Checker)(nil)
