package spell

import (
	"regexp"
	"strings"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/charmbracelet/log"
)

// DefaultSuggestionLimit is the number of suggestions returned by Suggestions.
const DefaultSuggestionLimit = 10

// markup matches simple tags like <b>, <a href x>, </b> and plain spaces.
var markup = regexp.MustCompile(`(<\w+( \w+)*>|</\w*>)| `)

// Checker applies validity and capitalization rules for one session.
// The ignore set lives and dies with the Checker; it is never persisted.
type Checker struct {
	lexicon Lexicon
	ignored map[string]struct{}
	cache   *SuggestionCache
	limit   int
}

// Option configures a Checker.
type Option func(*Checker)

// WithLimit sets the number of suggestions Suggestions returns.
func WithLimit(k int) Option {
	return func(c *Checker) {
		if k > 0 {
			c.limit = k
		}
	}
}

// WithCache memoizes rankings in cache.
func WithCache(cache *SuggestionCache) Option {
	return func(c *Checker) {
		c.cache = cache
	}
}

// NewChecker returns a checker backed by lexicon with an empty ignore set.
func NewChecker(lexicon Lexicon, opts ...Option) *Checker {
	c := &Checker{
		lexicon: lexicon,
		ignored: make(map[string]struct{}),
		limit:   DefaultSuggestionLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsAcronym reports whether w is its own upper-case form and is either
// longer than one character or exactly "I".
func (c *Checker) IsAcronym(w string) bool {
	if w != strings.ToUpper(w) {
		return false
	}
	return len(w) > 1 || w == "I"
}

// CheckCapitalization reports whether w is an acronym or starts with an
// upper-case letter followed only by lower-case text. Empty input is false.
func (c *Checker) CheckCapitalization(w string) bool {
	if w == "" {
		return false
	}
	if c.IsAcronym(w) {
		return true
	}
	first := w[0]
	rest := w[1:]
	return first >= 'A' && first <= 'Z' && rest == strings.ToLower(rest)
}

// IsValidWord reports whether w is ignored, a non-numeric acronym, or a
// dictionary word once hyphens are removed and case is folded.
func (c *Checker) IsValidWord(w string) bool {
	if w == "" {
		return false
	}
	if c.IsIgnored(w) {
		return true
	}
	if c.IsAcronym(w) && !utils.IsOnlyNumbers(w) {
		return true
	}
	normalized := strings.ToLower(strings.ReplaceAll(w, "-", ""))
	return c.lexicon.Contains(normalized)
}

// IgnoreAll adds w, exact case, to the session ignore set. Adding twice is harmless.
func (c *Checker) IgnoreAll(w string) {
	c.ignored[w] = struct{}{}
}

// IsIgnored reports whether w, exact case, was ignored this session.
func (c *Checker) IsIgnored(w string) bool {
	_, ok := c.ignored[w]
	return ok
}

// AddToDictionary learns w through the lexicon.
func (c *Checker) AddToDictionary(w string) (bool, error) {
	return c.lexicon.AddWord(w)
}

// StripMarkup removes tag fragments and spaces before capitalization tests.
func (c *Checker) StripMarkup(s string) string {
	return markup.ReplaceAllString(s, "")
}

// Suggestions returns the default number of closest dictionary words.
func (c *Checker) Suggestions(w string) []string {
	return c.SuggestionsN(w, c.limit)
}

// SuggestionsN returns up to k dictionary words closest to w, best first.
// Ties in distance are broken lexicographically.
func (c *Checker) SuggestionsN(w string, k int) []string {
	ranked := c.Rank(w, k)
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Word
	}
	return out
}

// Rank exhaustively scores every dictionary word against w and keeps the k
// best. The result never exceeds the dictionary size.
func (c *Checker) Rank(w string, k int) []Ranked {
	if k <= 0 {
		return nil
	}
	generation := c.lexicon.Generation()
	if w != "" {
		if cached, ok := c.cache.Get(generation, w, k); ok {
			return cached
		}
	}

	ranked := Rank(w, c.lexicon.AllWords(), k)
	log.Debugf("Ranked %d suggestions for %q", len(ranked), w)

	if w != "" {
		c.cache.Put(generation, w, k, ranked)
	}
	return ranked
}

// Limit is the default suggestion count.
func (c *Checker) Limit() int {
	return c.limit
}
