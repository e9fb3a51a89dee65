package utils

import (
	"strings"
	"unicode"
)

// TerminalPunct are the sentence-ending marks recognised by the checker.
const TerminalPunct = ".!?"

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsWhitespace reports whether s is non-empty and made only of whitespace.
func IsWhitespace(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// HasEndPunct reports whether s ends with '.', '!' or '?'.
func HasEndPunct(s string) bool {
	return s != "" && strings.IndexByte(TerminalPunct, s[len(s)-1]) >= 0
}

// SplitEndPunct splits one trailing terminal mark off s. Only commas and
// quotes are not considered, so "word," keeps its comma.
func SplitEndPunct(s string) (word, punct string) {
	if HasEndPunct(s) {
		return s[:len(s)-1], s[len(s)-1:]
	}
	return s, ""
}

// CapitalizeFirst upper-cases the first byte when it is an ASCII letter.
func CapitalizeFirst(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// ApplyCapitalization copies the upper-case positions of pattern onto word.
func ApplyCapitalization(word, pattern string) string {
	b := []byte(word)
	for i := 0; i < len(b) && i < len(pattern); i++ {
		if pattern[i] >= 'A' && pattern[i] <= 'Z' && b[i] >= 'a' && b[i] <= 'z' {
			b[i] = b[i] - 'a' + 'A'
		}
	}
	return string(b)
}
