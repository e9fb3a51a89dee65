package document

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits line into alternating runs: every maximal run of
// whitespace and every maximal run of non-whitespace is one token.
// strings.Join(Tokenize(line), "") == line for every input.
func Tokenize(line string) []string {
	if line == "" {
		return nil
	}
	tokens := make([]string, 0, strings.Count(line, " ")*2+1)
	start := 0
	first, _ := utf8.DecodeRuneInString(line)
	inSpace := unicode.IsSpace(first)

	for i, r := range line {
		if space := unicode.IsSpace(r); space != inSpace {
			tokens = append(tokens, line[start:i])
			start = i
			inSpace = space
		}
	}
	return append(tokens, line[start:])
}

// join is the inverse of Tokenize.
func join(tokens []string) string {
	return strings.Join(tokens, "")
}
