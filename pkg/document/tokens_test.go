package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		line     string
		expected []string
	}{
		{"", nil},
		{"Hello", []string{"Hello"}},
		{"Hello World", []string{"Hello", " ", "World"}},
		{"  lead", []string{"  ", "lead"}},
		{"trail \t", []string{"trail", " \t"}},
		{"a  b\t\tc", []string{"a", "  ", "b", "\t\t", "c"}},
		{"end.\r", []string{"end.", "\r"}},
		{"   ", []string{"   "}},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			tokens := Tokenize(tc.line)
			assert.Equal(t, tc.expected, tokens)
			assert.Equal(t, tc.line, join(tokens))
		})
	}
}
