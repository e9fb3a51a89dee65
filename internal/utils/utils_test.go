package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestMoveNoClobber(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	dst := write("out.txt", "original")

	src := write("stage1.tmp", "first")
	got, err := MoveNoClobber(src, dst, "+copy")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out+copy.txt"), got)
	assert.NoFileExists(t, src)

	src = write("stage2.tmp", "second")
	got, err = MoveNoClobber(src, dst, "+copy")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out+copy+copy.txt"), got)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
	data, err = os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestMoveNoClobberErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := MoveNoClobber(filepath.Join(dir, "missing"), filepath.Join(dir, "out"), "+copy")
	assert.Error(t, err)

	_, err = MoveNoClobber(filepath.Join(dir, "missing"), filepath.Join(dir, "out"), "")
	assert.Error(t, err)
}

func TestWithExtension(t *testing.T) {
	assert.Equal(t, "out.txt", WithExtension("out", ".txt"))
	assert.Equal(t, "out.txt", WithExtension("out.txt", ".txt"))
	assert.Equal(t, "out", WithExtension("out", ""))
	assert.Equal(t, "out.md.txt", WithExtension("out.md", ".txt"))
}

func TestSniffBinary(t *testing.T) {
	testCases := []struct {
		header      []byte
		binary      bool
		description string
	}{
		{[]byte("hello\nworld\n"), false, "Plain text"},
		{nil, false, "Empty"},
		{[]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), true, "PNG"},
		{[]byte("%PDF-1.7\n"), true, "PDF"},
		{[]byte("abc\x00def"), true, "NUL byte"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, binary := SniffBinary(tc.header)
			assert.Equal(t, tc.binary, binary)
		})
	}
}

func TestStringHelpers(t *testing.T) {
	assert.True(t, IsOnlyNumbers("2024"))
	assert.False(t, IsOnlyNumbers("20a4"))
	assert.False(t, IsOnlyNumbers(""))

	assert.True(t, IsWhitespace(" \t\r"))
	assert.False(t, IsWhitespace(""))
	assert.False(t, IsWhitespace(" a "))

	for _, s := range []string{"end.", "end!", "end?"} {
		assert.True(t, HasEndPunct(s), s)
	}
	assert.False(t, HasEndPunct("end,"))
	assert.False(t, HasEndPunct(""))

	word, punct := SplitEndPunct("done?")
	assert.Equal(t, "done", word)
	assert.Equal(t, "?", punct)
	word, punct = SplitEndPunct("wait,")
	assert.Equal(t, "wait,", word)
	assert.Empty(t, punct)

	assert.Equal(t, "Hello", CapitalizeFirst("hello"))
	assert.Equal(t, "1st", CapitalizeFirst("1st"))
	assert.Equal(t, "", CapitalizeFirst(""))

	assert.Equal(t, "Hello", ApplyCapitalization("hello", "Helo"))
	assert.Equal(t, "HELlo", ApplyCapitalization("hello", "HEL"))
	assert.Equal(t, "hi", ApplyCapitalization("hi", ""))
}
