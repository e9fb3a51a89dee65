package dictionary

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSkipsBlankAndInvalidLines(t *testing.T) {
	d := New(nil)
	stats, err := d.Load(Source{Name: "stock", Reader: strings.NewReader("apple\n\n  Banana \nit's\napple\ncar\n")})
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.Equal(t, 6, stats[0].Lines)
	assert.Equal(t, 3, stats[0].Inserted)
	assert.Equal(t, 2, stats[0].Skipped)
	assert.Equal(t, []string{"apple", "banana", "car"}, d.AllWords())
}

func TestAddWord(t *testing.T) {
	var buf bytes.Buffer
	d := New(WriterStore{W: &buf})
	_, err := d.Load(Source{Name: "stock", Reader: strings.NewReader("hello\n")})
	require.NoError(t, err)

	testCases := []struct {
		word        string
		added       bool
		description string
	}{
		{"world", true, "New word"},
		{"world", false, "Already learned"},
		{"HELLO", false, "Known stock word in other case"},
		{"Gopher", true, "Mixed case is lowercased"},
		{"", false, "Empty"},
		{"e-mail", false, "Hyphen"},
		{"abc123", false, "Digits"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			added, err := d.AddWord(tc.word)
			require.NoError(t, err)
			assert.Equal(t, tc.added, added)
		})
	}

	assert.True(t, d.Contains("gopher"))
	assert.Equal(t, "world\ngopher\n", buf.String())
}

func TestAllWordsCacheInvalidation(t *testing.T) {
	d := New(nil)
	_, err := d.Load(Source{Name: "stock", Reader: strings.NewReader("cat\ndog\n")})
	require.NoError(t, err)

	gen := d.Generation()
	assert.Equal(t, []string{"cat", "dog"}, d.AllWords())

	added, err := d.AddWord("bird")
	require.NoError(t, err)
	require.True(t, added)
	assert.NotEqual(t, gen, d.Generation())
	assert.Equal(t, []string{"bird", "cat", "dog"}, d.AllWords())

	gen = d.Generation()
	added, _ = d.AddWord("cat")
	assert.False(t, added)
	assert.Equal(t, gen, d.Generation())
}

type failingStore struct{}

func (failingStore) Append(string) error { return errors.New("disk full") }
func (failingStore) Close() error        { return nil }

func TestAddWordStoreFailure(t *testing.T) {
	d := New(failingStore{})
	added, err := d.AddWord("word")
	assert.Error(t, err)
	assert.True(t, added)
	assert.True(t, d.Contains("word"))
}

func TestOpenPersistsAcrossSessions(t *testing.T) {
	dir := t.TempDir()
	stock := writeFile(t, dir, "words.txt", "alpha\nbeta\n")
	user := filepath.Join(dir, "user", "user_words.txt")

	d, err := Open(stock, user)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	added, err := d.AddWord("gamma")
	require.NoError(t, err)
	require.True(t, added)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	data, err := os.ReadFile(user)
	require.NoError(t, err)
	assert.Equal(t, "gamma\n", string(data))

	reopened, err := Open(stock, user)
	require.NoError(t, err)
	defer reopened.Close()
	assert.True(t, reopened.Contains("gamma"))
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, reopened.AllWords())
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing stock list", func(t *testing.T) {
		_, err := Open(filepath.Join(dir, "nope.txt"), filepath.Join(dir, "u1.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("binary stock list", func(t *testing.T) {
		png := writeFile(t, dir, "words.png", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
		_, err := Open(png, filepath.Join(dir, "u2.txt"))
		assert.ErrorIs(t, err, ErrNotText)
	})

	t.Run("directory as stock list", func(t *testing.T) {
		_, err := Open(dir, filepath.Join(dir, "u3.txt"))
		assert.Error(t, err)
	})
}

func TestStoreClosed(t *testing.T) {
	s, err := OpenFileStore(filepath.Join(t.TempDir(), "user.txt"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Append("word"), ErrStoreClosed)
}
