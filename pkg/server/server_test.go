package server

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/document"
	"github.com/bastiangx/wordcheck/pkg/spell"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newTestServer(t *testing.T, r io.Reader, w io.Writer, words ...string) *Server {
	t.Helper()
	dict := dictionary.New(nil)
	_, err := dict.Load(dictionary.Source{Name: "test", Reader: strings.NewReader(strings.Join(words, "\n"))})
	require.NoError(t, err)
	return NewServerWithIO(dict, spell.NewSuggestionCache(16), Options{
		SuggestionLimit: 3,
		Document:        document.Options{StagingDir: t.TempDir()},
	}, r, w)
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t, strings.NewReader(""), io.Discard, "the", "cat", "sat")
	in := writeDoc(t, "the cat sta\n")

	resp := s.Handle(Request{ID: "1", Action: ActionOpen, Path: in})
	require.Equal(t, statusOK, resp.Status, resp.Error)
	assert.Equal(t, "1", resp.ID)
	require.NotEmpty(t, resp.Session)
	assert.Equal(t, "ERROR_PENDING", resp.State)
	require.NotNil(t, resp.Current)
	assert.Equal(t, "sta", resp.Current.Word)
	assert.Equal(t, "SPELLING", resp.Current.Kind)
	assert.Equal(t, "sat", resp.Current.Suggestions[0])
	assert.Equal(t, 1, resp.Stats.Errors["SPELLING"])

	session := resp.Session
	resp = s.Handle(Request{ID: "2", Action: ActionOp, Session: session, Op: "replace:sat"})
	require.Equal(t, statusOK, resp.Status, resp.Error)
	assert.True(t, resp.Handled)
	assert.Equal(t, "COMPLETE", resp.State)
	assert.Nil(t, resp.Current)

	resp = s.Handle(Request{ID: "3", Action: ActionStatus, Session: session})
	assert.Equal(t, statusOK, resp.Status)
	assert.Equal(t, float64(100), resp.Stats.Progress)

	dst := filepath.Join(t.TempDir(), "checked")
	resp = s.Handle(Request{ID: "4", Action: ActionOp, Session: session, Op: "exit:" + dst})
	require.Equal(t, statusOK, resp.Status, resp.Error)
	assert.Equal(t, dst+".txt", resp.Exported)
	assert.Equal(t, 0, s.Sessions())

	data, err := os.ReadFile(dst + ".txt")
	require.NoError(t, err)
	assert.Equal(t, "the cat sat\n", string(data))

	resp = s.Handle(Request{ID: "5", Action: ActionStatus, Session: session})
	assert.Equal(t, statusError, resp.Status)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t, strings.NewReader(""), io.Discard, "word")
	in := writeDoc(t, "Wrod word\n")

	a := s.Handle(Request{ID: "a", Action: ActionOpen, Path: in})
	b := s.Handle(Request{ID: "b", Action: ActionOpen, Path: in})
	require.NotEqual(t, a.Session, b.Session)
	assert.Equal(t, 2, s.Sessions())

	resp := s.Handle(Request{ID: "c", Action: ActionOp, Session: a.Session, Op: "ignore-all"})
	assert.Equal(t, "COMPLETE", resp.State)

	resp = s.Handle(Request{ID: "d", Action: ActionStatus, Session: b.Session})
	require.NotNil(t, resp.Current)
	assert.Equal(t, "Wrod", resp.Current.Word)

	resp = s.Handle(Request{ID: "e", Action: ActionOp, Session: b.Session, Op: "destroy-file"})
	assert.Equal(t, statusOK, resp.Status)
	assert.Equal(t, 1, s.Sessions())
}

func TestRequestErrors(t *testing.T) {
	s := newTestServer(t, strings.NewReader(""), io.Discard, "word")
	in := writeDoc(t, "wrod\n")

	testCases := []struct {
		req         Request
		description string
	}{
		{Request{Action: "dance"}, "Unknown action"},
		{Request{Action: ActionOpen}, "Open without path"},
		{Request{Action: ActionOpen, Path: filepath.Join(t.TempDir(), "missing.txt")}, "Open missing file"},
		{Request{Action: ActionOp, Session: "nope", Op: "ignore"}, "Unknown session"},
		{Request{Action: ActionStatus}, "Status without session"},
		{Request{Action: ActionCheck}, "Check without word"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			resp := s.Handle(tc.req)
			assert.Equal(t, statusError, resp.Status)
			assert.NotEmpty(t, resp.Error)
		})
	}

	open := s.Handle(Request{Action: ActionOpen, Path: in})
	for _, op := range []string{"shout", "replace", "ignore:now", "exit"} {
		resp := s.Handle(Request{Action: ActionOp, Session: open.Session, Op: op})
		assert.Equal(t, statusError, resp.Status, op)
		assert.False(t, resp.Handled, op)
		assert.Equal(t, "ERROR_PENDING", resp.State, op)
		require.NotNil(t, resp.Current, op)
	}
	assert.Equal(t, 1, s.Sessions())
}

func TestCheck(t *testing.T) {
	s := newTestServer(t, strings.NewReader(""), io.Discard, "hello", "help", "world")

	resp := s.Handle(Request{Action: ActionCheck, Word: "Hello"})
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Suggestions)

	resp = s.Handle(Request{Action: ActionCheck, Word: "Helo", Limit: 2})
	assert.False(t, resp.Valid)
	assert.Equal(t, []string{"hello", "help"}, resp.Suggestions)
}

func TestStartOverStream(t *testing.T) {
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	require.NoError(t, enc.Encode(Request{ID: "1", Action: ActionCheck, Word: "wrld"}))
	require.NoError(t, enc.Encode(Request{ID: "2", Action: ActionCheck, Word: "world"}))

	var out bytes.Buffer
	s := newTestServer(t, &in, &out, "world", "word")
	require.NoError(t, s.Start())

	dec := msgpack.NewDecoder(&out)
	var first, second Response
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, []string{"world", "word"}, first.Suggestions)
	assert.Equal(t, "2", second.ID)
	assert.True(t, second.Valid)

	var extra Response
	assert.True(t, errors.Is(dec.Decode(&extra), io.EOF))
}

func TestCloseDiscardsOpenSessions(t *testing.T) {
	s := newTestServer(t, strings.NewReader(""), io.Discard, "word")
	resp := s.Handle(Request{ID: "1", Action: ActionOpen, Path: writeDoc(t, "wrod\n")})
	require.Equal(t, statusOK, resp.Status, resp.Error)

	staged := s.sessions[resp.Session].doc.StagedPath()
	require.FileExists(t, staged)

	s.Close()
	assert.NoFileExists(t, staged)
	assert.Equal(t, 0, s.Sessions())

	resp = s.Handle(Request{ID: "2", Action: ActionCheck, Word: "word"})
	assert.Equal(t, statusError, resp.Status)
	assert.Equal(t, "2", resp.ID)

	s.Close()
}

func TestStartDiscardsSessionsAtEndOfStream(t *testing.T) {
	in := writeDoc(t, "wrod\n")
	var req bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&req).Encode(Request{ID: "1", Action: ActionOpen, Path: in}))

	var out bytes.Buffer
	s := newTestServer(t, &req, &out, "word")
	staging := s.opts.Document.StagingDir
	require.NoError(t, s.Start())

	var resp Response
	require.NoError(t, msgpack.NewDecoder(&out).Decode(&resp))
	require.Equal(t, statusOK, resp.Status, resp.Error)

	left, err := os.ReadDir(staging)
	require.NoError(t, err)
	assert.Empty(t, left)
}
