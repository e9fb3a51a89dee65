package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bastiangx/wordcheck/internal/logger"
	"github.com/bastiangx/wordcheck/pkg/document"
	"github.com/bastiangx/wordcheck/pkg/spell"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Options configure the sessions the server opens.
type Options struct {
	SuggestionLimit int
	Document        document.Options
}

type session struct {
	id      string
	doc     *document.Document
	checker *spell.Checker
}

// Server handles msgpack IPC for spell checking sessions
type Server struct {
	lexicon  spell.Lexicon
	cache    *spell.SuggestionCache
	checker  *spell.Checker
	opts     Options
	mu       sync.Mutex
	closed   bool
	sessions map[string]*session
	dec      *msgpack.Decoder
	enc      *msgpack.Encoder
	log      *log.Logger
}

// NewServer creates a server over stdin/stdout. cache may be nil.
func NewServer(lexicon spell.Lexicon, cache *spell.SuggestionCache, opts Options) *Server {
	return NewServerWithIO(lexicon, cache, opts, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing responses to w.
func NewServerWithIO(lexicon spell.Lexicon, cache *spell.SuggestionCache, opts Options, r io.Reader, w io.Writer) *Server {
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = spell.DefaultSuggestionLimit
	}
	return &Server{
		lexicon:  lexicon,
		cache:    cache,
		checker:  spell.NewChecker(lexicon, spell.WithLimit(opts.SuggestionLimit), spell.WithCache(cache)),
		opts:     opts,
		sessions: make(map[string]*session),
		dec:      msgpack.NewDecoder(r),
		enc:      msgpack.NewEncoder(w),
		log:      logger.New("server"),
	}
}

// Start processes requests until the input stream ends.
func (s *Server) Start() error {
	s.log.Debug("Starting msgpack server")
	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.Close()
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request")
			s.Close()
			return err
		}
		if err := s.send(s.Handle(req)); err != nil {
			s.Close()
			return err
		}
	}
}

// Handle answers a single request. Requests after Close are refused.
func (s *Server) Handle(req Request) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	var resp Response
	switch {
	case s.closed:
		resp = errorResponse(req.ID, "server is shutting down")
	default:
		resp = s.dispatch(req)
	}
	resp.ID = req.ID
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

func (s *Server) dispatch(req Request) Response {
	var resp Response
	switch req.Action {
	case ActionOpen:
		resp = s.handleOpen(req)
	case ActionOp:
		resp = s.handleOp(req)
	case ActionStatus:
		resp = s.handleStatus(req)
	case ActionCheck:
		resp = s.handleCheck(req)
	default:
		resp = errorResponse(req.ID, fmt.Sprintf("unknown action: %s", req.Action))
	}
	return resp
}

// Sessions is the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close discards the staged output of every session that was never
// exported. It waits for a request in flight and is safe to call from a
// signal handler while Start is blocked reading.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, sess := range s.sessions {
		s.abort(sess)
	}
	s.log.Debug("Server closed")
}

func (s *Server) handleOpen(req Request) Response {
	if req.Path == "" {
		return errorResponse(req.ID, "missing 'path' parameter")
	}
	checker := spell.NewChecker(s.lexicon, spell.WithLimit(s.opts.SuggestionLimit), spell.WithCache(s.cache))
	doc, err := document.Open(req.Path, checker, s.opts.Document)
	if err != nil {
		s.log.Warnf("Opening %s: %v", req.Path, err)
		return errorResponse(req.ID, err.Error())
	}
	sess := &session{id: uuid.NewString(), doc: doc, checker: checker}
	if _, err := doc.Start(); err != nil {
		s.log.Errorf("Scanning %s: %v", req.Path, err)
		s.abort(sess)
		return errorResponse(req.ID, err.Error())
	}
	s.sessions[sess.id] = sess
	s.log.Debugf("Opened session %s for %s", sess.id, req.Path)
	return sessionResponse(sess)
}

func (s *Server) handleOp(req Request) Response {
	sess, ok := s.sessions[req.Session]
	if !ok {
		return errorResponse(req.ID, fmt.Sprintf("unknown session: %s", req.Session))
	}
	cmd := document.ParseCommand(req.Op)
	handled, err := sess.doc.Apply(cmd)
	if err != nil {
		if !errors.Is(err, document.ErrNoDestination) {
			s.log.Errorf("Session %s failed on %s: %v", sess.id, cmd, err)
			s.abort(sess)
		}
		resp := sessionResponse(sess)
		resp.Status = statusError
		resp.Error = err.Error()
		return resp
	}

	resp := sessionResponse(sess)
	resp.Handled = handled
	if !handled {
		resp.Status = statusError
		resp.Error = fmt.Sprintf("unknown or malformed operation: %s", cmd)
	}
	if handled && (cmd.Op == document.OpExit || cmd.Op == document.OpDestroyFile) {
		delete(s.sessions, sess.id)
		s.log.Debugf("Closed session %s", sess.id)
	}
	return resp
}

func (s *Server) handleStatus(req Request) Response {
	sess, ok := s.sessions[req.Session]
	if !ok {
		return errorResponse(req.ID, fmt.Sprintf("unknown session: %s", req.Session))
	}
	return sessionResponse(sess)
}

func (s *Server) handleCheck(req Request) Response {
	word := strings.TrimSpace(req.Word)
	if word == "" {
		return errorResponse(req.ID, "missing 'word' parameter")
	}
	limit := req.Limit
	if limit < 1 {
		limit = s.opts.SuggestionLimit
	}
	resp := Response{Status: statusOK, Valid: s.checker.IsValidWord(word)}
	if !resp.Valid {
		resp.Suggestions = s.checker.SuggestionsN(strings.ToLower(word), limit)
	}
	return resp
}

// abort drops a failed session and discards its staged output.
func (s *Server) abort(sess *session) {
	delete(s.sessions, sess.id)
	if err := sess.doc.DestroyFile(); err != nil && !errors.Is(err, document.ErrClosed) {
		s.log.Warnf("Discarding output of session %s: %v", sess.id, err)
	}
}

func (s *Server) send(resp Response) error {
	if err := s.enc.Encode(resp); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return err
	}
	return nil
}

func (s *Server) sendError(id, message string) {
	_ = s.send(errorResponse(id, message))
}

func errorResponse(id, message string) Response {
	return Response{ID: id, Status: statusError, Error: message}
}

func sessionResponse(sess *session) Response {
	doc := sess.doc
	resp := Response{
		Status:   statusOK,
		Session:  sess.id,
		State:    doc.State().String(),
		Stats:    toWireStats(doc.Stats()),
		Exported: doc.ExportedPath(),
	}
	if rec := doc.Current(); rec != nil {
		resp.Current = &ErrorRecord{
			Word:        rec.Word,
			Kind:        rec.Kind.String(),
			Suggestions: rec.Suggestions,
			Index:       rec.Index,
			Line:        rec.Line,
		}
	}
	return resp
}

func toWireStats(st document.Stats) *Stats {
	errs := make(map[string]int, len(document.ErrorKinds))
	for _, k := range document.ErrorKinds {
		errs[k.String()] = st.Errors[k]
	}
	return &Stats{
		Lines:    st.Lines,
		Words:    st.Words,
		Chars:    st.Chars,
		Errors:   errs,
		Progress: st.Progress,
	}
}
