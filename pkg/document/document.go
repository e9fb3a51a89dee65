// Package document walks a text document line by line, pauses on every
// orthographic error it finds and applies the caller's corrections while
// keeping whitespace and punctuation byte-for-byte intact.
package document

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/spell"
	"github.com/charmbracelet/log"
)

// DefaultCopySuffix is inserted before the extension when an export
// destination already exists.
const DefaultCopySuffix = "+copy"

// Options tune how a document session stages and exports its output.
type Options struct {
	// StagingDir holds the temporary output, OS temp dir when empty.
	StagingDir string
	// CopySuffix disambiguates export collisions, DefaultCopySuffix when empty.
	CopySuffix string
	// Extension is appended to export destinations that lack it.
	Extension string
}

// Document is one scanning session over one input document. It is driven
// exclusively through Start and Handle and is not safe for concurrent use.
type Document struct {
	checker spell.IChecker
	src     *bufio.Reader
	closer  io.Closer
	stage   *Stage
	opts    Options

	state   State
	started bool
	closed  bool
	// line is the in-memory text of the line being scanned, eol its terminator
	line    string
	eol     string
	index   int
	current *ErrorRecord

	replaceAll map[string]string
	exported   string

	totalBytes int64
	bytesRead  int64
	lineBytes  int64
	stats      Stats
}

// New wraps src, whose total size is totalBytes, writing corrected output to stage.
func New(src io.Reader, totalBytes int64, checker spell.IChecker, stage *Stage, opts Options) *Document {
	if opts.CopySuffix == "" {
		opts.CopySuffix = DefaultCopySuffix
	}
	d := &Document{
		checker:    checker,
		src:        bufio.NewReader(src),
		stage:      stage,
		opts:       opts,
		state:      Scanning,
		replaceAll: make(map[string]string),
		totalBytes: totalBytes,
		stats:      Stats{Errors: make(map[ErrorKind]int)},
	}
	if c, ok := src.(io.Closer); ok {
		d.closer = c
	}
	return d
}

// Open starts a session over the file at path. Binary files are refused
// with ErrUnsupportedDocument. Exports keep the input's extension unless
// opts says otherwise.
func Open(path string, checker spell.IChecker, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat document %s: %w", path, err)
	}

	header := make([]byte, utils.SniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		f.Close()
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	if kind, binary := utils.SniffBinary(header[:n]); binary {
		f.Close()
		return nil, fmt.Errorf("%s looks like %s: %w", path, kind, ErrUnsupportedDocument)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rewind document %s: %w", path, err)
	}

	stage, err := NewStage(opts.StagingDir)
	if err != nil {
		f.Close()
		return nil, err
	}
	if opts.Extension == "" {
		opts.Extension = filepath.Ext(path)
	}
	return New(f, info.Size(), checker, stage, opts), nil
}

// Start reads the first line and scans until the first error or the end
// of input. Calling it again returns the current error without rescanning.
func (d *Document) Start() (*ErrorRecord, error) {
	if d.started {
		return d.current, nil
	}
	d.started = true

	ok, err := d.nextLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		d.finish()
		return nil, nil
	}
	if err := d.run(0); err != nil {
		return nil, err
	}
	return d.current, nil
}

// State reports the lifecycle state.
func (d *Document) State() State {
	return d.state
}

// Current is the pending error, nil unless State is ErrorPending.
func (d *Document) Current() *ErrorRecord {
	return d.current
}

// Cursor is the in-memory line and the token index scanning resumes from.
func (d *Document) Cursor() (string, int) {
	return d.line, d.index
}

// Progress is the share of input bytes already written out, 0..100.
func (d *Document) Progress() float64 {
	return d.stats.Progress
}

// Stats returns a snapshot of the session counters.
func (d *Document) Stats() Stats {
	s := d.stats
	s.Errors = make(map[ErrorKind]int, len(d.stats.Errors))
	for k, v := range d.stats.Errors {
		s.Errors[k] = v
	}
	return s
}

// ErrorCount is the number of errors of kind flagged so far.
func (d *Document) ErrorCount(kind ErrorKind) int {
	return d.stats.Errors[kind]
}

// StagedPath is where output is written before export.
func (d *Document) StagedPath() string {
	if d.stage == nil {
		return ""
	}
	return d.stage.Path()
}

// ScanLine applies the error rules to line starting at token index from and
// returns the first violation, or nil when the rest of the line is clean.
// It has no side effects.
func (d *Document) ScanLine(line string, from int) *ErrorRecord {
	tokens := Tokenize(line)
	if from < 0 {
		from = 0
	}
	for idx := from; idx < len(tokens); idx++ {
		if utils.IsWhitespace(tokens[idx]) {
			continue
		}
		kind, ok := d.classify(tokens, idx)
		if !ok {
			continue
		}
		return &ErrorRecord{
			Word:        tokens[idx],
			Kind:        kind,
			Suggestions: d.suggest(kind, tokens[idx]),
			Index:       idx,
			Line:        line,
		}
	}
	return nil
}

// classify checks tokens[idx] against the rules in priority order:
// double word, capitalization, miscapitalization, spelling.
func (d *Document) classify(tokens []string, idx int) (ErrorKind, bool) {
	w := tokens[idx]
	if idx+2 < len(tokens) && w == tokens[idx+2] {
		return DoubleWord, true
	}
	if idx-2 >= 0 && w == tokens[idx-2] {
		return DoubleWord, true
	}

	stripped := d.checker.StripMarkup(w)
	if idx-2 >= 0 && stripped != "" {
		prev := tokens[idx-2]
		if utils.HasEndPunct(prev) {
			if !d.checker.IsAcronym(stripped) && !d.checker.CheckCapitalization(stripped) {
				return Capitalization, true
			}
		} else if !utils.IsWhitespace(prev) {
			if !d.checker.IsAcronym(stripped) && d.checker.CheckCapitalization(stripped) {
				return Miscapitalization, true
			}
		}
	}

	bare, _ := utils.SplitEndPunct(w)
	if !d.checker.IsValidWord(bare) {
		return Spelling, true
	}
	return 0, false
}

// suggest ranks replacements for token and re-cases them for kind.
func (d *Document) suggest(kind ErrorKind, token string) []string {
	bare, _ := utils.SplitEndPunct(d.checker.StripMarkup(token))
	suggestions := d.checker.Suggestions(strings.ToLower(bare))
	for i, s := range suggestions {
		switch kind {
		case Spelling:
			suggestions[i] = utils.ApplyCapitalization(s, bare)
		case Capitalization:
			suggestions[i] = utils.CapitalizeFirst(s)
		}
	}
	return suggestions
}

// run scans the current line from index and keeps going line after line
// until an error is found or the input is exhausted.
func (d *Document) run(from int) error {
	d.current = nil
	d.state = Scanning
	for {
		n := len(Tokenize(d.line))
		from = max(0, min(from, n))
		d.index = from

		if rec := d.ScanLine(d.line, from); rec != nil {
			d.index = rec.Index
			d.current = rec
			d.state = ErrorPending
			d.stats.Errors[rec.Kind]++
			log.Debug("Flagged", "kind", rec.Kind, "word", rec.Word, "index", rec.Index)
			return nil
		}

		if err := d.emit(); err != nil {
			return err
		}
		ok, err := d.nextLine()
		if err != nil {
			return err
		}
		if !ok {
			d.finish()
			return nil
		}
		from = 0
	}
}

// emit writes the current line verbatim and updates the counters.
func (d *Document) emit() error {
	if err := d.stage.WriteString(d.line + d.eol); err != nil {
		return err
	}
	d.stats.Lines++
	d.stats.Chars += len(d.line)
	for _, tok := range Tokenize(d.line) {
		if !utils.IsWhitespace(tok) {
			d.stats.Words++
		}
	}
	d.bytesRead += d.lineBytes
	d.updateProgress()
	return nil
}

func (d *Document) updateProgress() {
	if d.totalBytes <= 0 {
		return
	}
	d.stats.Progress = min(100, float64(d.bytesRead)/float64(d.totalBytes)*100)
}

// nextLine loads the next input line, applying every replace-all choice
// made so far. ok is false at end of input.
func (d *Document) nextLine() (bool, error) {
	raw, err := d.src.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read document: %w", err)
	}
	if raw == "" {
		return false, nil
	}

	d.lineBytes = int64(len(raw))
	d.line, d.eol = strings.TrimSuffix(raw, "\n"), ""
	if len(d.line) < len(raw) {
		d.eol = "\n"
	}
	d.index = 0

	if isMarkupHeader(d.line) {
		return false, fmt.Errorf("HTML or XML markup cannot be checked: %w", ErrUnsupportedDocument)
	}
	if len(d.replaceAll) > 0 {
		tokens := Tokenize(d.line)
		d.applyReplaceAll(tokens, 0)
		d.line = join(tokens)
	}
	return true, nil
}

// applyReplaceAll substitutes tokens[from:] that exactly match a recorded key.
func (d *Document) applyReplaceAll(tokens []string, from int) {
	for i := from; i < len(tokens); i++ {
		if repl, ok := d.replaceAll[tokens[i]]; ok {
			tokens[i] = repl
		}
	}
}

func (d *Document) finish() {
	d.state = Complete
	d.current = nil
	d.stats.Progress = 100
	d.closeSource()
	log.Debugf("Spell check complete: %d lines, %d words", d.stats.Lines, d.stats.Words)
}

func (d *Document) closeSource() {
	if d.closer == nil {
		return
	}
	if err := d.closer.Close(); err != nil {
		log.Warnf("Closing document source: %v", err)
	}
	d.closer = nil
}

func isMarkupHeader(line string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	return strings.HasPrefix(trimmed, "<!doctype html") || strings.HasPrefix(trimmed, "<?xml")
}
