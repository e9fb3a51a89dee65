// Package cli drives a spell checking session from the terminal: it shows
// each flagged word in context and turns short answers into operations.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/bastiangx/wordcheck/pkg/document"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

var (
	flaggedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")).Underline(true)
	kindStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	numberStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

const helpText = `answers:
  1-9        use that suggestion
  r <word>   replace with <word>
  R <word>   replace every occurrence with <word>
  e <text>   put <text> in place of the word and recheck it
  i          ignore once
  I          ignore for the rest of the session
  d          delete the word
  a          add the word to the dictionary
  q          stop here and save what was checked`

// InputHandler asks the user what to do with every error of one document.
type InputHandler struct {
	doc         *document.Document
	reader      *bufio.Reader
	out         io.Writer
	destination string
	show        int
	interactive bool

	mu     sync.Mutex
	closed bool
}

// NewInputHandler reads answers from stdin. The prompt is only printed when
// stdin is a terminal, so answers can be piped in.
func NewInputHandler(doc *document.Document, destination string, show int) *InputHandler {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	return NewInputHandlerWithIO(doc, destination, show, os.Stdin, os.Stdout, interactive)
}

// NewInputHandlerWithIO is NewInputHandler with explicit streams.
func NewInputHandlerWithIO(doc *document.Document, destination string, show int, in io.Reader, out io.Writer, interactive bool) *InputHandler {
	if show <= 0 || show > 9 {
		show = 9
	}
	return &InputHandler{
		doc:         doc,
		reader:      bufio.NewReader(in),
		out:         out,
		destination: destination,
		show:        show,
		interactive: interactive,
	}
}

// Start runs the session to completion and exports the result. Running out
// of answers behaves like q.
func (h *InputHandler) Start() (string, error) {
	var rec *document.ErrorRecord
	err := h.locked(func() error {
		var err error
		rec, err = h.doc.Start()
		return err
	})
	if err != nil {
		h.Close()
		return "", err
	}

	for rec != nil {
		h.render(rec)
		answer, readErr := h.ask()
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			h.Close()
			return "", readErr
		}
		if errors.Is(readErr, io.EOF) && answer == "" {
			answer = "q"
		}

		cmd, ok := Translate(answer, rec.Suggestions, h.show)
		if !ok {
			fmt.Fprintln(h.out, helpText)
			if errors.Is(readErr, io.EOF) {
				cmd = document.OpPrematureExit
			} else {
				continue
			}
		}
		err := h.locked(func() error {
			_, err := h.doc.Handle(cmd)
			rec = h.doc.Current()
			return err
		})
		if err != nil {
			h.Close()
			return "", err
		}
	}

	var path string
	err = h.locked(func() error {
		var err error
		path, err = h.doc.Exit(h.destination)
		return err
	})
	if err != nil {
		return "", err
	}
	h.summary(path)
	return path, nil
}

// Translate maps a short answer onto the operation vocabulary. ok is false
// for answers that mean nothing.
func Translate(answer string, suggestions []string, show int) (string, bool) {
	answer = strings.TrimRight(answer, "\r\n")
	key, arg, _ := strings.Cut(answer, " ")

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' && arg == "" {
		n := int(key[0] - '0')
		if n > len(suggestions) || n > show {
			return "", false
		}
		return document.OpReplace + ":" + suggestions[n-1], true
	}

	switch key {
	case "i":
		return document.OpIgnore, true
	case "I":
		return document.OpIgnoreAll, true
	case "d":
		return document.OpDelete, true
	case "a":
		return document.OpAddToDict, true
	case "q":
		return document.OpPrematureExit, true
	case "e":
		if arg == "" {
			return "", false
		}
		return document.OpManualEdit + ":" + arg, true
	case "r", "R":
		arg = strings.TrimSpace(arg)
		if arg == "" {
			return "", false
		}
		if key == "R" {
			return document.OpReplaceAll + ":" + arg, true
		}
		return document.OpReplace + ":" + arg, true
	}
	return "", false
}

func (h *InputHandler) ask() (string, error) {
	if h.interactive {
		fmt.Fprint(h.out, "> ")
	}
	return h.reader.ReadString('\n')
}

func (h *InputHandler) render(rec *document.ErrorRecord) {
	tokens := document.Tokenize(rec.Line)
	if rec.Index < len(tokens) {
		tokens[rec.Index] = flaggedStyle.Render(tokens[rec.Index])
	}
	fmt.Fprintf(h.out, "\n%s %s\n", kindStyle.Render(rec.Kind.String()), strings.Join(tokens, ""))

	if len(rec.Suggestions) == 0 {
		fmt.Fprintln(h.out, dimStyle.Render("  no suggestions"))
		return
	}
	for i, s := range rec.Suggestions {
		if i >= h.show {
			break
		}
		fmt.Fprintf(h.out, "  %s %s\n", numberStyle.Render(fmt.Sprintf("%d.", i+1)), s)
	}
}

func (h *InputHandler) summary(path string) {
	st := h.doc.Stats()
	fmt.Fprintf(h.out, "\nChecked %d lines, %d words. Saved to %s\n", st.Lines, st.Words, path)
	for _, k := range document.ErrorKinds {
		if n := st.Errors[k]; n > 0 {
			fmt.Fprintf(h.out, "  %-18s %d\n", k.String(), n)
		}
	}
}

// Close discards the staged output unless the document was already
// exported. It may be called from another goroutine while Start waits for
// an answer; Start then fails with document.ErrClosed.
func (h *InputHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.discard()
}

// locked runs fn under the handler lock, refusing once Close has run.
func (h *InputHandler) locked(fn func() error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return document.ErrClosed
	}
	return fn()
}

func (h *InputHandler) discard() {
	if err := h.doc.DestroyFile(); err != nil && !errors.Is(err, document.ErrClosed) {
		log.Warnf("Discarding staged output: %v", err)
	}
}
