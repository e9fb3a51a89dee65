package document

import (
	"fmt"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/charmbracelet/log"
)

// pending returns the tokens of the current line and the flagged index, or
// ok false when no error is waiting for a correction.
func (d *Document) pending() (tokens []string, idx int, ok bool) {
	if d.state != ErrorPending || d.current == nil || d.closed {
		return nil, 0, false
	}
	tokens = Tokenize(d.line)
	idx = d.current.Index
	if idx < 0 || idx >= len(tokens) {
		return nil, 0, false
	}
	return tokens, idx, true
}

// resume stores the edited tokens as the current line and scans on from index.
func (d *Document) resume(tokens []string, from int) error {
	d.line = join(tokens)
	return d.run(from)
}

// Replace substitutes the flagged token with target, keeping its trailing
// terminal mark, and continues after it.
func (d *Document) Replace(target string) error {
	tokens, idx, ok := d.pending()
	if !ok {
		return nil
	}
	_, punct := utils.SplitEndPunct(tokens[idx])
	tokens[idx] = target + punct
	return d.resume(tokens, idx+1)
}

// ReplaceAll replaces the flagged token like Replace and remembers the
// choice. The exact original token is substituted wherever it appears later
// on this line and on every line read afterwards.
func (d *Document) ReplaceAll(target string) error {
	tokens, idx, ok := d.pending()
	if !ok {
		return nil
	}
	original := tokens[idx]
	_, punct := utils.SplitEndPunct(original)
	d.replaceAll[original] = target + punct
	d.applyReplaceAll(tokens, idx)
	log.Debugf("Replacing every %q with %q", original, target+punct)
	return d.resume(tokens, idx+1)
}

// IgnoreOnce skips the flagged token.
func (d *Document) IgnoreOnce() error {
	tokens, idx, ok := d.pending()
	if !ok {
		return nil
	}
	return d.resume(tokens, idx+1)
}

// IgnoreAll adds the flagged word to the checker's ignore set for the rest
// of the session and skips it.
func (d *Document) IgnoreAll() error {
	tokens, idx, ok := d.pending()
	if !ok {
		return nil
	}
	word, _ := utils.SplitEndPunct(tokens[idx])
	d.checker.IgnoreAll(word)
	return d.resume(tokens, idx+1)
}

// Delete removes the flagged token together with one neighbouring
// whitespace run, repairs punctuation and capitalization around the gap,
// and rescans from the same position.
func (d *Document) Delete() error {
	tokens, idx, ok := d.pending()
	if !ok {
		return nil
	}
	tokens = deleteToken(tokens, idx)
	return d.resume(tokens, idx)
}

// deleteToken removes tokens[idx] and returns the repaired sequence.
func deleteToken(tokens []string, idx int) []string {
	_, punct := utils.SplitEndPunct(tokens[idx])
	prev := prevWord(tokens, idx)
	last := nextWord(tokens, idx) < 0

	switch {
	case last:
		start := idx
		if idx > 0 && utils.IsWhitespace(tokens[idx-1]) {
			start = idx - 1
		}
		tokens = append(tokens[:start], tokens[idx+1:]...)
		if punct != "" && prev >= 0 && !utils.HasEndPunct(tokens[prev]) {
			tokens[prev] += punct
		}
		return tokens

	default:
		end := idx + 1
		if end < len(tokens) && utils.IsWhitespace(tokens[end]) {
			end++
		}
		tokens = append(tokens[:idx], tokens[end:]...)
		next := nextWord(tokens, idx-1)

		capitalize := false
		if punct != "" {
			if prev >= 0 && !utils.HasEndPunct(tokens[prev]) {
				tokens[prev] += punct
			}
			capitalize = true
		} else if prev >= 0 && utils.HasEndPunct(tokens[prev]) {
			capitalize = true
		}
		if capitalize && next >= 0 {
			tokens[next] = utils.CapitalizeFirst(tokens[next])
		}
		return tokens
	}
}

// prevWord is the index of the closest non-whitespace token before idx, or -1.
func prevWord(tokens []string, idx int) int {
	for i := idx - 1; i >= 0; i-- {
		if !utils.IsWhitespace(tokens[i]) {
			return i
		}
	}
	return -1
}

// nextWord is the index of the closest non-whitespace token after idx, or -1.
func nextWord(tokens []string, idx int) int {
	for i := idx + 1; i < len(tokens); i++ {
		if !utils.IsWhitespace(tokens[i]) {
			return i
		}
	}
	return -1
}

// ManualEdit puts text in place of the flagged token verbatim and rescans
// from the same position, so the new text is itself checked.
func (d *Document) ManualEdit(text string) error {
	tokens, idx, ok := d.pending()
	if !ok {
		return nil
	}
	tokens[idx] = text
	return d.resume(tokens, idx)
}

// AddToDictionary teaches the flagged word to the dictionary and skips it.
// Words the dictionary rejects are only skipped.
func (d *Document) AddToDictionary() error {
	tokens, idx, ok := d.pending()
	if !ok {
		return nil
	}
	word, _ := utils.SplitEndPunct(tokens[idx])
	added, err := d.checker.AddToDictionary(word)
	if err != nil {
		return fmt.Errorf("failed to add %q to dictionary: %w", word, err)
	}
	if !added {
		log.Debugf("Dictionary did not take %q", word)
	}
	return d.resume(tokens, idx+1)
}

// PrematureExit writes the current line as it stands and stops scanning.
// The rest of the input is dropped; Exit or DestroyFile ends the session.
func (d *Document) PrematureExit() error {
	if d.closed {
		return ErrClosed
	}
	if d.state != Complete && d.started {
		if err := d.emit(); err != nil {
			return err
		}
	}
	d.state = Complete
	d.current = nil
	d.closeSource()
	return nil
}

// Exit releases the input and moves the staged output to path, adding the
// input's extension when path lacks it. An existing file is never
// replaced; the copy suffix is inserted until a free name is found. The
// final location is returned.
func (d *Document) Exit(path string) (string, error) {
	if d.closed {
		return "", ErrClosed
	}
	if path == "" {
		return "", ErrNoDestination
	}
	d.closeSource()
	d.state = Complete
	d.current = nil

	dst := utils.WithExtension(path, d.opts.Extension)
	final, err := d.stage.MoveTo(dst, d.opts.CopySuffix)
	if err != nil {
		// Left open so DestroyFile can still discard the staged output.
		return "", err
	}
	d.closed = true
	d.exported = final
	log.Infof("Exported checked document to %s", final)
	return final, nil
}

// DestroyFile releases the input and deletes the staged output.
func (d *Document) DestroyFile() error {
	if d.closed {
		return ErrClosed
	}
	d.closeSource()
	d.closed = true
	d.state = Complete
	d.current = nil
	return d.stage.Destroy()
}

// ExportedPath is where Exit placed the output, empty before a successful Exit.
func (d *Document) ExportedPath() string {
	return d.exported
}
