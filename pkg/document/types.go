package document

import "errors"

var (
	// ErrClosed is returned by exit and destroy-file once the session's
	// handles have been released.
	ErrClosed = errors.New("document session is closed")

	// ErrUnsupportedDocument is returned for binary input and for HTML or XML documents.
	ErrUnsupportedDocument = errors.New("unsupported document")

	// ErrNoDestination is returned by exit without a destination path.
	ErrNoDestination = errors.New("no export destination given")
)

// State is where the scanner is in its lifecycle.
type State int

const (
	// Scanning is the initial state and the transient state of the scan loop.
	Scanning State = iota
	// ErrorPending means an ErrorRecord waits for a corrective operation.
	ErrorPending
	// Complete is terminal: no lines remain to be scanned.
	Complete
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "SCANNING"
	case ErrorPending:
		return "ERROR_PENDING"
	case Complete:
		return "COMPLETE"
	}
	return "UNKNOWN"
}

// ErrorKind classifies a flagged token.
type ErrorKind int

const (
	Spelling ErrorKind = iota
	Capitalization
	Miscapitalization
	DoubleWord
)

// ErrorKinds lists every kind in reporting order.
var ErrorKinds = []ErrorKind{Spelling, Capitalization, Miscapitalization, DoubleWord}

func (k ErrorKind) String() string {
	switch k {
	case Spelling:
		return "SPELLING"
	case Capitalization:
		return "CAPITALIZATION"
	case Miscapitalization:
		return "MISCAPITALIZATION"
	case DoubleWord:
		return "DOUBLE_WORD"
	}
	return "UNKNOWN"
}

// ErrorRecord is the finding the scanner is paused on.
type ErrorRecord struct {
	Word        string
	Kind        ErrorKind
	Suggestions []string
	// Index of Word in Tokenize(Line)
	Index int
	Line  string
}

// Stats are the running counters of a session.
type Stats struct {
	Lines    int
	Words    int
	Chars    int
	Errors   map[ErrorKind]int
	Progress float64
}
