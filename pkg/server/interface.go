/*
Package server implements msgpack IPC for spell checking sessions.

The server reads a stream of msgpack encoded requests from stdin and writes one
msgpack response per request to stdout. Requests are processed synchronously in
arrival order.

# IPC

Every request carries an ID that is echoed back, an action and the fields the
action needs:

	{"id": "req_001", "action": "open", "path": "essay.txt"}
	{"id": "req_002", "action": "op", "session": "6f1c...", "op": "replace:quick"}
	{"id": "req_003", "action": "status", "session": "6f1c..."}
	{"id": "req_004", "action": "check", "word": "teh"}

open starts a session over a document and returns its session ID (a UUID) with
the first error found. op drives the session with the operation vocabulary
(replace:<w>, replace-all:<w>, ignore, ignore-all, delete, manual-edit:<text>,
add-to-dict, premature-exit, exit:<path>, destroy-file). A session is dropped
once exit or destroy-file has run.

Each session owns its checker, so ignore-all in one session never leaks into
another. All sessions share the dictionary and its suggestion cache.

# Message Types

Request is the single request shape. Response echoes the session state, the
pending error, if any, and the session counters. Status is "ok" or "error"; a
failed request carries the message in Error and leaves the session untouched
unless the failure was an I/O error, which closes it.
*/
package server

// Actions understood by the server.
const (
	ActionOpen   = "open"
	ActionOp     = "op"
	ActionStatus = "status"
	ActionCheck  = "check"
)

// Request is one client message.
type Request struct {
	ID      string `msgpack:"id"`
	Action  string `msgpack:"action"`
	Session string `msgpack:"session,omitempty"`
	Path    string `msgpack:"path,omitempty"`
	Op      string `msgpack:"op,omitempty"`
	Word    string `msgpack:"word,omitempty"`
	Limit   int    `msgpack:"l,omitempty"`
}

// ErrorRecord is the wire form of the error a session is paused on.
type ErrorRecord struct {
	Word        string   `msgpack:"w"`
	Kind        string   `msgpack:"k"`
	Suggestions []string `msgpack:"s"`
	Index       int      `msgpack:"i"`
	Line        string   `msgpack:"line"`
}

// Stats is the wire form of the session counters.
type Stats struct {
	Lines    int            `msgpack:"lines"`
	Words    int            `msgpack:"words"`
	Chars    int            `msgpack:"chars"`
	Errors   map[string]int `msgpack:"errors"`
	Progress float64        `msgpack:"progress"`
}

// Response answers one Request.
type Response struct {
	ID          string       `msgpack:"id"`
	Status      string       `msgpack:"status"`
	Error       string       `msgpack:"error,omitempty"`
	Session     string       `msgpack:"session,omitempty"`
	State       string       `msgpack:"state,omitempty"`
	Handled     bool         `msgpack:"handled,omitempty"`
	Current     *ErrorRecord `msgpack:"current,omitempty"`
	Stats       *Stats       `msgpack:"stats,omitempty"`
	Exported    string       `msgpack:"exported,omitempty"`
	Valid       bool         `msgpack:"valid,omitempty"`
	Suggestions []string     `msgpack:"s,omitempty"`
	TimeTaken   int64        `msgpack:"t"`
}

const (
	statusOK    = "ok"
	statusError = "error"
)
