/*
Package server implements msgpack IPC for typeahead suggestion services.

The server provides a minimal interface for suggestion lookup using msgpack
serialization over stdin/stdout. Clients stream request frames and receive
one response frame per request; processing is synchronous with timing info
included in responses.

A query request carries an ID, the raw query text and an optional limit:

	{"id": "req_001", "q": "new yo", "l": 10}

The server answers with the finalized match entries, group headers
included, in presentation order:

	{"id": "req_001", "m": [{"v": "East"}, {"v": "New York"}], "c": 2, "t": 145}

The empty action is a query; "health" answers a status frame. Malformed
frames produce an error frame with a code and never tear the stream down.

msgpack keeps frames ~30 to 50% smaller than JSON and parses faster, which
matters when a client issues a frame per keystroke.
*/
package server

// Request is an incoming frame. An empty Action means query.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"` // "", "query", "health"
	Query  string `msgpack:"q,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
}

// Entry is one suggestion in a response; Header marks a group label.
type Entry struct {
	Value  string `msgpack:"v"`
	Header bool   `msgpack:"h,omitempty"`
}

// Response answers a query request.
type Response struct {
	ID        string  `msgpack:"id"`
	Entries   []Entry `msgpack:"m"`
	Count     int     `msgpack:"c"`
	TimeTaken int64   `msgpack:"t"` // microseconds
}

// StatusResponse answers a health request and the initial ready frame.
type StatusResponse struct {
	Status string `msgpack:"status"`
}

// ErrorResponse reports a rejected request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
