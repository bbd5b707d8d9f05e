package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/nhasab/typeahead/pkg/typeahead"
)

// Server answers suggestion queries over a msgpack frame stream. Each
// request runs the same fetch, order, group and limit path the interactive
// pipeline uses, just without debounce: the transport already delivers one
// request at a time.
type Server struct {
	cfg      typeahead.Config
	src      typeahead.Source
	maxLimit int
	maxQuery int
	dec      *msgpack.Decoder
	enc      *msgpack.Encoder
}

// NewServer creates a suggestion server on stdin/stdout.
func NewServer(cfg typeahead.Config, src typeahead.Source, maxLimit, maxQuery int) *Server {
	return newServer(cfg, src, maxLimit, maxQuery, os.Stdin, os.Stdout)
}

func newServer(cfg typeahead.Config, src typeahead.Source, maxLimit, maxQuery int, r io.Reader, w io.Writer) *Server {
	if maxLimit <= 0 {
		maxLimit = 64
	}
	if maxQuery <= 0 {
		maxQuery = 256
	}
	return &Server{
		cfg:      cfg,
		src:      src,
		maxLimit: maxLimit,
		maxQuery: maxQuery,
		dec:      msgpack.NewDecoder(r),
		enc:      msgpack.NewEncoder(w),
	}
}

// Start signals readiness, then serves requests until the stream ends.
func (s *Server) Start() error {
	log.Debug("Starting server.")
	s.send(StatusResponse{Status: "ready"})

	for {
		var request Request
		if err := s.dec.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

func (s *Server) handleRequest(request Request) {
	switch request.Action {
	case "", "query":
		s.handleQuery(request)
	case "health":
		s.send(StatusResponse{Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown action: %s", request.Action), 400)
	}
}

// handleQuery validates the request, fetches candidates and answers with
// the finalized entries.
func (s *Server) handleQuery(request Request) {
	if len(request.Query) > s.maxQuery {
		s.sendError(request.ID, fmt.Sprintf("Query exceeds maximum length of %d", s.maxQuery), 400)
		log.Debug("Query too long in request")
		return
	}

	cfg := s.cfg
	if request.Limit > 0 {
		if request.Limit > s.maxLimit {
			s.sendError(request.ID, fmt.Sprintf("Limit exceeds maximum of %d", s.maxLimit), 400)
			return
		}
		cfg.OptionsLimit = request.Limit
	}

	start := time.Now()
	options, err := s.src.Fetch(context.Background(), request.Query)
	if err != nil {
		s.sendError(request.ID, "Source fetch failed", 502)
		log.Errorf("Fetching %q: %v", request.Query, err)
		return
	}
	matches := typeahead.Prepare(cfg, options)
	elapsed := time.Since(start)

	entries := make([]Entry, len(matches))
	for i, m := range matches {
		entries[i] = Entry{Value: m.Value, Header: m.IsHeader}
	}

	s.send(Response{
		ID:        request.ID,
		Entries:   entries,
		Count:     len(entries),
		TimeTaken: elapsed.Microseconds(),
	})
}

// send encodes one response frame; encoding failures are logged, not fatal.
func (s *Server) send(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
