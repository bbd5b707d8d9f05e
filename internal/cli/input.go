// Package cli handles cmd line input for exercising the suggestion pipeline in real-time
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhasab/typeahead/pkg/typeahead"
)

// InputHandler drives a pipeline from stdin. Every entered line is fed as
// one keystroke event; the printed output shows exactly what a renderer
// would receive through the sink.
type InputHandler struct {
	pipeline     *typeahead.Pipeline
	sink         *printSink
	settleWindow time.Duration
	requestCount int
}

// printSink renders pipeline output to the log as it arrives.
type printSink struct {
	start time.Time
}

func (s *printSink) LoadingChanged(loading bool) {
	if loading {
		s.start = time.Now()
		log.Debug("loading...")
	}
}

func (s *printSink) NoResultsChanged(noResults bool) {
	if noResults {
		log.Warn("No matches found")
	}
}

func (s *printSink) MatchesReady(entries []typeahead.MatchEntry) {
	if len(entries) == 0 {
		return
	}
	log.Printf("Found %d entries in %v:", len(entries), time.Since(s.start))
	rank := 0
	for _, e := range entries {
		if e.IsHeader {
			log.Printf("-- %s --", e.Value)
			continue
		}
		rank++
		clValue := fmt.Sprintf("\033[38;5;75m%s\033[0m", e.Value)
		log.Printf("%2d. %s", rank, clValue)
	}
}

// NewInputHandler builds the handler and the pipeline it drives. The settle
// window is how long to wait after a keystroke for debounce and a slow
// source to resolve before prompting again.
func NewInputHandler(cfg typeahead.Config, src typeahead.Source, settleWindow time.Duration) *InputHandler {
	sink := &printSink{}
	return &InputHandler{
		pipeline:     typeahead.New(cfg, src, sink),
		sink:         sink,
		settleWindow: settleWindow,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin, and feeds the
// trimmed text to the pipeline as a keystroke.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	defer h.pipeline.Close()

	log.Print("Typeahead CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type something and press Enter to see the matches (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimRight(line, "\r\n")
		h.handleInput(line)
	}
}

// handleInput feeds one line as a keystroke and waits for the pipeline to
// settle so output lands before the next prompt.
func (h *InputHandler) handleInput(text string) {
	h.requestCount++
	log.Debug("Processing request for", "text", text)

	h.pipeline.Keystroke(text)

	if h.settleWindow > 0 {
		time.Sleep(h.settleWindow)
	}
	if h.pipeline.State() == typeahead.StateHidden && !h.pipeline.NoResults() && text != "" {
		log.Debugf("input %q below the minimum length", text)
	}
}
