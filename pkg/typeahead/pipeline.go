package typeahead

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// State names the pipeline's position in its keystroke/fetch cycle.
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateAwaitingSource
	StatePresenting
	StateHidden
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateAwaitingSource:
		return "awaiting-source"
	case StatePresenting:
		return "presenting"
	case StateHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Sink receives pipeline output. LoadingChanged and NoResultsChanged are
// level signals, delivered on change; MatchesReady replaces the previously
// presented list wholesale. Calls are made without the pipeline lock held,
// but a sink must not call back into the pipeline from within a callback.
type Sink interface {
	LoadingChanged(bool)
	NoResultsChanged(bool)
	MatchesReady([]MatchEntry)
}

type noopSink struct{}

func (noopSink) LoadingChanged(bool)       {}
func (noopSink) NoResultsChanged(bool)     {}
func (noopSink) MatchesReady([]MatchEntry) {}

// Pipeline owns the debounced keystroke stream: it gates on the minimum
// length, dispatches to the source, applies limit/order/group and emits the
// finalized entries. Every dispatch gets a sequence number; a resolution
// whose number is no longer current is dropped unconditionally, which is
// what makes the latest keystroke win over slower in-flight fetches.
//
// All methods are safe for concurrent use. The current match list is
// replaced wholesale on each successful resolution and never mutated in
// place, so a reader can never observe a partially built list.
type Pipeline struct {
	cfg  Config
	src  Source
	sink Sink
	deb  *debouncer

	mu        sync.Mutex
	seq       uint64
	gen       uint64
	state     State
	value     string
	query     Query
	matches   []MatchEntry
	loading   bool
	noResults bool
	focused   bool
	closed    bool
	cancel    context.CancelFunc
}

// New builds a pipeline over the given source. A nil sink discards output.
func New(cfg Config, src Source, sink Sink) *Pipeline {
	cfg = cfg.withDefaults()
	if sink == nil {
		sink = noopSink{}
	}
	return &Pipeline{
		cfg:     cfg,
		src:     src,
		sink:    sink,
		deb:     newDebouncer(cfg.Wait),
		state:   StateIdle,
		focused: true,
	}
}

// Keystroke feeds one input change. Below the minimum length the pipeline
// hides and clears any presented list; otherwise the debounce window is
// (re)armed and loading turns on immediately.
func (p *Pipeline) Keystroke(text string) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.value = text
	if len([]rune(text)) < p.cfg.MinLength {
		p.seq++ // voids any in-flight fetch
		p.gen++ // voids any fired-but-unentered dispatch
		p.cancelLocked()
		emits := p.hideLocked()
		p.mu.Unlock()
		p.deb.stop()
		runAll(emits)
		return
	}
	p.state = StateDebouncing
	p.gen++
	gen := p.gen
	emits := p.setLoadingLocked(true)
	p.mu.Unlock()
	runAll(emits)
	p.deb.schedule(func() { p.dispatch(text, gen) })
}

// FocusGained marks the control focused. With a zero minimum length it
// also dispatches immediately with the current control value, so an empty
// field shows the full option set on focus.
func (p *Pipeline) FocusGained() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.focused = true
	if p.cfg.MinLength != 0 {
		p.mu.Unlock()
		return
	}
	text := p.value
	p.gen++
	gen := p.gen
	emits := p.setLoadingLocked(true)
	p.mu.Unlock()
	runAll(emits)
	p.dispatch(text, gen)
}

// FocusLost arms the CancelOnFocusLost suppression: a fetch resolving
// while unfocused is not presented.
func (p *Pipeline) FocusLost() {
	p.mu.Lock()
	p.focused = false
	p.mu.Unlock()
}

// Dismiss forces the hidden state, dropping any pending dispatch and
// voiding any in-flight fetch.
func (p *Pipeline) Dismiss() {
	p.deb.stop()
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.seq++
	p.gen++
	p.cancelLocked()
	emits := p.hideLocked()
	p.mu.Unlock()
	runAll(emits)
}

// Select records a committed choice. The pipeline's only reaction is to
// transition to hidden; acting on the entry is the renderer's business.
func (p *Pipeline) Select(MatchEntry) {
	p.Dismiss()
}

// Close tears the pipeline down: the debounce timer is released and any
// late resolution is dropped, so nothing mutates state after Close.
func (p *Pipeline) Close() {
	p.deb.stop()
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.seq++
	p.gen++
	p.cancelLocked()
	p.matches = nil
	p.mu.Unlock()
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Matches returns the current match list. The slice is never mutated after
// publication; callers may hold it across keystrokes.
func (p *Pipeline) Matches() []MatchEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.matches
}

// Query returns the normalized query the current match list was presented
// under, recomputed against the control value at resolution time.
func (p *Pipeline) Query() Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Loading reports whether a dispatch is pending or in flight.
func (p *Pipeline) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// NoResults reports whether the last resolution produced an empty list.
func (p *Pipeline) NoResults() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.noResults
}

// dispatch issues fetch number seq+1. The generation ties it to the
// keystroke that scheduled it: a debounce callback that fired just before
// a Dismiss or below-gate keystroke reaches here with a stale generation
// and must not undo the hide. A static source is answered inline; a
// streaming source runs on its own goroutine with a cancelable context
// that a superseding dispatch cancels best-effort.
func (p *Pipeline) dispatch(text string, gen uint64) {
	p.mu.Lock()
	if p.closed || gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.seq++
	seq := p.seq
	p.state = StateAwaitingSource
	p.cancelLocked()

	if static, ok := p.src.(*StaticSource); ok {
		p.mu.Unlock()
		options, err := static.Fetch(context.Background(), text)
		p.resolve(seq, options, err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()
	go func() {
		defer cancel()
		options, err := p.src.Fetch(ctx, text)
		p.resolve(seq, options, err)
	}()
}

// resolve consumes one fetch result. Anything not carrying the current
// sequence number is dropped without side effects.
func (p *Pipeline) resolve(seq uint64, options []any, err error) {
	p.mu.Lock()
	if p.closed || seq != p.seq {
		p.mu.Unlock()
		return
	}
	if p.cfg.CancelOnFocusLost && !p.focused {
		emits := p.hideLocked()
		p.mu.Unlock()
		runAll(emits)
		return
	}
	if err != nil {
		// Failed fetches present nothing; the previous list stands.
		log.Warnf("typeahead: source fetch failed: %v", err)
		emits := p.setLoadingLocked(false)
		p.mu.Unlock()
		runAll(emits)
		return
	}

	entries := Prepare(p.cfg, options)
	p.query = p.cfg.Normalize(p.value)
	p.matches = entries
	if len(entries) > 0 {
		p.state = StatePresenting
	} else {
		p.state = StateHidden
	}

	emits := []func(){func() { p.sink.MatchesReady(entries) }}
	emits = append(emits, p.setNoResultsLocked(len(entries) == 0)...)
	emits = append(emits, p.setLoadingLocked(false)...)
	p.mu.Unlock()
	runAll(emits)
}

// hideLocked enters the hidden state, clearing any presented list and
// resetting both level signals.
func (p *Pipeline) hideLocked() []func() {
	p.state = StateHidden
	var emits []func()
	if len(p.matches) > 0 {
		p.matches = nil
		emits = append(emits, func() { p.sink.MatchesReady(nil) })
	}
	emits = append(emits, p.setLoadingLocked(false)...)
	emits = append(emits, p.setNoResultsLocked(false)...)
	return emits
}

func (p *Pipeline) setLoadingLocked(loading bool) []func() {
	if p.loading == loading {
		return nil
	}
	p.loading = loading
	return []func(){func() { p.sink.LoadingChanged(loading) }}
}

func (p *Pipeline) setNoResultsLocked(noResults bool) []func() {
	if p.noResults == noResults {
		return nil
	}
	p.noResults = noResults
	return []func(){func() { p.sink.NoResultsChanged(noResults) }}
}

func (p *Pipeline) cancelLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// runAll fires queued sink notifications outside the pipeline lock.
func runAll(emits []func()) {
	for _, emit := range emits {
		emit()
	}
}
