package typeahead

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSink captures everything the pipeline emits.
type recordSink struct {
	mu        sync.Mutex
	loading   []bool
	noResults []bool
	lists     [][]MatchEntry
	ready     chan struct{}
}

func newRecordSink() *recordSink {
	return &recordSink{ready: make(chan struct{}, 32)}
}

func (r *recordSink) LoadingChanged(v bool) {
	r.mu.Lock()
	r.loading = append(r.loading, v)
	r.mu.Unlock()
}

func (r *recordSink) NoResultsChanged(v bool) {
	r.mu.Lock()
	r.noResults = append(r.noResults, v)
	r.mu.Unlock()
}

func (r *recordSink) MatchesReady(entries []MatchEntry) {
	r.mu.Lock()
	r.lists = append(r.lists, entries)
	r.mu.Unlock()
	select {
	case r.ready <- struct{}{}:
	default:
	}
}

func (r *recordSink) lastList() []MatchEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lists) == 0 {
		return nil
	}
	return r.lists[len(r.lists)-1]
}

func (r *recordSink) waitReady(t *testing.T) {
	t.Helper()
	select {
	case <-r.ready:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for MatchesReady")
	}
}

func values(entries []MatchEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}

func TestPipelineStaticKeystroke(t *testing.T) {
	sink := newRecordSink()
	p := New(DefaultConfig(), NewStaticSource(DefaultConfig(), states), sink)
	defer p.Close()

	p.Keystroke("new")

	// Static sources resolve on the keystroke itself when the wait is zero.
	assert.Equal(t, StatePresenting, p.State())
	assert.Equal(t, []string{"New York", "New Jersey"}, values(p.Matches()))
	assert.False(t, p.Loading())
	assert.False(t, p.NoResults())
}

func TestPipelineMinLengthGate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinLength = 2
	sink := newRecordSink()
	p := New(cfg, NewStaticSource(cfg, states), sink)
	defer p.Close()

	p.Keystroke("ne")
	require.Equal(t, StatePresenting, p.State())

	p.Keystroke("n")
	assert.Equal(t, StateHidden, p.State())
	assert.Empty(t, p.Matches(), "below-gate keystroke clears the presented list")
	assert.False(t, p.Loading())
	assert.False(t, p.NoResults())
	assert.Nil(t, sink.lastList())
}

func TestPipelineNoResults(t *testing.T) {
	sink := newRecordSink()
	p := New(DefaultConfig(), NewStaticSource(DefaultConfig(), states), sink)
	defer p.Close()

	p.Keystroke("zzz")

	assert.Equal(t, StateHidden, p.State())
	assert.True(t, p.NoResults())
	assert.False(t, p.Loading())
	assert.Empty(t, sink.lastList())
}

func TestPipelineDebounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Wait = 40 * time.Millisecond

	var fetches atomic.Int32
	src := NewStreamingSource(func(_ context.Context, query string) ([]any, error) {
		fetches.Add(1)
		return []any{query}, nil
	})
	sink := newRecordSink()
	p := New(cfg, src, sink)
	defer p.Close()

	p.Keystroke("a")
	p.Keystroke("ab")
	p.Keystroke("abc")

	sink.waitReady(t)
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, int32(1), fetches.Load(), "rapid keystrokes collapse into one fetch")
	assert.Equal(t, []string{"abc"}, values(p.Matches()))
}

func TestPipelineLatestWins(t *testing.T) {
	releases := map[string]chan []any{
		"a":  make(chan []any, 1),
		"ab": make(chan []any, 1),
	}
	src := NewStreamingSource(func(_ context.Context, query string) ([]any, error) {
		return <-releases[query], nil
	})
	sink := newRecordSink()
	p := New(DefaultConfig(), src, sink)
	defer p.Close()

	p.Keystroke("a")
	p.Keystroke("ab")

	// The later fetch resolves first and is presented.
	releases["ab"] <- []any{"about"}
	sink.waitReady(t)
	require.Equal(t, []string{"about"}, values(p.Matches()))

	// The earlier fetch resolves late; its result is dropped unconditionally.
	releases["a"] <- []any{"stale"}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"about"}, values(p.Matches()))
	assert.Equal(t, 1, len(sink.lists), "superseded fetch must not publish a list")
}

func TestPipelineFocusZeroMinLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinLength = 0
	sink := newRecordSink()
	p := New(cfg, NewStaticSource(cfg, states), sink)
	defer p.Close()

	p.FocusGained()

	// Empty query, tokenized to an empty token list, matches everything.
	assert.Equal(t, StatePresenting, p.State())
	assert.Len(t, p.Matches(), len(states))
}

func TestPipelineOptionsLimit(t *testing.T) {
	options := make([]any, 0, 30)
	for i := 0; i < 30; i++ {
		options = append(options, string(rune('a'+i%26))+"x")
	}
	cfg := DefaultConfig()
	cfg.MinLength = 0
	p := New(cfg, NewStaticSource(cfg, options), nil)
	defer p.Close()

	p.Keystroke("")
	assert.Len(t, p.Matches(), DefaultOptionsLimit)
}

func TestPipelineCancelOnFocusLost(t *testing.T) {
	release := make(chan []any, 1)
	src := NewStreamingSource(func(_ context.Context, query string) ([]any, error) {
		return <-release, nil
	})
	cfg := DefaultConfig()
	cfg.CancelOnFocusLost = true
	sink := newRecordSink()
	p := New(cfg, src, sink)
	defer p.Close()

	p.Keystroke("a")
	p.FocusLost()
	release <- []any{"late arrival"}

	assert.Eventually(t, func() bool {
		return p.State() == StateHidden
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, p.Matches(), "result resolving after focus loss is not presented")
}

func TestPipelineSourceFailure(t *testing.T) {
	fail := false
	src := NewStreamingSource(func(_ context.Context, query string) ([]any, error) {
		if fail {
			return nil, errors.New("backend down")
		}
		return []any{"ok"}, nil
	})
	sink := newRecordSink()
	p := New(DefaultConfig(), src, sink)
	defer p.Close()

	p.Keystroke("a")
	sink.waitReady(t)
	require.Equal(t, []string{"ok"}, values(p.Matches()))

	fail = true
	p.Keystroke("ab")

	// A failed fetch presents nothing; the previous list stands.
	assert.Eventually(t, func() bool { return !p.Loading() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"ok"}, values(p.Matches()))
}

func TestPipelineDismissAndSelect(t *testing.T) {
	sink := newRecordSink()
	p := New(DefaultConfig(), NewStaticSource(DefaultConfig(), states), sink)
	defer p.Close()

	p.Keystroke("new")
	require.Equal(t, StatePresenting, p.State())

	p.Dismiss()
	assert.Equal(t, StateHidden, p.State())
	assert.Empty(t, p.Matches())

	p.Keystroke("new")
	require.Equal(t, StatePresenting, p.State())
	p.Select(p.Matches()[0])
	assert.Equal(t, StateHidden, p.State())
}

func TestPipelineDismissDropsFiredDebounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Wait = time.Hour
	sink := newRecordSink()
	p := New(cfg, NewStaticSource(cfg, states), sink)
	defer p.Close()

	p.Keystroke("new")
	p.mu.Lock()
	gen := p.gen // the generation the scheduled callback carries
	p.mu.Unlock()

	p.Dismiss()
	require.Equal(t, StateHidden, p.State())

	// A debounce callback that fired just before the Dismiss enters
	// dispatch with this generation; it must not undo the hide.
	p.dispatch("new", gen)

	assert.Equal(t, StateHidden, p.State())
	assert.Empty(t, p.Matches())
	assert.Empty(t, sink.lists)
}

func TestPipelineBelowGateDropsFiredDebounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinLength = 2
	cfg.Wait = time.Hour
	sink := newRecordSink()
	p := New(cfg, NewStaticSource(cfg, states), sink)
	defer p.Close()

	p.Keystroke("ne")
	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()

	p.Keystroke("n")
	require.Equal(t, StateHidden, p.State())

	p.dispatch("ne", gen)

	assert.Equal(t, StateHidden, p.State())
	assert.Empty(t, p.Matches())
	assert.False(t, p.Loading())
}

func TestPipelineGroupedMatches(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OptionField = "name"
	cfg.GroupField = "region"
	options := []any{
		map[string]any{"name": "Austin", "region": "South"},
		map[string]any{"name": "Aurora", "region": "Midwest"},
		map[string]any{"name": "Augusta", "region": "South"},
	}
	p := New(cfg, NewStaticSource(cfg, options), nil)
	defer p.Close()

	p.Keystroke("au")

	assert.Equal(t, []string{"South", "Austin", "Augusta", "Midwest", "Aurora"}, values(p.Matches()))
	assert.True(t, p.Matches()[0].IsHeader)
}

func TestPipelineQueryTracksValue(t *testing.T) {
	p := New(DefaultConfig(), NewStaticSource(DefaultConfig(), states), nil)
	defer p.Close()

	p.Keystroke("New Yo")
	q := p.Query()
	assert.Equal(t, "new yo", q.Text)
	assert.Equal(t, []string{"new", "yo"}, q.Tokens)
}

func TestPipelineKeystrokeAfterClose(t *testing.T) {
	sink := newRecordSink()
	p := New(DefaultConfig(), NewStaticSource(DefaultConfig(), states), sink)

	p.Close()
	p.Keystroke("new")

	assert.Empty(t, p.Matches())
	assert.Empty(t, sink.lists)
}
