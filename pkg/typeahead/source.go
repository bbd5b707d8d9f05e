package typeahead

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Provider produces the option collection for a raw query. The provider
// performs its own matching and ranking; the pipeline only orders, groups
// and limits its output. The context is canceled when a newer query
// supersedes the fetch, as a best-effort hint.
type Provider func(ctx context.Context, query string) ([]any, error)

// Source yields candidate options for a query. The two implementations,
// selected once at configuration time, are StaticSource (synchronous
// in-memory filter) and StreamingSource (opaque asynchronous provider).
type Source interface {
	Fetch(ctx context.Context, rawQuery string) ([]any, error)
}

// StaticSource filters a fixed in-memory collection with the configured
// normalize+match transforms. Fetch never fails; a malformed accessor path
// yields values that simply never match.
type StaticSource struct {
	cfg     Config
	options []any
	index   *patricia.Trie
}

// NewStaticSource builds a static source over the given collection. In
// PrefixOnly mode it also builds a patricia index over the normalized
// display values so prefix queries skip the linear scan.
func NewStaticSource(cfg Config, options []any) *StaticSource {
	s := &StaticSource{cfg: cfg.withDefaults(), options: options}
	if cfg.PrefixOnly {
		s.index = patricia.NewTrie()
		for i, option := range options {
			key := patricia.Prefix(s.cfg.normalizeValue(s.cfg.DisplayValue(option)))
			if item := s.index.Get(key); item != nil {
				s.index.Set(key, append(item.([]int), i))
			} else {
				s.index.Insert(key, []int{i})
			}
		}
	}
	return s
}

// Fetch filters the collection synchronously. The error is always nil and
// exists only to satisfy Source.
func (s *StaticSource) Fetch(_ context.Context, rawQuery string) ([]any, error) {
	query := s.cfg.Normalize(rawQuery)

	if s.index != nil {
		return s.fromIndex(query), nil
	}

	var out []any
	for _, option := range s.options {
		value := s.cfg.normalizeValue(s.cfg.DisplayValue(option))
		if Matches(value, query) {
			out = append(out, option)
		}
	}
	return out, nil
}

// fromIndex answers a prefix query from the patricia index, restoring
// source order by sorting the collected positions. An empty query visits
// the whole trie, which is what a zero minimum length relies on.
func (s *StaticSource) fromIndex(query Query) []any {
	var positions []int
	err := s.index.VisitSubtree(patricia.Prefix(query.Text), func(_ patricia.Prefix, item patricia.Item) error {
		positions = append(positions, item.([]int)...)
		return nil
	})
	if err != nil {
		log.Errorf("typeahead: prefix index visit failed: %v", err)
		return nil
	}
	sort.Ints(positions)

	out := make([]any, 0, len(positions))
	for _, i := range positions {
		out = append(out, s.options[i])
	}
	return out
}

// StreamingSource wraps an opaque asynchronous provider. The pipeline does
// not re-filter its output.
type StreamingSource struct {
	provider Provider
}

// NewStreamingSource wraps the given provider function.
func NewStreamingSource(provider Provider) *StreamingSource {
	return &StreamingSource{provider: provider}
}

// Fetch invokes the provider once.
func (s *StreamingSource) Fetch(ctx context.Context, rawQuery string) ([]any, error) {
	return s.provider(ctx, rawQuery)
}
