/*
Package typeahead implements the suggestion pipeline behind interactive
"as you type" lookups.

A raw text stream is turned into a ranked, optionally grouped, list of match
entries drawn from either a static in-memory option set or an external
asynchronous provider. The package covers query normalization, match
testing, ordering, grouping and the debounce/supersession policy that keeps
overlapping asynchronous lookups deterministic: the result presented is
always the one correlated with the most recently dispatched fetch.

Rendering, keyboard wiring and focus handling are left to the caller, which
feeds the pipeline raw text per keystroke and receives finalized match
entries plus loading/no-results signals through a Sink.
*/
package typeahead

import "time"

// Default values for Config fields. DefaultConfig returns a Config
// populated with these.
const (
	DefaultOptionsLimit     = 20
	DefaultMinLength        = 1
	DefaultWordDelimiters   = " "
	DefaultPhraseDelimiters = `"'`
)

// OrderSpec selects the field and direction used to arrange candidates
// before grouping. A nil spec preserves source order.
type OrderSpec struct {
	Field     string `toml:"field"`
	Direction string `toml:"direction"`
}

// Recognized OrderSpec directions.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// Config bundles the recognized pipeline options. Start from DefaultConfig
// and override; the zero Config disables latinization and tokenization,
// which is rarely what a caller wants.
type Config struct {
	// MinLength suppresses dispatch while the input is shorter than this
	// many runes. Zero dispatches immediately, including for empty input.
	MinLength int

	// Wait is the debounce window between a keystroke and its dispatch.
	// Zero dispatches synchronously on the keystroke itself.
	Wait time.Duration

	// OptionsLimit truncates the candidate collection before ordering and
	// grouping. Zero means DefaultOptionsLimit; negative disables the cap.
	OptionsLimit int

	// OptionField is a dot path resolved on map records to extract the
	// display/match value. Empty means the option's own string form.
	OptionField string

	// GroupField is a dot path resolved on map records to extract the
	// group key. Empty disables grouping.
	GroupField string

	// OrderBy arranges candidates by a field; nil preserves source order.
	OrderBy *OrderSpec

	// Latinize maps diacritic characters to their base letters before
	// matching, so "sao" finds "São Paulo".
	Latinize bool

	// SingleWords tokenizes the query and requires every token to match
	// (logical AND). When false the whole query is a single substring.
	SingleWords bool

	// WordDelimiters are the characters that split a tokenized query.
	WordDelimiters string

	// PhraseDelimiters are quote characters; a run enclosed in a matching
	// pair becomes a single token with the quotes stripped.
	PhraseDelimiters string

	// PrefixOnly anchors matching to the start of the option value and
	// lets a static source answer from its prefix index. Tokenization is
	// not applied in this mode.
	PrefixOnly bool

	// CancelOnFocusLost suppresses presentation of a fetch that resolves
	// after focus left the control.
	CancelOnFocusLost bool

	// Accessor overrides OptionField when set.
	Accessor Accessor

	// GroupAccessor overrides GroupField when set.
	GroupAccessor Accessor
}

// DefaultConfig returns the documented defaults: limit 20, minimum length 1,
// no debounce, latinized tokenized matching on spaces with quote phrases.
func DefaultConfig() Config {
	return Config{
		MinLength:        DefaultMinLength,
		OptionsLimit:     DefaultOptionsLimit,
		Latinize:         true,
		SingleWords:      true,
		WordDelimiters:   DefaultWordDelimiters,
		PhraseDelimiters: DefaultPhraseDelimiters,
	}
}

// withDefaults fills the fields whose zero value has no meaning of its own.
func (c Config) withDefaults() Config {
	if c.OptionsLimit == 0 {
		c.OptionsLimit = DefaultOptionsLimit
	}
	if c.WordDelimiters == "" {
		c.WordDelimiters = DefaultWordDelimiters
	}
	if c.PhraseDelimiters == "" {
		c.PhraseDelimiters = DefaultPhraseDelimiters
	}
	return c
}
