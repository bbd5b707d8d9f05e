package typeahead

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Query is the normalized form of one keystroke's text: lowercased,
// optionally latinized, optionally split into tokens. Immutable once
// produced.
type Query struct {
	// Text is the latinized, lowercased input.
	Text string

	// Tokens holds the non-empty word/phrase tokens when Tokenized.
	Tokens []string

	// Tokenized reports whether token matching applies.
	Tokenized bool
}

// latinizePool hands out NFD -> strip combining marks -> NFC chains;
// transformers are stateful and cannot be shared between goroutines.
var latinizePool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		)
	},
}

// Latinize maps accented characters to their unaccented equivalents, so
// "São Paulo" becomes "Sao Paulo". Characters without a combining-mark
// decomposition pass through unchanged.
func Latinize(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	t := latinizePool.Get().(transform.Transformer)
	defer func() {
		t.Reset()
		latinizePool.Put(t)
	}()

	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize produces the query for a raw input. Fixed order: latinize,
// lowercase, then tokenize when SingleWords is set. Pure; the same input
// always yields the same query.
func (c Config) Normalize(text string) Query {
	if c.Latinize {
		text = Latinize(text)
	}
	text = strings.ToLower(text)

	q := Query{Text: text}
	if c.SingleWords && !c.PrefixOnly {
		q.Tokenized = true
		q.Tokens = tokenize(text, c.WordDelimiters, c.PhraseDelimiters)
	}
	return q
}

// normalizeValue applies the latinize+lowercase transform without
// tokenization; option values are normalized with this before matching.
func (c Config) normalizeValue(s string) string {
	if c.Latinize {
		s = Latinize(s)
	}
	return strings.ToLower(s)
}

// tokenize splits on word delimiters, except inside a run opened and closed
// by the same phrase delimiter, which becomes a single token with the
// quotes stripped. Empty tokens are dropped; an unterminated phrase runs to
// the end of the input.
func tokenize(s, wordDelims, phraseDelims string) []string {
	var tokens []string
	var b strings.Builder

	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}

	var quote rune
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				flush()
			} else {
				b.WriteRune(r)
			}
		case strings.ContainsRune(phraseDelims, r):
			flush()
			quote = r
		case strings.ContainsRune(wordDelims, r):
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return tokens
}
