package typeahead

import "strings"

// Matches reports whether a normalized option value satisfies the query.
// A tokenized query matches when every token is a substring of the value,
// in any order; an empty token list matches everything, which is what lets
// a zero minimum length show the full option set. A plain query is a
// single substring test.
func Matches(value string, q Query) bool {
	if q.Tokenized {
		for _, token := range q.Tokens {
			if !strings.Contains(value, token) {
				return false
			}
		}
		return true
	}
	return strings.Contains(value, q.Text)
}

// MatchesPrefix is the prefix-anchored variant used in PrefixOnly mode:
// the whole query text must start the value.
func MatchesPrefix(value string, q Query) bool {
	return strings.HasPrefix(value, q.Text)
}
