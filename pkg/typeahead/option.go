package typeahead

import (
	"fmt"
	"strings"
)

// Accessor extracts a string field from an option. The second return is
// false when the option carries no usable value for the field; callers
// decide how to degrade.
type Accessor func(option any) (string, bool)

// MatchEntry is one presented suggestion, or a synthetic group label when
// IsHeader is set. Entries are created fresh on every pipeline run and
// never mutated afterwards.
type MatchEntry struct {
	// Item is the source option, or the group name for a header entry.
	Item any

	// Value is the extracted display string.
	Value string

	// IsHeader marks a non-selectable group label.
	IsHeader bool
}

// FieldAccessor returns an Accessor that resolves a dot path over nested
// map[string]any records. Missing segments or non-map intermediates report
// a miss rather than an error; a malformed path simply never matches.
func FieldAccessor(path string) Accessor {
	segments := strings.Split(path, ".")
	return func(option any) (string, bool) {
		current := option
		for _, seg := range segments {
			record, ok := current.(map[string]any)
			if !ok {
				return "", false
			}
			current, ok = record[seg]
			if !ok {
				return "", false
			}
		}
		return stringValue(current), true
	}
}

// stringValue renders an option (or field value) as its own string form.
func stringValue(option any) string {
	switch v := option.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// optionAccessor resolves the configured display accessor, in priority
// order: explicit Accessor, OptionField dot path, the option itself.
func (c Config) optionAccessor() Accessor {
	if c.Accessor != nil {
		return c.Accessor
	}
	if c.OptionField != "" {
		return FieldAccessor(c.OptionField)
	}
	return func(option any) (string, bool) {
		return stringValue(option), true
	}
}

// groupAccessor resolves the configured group-key accessor, or nil when
// grouping is disabled.
func (c Config) groupAccessor() Accessor {
	if c.GroupAccessor != nil {
		return c.GroupAccessor
	}
	if c.GroupField != "" {
		return FieldAccessor(c.GroupField)
	}
	return nil
}

// DisplayValue extracts the display string for an option. An extraction
// miss falls back to the option's own string form, never to an error.
func (c Config) DisplayValue(option any) string {
	if value, ok := c.optionAccessor()(option); ok {
		return value
	}
	return stringValue(option)
}
