package typeahead

import (
	"sort"

	"github.com/charmbracelet/log"
)

// Order arranges a candidate collection per the spec. Configuration
// problems are reported on the log and leave the input unchanged; Order
// never fails and never mutates its argument. Equal keys keep their
// relative input order so near-identical result sets stay stable.
func Order(options []any, spec *OrderSpec) []any {
	if len(options) == 0 || spec == nil {
		return options
	}
	if spec.Field == "" && spec.Direction == "" {
		log.Warn("typeahead: orderBy is set but carries no field or direction, keeping source order")
		return options
	}
	if spec.Direction != DirectionAsc && spec.Direction != DirectionDesc {
		log.Warnf("typeahead: orderBy direction %q is not %q or %q, keeping source order",
			spec.Direction, DirectionAsc, DirectionDesc)
		return options
	}
	desc := spec.Direction == DirectionDesc

	if allStrings(options) {
		out := make([]any, len(options))
		copy(out, options)
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].(string), out[j].(string)
			if desc {
				return a > b
			}
			return a < b
		})
		return out
	}

	if spec.Field == "" {
		log.Warn("typeahead: orderBy on record options needs a non-empty field, keeping source order")
		return options
	}

	accessor := FieldAccessor(spec.Field)
	type keyed struct {
		option any
		key    string
	}
	entries := make([]keyed, len(options))
	for i, option := range options {
		key, ok := accessor(option)
		if !ok {
			// Extraction misses sort as an empty key, never a fault.
			key = ""
		}
		entries[i] = keyed{option: option, key: key}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if desc {
			return entries[i].key > entries[j].key
		}
		return entries[i].key < entries[j].key
	})

	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e.option
	}
	return out
}

// allStrings reports whether every option is a bare string.
func allStrings(options []any) bool {
	for _, option := range options {
		if _, ok := option.(string); !ok {
			return false
		}
	}
	return true
}
