package typeahead

import (
	"net/url"
	"testing"
)

func TestFieldAccessorDotPath(t *testing.T) {
	accessor := FieldAccessor("address.city")
	option := map[string]any{
		"address": map[string]any{"city": "Lisbon"},
	}

	value, ok := accessor(option)
	if !ok || value != "Lisbon" {
		t.Errorf("accessor = (%q, %v), want (Lisbon, true)", value, ok)
	}
}

func TestFieldAccessorMisses(t *testing.T) {
	accessor := FieldAccessor("address.city")

	cases := []any{
		"just a string",
		map[string]any{"address": "flat"},
		map[string]any{"other": 1},
		nil,
	}
	for _, option := range cases {
		if _, ok := accessor(option); ok {
			t.Errorf("accessor resolved on %#v", option)
		}
	}
}

func TestFieldAccessorNonStringLeaf(t *testing.T) {
	accessor := FieldAccessor("rank")
	value, ok := accessor(map[string]any{"rank": 3})
	if !ok || value != "3" {
		t.Errorf("accessor = (%q, %v), want (3, true)", value, ok)
	}
}

func TestDisplayValueFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OptionField = "missing"

	// Extraction miss degrades to the option's own string form.
	if got := cfg.DisplayValue("raw"); got != "raw" {
		t.Errorf("DisplayValue = %q, want raw", got)
	}

	u := &url.URL{Scheme: "https", Host: "example.com"}
	if got := cfg.DisplayValue(u); got != "https://example.com" {
		t.Errorf("DisplayValue(Stringer) = %q", got)
	}
}

func TestCustomAccessorWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OptionField = "name"
	cfg.Accessor = func(option any) (string, bool) { return "custom", true }

	if got := cfg.DisplayValue(map[string]any{"name": "field"}); got != "custom" {
		t.Errorf("DisplayValue = %q, want custom accessor to win", got)
	}
}
