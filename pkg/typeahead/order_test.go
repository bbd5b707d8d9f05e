package typeahead

import (
	"reflect"
	"testing"
)

func record(field, id string) map[string]any {
	return map[string]any{"f": field, "id": id}
}

func TestOrderStability(t *testing.T) {
	options := []any{record("b", "1"), record("a", "2"), record("b", "3")}

	out := Order(options, &OrderSpec{Field: "f", Direction: DirectionAsc})

	ids := make([]string, len(out))
	for i, o := range out {
		ids[i] = o.(map[string]any)["id"].(string)
	}
	expected := []string{"2", "1", "3"}
	if !reflect.DeepEqual(ids, expected) {
		t.Errorf("order = %v, want %v (equal keys keep input order)", ids, expected)
	}
}

func TestOrderDesc(t *testing.T) {
	options := []any{record("a", "1"), record("c", "2"), record("b", "3")}

	out := Order(options, &OrderSpec{Field: "f", Direction: DirectionDesc})

	fields := make([]string, len(out))
	for i, o := range out {
		fields[i] = o.(map[string]any)["f"].(string)
	}
	if !reflect.DeepEqual(fields, []string{"c", "b", "a"}) {
		t.Errorf("desc order = %v", fields)
	}
}

func TestOrderPlainStrings(t *testing.T) {
	options := []any{"pear", "apple", "orange"}

	asc := Order(options, &OrderSpec{Direction: DirectionAsc})
	if !reflect.DeepEqual(asc, []any{"apple", "orange", "pear"}) {
		t.Errorf("asc = %v", asc)
	}

	desc := Order(options, &OrderSpec{Direction: DirectionDesc})
	if !reflect.DeepEqual(desc, []any{"pear", "orange", "apple"}) {
		t.Errorf("desc = %v", desc)
	}

	// Input untouched in both cases.
	if !reflect.DeepEqual(options, []any{"pear", "apple", "orange"}) {
		t.Errorf("input mutated: %v", options)
	}
}

func TestOrderMalformedSpec(t *testing.T) {
	options := []any{record("b", "1"), record("a", "2")}

	cases := []*OrderSpec{
		{Field: "", Direction: ""},
		{Field: "f", Direction: "sideways"},
		{Field: "", Direction: DirectionAsc},
	}
	for _, spec := range cases {
		out := Order(options, spec)
		if !reflect.DeepEqual(out, options) {
			t.Errorf("Order(%+v) changed the input: %v", spec, out)
		}
	}
}

func TestOrderNilSpecAndEmptyInput(t *testing.T) {
	options := []any{"b", "a"}
	if out := Order(options, nil); !reflect.DeepEqual(out, options) {
		t.Errorf("nil spec changed input: %v", out)
	}
	if out := Order(nil, &OrderSpec{Field: "f", Direction: DirectionAsc}); out != nil {
		t.Errorf("empty input produced %v", out)
	}
}

func TestOrderExtractionMiss(t *testing.T) {
	// Records missing the field sort with an empty key, ahead of the rest.
	options := []any{record("b", "1"), map[string]any{"id": "2"}, record("a", "3")}

	out := Order(options, &OrderSpec{Field: "f", Direction: DirectionAsc})

	first := out[0].(map[string]any)["id"].(string)
	if first != "2" {
		t.Errorf("first id = %q, want the keyless record first", first)
	}
}
