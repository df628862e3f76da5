package formdecode

import (
	"net/url"
	"reflect"
	"testing"
)

func TestSplitKey(t *testing.T) {
	cases := []struct {
		key  string
		want []string
		err  bool
	}{
		{"logo_color", []string{"logo_color"}, false},
		{"option_builder[slides][0][title]", []string{"option_builder", "slides", "0", "title"}, false},
		{"list[]", []string{"list", ""}, false},
		{"", nil, true},
		{"[a]", nil, true},
		{"a[b", nil, true},
		{"a[b]c", nil, true},
	}
	for _, tc := range cases {
		got, err := SplitKey(tc.key)
		if tc.err {
			if err == nil {
				t.Fatalf("%q: expected error", tc.key)
			}
			continue
		}
		if err != nil || !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%q: want %v, got %v (%v)", tc.key, tc.want, got, err)
		}
	}
}

func TestDecodeNestsBrackets(t *testing.T) {
	pairs, err := ParseQuery("option_builder%5Blogo_color%5D=%23336699" +
		"&option_builder%5Bslides%5D%5B0%5D%5Btitle%5D=one" +
		"&option_builder%5Bslides%5D%5B0%5D%5Blink%5D=https%3A%2F%2Fexample.com" +
		"&option_builder%5Bslides%5D%5B1%5D%5Btitle%5D=two" +
		"&option_builder%5Bgallery%5D%5B%5D=4&option_builder%5Bgallery%5D%5B%5D=9")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := Decode(pairs)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"option_builder": map[string]any{
			"logo_color": "#336699",
			"slides": map[string]any{
				"0": map[string]any{"title": "one", "link": "https://example.com"},
				"1": map[string]any{"title": "two"},
			},
			"gallery": map[string]any{"0": "4", "1": "9"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %#v\ngot  %#v", want, got)
	}
}

func TestDecodeConflict(t *testing.T) {
	_, err := Decode([]Pair{{Key: "a", Value: "1"}, {Key: "a[b]", Value: "2"}})
	if err == nil {
		t.Fatalf("expected conflict error")
	}
}

func TestRowsNaturalOrder(t *testing.T) {
	rows := Rows(map[string]any{"10": "k", "2": "c", "0": "a", "1": "b"})
	want := []any{"a", "b", "c", "k"}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("want %v, got %v", want, rows)
	}
	if Rows("scalar") != nil {
		t.Fatalf("expected nil rows for a scalar")
	}
	list := []any{"x"}
	if !reflect.DeepEqual(Rows(list), list) {
		t.Fatalf("expected sequence returned as-is")
	}
}

func TestFromValuesOrdersKeys(t *testing.T) {
	values := url.Values{"b[10]": {"x"}, "b[9]": {"y"}, "a": {"1", "2"}}
	got := FromValues(values)
	want := []Pair{{"a", "1"}, {"a", "2"}, {"b[9]", "y"}, {"b[10]", "x"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}
