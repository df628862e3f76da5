package layouts_test

import (
	"encoding/base64"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-optionbuilder/layouts"
	"github.com/goliatone/go-optionbuilder/schema"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []schema.ValueSet{
		{},
		{"logo_color": "#336699", "footer": "on"},
		{
			"typography": map[string]any{"font-family": "arial", "font-size": "14px"},
			"slides": []any{
				map[string]any{"title": "one", "image": int64(12)},
				map[string]any{"title": "two", "link": "https://example.com"},
			},
			"enabled": true,
			"ratio":   0.5,
			"empty":   nil,
		},
		{
			"logo":       int64(42),
			"categories": map[string]any{"0": int64(7), "3": int64(19)},
			"frame":      map[string]any{"width": int64(-2), "unit": "px", "opacity": 0.25},
			"gallery":    []any{int64(1), []any{int64(2), 1.5}},
		},
	}
	for _, want := range cases {
		blob, err := layouts.Encode(want)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := layouts.Decode(blob)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round trip mismatch:\nwant %#v\ngot  %#v", want, got)
		}
	}
}

func TestDecodeKeepsIntegersIntegral(t *testing.T) {
	blob, err := layouts.Encode(schema.ValueSet{"page": int64(9007199254740993), "ratio": 2.5})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := layouts.Decode(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["page"] != int64(9007199254740993) {
		t.Fatalf("expected exact int64, got %#v", got["page"])
	}
	if got["ratio"] != 2.5 {
		t.Fatalf("expected float64 ratio, got %#v", got["ratio"])
	}
}

func TestEncodeNil(t *testing.T) {
	blob, err := layouts.Encode(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := layouts.Decode(blob)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty set, got %v (%v)", got, err)
	}
}

func TestDecodeRejects(t *testing.T) {
	b64 := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }
	cases := map[string]string{
		"empty":              "",
		"not base64":         "%%%",
		"not json":           b64("a:1:{s:1:\"a\";s:1:\"b\";}"),
		"top level array":    b64(`["a","b"]`),
		"top level scalar":   b64(`"text"`),
		"class marker":       b64(`{"a":{"__class":"Exploit","cmd":"rm"}}`),
		"type marker nested": b64(`{"rows":[{"title":"x"},{"$type":"System.Diagnostics.Process"}]}`),
		"php object string":  b64(`{"a":"O:8:\"stdClass\":1:{s:1:\"a\";i:1;}"}`),
		"php object inline":  b64(`{"a":"a:1:{i:0;O:7:\"Exploit\":0:{}}"}`),
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := layouts.Decode(blob)
			if !errors.Is(err, layouts.ErrRejectedPayload) {
				t.Fatalf("expected ErrRejectedPayload, got %v", err)
			}
			if got == nil || len(got) != 0 {
				t.Fatalf("expected empty value set, got %#v", got)
			}
		})
	}
}

func TestDecodeRejectReportsPath(t *testing.T) {
	blob := base64.StdEncoding.EncodeToString([]byte(`{"rows":[{"@type":"x"}]}`))
	_, err := layouts.Decode(blob)
	var reject *layouts.RejectError
	if !errors.As(err, &reject) {
		t.Fatalf("expected RejectError, got %T", err)
	}
	if reject.Path != "rows[0].@type" {
		t.Fatalf("unexpected path %q", reject.Path)
	}
}
