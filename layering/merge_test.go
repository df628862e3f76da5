package layering

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goliatone/go-optionbuilder/schema"
)

func TestMergeFromFixture(t *testing.T) {
	fx := loadLayeringFixture(t, "layering_merge.json")

	for _, tc := range fx.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			layers := make([]schema.ValueSet, len(tc.Layers))
			for i := range tc.Layers {
				layers[i] = tc.Layers[i].Values
			}

			got := Merge(layers...)
			if !reflect.DeepEqual(tc.Expect, got) {
				t.Errorf("merged values mismatch:\nwant: %#v\n got: %#v", tc.Expect, got)
			}
		})
	}
}

func TestMergeZeroInput(t *testing.T) {
	if got := Merge(); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	strong := schema.ValueSet{"typography": map[string]any{"font-size": "16px"}}
	weak := schema.ValueSet{"typography": map[string]any{"font-family": "arial"}, "slides": []any{"a"}}

	got := Merge(strong, weak)
	got["typography"].(map[string]any)["font-size"] = "1px"
	got["slides"].([]any)[0] = "changed"

	if strong["typography"].(map[string]any)["font-size"] != "16px" {
		t.Fatalf("strong layer modified")
	}
	if weak["slides"].([]any)[0] != "a" {
		t.Fatalf("weak layer modified")
	}
}

type layeringFixture struct {
	Description string                `json:"description"`
	Cases       []layeringFixtureCase `json:"cases"`
}

type layeringFixtureCase struct {
	Name   string                 `json:"name"`
	Layers []layeringFixtureLayer `json:"layers"`
	Expect schema.ValueSet        `json:"expect"`
}

type layeringFixtureLayer struct {
	Scope  string          `json:"scope"`
	Values schema.ValueSet `json:"values"`
}

func loadLayeringFixture(t *testing.T, name string) layeringFixture {
	t.Helper()
	path := filepath.Join("testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read layering fixture %q: %v", name, err)
	}
	var fx layeringFixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal layering fixture %q: %v", name, err)
	}
	return fx
}
