package pipeline

import (
	"errors"
	"strings"
	"testing"
)

func upper(_ Context, v string) (string, error) { return strings.ToUpper(v), nil }

func TestRunStages(t *testing.T) {
	var seen []string
	trace := func(name string, verdict Verdict, replacement string) Hook[string] {
		return func(_ Context, v string) (string, Verdict, error) {
			seen = append(seen, name+":"+v)
			return replacement, verdict, nil
		}
	}

	cases := []struct {
		name     string
		opts     []Option[string]
		input    string
		want     string
		vetoed   bool
		stage    string
		wantSeen []string
	}{
		{
			name:  "rule only",
			input: "abc",
			want:  "ABC",
		},
		{
			name:     "pass ignores hook output",
			opts:     []Option[string]{WithPreHook(trace("pre", Pass, "ignored")), WithPostHook(trace("post", Pass, "ignored"))},
			input:    "abc",
			want:     "ABC",
			wantSeen: []string{"pre:abc", "post:ABC"},
		},
		{
			name:     "pre replace feeds the rule",
			opts:     []Option[string]{WithPreHook(trace("pre", Replace, "xyz"))},
			input:    "abc",
			want:     "XYZ",
			wantSeen: []string{"pre:abc"},
		},
		{
			name:     "post replace overrides the rule",
			opts:     []Option[string]{WithPostHook(trace("post", Replace, "final"))},
			input:    "abc",
			want:     "final",
			wantSeen: []string{"post:ABC"},
		},
		{
			name:     "pre veto stops before the rule",
			opts:     []Option[string]{WithPreHook(trace("pre", Veto, "")), WithPostHook(trace("post", Pass, ""))},
			input:    "abc",
			vetoed:   true,
			stage:    "pre",
			wantSeen: []string{"pre:abc"},
		},
		{
			name:     "post veto discards the rule output",
			opts:     []Option[string]{WithPostHook(trace("post", Veto, ""))},
			input:    "abc",
			vetoed:   true,
			stage:    "post",
			wantSeen: []string{"post:ABC"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			result, err := New[string](upper, tc.opts...).Run(Context{FieldID: "f"}, tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Vetoed != tc.vetoed || result.Stage != tc.stage {
				t.Fatalf("expected vetoed=%t stage=%q, got %+v", tc.vetoed, tc.stage, result)
			}
			if !tc.vetoed && result.Value != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, result.Value)
			}
			if strings.Join(seen, ",") != strings.Join(tc.wantSeen, ",") {
				t.Fatalf("expected stages %v, got %v", tc.wantSeen, seen)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := New[string](nil).Run(Context{FieldID: "f"}, "x")
	if err == nil || !strings.Contains(err.Error(), "rule is required") {
		t.Fatalf("expected missing rule error, got %v", err)
	}

	_, err = New[string](func(Context, string) (string, error) { return "", boom }).Run(Context{FieldID: "f"}, "x")
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), `rule for field "f"`) {
		t.Fatalf("expected wrapped rule error, got %v", err)
	}

	hook := func(Context, string) (string, Verdict, error) { return "", Pass, boom }
	_, err = New[string](upper, WithPostHook[string](hook)).Run(Context{FieldID: "f"}, "x")
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "post-hook") {
		t.Fatalf("expected wrapped hook error, got %v", err)
	}
}

func TestWithCloneIsolatesInput(t *testing.T) {
	input := map[string]any{"a": "1"}
	rule := func(_ Context, v map[string]any) (map[string]any, error) {
		v["a"] = "2"
		return v, nil
	}
	clone := func(v map[string]any) map[string]any {
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = item
		}
		return out
	}
	result, err := New(rule, WithClone(clone)).Run(Context{}, input)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if input["a"] != "1" || result.Value["a"] != "2" {
		t.Fatalf("expected isolated input, got input=%v result=%v", input, result.Value)
	}
}
