package condition

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-optionbuilder/schema"
)

func TestParse(t *testing.T) {
	clauses, err := Parse("a:is(1), b:not(),c:greater_than_or_equal_to(10)")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []Clause{
		{Field: "a", Verb: VerbIs, Value: "1"},
		{Field: "b", Verb: VerbNot, Value: ""},
		{Field: "c", Verb: VerbGreaterThanOrEqualTo, Value: "10"},
	}
	if len(clauses) != len(want) {
		t.Fatalf("expected %d clauses, got %+v", len(want), clauses)
	}
	for i := range want {
		if clauses[i] != want[i] {
			t.Fatalf("clause %d: expected %+v, got %+v", i, want[i], clauses[i])
		}
	}
	if got := Format(clauses); got != "a:is(1),b:not(),c:greater_than_or_equal_to(10)" {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestParseEmptyAndInvalid(t *testing.T) {
	clauses, err := Parse("   ")
	if err != nil || clauses != nil {
		t.Fatalf("expected nil clauses for blank input, got %v %v", clauses, err)
	}
	for _, raw := range []string{"a=1", "a:equals(1)", "a:is(1) trailing"} {
		if _, err := Parse(raw); !errors.Is(err, ErrSyntax) {
			t.Fatalf("%q: expected ErrSyntax, got %v", raw, err)
		}
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		verb     Verb
		lhs, rhs string
		want     bool
	}{
		{VerbIs, "on", "on", true},
		{VerbIs, "On", "on", false},
		{VerbNot, "off", "on", true},
		{VerbContains, "left-sidebar", "sidebar", true},
		{VerbContains, "left-sidebar", "Sidebar", false},
		{VerbLessThan, "5", "10", true},
		{VerbLessThanOrEqualTo, "10", "10", true},
		{VerbGreaterThan, "12px", "10", true},
		{VerbGreaterThan, "abc", "-1", true},
		{VerbGreaterThanOrEqualTo, "", "0", true},
	}
	for _, tc := range cases {
		got, err := Compare(tc.verb, tc.lhs, tc.rhs)
		if err != nil {
			t.Fatalf("%s: %v", tc.verb, err)
		}
		if got != tc.want {
			t.Fatalf("%s(%q, %q) = %v, want %v", tc.verb, tc.lhs, tc.rhs, got, tc.want)
		}
	}
	if _, err := Compare("between", "1", "2"); err == nil {
		t.Fatalf("expected unknown verb error")
	}
}

func TestParseInt(t *testing.T) {
	cases := map[string]int64{"42": 42, " -7px": -7, "+3": 3, "abc": 0, "": 0, "-": 0, "1.9": 1}
	for input, want := range cases {
		if got := ParseInt(input); got != want {
			t.Fatalf("ParseInt(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestEvaluateOperators(t *testing.T) {
	engine := NewEngine()
	ctx := context.Background()
	expr := "a:is(1),b:is(2)"

	cases := []struct {
		name     string
		operator Operator
		state    Values
		want     bool
	}{
		{"and all match", OperatorAnd, Values{"a": "1", "b": "2"}, true},
		{"and one fails", OperatorAnd, Values{"a": "1", "b": "3"}, false},
		{"or one matches", OperatorOr, Values{"a": "1", "b": "3"}, true},
		{"or none match", OperatorOr, Values{"a": "0", "b": "3"}, false},
	}
	for _, tc := range cases {
		res, err := engine.Evaluate(ctx, expr, tc.operator, tc.state)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if res.Visible != tc.want {
			t.Fatalf("%s: expected visible=%v, got %+v", tc.name, tc.want, res)
		}
	}
}

func TestEvaluateSkipsMissingFields(t *testing.T) {
	engine := NewEngine()
	res, err := engine.Evaluate(context.Background(), "missing:is(1),b:is(2)", OperatorOr, Values{"b": "2"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.Visible || res.Evaluated != 1 || len(res.Skipped) != 1 || res.Skipped[0] != "missing" {
		t.Fatalf("unexpected result %+v", res)
	}

	res, _ = engine.Evaluate(context.Background(), "missing:is(1)", OperatorAnd, Values{})
	if res.Visible {
		t.Fatalf("expected hidden when every clause is skipped, got %+v", res)
	}
}

func TestEvaluateSeedIdentity(t *testing.T) {
	engine := NewEngine(WithSeedPolicy(SeedIdentity))
	res, _ := engine.Evaluate(context.Background(), "missing:is(1)", OperatorAnd, Values{})
	if !res.Visible {
		t.Fatalf("expected and-identity seed to stay visible, got %+v", res)
	}
	res, _ = engine.Evaluate(context.Background(), "missing:is(1)", OperatorOr, Values{})
	if res.Visible {
		t.Fatalf("expected or-identity seed to hide, got %+v", res)
	}
	res, _ = engine.Evaluate(context.Background(), "a:is(1),b:is(2)", OperatorOr, Values{"a": "0", "b": "2"})
	if !res.Visible {
		t.Fatalf("expected or to pass, got %+v", res)
	}
}

type noInputState struct{}

func (noInputState) Field(string) (Field, bool) { return Field{}, true }

func TestEvaluateFieldWithoutInput(t *testing.T) {
	engine := NewEngine()
	res, _ := engine.Evaluate(context.Background(), "radio:is()", OperatorAnd, noInputState{})
	if !res.Visible || res.Evaluated != 1 {
		t.Fatalf("expected empty comparison to evaluate, got %+v", res)
	}
	res, _ = engine.Evaluate(context.Background(), "radio:is(x)", OperatorAnd, noInputState{})
	if res.Evaluated != 0 || res.Visible {
		t.Fatalf("expected non-empty comparison to be skipped, got %+v", res)
	}
}

func TestEvaluateWithCustomClauseEvaluator(t *testing.T) {
	failing := ClauseEvaluatorFunc(func(context.Context, Clause, string) (bool, error) {
		return false, errors.New("boom")
	})
	engine := NewEngine(WithClauseEvaluator(failing))
	res, err := engine.Evaluate(context.Background(), "a:is(1)", OperatorAnd, Values{"a": "1"})
	if err == nil {
		t.Fatalf("expected clause error")
	}
	if res.Visible {
		t.Fatalf("failed clause must hide the field")
	}
}

func TestVisibility(t *testing.T) {
	settings := []schema.Setting{
		{ID: "show_footer", Type: schema.TypeOnOff},
		{ID: "footer_text", Type: schema.TypeText, Condition: "show_footer:is(on)"},
		{ID: "columns", Type: schema.TypeNumericSlider, Condition: "show_footer:is(on),count:greater_than(2)", Operator: "OR"},
		{ID: "count", Type: schema.TypeNumericSlider},
		{ID: "broken", Type: schema.TypeText, Condition: "show_footer=on"},
		{ID: "plain", Type: schema.TypeText},
	}
	values := schema.ValueSet{"show_footer": "off", "count": 3}
	visible, err := NewEngine().Visibility(context.Background(), settings, FormState(settings, values))
	if err == nil {
		t.Fatalf("expected syntax error for broken condition")
	}
	if visible["footer_text"] {
		t.Fatalf("footer_text should be hidden")
	}
	if !visible["columns"] {
		t.Fatalf("columns should be visible through or")
	}
	if visible["broken"] {
		t.Fatalf("broken condition should hide")
	}
	if _, ok := visible["plain"]; ok {
		t.Fatalf("unconditional settings are not reported")
	}
}
