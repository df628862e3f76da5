package opts

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-optionbuilder/condition"
)

var clauseCases = []struct {
	verb  condition.Verb
	value string
	rhs   string
}{
	{condition.VerbIs, "on", "on"},
	{condition.VerbIs, "off", "on"},
	{condition.VerbNot, "", ""},
	{condition.VerbNot, "x", ""},
	{condition.VerbContains, "left,right", "right"},
	{condition.VerbContains, "left", "top"},
	{condition.VerbLessThan, "4", "5"},
	{condition.VerbLessThanOrEqualTo, "5", "5"},
	{condition.VerbGreaterThan, "abc", "1"},
	{condition.VerbGreaterThanOrEqualTo, "10", "9"},
}

func TestRuleClausesMatchNativeComparison(t *testing.T) {
	for _, engine := range []string{"expr", "cel"} {
		engine := engine
		t.Run(engine, func(t *testing.T) {
			evaluator, err := ConditionEvaluator(engine, NewMapProgramCache())
			if err != nil {
				t.Fatalf("evaluator: %v", err)
			}
			clauses, err := NewRuleClauses(WithEvaluator(evaluator))
			if err != nil {
				t.Fatalf("rule clauses: %v", err)
			}
			for _, tc := range clauseCases {
				want, err := condition.Compare(tc.verb, tc.value, tc.rhs)
				if err != nil {
					t.Fatalf("compare: %v", err)
				}
				clause := condition.Clause{Field: "field", Verb: tc.verb, Value: tc.rhs}
				got, err := clauses.EvaluateClause(context.Background(), clause, tc.value)
				if err != nil {
					t.Fatalf("%s: %v", clause, err)
				}
				if got != want {
					t.Fatalf("%s against %q: got %v, want %v", clause, tc.value, got, want)
				}
			}
		})
	}
}

func TestNewRuleClausesDefaultsToExpr(t *testing.T) {
	cache := NewMapProgramCache()
	clauses, err := NewRuleClauses(WithProgramCache(cache))
	if err != nil {
		t.Fatalf("rule clauses: %v", err)
	}
	if clauses.engine != "expr" {
		t.Fatalf("expected expr engine, got %s", clauses.engine)
	}
	if cache.Len() != len(condition.Verbs()) {
		t.Fatalf("expected one cached program per verb, got %d", cache.Len())
	}
}

func TestRegisterConditionFunctionsKeepsOverrides(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("cond_is", func(args ...any) (any, error) { return true, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := RegisterConditionFunctions(registry); err != nil {
		t.Fatalf("register condition functions: %v", err)
	}
	out, err := registry.Call("cond_is", "a", "b")
	if err != nil || out != true {
		t.Fatalf("expected host override to win, got %v %v", out, err)
	}
	out, err = registry.Call("cond_not", "a", "b")
	if err != nil || out != true {
		t.Fatalf("expected cond_not registered, got %v %v", out, err)
	}
	if _, err := registry.Call("cond_contains", "a"); err == nil {
		t.Fatalf("expected arity error")
	}
}

func TestConditionEvaluatorEngines(t *testing.T) {
	if _, err := ConditionEvaluator("lua", nil); err == nil {
		t.Fatalf("expected unknown engine error")
	}
	if jsEvaluatorAvailable() {
		t.Skip("js evaluator compiled in")
	}
	if _, err := ConditionEvaluator("js", nil); !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator without js support, got %v", err)
	}
}
