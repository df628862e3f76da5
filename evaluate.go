package opts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-optionbuilder/condition"
)

var ErrNoEvaluator = errors.New("opts: evaluator not configured")

// ConditionFunctionPrefix prefixes the registry functions that implement
// condition verbs.
const ConditionFunctionPrefix = "cond_"

// RegisterConditionFunctions adds cond_<verb> for every condition verb.
// Names already registered are left alone so hosts can override a verb.
func RegisterConditionFunctions(registry *FunctionRegistry) error {
	if registry == nil {
		return fmt.Errorf("opts: function registry is nil")
	}
	existing := map[string]struct{}{}
	for _, name := range registry.Names() {
		existing[name] = struct{}{}
	}
	for _, verb := range condition.Verbs() {
		name := ConditionFunctionPrefix + string(verb)
		if _, ok := existing[name]; ok {
			continue
		}
		verb := verb
		if err := registry.Register(name, func(args ...any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("%s expects 2 args, got %d", name, len(args))
			}
			return condition.Compare(verb, fmt.Sprint(args[0]), fmt.Sprint(args[1]))
		}); err != nil {
			return err
		}
	}
	return nil
}

// RuleClauses evaluates condition clauses with a rule Evaluator. Each clause
// becomes a call to cond_<verb> with the live value as lhs and the clause
// value as rhs.
type RuleClauses struct {
	evaluator Evaluator
	engine    string
	logger    EvaluatorLogger
	compiled  map[condition.Verb]CompiledRule
}

// NewRuleClauses builds the clause adapter. Without WithEvaluator it uses the
// expr evaluator over the configured function registry.
func NewRuleClauses(opts ...Option) (*RuleClauses, error) {
	cfg := applyOptions(opts)
	evaluator, err := cfg.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	r := &RuleClauses{
		evaluator: evaluator,
		engine:    evaluatorEngineName(evaluator),
		logger:    cfg.evaluatorLogger(),
		compiled:  map[condition.Verb]CompiledRule{},
	}
	for _, verb := range condition.Verbs() {
		expr := clauseExpression(r.engine, verb)
		rule, err := evaluator.Compile(expr)
		if err != nil {
			return nil, wrapEvaluationError(r.engine, expr, "", err)
		}
		r.compiled[verb] = rule
	}
	return r, nil
}

// EvaluateClause implements condition.ClauseEvaluator.
func (r *RuleClauses) EvaluateClause(_ context.Context, clause condition.Clause, value string) (bool, error) {
	rule, ok := r.compiled[clause.Verb]
	if !ok {
		return false, fmt.Errorf("opts: no rule for verb %q", clause.Verb)
	}
	ctx := RuleContext{
		Snapshot: map[string]any{"lhs": value, "rhs": clause.Value},
		Field:    clause.Field,
	}.withDefaults()
	expr := clauseExpression(r.engine, clause.Verb)

	start := time.Now()
	out, err := rule.Evaluate(ctx)
	err = wrapEvaluationError(r.engine, expr, ctx.fieldLabel(), err)
	r.logger.LogEvaluation(EvaluatorLogEvent{
		Engine:   r.engine,
		Expr:     expr,
		Field:    ctx.fieldLabel(),
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return false, err
	}
	passed, ok := out.(bool)
	if !ok {
		return false, wrapEvaluationError(r.engine, expr, ctx.fieldLabel(), fmt.Errorf("rule returned %T, want bool", out))
	}
	return passed, nil
}

// clauseExpression spells the verb call for engine. expr and js resolve
// registry functions by name at compile time; CEL only knows call().
func clauseExpression(engine string, verb condition.Verb) string {
	name := ConditionFunctionPrefix + string(verb)
	if engine == "cel" {
		return fmt.Sprintf("call(%q, lhs, rhs)", name)
	}
	return fmt.Sprintf("%s(lhs, rhs)", name)
}

func (c config) resolveEvaluator() (Evaluator, error) {
	if c.evaluator != nil {
		return c.evaluator, nil
	}
	registry := c.functions
	if registry == nil {
		registry = NewFunctionRegistry()
	}
	if err := RegisterConditionFunctions(registry); err != nil {
		return nil, err
	}
	exprOpts := []ExprEvaluatorOption{ExprWithFunctionRegistry(registry)}
	if c.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(c.programCache))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return evaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*opts.exprEvaluator":
		return "expr"
	case "*opts.celEvaluator":
		return "cel"
	case "*opts.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}

// ConditionEvaluator builds the named rule engine (expr, cel or js) with the
// condition functions registered. cache may be nil. The js engine needs the
// js_eval build tag.
func ConditionEvaluator(engine string, cache ProgramCache) (Evaluator, error) {
	registry := NewFunctionRegistry()
	if err := RegisterConditionFunctions(registry); err != nil {
		return nil, err
	}
	var evaluator Evaluator
	switch engine {
	case "", "expr":
		options := []ExprEvaluatorOption{ExprWithFunctionRegistry(registry)}
		if cache != nil {
			options = append(options, ExprWithProgramCache(cache))
		}
		evaluator = NewExprEvaluator(options...)
	case "cel":
		options := []CELEvaluatorOption{CELWithFunctionRegistry(registry)}
		if cache != nil {
			options = append(options, CELWithProgramCache(cache))
		}
		evaluator = NewCELEvaluator(options...)
	case "js":
		options := []JSEvaluatorOption{JSWithFunctionRegistry(registry)}
		if cache != nil {
			options = append(options, JSWithProgramCache(cache))
		}
		evaluator = NewJSEvaluator(options...)
	default:
		return nil, fmt.Errorf("opts: unknown rule engine %q", engine)
	}
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return evaluator, nil
}
