package condition

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-optionbuilder/schema"
)

// Operator combines clause results.
type Operator string

const (
	OperatorAnd Operator = "and"
	OperatorOr  Operator = "or"
)

// ParseOperator lowercases raw; anything other than "or" combines with "and".
func ParseOperator(raw string) Operator {
	if strings.EqualFold(strings.TrimSpace(raw), string(OperatorOr)) {
		return OperatorOr
	}
	return OperatorAnd
}

// SeedPolicy decides the aggregate before the first evaluated clause.
type SeedPolicy int

const (
	// SeedFirstResult seeds the aggregate with the first evaluated clause. When
	// every clause is skipped there is no aggregate and the field is hidden.
	SeedFirstResult SeedPolicy = iota
	// SeedIdentity seeds "and" with true and "or" with false. When every clause
	// is skipped "and" fields stay visible and "or" fields are hidden.
	SeedIdentity
)

// Field is the live state of one referenced setting.
type Field struct {
	Value string
	// HasInput is false when the setting container exists but holds no
	// readable input (for example an unchecked radio group).
	HasInput bool
}

// State resolves referenced settings to their live values.
type State interface {
	Field(id string) (Field, bool)
}

// Values is a State where every present key has a readable input.
type Values map[string]string

func (v Values) Field(id string) (Field, bool) {
	value, ok := v[id]
	if !ok {
		return Field{}, false
	}
	return Field{Value: value, HasInput: true}, true
}

// ClauseEvaluator decides a single clause given the live field value.
type ClauseEvaluator interface {
	EvaluateClause(ctx context.Context, clause Clause, value string) (bool, error)
}

// ClauseEvaluatorFunc adapts a function to ClauseEvaluator.
type ClauseEvaluatorFunc func(ctx context.Context, clause Clause, value string) (bool, error)

func (f ClauseEvaluatorFunc) EvaluateClause(ctx context.Context, clause Clause, value string) (bool, error) {
	return f(ctx, clause, value)
}

// NativeEvaluator compares clauses directly with Compare.
type NativeEvaluator struct{}

func (NativeEvaluator) EvaluateClause(_ context.Context, clause Clause, value string) (bool, error) {
	return Compare(clause.Verb, value, clause.Value)
}

// Result reports how an expression was decided.
type Result struct {
	Visible   bool
	Evaluated int
	Skipped   []string
}

// Engine evaluates condition expressions against form state.
type Engine struct {
	clauses ClauseEvaluator
	seed    SeedPolicy
	log     *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClauseEvaluator replaces the native comparison.
func WithClauseEvaluator(evaluator ClauseEvaluator) Option {
	return func(e *Engine) {
		if evaluator != nil {
			e.clauses = evaluator
		}
	}
}

// WithSeedPolicy selects how the aggregate is seeded.
func WithSeedPolicy(policy SeedPolicy) Option {
	return func(e *Engine) {
		e.seed = policy
	}
}

// WithLogger sets the engine logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine builds an engine using native comparisons and first-result seeding.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{clauses: NativeEvaluator{}, seed: SeedFirstResult, log: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.log = e.log.Named("condition")
	return e
}

// Evaluate parses raw and combines the clause results with operator.
func (e *Engine) Evaluate(ctx context.Context, raw string, operator Operator, state State) (Result, error) {
	clauses, err := Parse(raw)
	if err != nil {
		return Result{}, err
	}
	return e.EvaluateClauses(ctx, clauses, operator, state)
}

// EvaluateClauses combines clause results left to right. A clause is skipped
// when its field is absent, or when the field has no readable input and the
// clause compares against a non-empty value.
func (e *Engine) EvaluateClauses(ctx context.Context, clauses []Clause, operator Operator, state State) (Result, error) {
	var (
		res    Result
		passed bool
		seeded bool
		errs   []error
	)
	if e.seed == SeedIdentity {
		passed, seeded = operator != OperatorOr, true
	}

	for _, clause := range clauses {
		field, ok := state.Field(clause.Field)
		if !ok || (!field.HasInput && clause.Value != "") {
			res.Skipped = append(res.Skipped, clause.Field)
			continue
		}
		value := ""
		if field.HasInput {
			value = field.Value
		}
		result, err := e.clauses.EvaluateClause(ctx, clause, value)
		if err != nil {
			errs = append(errs, err)
			result = false
		}
		res.Evaluated++
		if !seeded {
			passed, seeded = result, true
		}
		if operator == OperatorOr {
			passed = passed || result
		} else {
			passed = passed && result
		}
	}

	res.Visible = seeded && passed
	if len(res.Skipped) > 0 {
		e.log.Debug("condition clauses skipped", zap.Strings("fields", res.Skipped))
	}
	return res, errors.Join(errs...)
}

// Visibility computes the initial visibility of every setting that declares
// a condition. Settings without a condition are always visible and are not
// included. Malformed conditions hide their setting.
func (e *Engine) Visibility(ctx context.Context, settings []schema.Setting, state State) (map[string]bool, error) {
	out := make(map[string]bool)
	var errs []error
	for _, setting := range settings {
		if strings.TrimSpace(setting.Condition) == "" {
			continue
		}
		res, err := e.Evaluate(ctx, setting.Condition, ParseOperator(setting.Operator), state)
		if err != nil {
			errs = append(errs, err)
		}
		out[setting.ID] = res.Visible
	}
	return out, errors.Join(errs...)
}

// FormState exposes the declared settings and their stored values as form
// state. Every declared setting is present; repeatable and composite values
// have no readable input.
func FormState(settings []schema.Setting, values schema.ValueSet) State {
	state := formState{}
	for _, setting := range settings {
		if !setting.Type.HoldsValue() {
			continue
		}
		value := values[setting.ID]
		switch value.(type) {
		case map[string]any, []any:
			state[setting.ID] = Field{}
			continue
		}
		if setting.Type.IsRepeatable() {
			state[setting.ID] = Field{}
			continue
		}
		state[setting.ID] = Field{Value: schema.Stringify(value), HasInput: true}
	}
	return state
}

type formState map[string]Field

func (f formState) Field(id string) (Field, bool) {
	field, ok := f[id]
	return field, ok
}
