package pipeline

import "fmt"

// Context identifies the value travelling through a pipeline.
type Context struct {
	FieldID string
	Type    string
	Group   string
}

// Verdict is a hook's decision about the value it saw.
type Verdict int

const (
	// Pass leaves the value unchanged; whatever the hook returned is ignored.
	Pass Verdict = iota
	// Replace substitutes the hook's returned value.
	Replace
	// Veto stops the pipeline. The caller keeps its previous value.
	Veto
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case Replace:
		return "replace"
	case Veto:
		return "veto"
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// Hook inspects a value before or after the rule.
type Hook[T any] func(Context, T) (T, Verdict, error)

// Rule is the dedicated transformation in the middle of the pipeline.
type Rule[T any] func(Context, T) (T, error)

// Option configures a Pipeline.
type Option[T any] func(*Pipeline[T])

// Pipeline runs pre hooks, then the rule, then post hooks. The rule's output
// stands unless a post hook replaces it explicitly.
type Pipeline[T any] struct {
	pre   []Hook[T]
	rule  Rule[T]
	post  []Hook[T]
	clone func(T) T
}

// Result is the pipeline output.
type Result[T any] struct {
	Value  T
	Vetoed bool
	// Stage names where a veto happened: "pre" or "post".
	Stage string
}

func WithPreHook[T any](hook Hook[T]) Option[T] {
	return func(p *Pipeline[T]) {
		if hook != nil {
			p.pre = append(p.pre, hook)
		}
	}
}

func WithPostHook[T any](hook Hook[T]) Option[T] {
	return func(p *Pipeline[T]) {
		if hook != nil {
			p.post = append(p.post, hook)
		}
	}
}

// WithClone copies the input before any stage sees it, so stages cannot
// alias caller data.
func WithClone[T any](clone func(T) T) Option[T] {
	return func(p *Pipeline[T]) { p.clone = clone }
}

// New builds a pipeline around rule.
func New[T any](rule Rule[T], opts ...Option[T]) *Pipeline[T] {
	p := &Pipeline[T]{rule: rule}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Run passes input through every stage.
func (p *Pipeline[T]) Run(ctx Context, input T) (Result[T], error) {
	var zero Result[T]
	if p == nil || p.rule == nil {
		return zero, fmt.Errorf("pipeline: rule is required for field %q", ctx.FieldID)
	}

	current := input
	if p.clone != nil {
		current = p.clone(input)
	}

	current, vetoed, err := runHooks(ctx, "pre", p.pre, current)
	if err != nil || vetoed {
		return Result[T]{Vetoed: vetoed, Stage: stageIf(vetoed, "pre")}, err
	}

	current, err = p.rule(ctx, current)
	if err != nil {
		return zero, fmt.Errorf("pipeline: rule for field %q failed: %w", ctx.FieldID, err)
	}

	current, vetoed, err = runHooks(ctx, "post", p.post, current)
	if err != nil || vetoed {
		return Result[T]{Vetoed: vetoed, Stage: stageIf(vetoed, "post")}, err
	}
	return Result[T]{Value: current}, nil
}

func runHooks[T any](ctx Context, stage string, hooks []Hook[T], current T) (T, bool, error) {
	for _, hook := range hooks {
		next, verdict, err := hook(ctx, current)
		if err != nil {
			return current, false, fmt.Errorf("pipeline: %s-hook for field %q failed: %w", stage, ctx.FieldID, err)
		}
		switch verdict {
		case Replace:
			current = next
		case Veto:
			return current, true, nil
		}
	}
	return current, false, nil
}

func stageIf(vetoed bool, stage string) string {
	if vetoed {
		return stage
	}
	return ""
}
