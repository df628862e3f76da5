//go:build js_eval

package opts

import (
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// jsEvaluator runs clause programs such as cond_is(lhs, rhs) in a fresh goja
// runtime per evaluation. Registry functions are bound as globals, the
// snapshot keys (lhs, rhs) as variables.
type jsEvaluator struct {
	programs ProgramCache
	registry *FunctionRegistry
	budget   time.Duration
}

// NewJSEvaluator builds the js rule engine used by the "js" condition engine.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	cfg := newJSEngineConfig(opts)
	return &jsEvaluator{programs: cfg.programs, registry: cfg.registry, budget: cfg.budget}
}

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *jsEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("js", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.program(expression)
	if err != nil {
		return nil, wrapEvaluationError("js", expression, "", err)
	}
	return &jsCompiledRule{evaluator: e, expression: expression, program: program}, nil
}

func (e *jsEvaluator) program(expression string) (*goja.Program, error) {
	if e.programs != nil {
		if cached, ok := e.programs.Get(expression); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("clause", fmt.Sprintf("(function(){ return (%s); })()", expression), true)
	if err != nil {
		return nil, err
	}
	if e.programs != nil {
		e.programs.Set(expression, program)
	}
	return program, nil
}

func (e *jsEvaluator) run(ctx RuleContext, program *goja.Program) (any, error) {
	vm := goja.New()
	e.bind(vm, ctx)
	if e.budget > 0 {
		timer := time.AfterFunc(e.budget, func() {
			vm.Interrupt(fmt.Sprintf("clause exceeded %s", e.budget))
		})
		defer timer.Stop()
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

func (e *jsEvaluator) bind(vm *goja.Runtime, ctx RuleContext) {
	vm.Set("now", ctx.timestamp())
	vm.Set("args", ctx.Args)
	vm.Set("metadata", ctx.Metadata)
	vm.Set("field", ctx.Field)
	if snapshot, ok := ctx.Snapshot.(map[string]any); ok {
		for key, value := range snapshot {
			vm.Set(key, value)
		}
	}
	if e.registry == nil {
		return
	}
	vm.Set("call", func(name string, arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	})
	for _, name := range e.registry.Names() {
		name := name
		vm.Set(name, func(arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		})
	}
}

type jsCompiledRule struct {
	evaluator  *jsEvaluator
	expression string
	program    *goja.Program
}

func (r *jsCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil {
		return nil, fmt.Errorf("opts: js clause program has no evaluator")
	}
	ctx = ctx.withDefaults()
	out, err := r.evaluator.run(ctx, r.program)
	return out, wrapEvaluationError("js", r.expression, ctx.fieldLabel(), err)
}

func jsEvaluatorAvailable() bool { return true }
