package opts

import "time"

// DefaultJSClauseBudget bounds one run of a js clause program. Condition
// programs are single comparisons, so anything slower is a runaway script.
const DefaultJSClauseBudget = 50 * time.Millisecond

type jsEngineConfig struct {
	programs ProgramCache
	registry *FunctionRegistry
	budget   time.Duration
}

// JSEvaluatorOption configures the js rule engine behind condition clauses.
type JSEvaluatorOption func(*jsEngineConfig)

// JSWithProgramCache shares compiled clause programs, keyed by expression.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(cfg *jsEngineConfig) {
		cfg.programs = cache
	}
}

// JSWithFunctionRegistry exposes the registry functions (cond_<verb> among
// them) as globals of every run. The registry is cloned.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(cfg *jsEngineConfig) {
		if registry != nil {
			cfg.registry = registry.Clone()
		}
	}
}

// JSWithBudget overrides DefaultJSClauseBudget. Zero or less disables the
// interrupt.
func JSWithBudget(budget time.Duration) JSEvaluatorOption {
	return func(cfg *jsEngineConfig) {
		cfg.budget = budget
	}
}

func newJSEngineConfig(opts []JSEvaluatorOption) jsEngineConfig {
	cfg := jsEngineConfig{budget: DefaultJSClauseBudget}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
