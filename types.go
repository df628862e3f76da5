package opts

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-optionbuilder/condition"
	"github.com/goliatone/go-optionbuilder/internal/pipeline"
	"github.com/goliatone/go-optionbuilder/pkg/activity"
)

// Trust describes how much markup the current editor may store.
type Trust int

const (
	// TrustStandard strips script, style and iframe elements from free text.
	TrustStandard Trust = iota
	// TrustElevated keeps script, style and iframe elements.
	TrustElevated
)

func (t Trust) String() string {
	if t == TrustElevated {
		return "elevated"
	}
	return "standard"
}

// ParseTrust maps a configuration string onto a Trust level.
func ParseTrust(raw string) Trust {
	if raw == "elevated" || raw == "unfiltered" {
		return TrustElevated
	}
	return TrustStandard
}

// HookContext identifies the setting a validation hook is looking at.
type HookContext = pipeline.Context

// Verdict is the decision a validation hook returns.
type Verdict = pipeline.Verdict

const (
	VerdictPass    = pipeline.Pass
	VerdictReplace = pipeline.Replace
	VerdictVeto    = pipeline.Veto
)

// ValidateHook runs before or after the dedicated type rule.
type ValidateHook = pipeline.Hook[any]

// RuleContext carries inputs needed when evaluating an expression.
type RuleContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	// Field names the setting whose condition is being evaluated.
	Field string
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) fieldLabel() string {
	if ctx.Field != "" {
		return ctx.Field
	}
	return "unknown"
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures a Validator, Renderer or Manager.
type Option func(*config)

type config struct {
	registry     *TypeRegistry
	functions    *FunctionRegistry
	evaluator    Evaluator
	programCache ProgramCache
	evalLogger   EvaluatorLogger
	logger       *zap.Logger
	trust        Trust
	preHooks     []ValidateHook
	postHooks    []ValidateHook
	seed         condition.SeedPolicy
	ruleClauses  bool
	activity     activity.Hooks
	actor        string
	site         string
	stylesheet   string
	lint         string
	fonts        FontTracker
	attachments  func(id int64) (string, bool)
}

func applyOptions(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.registry == nil {
		cfg.registry = DefaultTypeRegistry()
	}
	return cfg
}

func (c config) evaluatorLogger() EvaluatorLogger {
	if c.evalLogger != nil {
		return c.evalLogger
	}
	return noopEvaluatorLogger{}
}
