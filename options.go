package opts

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-optionbuilder/condition"
)

// WithEvaluator configures the rule evaluator used for condition clauses.
// Setting one also switches the condition engine to rule evaluation.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
		if e != nil {
			cfg.ruleClauses = true
		}
	}
}

// WithRuleConditions evaluates condition clauses through the rule evaluator
// (expr by default) instead of native comparisons.
func WithRuleConditions(enabled bool) Option {
	return func(cfg *config) {
		cfg.ruleClauses = enabled
	}
}

// WithRegistry sets the type registry. The registry is shared, not cloned, so
// types registered later are visible.
func WithRegistry(registry *TypeRegistry) Option {
	return func(cfg *config) {
		cfg.registry = registry
	}
}

// WithTrust sets the trust level applied to free-text values.
func WithTrust(trust Trust) Option {
	return func(cfg *config) {
		cfg.trust = trust
	}
}

// WithLogger sets the structured logger. Nil keeps the no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(cfg *config) {
		if log != nil {
			cfg.logger = log
		}
	}
}

// WithPreValidate appends a hook that runs before the dedicated type rule.
func WithPreValidate(hook ValidateHook) Option {
	return func(cfg *config) {
		if hook != nil {
			cfg.preHooks = append(cfg.preHooks, hook)
		}
	}
}

// WithPostValidate appends a hook that runs after the dedicated type rule.
func WithPostValidate(hook ValidateHook) Option {
	return func(cfg *config) {
		if hook != nil {
			cfg.postHooks = append(cfg.postHooks, hook)
		}
	}
}

// WithSeedPolicy selects how "or" conditions seed their aggregate.
func WithSeedPolicy(policy condition.SeedPolicy) Option {
	return func(cfg *config) {
		cfg.seed = policy
	}
}

// WithActor names the user recorded on activity events.
func WithActor(actor string) Option {
	return func(cfg *config) {
		cfg.actor = actor
	}
}

// WithSite partitions stored keys per site.
func WithSite(site string) Option {
	return func(cfg *config) {
		cfg.site = site
	}
}

// WithStylesheet sets the default file css settings write their blocks into.
func WithStylesheet(path string) Option {
	return func(cfg *config) {
		cfg.stylesheet = path
	}
}

// WithStylesheetLint selects the css lint mode: off, warn or strict.
func WithStylesheetLint(mode string) Option {
	return func(cfg *config) {
		cfg.lint = mode
	}
}

// WithFontTracker wires google font bookkeeping into the manager.
func WithFontTracker(tracker FontTracker) Option {
	return func(cfg *config) {
		cfg.fonts = tracker
	}
}

// WithAttachments resolves numeric media ids to URLs when css tokens expand.
func WithAttachments(lookup func(id int64) (string, bool)) Option {
	return func(cfg *config) {
		cfg.attachments = lookup
	}
}
