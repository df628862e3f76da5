//go:build !js_eval

package opts

// NewJSEvaluator returns nil without the js_eval build tag; ConditionEvaluator
// reports that as ErrNoEvaluator so the "js" condition engine fails at startup
// instead of at the first clause.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = newJSEngineConfig(opts)
	return nil
}

func jsEvaluatorAvailable() bool { return false }
