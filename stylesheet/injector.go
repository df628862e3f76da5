package stylesheet

import (
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-optionbuilder/schema"
)

// LintMode controls what happens when an expanded body fails to tokenize.
type LintMode string

const (
	LintOff    LintMode = "off"
	LintWarn   LintMode = "warn"
	LintStrict LintMode = "strict"
)

// Injector expands css setting bodies and writes them into marker blocks.
type Injector struct {
	log      *zap.Logger
	resolver Resolver
	lint     LintMode
}

// Option configures an Injector.
type Option func(*Injector)

// WithLogger sets the injector logger.
func WithLogger(log *zap.Logger) Option {
	return func(i *Injector) {
		if log != nil {
			i.log = log
		}
	}
}

// WithResolver replaces the token resolver.
func WithResolver(r Resolver) Option {
	return func(i *Injector) {
		i.resolver = r
	}
}

// WithLint selects the lint mode. Unknown modes behave like LintWarn.
func WithLint(mode LintMode) Option {
	return func(i *Injector) {
		i.lint = mode
	}
}

// NewInjector builds an injector that lints in warn mode.
func NewInjector(opts ...Option) *Injector {
	i := &Injector{log: zap.NewNop(), lint: LintWarn}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	i.log = i.log.Named("stylesheet")
	return i
}

// Render normalizes body and substitutes its placeholders.
func (i *Injector) Render(body string, values schema.ValueSet, typeOf TypeLookup) string {
	return i.resolver.Expand(NormalizeBody(body), values, typeOf)
}

// Upsert renders body and writes it as the block named marker in path. An
// empty body is a no-op.
func (i *Injector) Upsert(path, marker, body string, values schema.ValueSet, typeOf TypeLookup) error {
	if marker == "" || body == "" {
		return nil
	}
	rendered := i.Render(body, values, typeOf)
	if i.lint != LintOff {
		if issues := Lint(rendered); len(issues) > 0 {
			i.log.Warn("css block does not tokenize cleanly",
				zap.String("marker", marker), zap.Strings("issues", issues))
			if i.lint == LintStrict {
				return &LintError{Marker: marker, Issues: issues}
			}
		}
	}
	if err := UpsertBlock(path, marker, rendered); err != nil {
		i.log.Warn("css block write failed", zap.String("path", path), zap.String("marker", marker), zap.Error(err))
		return err
	}
	i.log.Debug("css block written", zap.String("path", path), zap.String("marker", marker))
	return nil
}

// Delete empties the block named marker in path.
func (i *Injector) Delete(path, marker string) error {
	if marker == "" {
		return nil
	}
	if err := DeleteBlock(path, marker); err != nil {
		i.log.Warn("css block delete failed", zap.String("path", path), zap.String("marker", marker), zap.Error(err))
		return err
	}
	return nil
}

// IsIOError reports whether err came from a marker file operation.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// Paths records which stylesheet each css setting writes to.
type Paths map[string]string

// Record stores path for fieldID and reports whether it changed.
func (p Paths) Record(fieldID, path string) bool {
	if p[fieldID] == path {
		return false
	}
	p[fieldID] = path
	return true
}

// Lookup returns the path for fieldID, or fallback when none is recorded.
func (p Paths) Lookup(fieldID, fallback string) string {
	if path, ok := p[fieldID]; ok && path != "" {
		return path
	}
	return fallback
}
