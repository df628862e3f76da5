package opts

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/goliatone/go-optionbuilder/googlefonts"
	"github.com/goliatone/go-optionbuilder/layering"
	"github.com/goliatone/go-optionbuilder/layouts"
	"github.com/goliatone/go-optionbuilder/pkg/activity"
	"github.com/goliatone/go-optionbuilder/pkg/state"
	"github.com/goliatone/go-optionbuilder/schema"
	"github.com/goliatone/go-optionbuilder/stylesheet"
)

// CSSPathsKey stores which stylesheet each css setting writes to.
const CSSPathsKey = "opb_css_file_paths"

// FontTracker keeps the google font selection in sync with saved values.
type FontTracker interface {
	// Track records the rows selected by the google-fonts setting optionID.
	Track(ctx context.Context, optionID string, rows []googlefonts.Selection) error
	// PruneUnused forgets selections whose setting is absent from values.
	PruneUnused(ctx context.Context, values schema.ValueSet) error
}

var _ FontTracker = (*googlefonts.Service)(nil)

// Stores groups the persistence the manager needs. Layouts may be nil when
// the group does not use layouts.
type Stores struct {
	Values  state.Store[schema.ValueSet]
	Paths   state.Store[stylesheet.Paths]
	Layouts state.Store[layouts.Document]
}

// Manager runs the lifecycle of one option group: load with defaults,
// validate and save, regenerate css blocks, keep fonts and layouts in step.
type Manager struct {
	group      schema.Group
	index      *schema.Index
	ref        state.Ref
	stores     Stores
	validator  *Validator
	renderer   *Renderer
	injector   *stylesheet.Injector
	layouts    *layouts.Manager
	emitter    *activity.Emitter
	hooks      activity.Hooks
	fonts      FontTracker
	stylesheet string
	actor      string
	log        *zap.Logger
}

// SaveResult reports a save. CSS holds stylesheet failures, which do not
// undo the stored values.
type SaveResult struct {
	Values        schema.ValueSet
	Diagnostics   Diagnostics
	Changed       []string
	CSS           error
	Stylesheets   []string
	LayoutUpdated bool
}

// NewManager wires a manager for g. The group id is the storage key.
func NewManager(g schema.Group, stores Stores, opts ...Option) (*Manager, error) {
	if stores.Values == nil {
		return nil, fmt.Errorf("opts: value store is required")
	}
	cfg := applyOptions(opts)
	ref := state.Ref{Key: g.ID, Site: cfg.site}
	if _, err := ref.Identifier(); err != nil {
		return nil, fmt.Errorf("opts: option group: %w", err)
	}
	renderer, err := NewRenderer(opts...)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		group:      g,
		index:      schema.NewIndex(g),
		ref:        ref,
		stores:     stores,
		validator:  NewValidator(opts...),
		renderer:   renderer,
		hooks:      cfg.activity,
		fonts:      cfg.fonts,
		stylesheet: cfg.stylesheet,
		actor:      cfg.actor,
		log:        cfg.logger.Named("manager"),
	}
	m.emitter = activity.NewEmitter(cfg.activity, activity.Config{Enabled: true, Group: g.ID})
	m.injector = stylesheet.NewInjector(
		stylesheet.WithLogger(cfg.logger),
		stylesheet.WithLint(stylesheet.LintMode(cfg.lint)),
		stylesheet.WithResolver(stylesheet.Resolver{Attachment: cfg.attachments}),
	)
	if stores.Layouts != nil {
		m.layouts, err = layouts.NewManager(stores.Layouts, stores.Values, ref,
			layouts.WithLogger(cfg.logger),
			layouts.WithNarrower(layouts.NarrowFunc(m.validator.Narrower(g))),
			layouts.WithEmitter(m.emitter),
			layouts.WithActor(cfg.actor),
		)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Group returns the managed schema.
func (m *Manager) Group() schema.Group { return m.group }

// Validator returns the validator used by Save.
func (m *Manager) Validator() *Validator { return m.validator }

// Renderer returns the renderer used by RenderPage.
func (m *Manager) Renderer() *Renderer { return m.renderer }

// Layouts returns the layouts manager, nil when layouts are not configured.
func (m *Manager) Layouts() *layouts.Manager { return m.layouts }

// Load returns the stored values with empty keys filled from defaults. An
// absent group yields the defaults alone.
func (m *Manager) Load(ctx context.Context) (schema.ValueSet, error) {
	stored, err := state.Get(ctx, m.stores.Values, m.ref, schema.ValueSet{})
	if err != nil {
		return nil, fmt.Errorf("opts: load %s: %w", m.group.ID, err)
	}
	return layering.FillDefaults(m.group, stored), nil
}

// RenderPage renders one page of the group with its current values.
func (m *Manager) RenderPage(ctx context.Context, pageID string) (Fragment, error) {
	values, err := m.Load(ctx)
	if err != nil {
		return Fragment{}, err
	}
	return m.renderer.RenderPage(ctx, m.group, pageID, values)
}

// Save validates sub against the group and replaces the stored values.
// Rejected settings keep their previous value. Stylesheet failures are
// reported in the result and never fail the save.
func (m *Manager) Save(ctx context.Context, sub Submission) (SaveResult, error) {
	previous, err := state.Get(ctx, m.stores.Values, m.ref, schema.ValueSet{})
	if err != nil {
		return SaveResult{}, fmt.Errorf("opts: load %s: %w", m.group.ID, err)
	}
	next, diags := m.validator.ValidateValueSet(m.group, sub, previous)
	for _, diag := range diags {
		m.log.Debug("validation diagnostic",
			zap.String("field", diag.FieldID),
			zap.String("code", diag.Code),
			zap.String("severity", string(diag.Severity)),
		)
	}

	meta, err := state.Set(ctx, m.stores.Values, m.ref, next)
	if err != nil {
		return SaveResult{}, fmt.Errorf("opts: save %s: %w", m.group.ID, err)
	}
	result := SaveResult{Values: next, Diagnostics: diags, Changed: changedKeys(previous, next)}
	input := m.eventInput()
	input.SnapshotID = meta.SnapshotID
	m.emit(ctx, activity.BuildSettingsSavedEvent(input, result.Changed, len(diags)))

	result.Stylesheets, result.CSS = m.writeStylesheets(ctx, next)

	if m.fonts != nil {
		if err := m.syncFonts(ctx, next); err != nil {
			m.log.Warn("google fonts sync failed", zap.Error(err))
		}
	}

	if m.layouts != nil {
		updated, err := m.layouts.Refresh(ctx, next)
		if err != nil {
			return result, fmt.Errorf("opts: refresh active layout: %w", err)
		}
		result.LayoutUpdated = updated
	}

	m.log.Info("option group saved",
		zap.String("group", m.group.ID),
		zap.Int("changed", len(result.Changed)),
		zap.Int("diagnostics", len(diags)),
	)
	return result, nil
}

// WriteStylesheets regenerates the css blocks from the stored values.
func (m *Manager) WriteStylesheets(ctx context.Context) ([]string, error) {
	values, err := state.Get(ctx, m.stores.Values, m.ref, schema.ValueSet{})
	if err != nil {
		return nil, fmt.Errorf("opts: load %s: %w", m.group.ID, err)
	}
	return m.writeStylesheets(ctx, values)
}

// writeStylesheets upserts the block of every non-empty css setting and
// clears the block of empty ones. Each block is written on its own.
func (m *Manager) writeStylesheets(ctx context.Context, values schema.ValueSet) ([]string, error) {
	settings := m.index.OfType(schema.TypeCSS)
	if len(settings) == 0 {
		return nil, nil
	}
	pathsRef := state.Ref{Key: CSSPathsKey, Site: m.ref.Site}
	var paths stylesheet.Paths
	if m.stores.Paths != nil {
		loaded, err := state.Get(ctx, m.stores.Paths, pathsRef, stylesheet.Paths{})
		if err != nil {
			return nil, err
		}
		paths = loaded
	}
	if paths == nil {
		paths = stylesheet.Paths{}
	}

	var (
		errs    error
		written []string
		dirty   bool
	)
	for _, setting := range settings {
		path := paths.Lookup(setting.ID, m.stylesheet)
		if path == "" {
			continue
		}
		input := m.eventInput()
		body := stringOf(values[setting.ID])
		if body == "" {
			if err := m.injector.Delete(path, setting.ID); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			m.emit(ctx, activity.BuildCSSClearedEvent(input, path, setting.ID))
		} else {
			if err := m.injector.Upsert(path, setting.ID, body, values, m.index.TypeOf); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			m.emit(ctx, activity.BuildCSSWrittenEvent(input, path, setting.ID))
		}
		written = append(written, setting.ID)
		if paths.Record(setting.ID, path) {
			dirty = true
		}
	}
	if dirty && m.stores.Paths != nil {
		if _, err := state.Set(ctx, m.stores.Paths, pathsRef, paths); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return written, errs
}

func (m *Manager) syncFonts(ctx context.Context, values schema.ValueSet) error {
	var errs error
	for _, setting := range m.index.OfType(schema.TypeGoogleFonts) {
		rows := googlefonts.SelectionsFrom(rowsOf(values[setting.ID]))
		errs = multierr.Append(errs, m.fonts.Track(ctx, setting.ID, rows))
	}
	return multierr.Append(errs, m.fonts.PruneUnused(ctx, values))
}

func (m *Manager) eventInput() activity.EventInput {
	return activity.EventInput{ActorID: m.actor, Group: m.group.ID}
}

func (m *Manager) emit(ctx context.Context, event activity.Event) {
	if err := m.emitter.Emit(ctx, event); err != nil {
		m.log.Warn("activity hook failed", zap.String("verb", event.Verb), zap.Error(err))
	}
}

// changedKeys lists ids whose value differs between previous and next.
func changedKeys(previous, next schema.ValueSet) []string {
	var out []string
	seen := map[string]bool{}
	for _, key := range next.Keys() {
		seen[key] = true
		if !reflect.DeepEqual(previous[key], next[key]) {
			out = append(out, key)
		}
	}
	for _, key := range previous.Keys() {
		if !seen[key] {
			out = append(out, key)
		}
	}
	return out
}
