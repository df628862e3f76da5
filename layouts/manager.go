package layouts

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-optionbuilder/pkg/activity"
	"github.com/goliatone/go-optionbuilder/pkg/state"
	"github.com/goliatone/go-optionbuilder/schema"
)

// Narrower revalidates a decoded snapshot against the current schema. Keys
// the schema no longer declares must be dropped.
type Narrower interface {
	Narrow(ctx context.Context, snapshot schema.ValueSet) (schema.ValueSet, error)
}

// NarrowFunc adapts a function to Narrower.
type NarrowFunc func(ctx context.Context, snapshot schema.ValueSet) (schema.ValueSet, error)

func (fn NarrowFunc) Narrow(ctx context.Context, snapshot schema.ValueSet) (schema.ValueSet, error) {
	return fn(ctx, snapshot)
}

// KeepDeclared drops snapshot keys that idx does not declare, without
// re-running type validation.
func KeepDeclared(idx *schema.Index) Narrower {
	return NarrowFunc(func(_ context.Context, snapshot schema.ValueSet) (schema.ValueSet, error) {
		out := schema.ValueSet{}
		for key, value := range snapshot {
			if setting, ok := idx.Lookup(key); ok && setting.Type.HoldsValue() {
				out[key] = schema.CloneValue(value)
			}
		}
		return out, nil
	})
}

// Manager owns the layouts document of one option group and swaps the
// group's live value set when a layout becomes active.
type Manager struct {
	layouts state.Store[Document]
	values  state.Store[schema.ValueSet]
	group   state.Ref
	ref     state.Ref
	narrow  Narrower
	emitter *activity.Emitter
	actor   string
	log     *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

func WithNarrower(n Narrower) Option {
	return func(m *Manager) {
		if n != nil {
			m.narrow = n
		}
	}
}

func WithEmitter(e *activity.Emitter) Option {
	return func(m *Manager) { m.emitter = e }
}

// WithActor stamps emitted events with actor.
func WithActor(actor string) Option {
	return func(m *Manager) { m.actor = actor }
}

// WithLayoutsKey overrides the storage key of the layouts document, which
// defaults to "<group>_layouts".
func WithLayoutsKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.ref.Key = key
		}
	}
}

// NewManager wires a Manager for the option group stored under group.
func NewManager(layouts state.Store[Document], values state.Store[schema.ValueSet], group state.Ref, opts ...Option) (*Manager, error) {
	if layouts == nil || values == nil {
		return nil, fmt.Errorf("layouts: stores are required")
	}
	if _, err := group.Identifier(); err != nil {
		return nil, fmt.Errorf("layouts: %w", err)
	}
	m := &Manager{
		layouts: layouts,
		values:  values,
		group:   group,
		ref:     state.Ref{Key: group.Key + "_layouts", Site: group.Site},
		narrow: NarrowFunc(func(_ context.Context, v schema.ValueSet) (schema.ValueSet, error) {
			return v.Clone(), nil
		}),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.log = m.log.Named("layouts")
	return m, nil
}

// Ref returns the storage reference of the layouts document.
func (m *Manager) Ref() state.Ref { return m.ref }

// Document loads the layouts document. ok is false when no layouts exist.
func (m *Manager) Document(ctx context.Context) (Document, bool, error) {
	doc, _, ok, err := m.layouts.Load(ctx, m.ref)
	if err != nil {
		return Document{}, false, fmt.Errorf("layouts: load: %w", err)
	}
	if !ok {
		return NewDocument(), false, nil
	}
	return doc.Clone(), true, nil
}

// Activate decodes the snapshot of id, narrows it to the current schema,
// replaces the live value set with it and marks id active. A rejected
// snapshot leaves both the live values and the active pointer unchanged.
func (m *Manager) Activate(ctx context.Context, id string) (schema.ValueSet, error) {
	doc, _, err := m.Document(ctx)
	if err != nil {
		return nil, err
	}
	values, err := m.apply(ctx, doc, id)
	if err != nil {
		return nil, err
	}
	if err := doc.SetActive(id); err != nil {
		return nil, err
	}
	if err := m.saveDocument(ctx, doc); err != nil {
		return nil, err
	}
	return values, nil
}

// CreateLayout snapshots the live value set under a new layout named name
// and makes it active. Creating an existing id overwrites its snapshot.
func (m *Manager) CreateLayout(ctx context.Context, name string) (string, error) {
	id, err := LayoutID(name)
	if err != nil {
		return "", err
	}
	current, err := state.Get(ctx, m.values, m.group, schema.ValueSet{})
	if err != nil {
		return "", fmt.Errorf("layouts: %w", err)
	}
	blob, err := Encode(current)
	if err != nil {
		return "", err
	}

	doc, _, err := m.Document(ctx)
	if err != nil {
		return "", err
	}
	doc.Put(id, blob)
	if err := doc.SetActive(id); err != nil {
		return "", err
	}
	if err := m.saveDocument(ctx, doc); err != nil {
		return "", err
	}
	m.log.Info("layout created", zap.String("layout", id), zap.Int("layouts", doc.Len()))
	m.emit(ctx, activity.BuildLayoutCreatedEvent(m.eventInput(), id))
	return id, nil
}

// DeleteResult reports what DeleteLayout did beyond the removal.
type DeleteResult struct {
	Promoted  string
	Collapsed bool
}

// DeleteLayout removes id. Removing the active layout promotes the first
// remaining layout and applies its snapshot. When one or no layouts remain
// the whole layouts document is deleted.
func (m *Manager) DeleteLayout(ctx context.Context, id string) (DeleteResult, error) {
	doc, ok, err := m.Document(ctx)
	if err != nil {
		return DeleteResult{}, err
	}
	if !ok || !doc.Remove(id) {
		return DeleteResult{}, fmt.Errorf("layouts: unknown layout %q", id)
	}

	var result DeleteResult
	if doc.Len() <= 1 {
		if err := m.layouts.Delete(ctx, m.ref); err != nil {
			return DeleteResult{}, fmt.Errorf("layouts: delete store: %w", err)
		}
		result.Collapsed = true
		m.log.Info("layouts collapsed", zap.String("deleted", id))
		m.emit(ctx, activity.BuildLayoutDeletedEvent(m.eventInput(), id, ""))
		m.emit(ctx, activity.BuildLayoutsCollapsedEvent(m.eventInput()))
		return result, nil
	}

	if doc.Active() == "" {
		promoted := doc.IDs()[0]
		if _, err := m.apply(ctx, doc, promoted); err != nil && !errors.Is(err, ErrRejectedPayload) {
			return DeleteResult{}, err
		}
		if err := doc.SetActive(promoted); err != nil {
			return DeleteResult{}, err
		}
		result.Promoted = promoted
	}
	if err := m.saveDocument(ctx, doc); err != nil {
		return DeleteResult{}, err
	}
	m.log.Info("layout deleted", zap.String("layout", id), zap.String("promoted", result.Promoted))
	m.emit(ctx, activity.BuildLayoutDeletedEvent(m.eventInput(), id, result.Promoted))
	return result, nil
}

// Refresh re-snapshots the active layout from values, run after a save so
// the active layout tracks the live settings. It reports whether a layout
// was updated.
func (m *Manager) Refresh(ctx context.Context, values schema.ValueSet) (bool, error) {
	doc, ok, err := m.Document(ctx)
	if err != nil || !ok || doc.Active() == "" {
		return false, err
	}
	blob, err := Encode(values)
	if err != nil {
		return false, err
	}
	doc.Put(doc.Active(), blob)
	if err := m.saveDocument(ctx, doc); err != nil {
		return false, err
	}
	m.log.Debug("active layout refreshed", zap.String("layout", doc.Active()))
	return true, nil
}

// ModifyRequest is the layouts admin form: the selected layout, an optional
// new layout name and the layout ids the form still lists, in form order.
type ModifyRequest struct {
	Active string
	AddNew string
	Keys   []string
}

// ModifyResult reports the outcome of Modify.
type ModifyResult struct {
	Saved  bool
	Active string
}

// Modify rebuilds the layouts document from an admin form submission. Listed
// ids keep their stored snapshots; a missing active layout falls back to the
// first listed one. When the rebuilt document holds more than one entry,
// counting the active pointer, the active snapshot is applied and the
// document saved; otherwise the layouts document is deleted.
func (m *Manager) Modify(ctx context.Context, req ModifyRequest) (ModifyResult, error) {
	previous, _, err := m.Document(ctx)
	if err != nil {
		return ModifyResult{}, err
	}

	rebuild := NewDocument()
	active := req.Active
	created := ""
	if req.AddNew != "" {
		id, err := LayoutID(req.AddNew)
		if err != nil {
			return ModifyResult{}, err
		}
		current, err := state.Get(ctx, m.values, m.group, schema.ValueSet{})
		if err != nil {
			return ModifyResult{}, fmt.Errorf("layouts: %w", err)
		}
		blob, err := Encode(current)
		if err != nil {
			return ModifyResult{}, err
		}
		rebuild.Put(id, blob)
		active, created = id, id
	}

	first := ""
	for _, key := range req.Keys {
		if key == ActiveKey || key == AddNewKey || rebuild.Has(key) {
			continue
		}
		blob, ok := previous.Snapshot(key)
		if !ok || blob == "" {
			continue
		}
		rebuild.Put(key, blob)
		if first == "" {
			first = key
		}
	}
	if active != "" && !rebuild.Has(active) {
		active = first
	}

	entries := rebuild.Len()
	if active != "" {
		entries++
	}
	if entries <= 1 {
		if err := m.layouts.Delete(ctx, m.ref); err != nil {
			return ModifyResult{}, fmt.Errorf("layouts: delete store: %w", err)
		}
		m.emit(ctx, activity.BuildLayoutsCollapsedEvent(m.eventInput()))
		return ModifyResult{}, nil
	}

	if active != "" {
		if _, err := m.apply(ctx, rebuild, active); err != nil && !errors.Is(err, ErrRejectedPayload) {
			return ModifyResult{}, err
		}
		if err := rebuild.SetActive(active); err != nil {
			return ModifyResult{}, err
		}
	}
	if err := m.saveDocument(ctx, rebuild); err != nil {
		return ModifyResult{}, err
	}
	if created != "" {
		m.emit(ctx, activity.BuildLayoutCreatedEvent(m.eventInput(), created))
	}
	return ModifyResult{Saved: true, Active: active}, nil
}

// apply decodes, narrows and stores the snapshot of id as the live values.
func (m *Manager) apply(ctx context.Context, doc Document, id string) (schema.ValueSet, error) {
	blob, ok := doc.Snapshot(id)
	if !ok {
		return nil, fmt.Errorf("layouts: unknown layout %q", id)
	}
	decoded, err := Decode(blob)
	if err != nil {
		m.log.Warn("layout snapshot rejected", zap.String("layout", id), zap.Error(err))
		m.emit(ctx, activity.BuildPayloadRejectedEvent(m.eventInput(), id, err.Error()))
		return nil, err
	}
	narrowed, err := m.narrow.Narrow(ctx, decoded)
	if err != nil {
		return nil, fmt.Errorf("layouts: revalidate %q: %w", id, err)
	}
	var dropped []string
	for _, key := range decoded.Keys() {
		if _, kept := narrowed[key]; !kept {
			dropped = append(dropped, key)
		}
	}
	meta, err := state.Set(ctx, m.values, m.group, narrowed)
	if err != nil {
		return nil, fmt.Errorf("layouts: %w", err)
	}
	if len(dropped) > 0 {
		m.log.Debug("stale snapshot keys dropped", zap.String("layout", id), zap.Strings("keys", dropped))
	}
	input := m.eventInput()
	input.SnapshotID = meta.SnapshotID
	m.emit(ctx, activity.BuildLayoutActivatedEvent(input, id, dropped))
	return narrowed, nil
}

func (m *Manager) saveDocument(ctx context.Context, doc Document) error {
	if _, err := state.Set(ctx, m.layouts, m.ref, doc); err != nil {
		return fmt.Errorf("layouts: save: %w", err)
	}
	return nil
}

func (m *Manager) eventInput() activity.EventInput {
	return activity.EventInput{ActorID: m.actor, Group: m.group.Key}
}

func (m *Manager) emit(ctx context.Context, event activity.Event) {
	if err := m.emitter.Emit(ctx, event); err != nil {
		m.log.Warn("activity hook failed", zap.String("verb", event.Verb), zap.Error(err))
	}
}
