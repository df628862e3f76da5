package state_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-optionbuilder/pkg/state"
)

type recordingStore[T any] struct {
	loadValue T
	loadMeta  state.Meta
	loadOK    bool
	loadErr   error

	saveCalls int
	savedMeta state.Meta
	savedVal  T
	saveErr   error
}

func (s *recordingStore[T]) Load(_ context.Context, _ state.Ref) (T, state.Meta, bool, error) {
	var zero T
	if s.loadErr != nil {
		return zero, state.Meta{}, false, s.loadErr
	}
	return s.loadValue, s.loadMeta, s.loadOK, nil
}

func (s *recordingStore[T]) Save(_ context.Context, _ state.Ref, value T, meta state.Meta) (state.Meta, error) {
	s.saveCalls++
	s.savedMeta = meta
	s.savedVal = value
	if s.saveErr != nil {
		return state.Meta{}, s.saveErr
	}
	return meta, nil
}

func (s *recordingStore[T]) Delete(context.Context, state.Ref) error { return nil }

func TestUpdateStampsMeta(t *testing.T) {
	store := &recordingStore[map[string]any]{
		loadValue: map[string]any{"footer": "off"},
		loadMeta:  state.Meta{SnapshotID: "snap-old", ETag: "v1", Extra: map[string]string{"actor": "u1"}},
		loadOK:    true,
	}
	ref := state.Ref{Key: "option_builder"}

	value, meta, err := state.Update(context.Background(), store, ref, state.Meta{ETag: "v1"}, func(v *map[string]any) error {
		(*v)["footer"] = "on"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if value["footer"] != "on" || store.savedVal["footer"] != "on" {
		t.Fatalf("mutation not saved: %v", store.savedVal)
	}
	if meta.SnapshotID == "" || meta.SnapshotID == "snap-old" || len(meta.SnapshotID) != 26 {
		t.Fatalf("expected a fresh ULID snapshot id, got %q", meta.SnapshotID)
	}
	if meta.ETag == "" || meta.ETag == "v1" {
		t.Fatalf("expected a content etag, got %q", meta.ETag)
	}
	if meta.Extra["actor"] != "u1" {
		t.Fatalf("expected extra to be carried, got %v", meta.Extra)
	}
	if meta.UpdatedAt.IsZero() {
		t.Fatalf("expected update time")
	}
}

func TestUpdateETagMismatch(t *testing.T) {
	store := &recordingStore[map[string]any]{
		loadValue: map[string]any{},
		loadMeta:  state.Meta{ETag: "v2"},
		loadOK:    true,
	}
	_, _, err := state.Update(context.Background(), store, state.Ref{Key: "option_builder"}, state.Meta{ETag: "v1"}, func(*map[string]any) error { return nil })
	if !errors.Is(err, state.ErrETagMismatch) {
		t.Fatalf("expected ErrETagMismatch, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Fatalf("expected no save calls, got %d", store.saveCalls)
	}
}

func TestUpdateMutatorErrorDoesNotSave(t *testing.T) {
	store := &recordingStore[map[string]any]{}
	boom := errors.New("boom")
	_, _, err := state.Update(context.Background(), store, state.Ref{Key: "option_builder"}, state.Meta{}, func(*map[string]any) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected mutator error, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Fatalf("expected no save calls")
	}
}

func TestGetAndSet(t *testing.T) {
	store := state.NewMemoryStore[string]()
	ctx := context.Background()
	ref := state.Ref{Key: "active_theme"}

	got, err := state.Get(ctx, store, ref, "fallback")
	if err != nil || got != "fallback" {
		t.Fatalf("expected default, got %q (%v)", got, err)
	}
	meta, err := state.Set(ctx, store, ref, "dark")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if meta.SnapshotID == "" {
		t.Fatalf("expected snapshot id")
	}
	got, err = state.Get(ctx, store, ref, "fallback")
	if err != nil || got != "dark" {
		t.Fatalf("expected stored value, got %q (%v)", got, err)
	}
	if _, err := state.Get(ctx, store, state.Ref{}, ""); err == nil {
		t.Fatalf("expected invalid ref error")
	}
}

func TestETagIsStable(t *testing.T) {
	a, err := state.ETag(map[string]any{"b": 1, "a": 2})
	if err != nil {
		t.Fatalf("etag: %v", err)
	}
	b, _ := state.ETag(map[string]any{"a": 2, "b": 1})
	if a != b {
		t.Fatalf("expected key order independence, got %q and %q", a, b)
	}
}
