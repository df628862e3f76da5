package state_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/goliatone/go-optionbuilder/pkg/state"
)

type saveFixture struct {
	Description string     `json:"description"`
	Cases       []saveCase `json:"cases"`
}

type saveCase struct {
	Name string     `json:"name"`
	Ref  fixtureRef `json:"ref"`
	Save struct {
		Value map[string]any `json:"value"`
		Meta  state.Meta     `json:"meta"`
	} `json:"save"`
	Expect struct {
		Meta        state.Meta     `json:"meta"`
		LoadOK      bool           `json:"load_ok"`
		LoadedMeta  state.Meta     `json:"loaded_meta"`
		LoadedValue map[string]any `json:"loaded_value"`
	} `json:"expect"`
}

func storesUnderTest(t *testing.T) map[string]state.Store[map[string]any] {
	t.Helper()
	sqliteStore, err := state.OpenSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })
	return map[string]state.Store[map[string]any]{
		"memory":      state.NewMemoryStore[map[string]any](),
		"memory-json": state.JSON[map[string]any](state.NewMemoryStore[[]byte]()),
		"sqlite":      state.JSON[map[string]any](sqliteStore),
	}
}

func TestStoreSaveContracts(t *testing.T) {
	fx := loadFixture[saveFixture](t, "state_save.json")
	for backend, store := range storesUnderTest(t) {
		for _, tc := range fx.Cases {
			t.Run(backend+"/"+tc.Name, func(t *testing.T) {
				ctx := context.Background()
				ref := tc.Ref.ref()

				// Ensure any pre-existing record is overwritten.
				if _, err := store.Save(ctx, ref, map[string]any{"_": "old"}, state.Meta{SnapshotID: "old", ETag: "old"}); err != nil {
					t.Fatalf("seed: %v", err)
				}

				gotMeta, err := store.Save(ctx, ref, tc.Save.Value, tc.Save.Meta)
				if err != nil {
					t.Fatalf("save: %v", err)
				}
				if diff := cmpJSON(tc.Expect.Meta, gotMeta); diff != "" {
					t.Fatalf("save meta mismatch: %s", diff)
				}

				gotValue, gotLoadedMeta, ok, err := store.Load(ctx, ref)
				if err != nil {
					t.Fatalf("load: %v", err)
				}
				if ok != tc.Expect.LoadOK {
					t.Fatalf("expected ok=%t, got ok=%t", tc.Expect.LoadOK, ok)
				}
				if !ok {
					return
				}
				if diff := cmpJSON(tc.Expect.LoadedMeta, gotLoadedMeta); diff != "" {
					t.Fatalf("load meta mismatch: %s", diff)
				}
				if diff := cmpJSON(tc.Expect.LoadedValue, gotValue); diff != "" {
					t.Fatalf("load value mismatch: %s", diff)
				}
			})
		}
	}
}

func TestStoreDelete(t *testing.T) {
	for backend, store := range storesUnderTest(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			ref := state.Ref{Key: "option_builder_layouts"}
			if _, err := store.Save(ctx, ref, map[string]any{"active_layout": "a"}, state.Meta{}); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := store.Delete(ctx, ref); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, _, ok, err := store.Load(ctx, ref); err != nil || ok {
				t.Fatalf("expected missing record, got ok=%t err=%v", ok, err)
			}
			if err := store.Delete(ctx, ref); err != nil {
				t.Fatalf("deleting a missing record must succeed: %v", err)
			}
		})
	}
}

func cmpJSON(want, got any) string {
	wantRaw, err := json.Marshal(want)
	if err != nil {
		return "marshal want: " + err.Error()
	}
	gotRaw, err := json.Marshal(got)
	if err != nil {
		return "marshal got: " + err.Error()
	}
	if string(wantRaw) != string(gotRaw) {
		return "want " + string(wantRaw) + " got " + string(gotRaw)
	}
	return ""
}
