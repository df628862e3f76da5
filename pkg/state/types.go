package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
)

var ErrNotFound = errors.New("state: not found")

var ErrETagMismatch = errors.New("state: etag mismatch")

var validKey = regexp.MustCompile(`^[a-z0-9_\-]+$`)

// Ref identifies one persisted value. Key is the option group (or auxiliary)
// key; Site partitions keys per site in multi-site installs.
type Ref struct {
	Key  string
	Site string
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads, saves and deletes one value per Ref. Values are whole-value
// replaced; there are no partial writes.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (value T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, value T, meta Meta) (Meta, error)
	Delete(ctx context.Context, ref Ref) error
}

type Mutator[T any] func(*T) error

// Identifier returns the canonical storage key for r.
func (r Ref) Identifier() (string, error) {
	if r.Key == "" {
		return "", fmt.Errorf("state: key is required")
	}
	if !validKey.MatchString(r.Key) {
		return "", fmt.Errorf("state: invalid key %q", r.Key)
	}
	if r.Site == "" {
		return fmt.Sprintf("options/%s", r.Key), nil
	}
	if !validKey.MatchString(r.Site) {
		return "", fmt.Errorf("state: invalid site %q", r.Site)
	}
	return fmt.Sprintf("site/%s/%s", r.Site, r.Key), nil
}

// Get loads ref, returning def when nothing is stored.
func Get[T any](ctx context.Context, store Store[T], ref Ref, def T) (T, error) {
	if store == nil {
		return def, fmt.Errorf("state: store is required")
	}
	value, _, ok, err := store.Load(ctx, ref)
	if err != nil {
		return def, fmt.Errorf("state: load %q: %w", ref.Key, err)
	}
	if !ok {
		return def, nil
	}
	return value, nil
}

// Set replaces the value stored under ref, stamping fresh metadata.
func Set[T any](ctx context.Context, store Store[T], ref Ref, value T) (Meta, error) {
	if store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}
	meta, err := Stamp(value, Meta{})
	if err != nil {
		return Meta{}, err
	}
	saved, err := store.Save(ctx, ref, value, meta)
	if err != nil {
		return Meta{}, fmt.Errorf("state: save %q: %w", ref.Key, err)
	}
	return saved, nil
}

// Update loads ref, applies fn, then saves. A non-empty expect.ETag must
// match the stored ETag.
func Update[T any](ctx context.Context, store Store[T], ref Ref, expect Meta, fn Mutator[T]) (T, Meta, error) {
	var zero T
	if store == nil {
		return zero, Meta{}, fmt.Errorf("state: store is required")
	}
	if fn == nil {
		return zero, Meta{}, fmt.Errorf("state: mutator is required")
	}

	value, loaded, ok, err := store.Load(ctx, ref)
	if err != nil {
		return zero, Meta{}, fmt.Errorf("state: load %q: %w", ref.Key, err)
	}
	if !ok {
		value = zero
		loaded = Meta{}
	}
	if expect.ETag != "" && loaded.ETag != "" && expect.ETag != loaded.ETag {
		return zero, loaded, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, expect.ETag, loaded.ETag)
	}
	if err := fn(&value); err != nil {
		return zero, loaded, err
	}

	meta, err := Stamp(value, mergeMeta(loaded, expect))
	if err != nil {
		return zero, loaded, err
	}
	saved, err := store.Save(ctx, ref, value, meta)
	if err != nil {
		return zero, loaded, fmt.Errorf("state: save %q: %w", ref.Key, err)
	}
	return value, saved, nil
}

// Stamp assigns a new ULID snapshot id, a content ETag and the update time.
func Stamp[T any](value T, base Meta) (Meta, error) {
	etag, err := ETag(value)
	if err != nil {
		return Meta{}, err
	}
	out := cloneMeta(base)
	out.SnapshotID = ulid.Make().String()
	out.ETag = etag
	out.UpdatedAt = time.Now().UTC()
	return out, nil
}

// ETag hashes the JSON encoding of value.
func ETag(value any) (string, error) {
	raw, err := marshal(value)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8]), nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
