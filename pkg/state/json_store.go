package state

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONStore exposes a byte-oriented backend as a typed Store by encoding
// values as JSON.
type JSONStore[T any] struct {
	backend Store[[]byte]
}

// JSON wraps backend.
func JSON[T any](backend Store[[]byte]) *JSONStore[T] {
	return &JSONStore[T]{backend: backend}
}

func (s *JSONStore[T]) Load(ctx context.Context, ref Ref) (T, Meta, bool, error) {
	var zero T
	raw, meta, ok, err := s.backend.Load(ctx, ref)
	if err != nil || !ok {
		return zero, meta, ok, err
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, Meta{}, false, fmt.Errorf("state: decode %q: %w", ref.Key, err)
	}
	return value, meta, true, nil
}

func (s *JSONStore[T]) Save(ctx context.Context, ref Ref, value T, meta Meta) (Meta, error) {
	raw, err := marshal(value)
	if err != nil {
		return Meta{}, err
	}
	return s.backend.Save(ctx, ref, raw, meta)
}

func (s *JSONStore[T]) Delete(ctx context.Context, ref Ref) error {
	return s.backend.Delete(ctx, ref)
}

func marshal(value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("state: encode: %w", err)
	}
	return raw, nil
}
