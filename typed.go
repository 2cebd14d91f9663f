package recmap

import (
	"context"
	"reflect"
)

// TypedModel is the generic facade over the untyped Model core, fixing the
// record type at compile time.
type TypedModel[T any] struct {
	m *Model
}

// New builds the model for record type T.
func New[T any](opts ...Option) (*TypedModel[T], error) {
	var zero T
	m, err := NewModelOf(reflect.TypeOf(zero), opts...)
	if err != nil {
		return nil, err
	}
	return &TypedModel[T]{m: m}, nil
}

// MustNew is New panicking on construction errors, for model declarations at
// package scope.
func MustNew[T any](opts ...Option) *TypedModel[T] {
	m, err := New[T](opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Model returns the untyped core, sharing its serializer cache.
func (tm *TypedModel[T]) Model() *Model { return tm.m }

// Load converts a plain mapping into a T.
func (tm *TypedModel[T]) Load(ctx context.Context, data map[string]any) (T, error) {
	v, err := tm.m.Load(ctx, data)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// LoadWithMeta is Load returning load warnings alongside the value.
func (tm *TypedModel[T]) LoadWithMeta(ctx context.Context, data map[string]any) (Decoded[T], error) {
	d, err := tm.m.LoadWithMeta(ctx, data)
	out := Decoded[T]{Warnings: d.Warnings}
	if v, ok := d.Value.(T); ok {
		out.Value = v
	}
	return out, err
}

// Dump converts a T back into a plain mapping.
func (tm *TypedModel[T]) Dump(ctx context.Context, v T) (map[string]any, error) {
	return tm.m.Dump(ctx, v)
}
