package recmap

import (
	"context"
	"errors"
	"reflect"
)

// Serializer converts one value between its typed form and its plain form.
// Load takes wire-shaped input (nil, bool, string, numbers, []any,
// map[string]any) and returns the typed value; Dump is the mirror.
// Implementations are immutable after construction and safe for concurrent
// use; all run state lives in the Context.
type Serializer interface {
	Load(ctx context.Context, rc *Context, raw any) (any, error)
	Dump(ctx context.Context, rc *Context, v any) (any, error)
}

// SerializerKind is one polymorphic variant of field converter. Fits is the
// class-level predicate; Build constructs an instance for a descriptor,
// recursively constructing child serializers through the owning Model.
type SerializerKind interface {
	Fits(d TypeDescriptor) bool
	Build(d TypeDescriptor, m *Model) (Serializer, error)
}

// registryFor assembles the canonical ordered registry. The order is part of
// the contract: predicates overlap (a record is also the shape of a leaf
// struct, boolean raw input must never satisfy the integer kind), so kinds
// are tested first to last and the first fit wins. Custom kinds are spliced
// after Optional/Any/Enum unwrapping and before the structural kinds, letting
// field-level overrides take precedence over generic structural handling but
// never over unwrapping.
func registryFor(custom []SerializerKind) []SerializerKind {
	kinds := make([]SerializerKind, 0, 17+len(custom))
	kinds = append(kinds, optionalKind{}, anyKind{}, enumKind{})
	kinds = append(kinds, custom...)
	kinds = append(kinds,
		dictKind{},
		collectionKind{},
		tupleKind{},
		stringKind{},
		boolKind{},
		intKind{},
		floatKind{},
		recordKind{},
		timestampKind{},
		dateTimeKind{},
		dateKind{},
		timeKind{},
		uuidKind{},
		decimalKind{},
	)
	return kinds
}

// assign sets dst to v, mapping a nil result (an any-typed field loaded from
// JSON null) to dst's zero value; reflect.ValueOf(nil) is invalid and would
// panic in Set.
func assign(dst reflect.Value, v any) {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}
	dst.Set(reflect.ValueOf(v))
}

// pathError pins the dotted path of the deepest failure site onto an error.
// It is produced once, at the first frame that sees the failure, and turned
// into the public LoadError/DumpError envelope at the root call.
type pathError struct {
	path  string
	cause error
}

func (e *pathError) Error() string { return e.cause.Error() }
func (e *pathError) Unwrap() error { return e.cause }

// hookFailure marks an error raised by a record's own Validate hook so the
// root call lets it propagate unwrapped.
type hookFailure struct {
	err error
}

func (e *hookFailure) Error() string { return e.err.Error() }
func (e *hookFailure) Unwrap() error { return e.err }

// capture pins the current path onto err unless a deeper frame already did,
// or the error is a hook failure that must pass through untouched.
func (c *Context) capture(err error) error {
	if err == nil {
		return nil
	}
	var pe *pathError
	if errors.As(err, &pe) {
		return err
	}
	var hf *hookFailure
	if errors.As(err, &hf) {
		return err
	}
	return &pathError{path: c.Path(), cause: err}
}
