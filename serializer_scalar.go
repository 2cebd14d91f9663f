package recmap

import (
	"context"
	"encoding/json"
	"math"
	"reflect"
)

// ---- String ----

type stringKind struct{}

func (stringKind) Fits(d TypeDescriptor) bool { return d.Type.Kind() == reflect.String }

func (stringKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	return &stringSerializer{typ: d.Type}, nil
}

type stringSerializer struct{ typ reflect.Type }

func (s *stringSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	v, ok := raw.(string)
	if !ok {
		return nil, validationf(CodeNotAString)
	}
	return reflect.ValueOf(v).Convert(s.typ).Interface(), nil
}

func (s *stringSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	return reflect.ValueOf(v).String(), nil
}

// ---- Boolean ----
// Tested before the integer kind; the ordering is part of the contract.

type boolKind struct{}

func (boolKind) Fits(d TypeDescriptor) bool { return d.Type.Kind() == reflect.Bool }

func (boolKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	return &boolSerializer{typ: d.Type}, nil
}

type boolSerializer struct{ typ reflect.Type }

func (s *boolSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	v, ok := raw.(bool)
	if !ok {
		return nil, validationf(CodeNotABoolean)
	}
	return reflect.ValueOf(v).Convert(s.typ).Interface(), nil
}

func (s *boolSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	return reflect.ValueOf(v).Bool(), nil
}

// ---- Integer ----

type intKind struct{}

func (intKind) Fits(d TypeDescriptor) bool {
	switch d.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func (intKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	return &intSerializer{typ: d.Type}, nil
}

type intSerializer struct{ typ reflect.Type }

func (s *intSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	n, ok := rawInt(raw)
	if !ok {
		return nil, validationf(CodeNotAnInteger)
	}
	// range-check against the target width; Convert would wrap silently
	rv := reflect.New(s.typ).Elem()
	switch s.typ.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 || rv.OverflowUint(uint64(n)) {
			return nil, validationf(CodeNotAnInteger)
		}
		rv.SetUint(uint64(n))
	default:
		if rv.OverflowInt(n) {
			return nil, validationf(CodeNotAnInteger)
		}
		rv.SetInt(n)
	}
	return rv.Interface(), nil
}

func (s *intSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.CanUint() {
		return rv.Uint(), nil
	}
	return rv.Int(), nil
}

// rawInt extracts an integer from wire input. Booleans are rejected up front:
// some host type systems treat them as integers, and that interchange must
// not leak through here. JSON numbers arrive as json.Number because the JSON
// adapter decodes with UseNumber; a number with a fractional part is not an
// integer.
func rawInt(raw any) (int64, bool) {
	switch n := raw.(type) {
	case bool:
		return 0, false
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// ---- Float ----

type floatKind struct{}

func (floatKind) Fits(d TypeDescriptor) bool {
	if d.Type == timestampType {
		return false
	}
	k := d.Type.Kind()
	return k == reflect.Float32 || k == reflect.Float64
}

func (floatKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	return &floatSerializer{typ: d.Type}, nil
}

type floatSerializer struct{ typ reflect.Type }

func (s *floatSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	f, ok := rawFloat(raw)
	if !ok {
		return nil, validationf(CodeNotAFloat)
	}
	return reflect.ValueOf(f).Convert(s.typ).Interface(), nil
}

func (s *floatSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	return reflect.ValueOf(v).Float(), nil
}

// rawFloat extracts a float from wire input; integers widen, booleans do not.
func rawFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case bool:
		return 0, false
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	if i, ok := rawInt(raw); ok {
		return float64(i), true
	}
	return 0, false
}
