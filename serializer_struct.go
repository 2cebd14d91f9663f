package recmap

import (
	"context"
	"reflect"
	"sort"
)

// ---- Optional ----

type optionalKind struct{}

func (optionalKind) Fits(d TypeDescriptor) bool { return d.Optional }

func (optionalKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	child, err := m.Serializer(d.WithoutOptional())
	if err != nil {
		return nil, err
	}
	return &optionalSerializer{child: child, ptr: reflect.PointerTo(d.Type)}, nil
}

type optionalSerializer struct {
	child Serializer
	ptr   reflect.Type
}

func (s *optionalSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	if raw == nil {
		return reflect.Zero(s.ptr).Interface(), nil
	}
	v, err := s.child.Load(ctx, rc, raw)
	if err != nil {
		return nil, err
	}
	p := reflect.New(s.ptr.Elem())
	assign(p.Elem(), v)
	return p.Interface(), nil
}

func (s *optionalSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.IsNil() {
		return nil, nil
	}
	return s.child.Dump(ctx, rc, rv.Elem().Interface())
}

// ---- Any ----

type anyKind struct{}

func (anyKind) Fits(d TypeDescriptor) bool { return d.Type == anyType }

func (anyKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	return anySerializer{}, nil
}

// anySerializer passes values through unchanged in both directions.
type anySerializer struct{}

func (anySerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) { return raw, nil }
func (anySerializer) Dump(ctx context.Context, rc *Context, v any) (any, error)   { return v, nil }

// ---- Dict (string-keyed mapping) ----

type dictKind struct{}

func (dictKind) Fits(d TypeDescriptor) bool {
	return d.Type.Kind() == reflect.Map && d.Type.Elem() != emptyStructType
}

func (dictKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	// The key type parameter must be exactly string, non-optional.
	if d.Type.Key() != reflect.TypeOf("") {
		return nil, &UnsupportedTypeError{Type: d.Type}
	}
	val, err := m.Serializer(d.Params[1])
	if err != nil {
		return nil, err
	}
	return &dictSerializer{typ: d.Type, value: val}, nil
}

type dictSerializer struct {
	typ   reflect.Type
	value Serializer
}

func (s *dictSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	src, ok := raw.(map[string]any)
	if !ok {
		return nil, validationf(CodeNotAMapping)
	}
	out := reflect.MakeMapWithSize(s.typ, len(src))
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rc.PushField(k)
		v, err := s.value.Load(ctx, rc, src[k])
		if err != nil {
			err = rc.capture(err)
			rc.PopStep()
			return nil, err
		}
		rc.PopStep()
		ev := reflect.New(s.typ.Elem()).Elem()
		assign(ev, v)
		out.SetMapIndex(reflect.ValueOf(k), ev)
	}
	return out.Interface(), nil
}

func (s *dictSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		rc.PushField(k)
		dv, err := s.value.Dump(ctx, rc, iter.Value().Interface())
		if err != nil {
			err = rc.capture(err)
			rc.PopStep()
			return nil, err
		}
		rc.PopStep()
		out[k] = dv
	}
	return out, nil
}

// ---- Collection (slice, set) ----

type collectionKind struct{}

func (collectionKind) Fits(d TypeDescriptor) bool {
	switch d.Type.Kind() {
	case reflect.Slice:
		return true
	case reflect.Map:
		// map[T]struct{} is the set shape; the dict kind leaves it alone.
		return d.Type.Elem() == emptyStructType
	}
	return false
}

func (collectionKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	item, err := m.Serializer(d.Params[0])
	if err != nil {
		return nil, err
	}
	return &collectionSerializer{typ: d.Type, item: item, set: d.Type.Kind() == reflect.Map}, nil
}

type collectionSerializer struct {
	typ  reflect.Type
	item Serializer
	set  bool
}

func (s *collectionSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	src, ok := raw.([]any)
	if !ok {
		return nil, validationf(CodeNotAList)
	}
	if s.set {
		// set semantics: duplicates collapse silently
		out := reflect.MakeMapWithSize(s.typ, len(src))
		for i, el := range src {
			rc.PushIndex(i)
			v, err := s.item.Load(ctx, rc, el)
			if err != nil {
				err = rc.capture(err)
				rc.PopStep()
				return nil, err
			}
			rc.PopStep()
			kv := reflect.New(s.typ.Key()).Elem()
			assign(kv, v)
			out.SetMapIndex(kv, reflect.ValueOf(struct{}{}))
		}
		return out.Interface(), nil
	}
	out := reflect.MakeSlice(s.typ, len(src), len(src))
	for i, el := range src {
		rc.PushIndex(i)
		v, err := s.item.Load(ctx, rc, el)
		if err != nil {
			err = rc.capture(err)
			rc.PopStep()
			return nil, err
		}
		rc.PopStep()
		assign(out.Index(i), v)
	}
	return out.Interface(), nil
}

func (s *collectionSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if s.set {
		out := make([]any, 0, rv.Len())
		iter := rv.MapRange()
		i := 0
		for iter.Next() {
			rc.PushIndex(i)
			dv, err := s.item.Dump(ctx, rc, iter.Key().Interface())
			if err != nil {
				err = rc.capture(err)
				rc.PopStep()
				return nil, err
			}
			rc.PopStep()
			out = append(out, dv)
			i++
		}
		return out, nil
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		rc.PushIndex(i)
		dv, err := s.item.Dump(ctx, rc, rv.Index(i).Interface())
		if err != nil {
			err = rc.capture(err)
			rc.PopStep()
			return nil, err
		}
		rc.PopStep()
		out[i] = dv
	}
	return out, nil
}

// ---- Tuple (fixed-arity array) ----

type tupleKind struct{}

func (tupleKind) Fits(d TypeDescriptor) bool {
	return d.Type.Kind() == reflect.Array && d.Type != uuidType
}

func (tupleKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	item, err := m.Serializer(d.Params[0])
	if err != nil {
		return nil, err
	}
	return &tupleSerializer{typ: d.Type, item: item, arity: d.Type.Len()}, nil
}

type tupleSerializer struct {
	typ   reflect.Type
	item  Serializer
	arity int
}

func (s *tupleSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	src, ok := raw.([]any)
	if !ok {
		return nil, validationf(CodeNotAList)
	}
	if len(src) != s.arity {
		return nil, validationf(CodeWrongArity)
	}
	out := reflect.New(s.typ).Elem()
	for i, el := range src {
		rc.PushIndex(i)
		v, err := s.item.Load(ctx, rc, el)
		if err != nil {
			err = rc.capture(err)
			rc.PopStep()
			return nil, err
		}
		rc.PopStep()
		assign(out.Index(i), v)
	}
	return out.Interface(), nil
}

func (s *tupleSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	out := make([]any, s.arity)
	for i := 0; i < s.arity; i++ {
		rc.PushIndex(i)
		dv, err := s.item.Dump(ctx, rc, rv.Index(i).Interface())
		if err != nil {
			err = rc.capture(err)
			rc.PopStep()
			return nil, err
		}
		rc.PopStep()
		out[i] = dv
	}
	return out, nil
}

// ---- Record (nested struct) ----

type recordKind struct{}

func (recordKind) Fits(d TypeDescriptor) bool {
	return d.Type.Kind() == reflect.Struct && !isWellKnownLeaf(d.Type)
}

func (recordKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	child, err := m.childModel(d)
	if err != nil {
		return nil, err
	}
	return &recordSerializer{model: child}, nil
}

// recordSerializer delegates to the nested record's Model. It holds a
// non-owning reference into the shared model cache, which is what breaks
// reference cycles on recursive record types.
type recordSerializer struct {
	model *Model
}

func (s *recordSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	src, ok := raw.(map[string]any)
	if !ok {
		return nil, validationf(CodeNotAMapping)
	}
	rv, err := s.model.loadInner(ctx, rc, src)
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

func (s *recordSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	return s.model.dumpInner(ctx, rc, reflect.ValueOf(v))
}
