package recmap

import (
	"context"
	"reflect"
	"sort"
)

// Wire keys of the tagged-union shape.
const (
	unionTypeKey  = "__type__"
	unionValueKey = "__value__"
)

// UnionKind returns an opt-in serializer kind for interface-typed fields,
// carrying values as {"__type__": tag, "__value__": ...} on the wire. The
// engine rejects bare interface fields at model construction; registering
// this kind via Kinds is the one supported way to put a union in a record.
// Variant types must all satisfy the interface they serialize for.
func UnionKind(variants map[string]reflect.Type) SerializerKind {
	return &unionKind{variants: variants}
}

type unionKind struct {
	variants map[string]reflect.Type
}

func (k *unionKind) Fits(d TypeDescriptor) bool {
	if d.Type.Kind() != reflect.Interface || d.Type == anyType {
		return false
	}
	for _, vt := range k.variants {
		if !vt.Implements(d.Type) {
			return false
		}
	}
	return true
}

func (k *unionKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	s := &unionSerializer{byTag: make(map[string]Serializer, len(k.variants)), byType: make(map[reflect.Type]string, len(k.variants)), types: make(map[string]reflect.Type, len(k.variants))}
	tags := make([]string, 0, len(k.variants))
	for tag := range k.variants {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		vt := k.variants[tag]
		child, err := m.Serializer(Resolve(vt))
		if err != nil {
			return nil, err
		}
		s.byTag[tag] = child
		s.byType[vt] = tag
		s.types[tag] = vt
	}
	return s, nil
}

type unionSerializer struct {
	byTag  map[string]Serializer
	byType map[reflect.Type]string
	types  map[string]reflect.Type
}

func (s *unionSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	src, ok := raw.(map[string]any)
	if !ok {
		return nil, validationf(CodeNotAMapping)
	}
	tag, ok := src[unionTypeKey].(string)
	if !ok {
		return nil, validationf(CodeInvalidFormat)
	}
	child, ok := s.byTag[tag]
	if !ok {
		return nil, validationf(CodeInvalidFormat)
	}
	rc.PushField(unionValueKey)
	v, err := child.Load(ctx, rc, src[unionValueKey])
	if err != nil {
		err = rc.capture(err)
		rc.PopStep()
		return nil, err
	}
	rc.PopStep()
	return v, nil
}

func (s *unionSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	vt := reflect.TypeOf(v)
	tag, ok := s.byType[vt]
	if !ok {
		return nil, validationf(CodeInvalidFormat)
	}
	dv, err := s.byTag[tag].Dump(ctx, rc, v)
	if err != nil {
		return nil, rc.capture(err)
	}
	return map[string]any{unionTypeKey: tag, unionValueKey: dv}, nil
}
