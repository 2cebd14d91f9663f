package recmap

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reflect types the engine treats specially. anyType is the untyped marker;
// the rest are well-known immutable leaf types excluded from the structural
// serializer kinds.
var (
	anyType         = reflect.TypeOf((*any)(nil)).Elem()
	emptyStructType = reflect.TypeOf(struct{}{})
	timeType        = reflect.TypeOf(time.Time{})
	timestampType   = reflect.TypeOf(Timestamp(0))
	dateType        = reflect.TypeOf(Date{})
	timeOfDayType   = reflect.TypeOf(TimeOfDay{})
	uuidType        = reflect.TypeOf(uuid.UUID{})
	decimalType     = reflect.TypeOf(decimal.Decimal{})
)

// TypeDescriptor is the resolved structural description of a declared type:
// its underlying class with optionality stripped, the resolved type arguments
// of container shapes, and whether the declaration was optional (a pointer).
// Two descriptors are equal iff Type and Optional match; reflect types are
// canonical, so Params carry no extra identity.
type TypeDescriptor struct {
	Type     reflect.Type
	Params   []TypeDescriptor
	Optional bool
}

// Equal reports descriptor equality, which drives every cache in the engine.
func (d TypeDescriptor) Equal(o TypeDescriptor) bool {
	return d.Type == o.Type && d.Optional == o.Optional
}

// WithoutOptional returns the same descriptor with optionality cleared.
func (d TypeDescriptor) WithoutOptional() TypeDescriptor {
	d.Optional = false
	return d
}

// descKey is the comparable cache key form of a TypeDescriptor.
type descKey struct {
	t        reflect.Type
	optional bool
}

func (d TypeDescriptor) key() descKey { return descKey{t: d.Type, optional: d.Optional} }

// resolution cache, keyed by the original declared reflect.Type
var (
	_resolveMu    sync.RWMutex
	_resolveCache = map[reflect.Type]TypeDescriptor{}
)

// Resolve builds the TypeDescriptor for a declared type. Pointer types are
// unwrapped exactly once and marked optional; container shapes get their type
// arguments resolved positionally; the empty interface resolves to the untyped
// marker. Resolution itself never fails: shapes no serializer kind can handle
// surface UnsupportedTypeError at serializer construction instead.
func Resolve(t reflect.Type) TypeDescriptor {
	_resolveMu.RLock()
	if d, ok := _resolveCache[t]; ok {
		_resolveMu.RUnlock()
		return d
	}
	_resolveMu.RUnlock()

	d := resolveUncached(t)

	_resolveMu.Lock()
	_resolveCache[t] = d
	_resolveMu.Unlock()
	return d
}

func resolveUncached(t reflect.Type) TypeDescriptor {
	if t.Kind() == reflect.Pointer {
		d := resolveBare(t.Elem())
		d.Optional = true
		return d
	}
	return resolveBare(t)
}

func resolveBare(t reflect.Type) TypeDescriptor {
	switch t.Kind() {
	case reflect.Slice:
		return TypeDescriptor{Type: t, Params: []TypeDescriptor{Resolve(t.Elem())}}
	case reflect.Array:
		if t == uuidType {
			return TypeDescriptor{Type: t}
		}
		return TypeDescriptor{Type: t, Params: []TypeDescriptor{Resolve(t.Elem())}}
	case reflect.Map:
		return TypeDescriptor{Type: t, Params: []TypeDescriptor{Resolve(t.Key()), Resolve(t.Elem())}}
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return TypeDescriptor{Type: anyType}
		}
		return TypeDescriptor{Type: t}
	default:
		return TypeDescriptor{Type: t}
	}
}

// FieldDescriptor describes one declared field of a record type: the Go field
// name, the pre-keymapper wire key, the resolved type, and the raw tag.
type FieldDescriptor struct {
	Name  string
	Key   string
	Type  TypeDescriptor
	Tag   reflect.StructTag
	Index []int
}

// FieldsOf derives the field descriptors of a record type once. Embedded
// struct fields are merged left to right with first-wins semantics: a key
// declared by the record itself, or by an earlier embedded base, is never
// overridden by a later one.
func FieldsOf(t reflect.Type) []FieldDescriptor {
	var out []FieldDescriptor
	seen := map[string]struct{}{}
	var embedded []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.IsExported() && sf.Type.Kind() == reflect.Struct && !isWellKnownLeaf(sf.Type) {
			embedded = append(embedded, sf)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		key := resolveFieldKey(sf)
		if key == "-" || key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, FieldDescriptor{
			Name:  sf.Name,
			Key:   key,
			Type:  Resolve(sf.Type),
			Tag:   sf.Tag,
			Index: sf.Index,
		})
	}
	for _, emb := range embedded {
		for _, fd := range FieldsOf(emb.Type) {
			if _, dup := seen[fd.Key]; dup {
				continue
			}
			seen[fd.Key] = struct{}{}
			fd.Index = append(append([]int{}, emb.Index...), fd.Index...)
			out = append(out, fd)
		}
	}
	return out
}

// resolveFieldKey applies the repository-wide rule for a struct field's wire
// key before any KeyMapper runs.
// Priority: recmap:"name=..." > json tag name > field name; "-" disables.
func resolveFieldKey(sf reflect.StructField) string {
	if rt := sf.Tag.Get("recmap"); rt != "" {
		for _, p := range strings.Split(rt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

// isWellKnownLeaf reports whether t is one of the special leaf value types
// that the structural serializer kinds must not claim even though their
// reflect kind is struct or array.
func isWellKnownLeaf(t reflect.Type) bool {
	switch t {
	case timeType, timestampType, dateType, timeOfDayType, uuidType, decimalType:
		return true
	}
	return false
}
