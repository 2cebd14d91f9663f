package recmap

import (
	"context"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// Enum is the capability interface an enumeration type implements to opt into
// enum serialization. EnumMembers returns every legal member; load matches
// raw input against members by resolved value, not identity.
type Enum interface {
	EnumMembers() []any
}

var enumIface = reflect.TypeOf((*Enum)(nil)).Elem()

type enumKind struct{}

func (enumKind) Fits(d TypeDescriptor) bool { return d.Type.Implements(enumIface) }

func (enumKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	base, ok := enumBase(d.Type)
	if !ok {
		return nil, &UnsupportedTypeError{Type: d.Type}
	}
	child, err := m.Serializer(TypeDescriptor{Type: base})
	if err != nil {
		return nil, err
	}
	raw := reflect.Zero(d.Type).Interface().(Enum).EnumMembers()
	members := make([]any, 0, len(raw))
	for _, mv := range raw {
		members = append(members, reflect.ValueOf(mv).Convert(d.Type).Interface())
	}
	return &enumSerializer{typ: d.Type, base: base, child: child, members: members}, nil
}

// enumBase walks the enum type down to a non-trivial base the registry can
// serialize: a well-known leaf struct the type converts to, or the canonical
// primitive of its kind.
func enumBase(t reflect.Type) (reflect.Type, bool) {
	switch t.Kind() {
	case reflect.Struct:
		for _, base := range []reflect.Type{timeType, dateType, timeOfDayType, decimalType} {
			if t.ConvertibleTo(base) {
				return base, true
			}
		}
		return nil, false
	case reflect.Array:
		if t.ConvertibleTo(uuidType) {
			return uuidType, true
		}
		return nil, false
	case reflect.String:
		return reflect.TypeOf(""), true
	case reflect.Bool:
		return reflect.TypeOf(false), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.TypeOf(int64(0)), true
	case reflect.Float32, reflect.Float64:
		return reflect.TypeOf(float64(0)), true
	}
	return nil, false
}

type enumSerializer struct {
	typ     reflect.Type
	base    reflect.Type
	child   Serializer
	members []any // members converted to the enum type
}

func (s *enumSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	bv, err := s.child.Load(ctx, rc, raw)
	if err != nil {
		return nil, err
	}
	ev := reflect.ValueOf(bv).Convert(s.typ).Interface()
	for _, m := range s.members {
		if s.memberEqual(ev, m) {
			return ev, nil
		}
	}
	return nil, validationf(CodeNotAnEnumMember)
}

// memberEqual compares a candidate against a member through the base type's
// own equality where plain == is too strict: time.Time carries location and
// monotonic-clock bits, decimal.Decimal holds a big.Int pointer.
func (s *enumSerializer) memberEqual(a, b any) bool {
	switch s.base {
	case timeType:
		at := reflect.ValueOf(a).Convert(timeType).Interface().(time.Time)
		bt := reflect.ValueOf(b).Convert(timeType).Interface().(time.Time)
		return at.Equal(bt)
	case decimalType:
		ad := reflect.ValueOf(a).Convert(decimalType).Interface().(decimal.Decimal)
		bd := reflect.ValueOf(b).Convert(decimalType).Interface().(decimal.Decimal)
		return ad.Equal(bd)
	}
	return a == b
}

func (s *enumSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	bv := reflect.ValueOf(v).Convert(s.base).Interface()
	return s.child.Dump(ctx, rc, bv)
}
