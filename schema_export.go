package recmap

import (
	"reflect"
	"sort"

	js "github.com/recmap/recmap/jsonschema"
)

// JSONSchema projects the model's type graph into a JSON Schema
// representation. Recursive record types project as an unconstrained schema
// at the point of recursion.
func (m *Model) JSONSchema() (*js.Schema, error) {
	return m.schemaFor(m.desc, map[descKey]struct{}{})
}

// JSONSchema projects the typed model's schema; see Model.JSONSchema.
func (tm *TypedModel[T]) JSONSchema() (*js.Schema, error) { return tm.m.JSONSchema() }

func (m *Model) schemaFor(d TypeDescriptor, active map[descKey]struct{}) (*js.Schema, error) {
	if _, cyc := active[d.key()]; cyc {
		return &js.Schema{}, nil
	}
	active[d.key()] = struct{}{}
	defer delete(active, d.key())

	t := d.Type
	switch {
	case t == anyType:
		return &js.Schema{}, nil
	case t.Implements(enumIface):
		out := &js.Schema{}
		for _, mv := range reflect.Zero(t).Interface().(Enum).EnumMembers() {
			out.Enum = append(out.Enum, mv)
		}
		return out, nil
	case t == timeType:
		return &js.Schema{Type: "string", Format: "date-time"}, nil
	case t == dateType:
		return &js.Schema{Type: "string", Format: "date"}, nil
	case t == timeOfDayType:
		return &js.Schema{Type: "string", Format: "time"}, nil
	case t == timestampType:
		return &js.Schema{Type: "number"}, nil
	case t == uuidType:
		return &js.Schema{Type: "string", Format: "uuid"}, nil
	case t == decimalType:
		return &js.Schema{Type: "string"}, nil
	}

	switch t.Kind() {
	case reflect.String:
		return &js.Schema{Type: "string"}, nil
	case reflect.Bool:
		return &js.Schema{Type: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &js.Schema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &js.Schema{Type: "number"}, nil
	case reflect.Slice:
		items, err := m.schemaFor(d.Params[0], active)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "array", Items: items}, nil
	case reflect.Array:
		items, err := m.schemaFor(d.Params[0], active)
		if err != nil {
			return nil, err
		}
		n := t.Len()
		return &js.Schema{Type: "array", Items: items, MinItems: &n, MaxItems: &n}, nil
	case reflect.Map:
		if t.Elem() == emptyStructType {
			items, err := m.schemaFor(d.Params[0], active)
			if err != nil {
				return nil, err
			}
			return &js.Schema{Type: "array", Items: items}, nil
		}
		val, err := m.schemaFor(d.Params[1], active)
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "object", AdditionalProperties: val}, nil
	case reflect.Struct:
		props := map[string]*js.Schema{}
		var required []string
		for _, fd := range FieldsOf(t) {
			ps, err := m.schemaFor(fd.Type, active)
			if err != nil {
				return nil, err
			}
			key := m.cfg.keys.ToWire(fd.Key)
			props[key] = ps
			if !fd.Type.Optional {
				required = append(required, key)
			}
		}
		sort.Strings(required)
		var additional any
		if !m.cfg.allowUnexpected {
			additional = false
		}
		return &js.Schema{Type: "object", Properties: props, Required: required, AdditionalProperties: additional}, nil
	}
	return nil, &UnsupportedTypeError{Type: t}
}
