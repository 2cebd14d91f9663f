package recmap

import (
	"reflect"
	"sort"
)

// ScanTypes traverses a TypeDescriptor tree (record fields, container
// parameters, optional-wrapped types) and collects every distinct underlying
// class. Each descriptor is visited at most once, which is what guarantees
// termination on recursive record graphs.
func ScanTypes(d TypeDescriptor) map[reflect.Type]struct{} {
	out := map[reflect.Type]struct{}{}
	scanTypes(d, nil, map[descKey]struct{}{}, out)
	return out
}

// scanTypes is the internal traversal. Descriptors the claimed predicate
// accepts are treated as leaves: their class is recorded but not descended
// into, which is how custom serializer kinds carve interface fields out of
// the union rejection.
func scanTypes(d TypeDescriptor, claimed func(TypeDescriptor) bool, visited map[descKey]struct{}, out map[reflect.Type]struct{}) {
	if _, seen := visited[d.key()]; seen {
		return
	}
	visited[d.key()] = struct{}{}
	out[d.Type] = struct{}{}
	if claimed != nil && (claimed(d) || claimed(d.WithoutOptional())) {
		return
	}
	for _, p := range d.Params {
		scanTypes(p, claimed, visited, out)
	}
	if d.Type.Kind() == reflect.Struct && !isWellKnownLeaf(d.Type) {
		for _, fd := range FieldsOf(d.Type) {
			scanTypes(fd.Type, claimed, visited, out)
		}
	}
}

// checkGraph runs the construction-time policy checks over the root type
// graph: untyped fields need AllowAny, bare interface fields are rejected,
// and EnsureFrozen refuses mutable classes.
func (cfg *config) checkGraph(root TypeDescriptor) error {
	claimed := func(d TypeDescriptor) bool {
		for _, k := range cfg.custom {
			if k.Fits(d) {
				return true
			}
		}
		return false
	}
	classes := map[reflect.Type]struct{}{}
	scanTypes(root, claimed, map[descKey]struct{}{}, classes)

	if !cfg.allowAny {
		if _, ok := classes[anyType]; ok && !claimed(TypeDescriptor{Type: anyType}) {
			return &ModelContainsAnyError{Root: root.Type}
		}
	}
	for t := range classes {
		if t.Kind() == reflect.Interface && t != anyType && !claimed(TypeDescriptor{Type: t}) {
			return &ModelContainsUnionError{Root: root.Type, Union: t}
		}
	}
	if cfg.ensureFrozen {
		var mutable []reflect.Type
		for t := range classes {
			if cfg.isFrozen(t) {
				continue
			}
			mutable = append(mutable, t)
		}
		if len(mutable) > 0 {
			sort.Slice(mutable, func(i, j int) bool { return mutable[i].String() < mutable[j].String() })
			return &MutableTypesError{Root: root.Type, Types: mutable}
		}
	}
	return nil
}

// isFrozen reports whether a class is immutable: primitives, strings, the
// well-known leaf types, fixed-size arrays, and records (whose fields are
// checked on their own visit). Slices and maps are mutable unless the caller
// put them on the extra allow-list.
func (cfg *config) isFrozen(t reflect.Type) bool {
	for _, extra := range cfg.frozenExtra {
		if t == extra {
			return true
		}
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return false
	}
	return true
}
