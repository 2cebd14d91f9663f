package recmap

import (
	"context"
	"reflect"
)

// Validatable is the optional capability interface a record type implements
// to run cross-field validation. On load the hook runs after the record is
// constructed (unless SkipValidateOnLoad); on dump it runs before output is
// produced (only with ValidateOnDump). A hook failure propagates to the
// caller unchanged, never wrapped in a LoadError/DumpError envelope.
type Validatable interface {
	Validate(ctx context.Context) error
}

var validatableIface = reflect.TypeOf((*Validatable)(nil)).Elem()

// runHook invokes the Validate hook when rv's type declares one. Value and
// pointer receivers are both honored.
func runHook(ctx context.Context, rv reflect.Value) error {
	if rv.Type().Implements(validatableIface) {
		return rv.Interface().(Validatable).Validate(ctx)
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(validatableIface) {
		return rv.Addr().Interface().(Validatable).Validate(ctx)
	}
	if !rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(validatableIface) {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		return p.Interface().(Validatable).Validate(ctx)
	}
	return nil
}
