package recmap

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/recmap/recmap/i18n"
)

// Message codes (exported consts for IDE completion and type safety by convention).
const (
	CodeNotAString      = "not_a_string"
	CodeNotABoolean     = "not_a_boolean"
	CodeNotAnInteger    = "not_an_integer"
	CodeNotAFloat       = "not_a_float"
	CodeNotAMapping     = "not_a_mapping"
	CodeNotAList        = "not_a_list"
	CodeWrongArity      = "wrong_arity"
	CodeNotAnEnumMember = "not_an_enum_member"
	CodeInvalidFormat   = "invalid_format"
	CodeMissingFields   = "missing_fields"
	CodeUnexpectedKeys  = "unexpected_keys"
	CodeInvalidInput    = "invalid_input"
	CodeUnexpectedJSON  = "unexpected_json"
	CodeDuplicateKey    = "duplicate_key"
)

// ---- Configuration errors (raised at model construction, fatal) ----

// UnsupportedTypeError reports a field type no serializer kind fits.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("recmap: unsupported type %v", e.Type)
}

// ModelContainsAnyError reports an untyped (any) field in a model built
// without AllowAny.
type ModelContainsAnyError struct {
	Root reflect.Type
}

func (e *ModelContainsAnyError) Error() string {
	return fmt.Sprintf("recmap: model %v contains an untyped field; use AllowAny to permit it", e.Root)
}

// ModelContainsUnionError reports a bare interface (union) field anywhere in
// the record graph. Interface fields are only supported through an explicitly
// registered serializer kind such as UnionKind.
type ModelContainsUnionError struct {
	Root  reflect.Type
	Union reflect.Type
}

func (e *ModelContainsUnionError) Error() string {
	return fmt.Sprintf("recmap: model %v contains union type %v; register a serializer kind for it", e.Root, e.Union)
}

// MutableTypesError reports mutable types discovered by EnsureFrozen.
type MutableTypesError struct {
	Root  reflect.Type
	Types []reflect.Type
}

func (e *MutableTypesError) Error() string {
	names := make([]string, 0, len(e.Types))
	for _, t := range e.Types {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return fmt.Sprintf("recmap: model %v contains mutable types: %s", e.Root, strings.Join(names, ", "))
}

// ---- Input shape errors (raised during load/dump, recoverable) ----

// InvalidInputError reports a wrong top-level shape: load got a non-mapping,
// or dump got a value of the wrong record type.
type InvalidInputError struct {
	Expected string
	Got      any
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("recmap: %s: expected %s, got %T", i18n.T(CodeInvalidInput, nil), e.Expected, e.Got)
}

// MissingFieldsError names every declared field absent from the input.
// Fields holds wire keys in sorted order.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("recmap: %s: %s", i18n.T(CodeMissingFields, nil), strings.Join(e.Fields, ", "))
}

// UnexpectedKeysError names every input key with no matching declared field.
// Keys holds wire keys in sorted order.
type UnexpectedKeysError struct {
	Keys []string
}

func (e *UnexpectedKeysError) Error() string {
	return fmt.Sprintf("recmap: %s: %s", i18n.T(CodeUnexpectedKeys, nil), strings.Join(e.Keys, ", "))
}

// ValidationError reports a scalar/format mismatch during a serializer run or
// a failure raised by a record's own Validate hook.
type ValidationError struct {
	Code    string // one of the Code* consts, or "" for hook-raised errors
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return "recmap: " + e.Message
	}
	return "recmap: " + i18n.T(e.Code, nil)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// validationf builds a ValidationError carrying the localized message for code.
func validationf(code string) *ValidationError {
	return &ValidationError{Code: code, Message: i18n.T(code, nil)}
}

// ---- Aggregate envelopes (root call only) ----

// LoadError wraps any failure occurring inside a top-level Load call,
// carrying the dotted path to the offending value and the original input.
// Exactly one envelope is produced per top-level call; nested record loads
// re-raise untouched.
type LoadError struct {
	Path  string // e.g. ".user[2].name"
	Input any    // the top-level input mapping
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("recmap: load failed at %s: %v", pathOrRoot(e.Path), e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// DumpError is the dump-side mirror of LoadError.
type DumpError struct {
	Path  string
	Cause error
}

func (e *DumpError) Error() string {
	return fmt.Sprintf("recmap: dump failed at %s: %v", pathOrRoot(e.Path), e.Cause)
}

func (e *DumpError) Unwrap() error { return e.Cause }

// UnexpectedJSONError reports a top-level JSON document whose shape does not
// match the entry point: an array where a single object was expected, or the
// reverse for the load-many path.
type UnexpectedJSONError struct {
	Expected string // "object" or "array"
	Got      string
}

func (e *UnexpectedJSONError) Error() string {
	return fmt.Sprintf("recmap: %s: expected %s, got %s", i18n.T(CodeUnexpectedJSON, nil), e.Expected, e.Got)
}

// DuplicateKeyError reports an object key appearing more than once in a JSON
// document. Decoding would silently keep the last value, so the adapters scan
// for duplicates up front.
type DuplicateKeyError struct {
	Path string // path of the containing object, "" for the root
	Key  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("recmap: %s at %s: %q", i18n.T(CodeDuplicateKey, nil), pathOrRoot(e.Path), e.Key)
}

func pathOrRoot(p string) string {
	if p == "" {
		return "."
	}
	return p
}
