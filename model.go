package recmap

import (
	"context"
	"errors"
	"reflect"
	"sort"
)

// Model is the per-record-type orchestrator: it owns the serializer registry,
// the policy flags, and one eagerly built serializer per declared field.
// Child models for nested record types live in a cache shared by reference
// across everything derived from one root, so each distinct nested type gets
// exactly one Model for the root's lifetime; that construction-time
// memoization is the only cycle breaker for recursive record graphs.
// A Model is immutable after construction and safe for concurrent use.
type Model struct {
	desc   TypeDescriptor
	typ    reflect.Type
	cfg    *config
	cache  map[descKey]*Model
	fields []*modelField
	byKey  map[string]*modelField
}

type modelField struct {
	fd  FieldDescriptor
	ser Serializer
}

// NewModelOf builds the Model for a record type given as a reflect.Type.
// Construction fails fast: policy violations over the whole type graph and
// unsupported field types surface here, never at load/dump time.
func NewModelOf(t reflect.Type, opts ...Option) (*Model, error) {
	cfg := applyOptions(opts)
	if t == nil || t.Kind() != reflect.Struct || isWellKnownLeaf(t) {
		return nil, &UnsupportedTypeError{Type: t}
	}
	desc := Resolve(t)
	if err := cfg.checkGraph(desc); err != nil {
		return nil, err
	}
	return newModel(desc, cfg, map[descKey]*Model{})
}

func newModel(desc TypeDescriptor, cfg *config, cache map[descKey]*Model) (*Model, error) {
	m := &Model{
		desc:  desc,
		typ:   desc.Type,
		cfg:   cfg,
		cache: cache,
		byKey: map[string]*modelField{},
	}
	// Register the shell before building field serializers so recursive
	// record types find this model instead of reconstructing it forever.
	cache[desc.key()] = m
	for _, fd := range FieldsOf(m.typ) {
		ser, err := m.Serializer(fd.Type)
		if err != nil {
			return nil, err
		}
		f := &modelField{fd: fd, ser: ser}
		m.fields = append(m.fields, f)
		m.byKey[fd.Key] = f
	}
	return m, nil
}

// Type returns the record type this model maps.
func (m *Model) Type() reflect.Type { return m.typ }

// Serializer resolves the fixed-order kind registry against a descriptor and
// builds the first fitting kind. No fit means the type is unsupported.
func (m *Model) Serializer(d TypeDescriptor) (Serializer, error) {
	for _, k := range m.cfg.kinds {
		if k.Fits(d) {
			return k.Build(d, m)
		}
	}
	return nil, &UnsupportedTypeError{Type: d.Type}
}

// childModel returns the cached model for a nested record descriptor,
// constructing and registering one on first sight. The child inherits every
// policy flag and the key mapper from the root. When the descriptor equals
// this model's own, the cache returns m itself (the recursive-type case).
func (m *Model) childModel(d TypeDescriptor) (*Model, error) {
	if c, ok := m.cache[d.key()]; ok {
		return c, nil
	}
	return newModel(d, m.cfg, m.cache)
}

// Load converts a plain mapping into a value of the record type. Any failure
// inside the recursive walk is wrapped, once, into a LoadError carrying the
// dotted path of the failure site; a Validate hook failure passes through
// unwrapped.
func (m *Model) Load(ctx context.Context, data any) (any, error) {
	v, _, err := m.load(ctx, data)
	return v, err
}

// LoadWithMeta is Load returning the warnings accumulated during the run
// alongside the value.
func (m *Model) LoadWithMeta(ctx context.Context, data any) (Decoded[any], error) {
	v, warns, err := m.load(ctx, data)
	return Decoded[any]{Value: v, Warnings: warns}, err
}

func (m *Model) load(ctx context.Context, data any) (any, []Warning, error) {
	src, ok := data.(map[string]any)
	if !ok {
		return nil, nil, &InvalidInputError{Expected: "mapping", Got: data}
	}
	rc := newContext(Loading)
	rv, err := m.loadInner(ctx, rc, src)
	if err != nil {
		return nil, rc.warnings, wrapRoot(err, func(path string, cause error) error {
			return &LoadError{Path: path, Input: data, Cause: cause}
		})
	}
	return rv.Interface(), rc.warnings, nil
}

// loadInner is the non-root load: it re-raises errors untouched so exactly
// one envelope is produced per top-level call.
func (m *Model) loadInner(ctx context.Context, rc *Context, src map[string]any) (reflect.Value, error) {
	present := make(map[string]any, len(src))
	var unexpected []string
	for k, v := range src {
		mk := m.cfg.keys.ToModel(k)
		if _, known := m.byKey[mk]; known {
			present[mk] = v
		} else {
			unexpected = append(unexpected, k)
		}
	}
	// whole-object structural checks run before any per-field serializer,
	// and report every offending key at once
	if !m.cfg.allowUnexpected && len(unexpected) > 0 {
		sort.Strings(unexpected)
		return reflect.Value{}, &UnexpectedKeysError{Keys: unexpected}
	}
	if !m.cfg.allowMissing {
		var missing []string
		for _, f := range m.fields {
			if _, ok := present[f.fd.Key]; !ok {
				missing = append(missing, f.fd.Key)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return reflect.Value{}, &MissingFieldsError{Fields: missing}
		}
	}

	rv := reflect.New(m.typ).Elem()
	for _, f := range m.fields {
		raw, ok := present[f.fd.Key]
		if !ok {
			m.inferMissing(rc, rv, f)
			continue
		}
		rc.PushField(f.fd.Key)
		v, err := f.ser.Load(ctx, rc, raw)
		if err != nil {
			err = rc.capture(err)
			rc.PopStep()
			return reflect.Value{}, err
		}
		rc.PopStep()
		assign(rv.FieldByIndex(f.fd.Index), v)
	}

	if m.cfg.validateOnLoad {
		if err := runHook(ctx, rv); err != nil {
			return reflect.Value{}, &hookFailure{err: err}
		}
	}
	return rv, nil
}

// inferMissing applies the AllowMissing default for one absent field:
// optional fields stay nil, an absent nested record has its own fields
// inferred absent recursively, and a required leaf bottoms out at its zero
// value with a warning.
func (m *Model) inferMissing(rc *Context, rv reflect.Value, f *modelField) {
	if f.fd.Type.Optional {
		return
	}
	t := f.fd.Type.Type
	if t.Kind() == reflect.Struct && !isWellKnownLeaf(t) && !t.Implements(enumIface) {
		if child, ok := m.cache[f.fd.Type.key()]; ok {
			rc.PushField(f.fd.Key)
			for _, cf := range child.fields {
				child.inferMissing(rc, rv.FieldByIndex(f.fd.Index), cf)
			}
			rc.PopStep()
			return
		}
	}
	rc.Warn(f.fd.Key, "required field missing from input; left at zero value")
}

// Dump converts a record value back into a plain mapping. The input must be
// the record type (a pointer to it is dereferenced); failures wrap into a
// DumpError at this root call only.
func (m *Model) Dump(ctx context.Context, v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Type().Elem() == m.typ {
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != m.typ {
		return nil, &InvalidInputError{Expected: m.typ.String(), Got: v}
	}
	rc := newContext(Dumping)
	out, err := m.dumpInner(ctx, rc, rv)
	if err != nil {
		return nil, wrapRoot(err, func(path string, cause error) error {
			return &DumpError{Path: path, Cause: cause}
		})
	}
	return out, nil
}

func (m *Model) dumpInner(ctx context.Context, rc *Context, rv reflect.Value) (map[string]any, error) {
	if m.cfg.validateOnDump {
		if err := runHook(ctx, rv); err != nil {
			return nil, &hookFailure{err: err}
		}
	}
	out := make(map[string]any, len(m.fields))
	for _, f := range m.fields {
		rc.PushField(f.fd.Key)
		dv, err := f.ser.Dump(ctx, rc, rv.FieldByIndex(f.fd.Index).Interface())
		if err != nil {
			err = rc.capture(err)
			rc.PopStep()
			return nil, err
		}
		rc.PopStep()
		out[m.cfg.keys.ToWire(f.fd.Key)] = dv
	}
	return out, nil
}

// wrapRoot turns the internal error markers into the public envelope: hook
// failures pass through unwrapped, everything else gets exactly one envelope
// with the deepest captured path.
func wrapRoot(err error, envelope func(path string, cause error) error) error {
	var hf *hookFailure
	if errors.As(err, &hf) {
		return hf.err
	}
	path := ""
	cause := err
	var pe *pathError
	if errors.As(err, &pe) {
		path = pe.path
		cause = pe.cause
	}
	return envelope(path, cause)
}
