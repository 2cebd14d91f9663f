package recmap

import "reflect"

// config carries the policy flags and the serializer registry for one root
// model and all the child models derived from it. Immutable after New.
type config struct {
	kinds           []SerializerKind // full ordered registry
	custom          []SerializerKind // the injected subset, kept for graph checks
	allowAny        bool
	allowMissing    bool
	allowUnexpected bool
	validateOnLoad  bool
	validateOnDump  bool
	ensureFrozen    bool
	frozenExtra     []reflect.Type
	keys            KeyMapper
}

// Option configures model construction.
type Option func(*config)

func defaultConfig() *config {
	return &config{validateOnLoad: true, keys: IdentityKeys}
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	cfg.kinds = registryFor(cfg.custom)
	return cfg
}

// AllowAny permits untyped (any) fields in the record graph.
func AllowAny() Option { return func(c *config) { c.allowAny = true } }

// AllowMissing defaults absent declared fields instead of failing: optional
// fields become nil, absent nested records have their own fields inferred
// absent in turn, and a required scalar left at its zero value records a
// load warning.
func AllowMissing() Option { return func(c *config) { c.allowMissing = true } }

// AllowUnexpected ignores input keys with no matching declared field.
func AllowUnexpected() Option { return func(c *config) { c.allowUnexpected = true } }

// SkipValidateOnLoad disables invoking the record's Validate hook after load.
// The hook runs on load by default.
func SkipValidateOnLoad() Option { return func(c *config) { c.validateOnLoad = false } }

// ValidateOnDump invokes the record's Validate hook before dumping. Off by
// default.
func ValidateOnDump() Option { return func(c *config) { c.validateOnDump = true } }

// EnsureFrozen fails construction when the record graph contains a mutable
// type (slice, map, set).
func EnsureFrozen() Option { return func(c *config) { c.ensureFrozen = true } }

// EnsureFrozenWith is EnsureFrozen with extra types to treat as immutable.
func EnsureFrozenWith(extra ...reflect.Type) Option {
	return func(c *config) {
		c.ensureFrozen = true
		c.frozenExtra = append(c.frozenExtra, extra...)
	}
}

// Keys sets the KeyMapper translating declared field keys to wire keys.
func Keys(km KeyMapper) Option {
	return func(c *config) {
		if km != nil {
			c.keys = km
		}
	}
}

// Kinds injects custom serializer kinds. They are tested after the
// Optional/Any/Enum unwrapping kinds and before the structural ones, in the
// order given.
func Kinds(kinds ...SerializerKind) Option {
	return func(c *config) { c.custom = append(c.custom, kinds...) }
}
