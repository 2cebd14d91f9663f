// Package recmap maps typed record structs to and from plain data forms
// (map[string]any and JSON/YAML text), preserving type fidelity for nested
// records, collections, enumerations, optionals, and special scalar types
// (timestamps, UUIDs, decimals, dates).
//
// It provides:
//
//   - A per-record Model built once from the type's structure, caching one
//     serializer per field and one child model per distinct nested type
//   - A fixed-order registry of serializer kinds with an insertion point for
//     custom kinds (see Kinds and UnionKind)
//   - Strict missing/unexpected field policy with batch reporting, relaxable
//     via AllowMissing/AllowUnexpected
//   - Path-qualified load/dump errors (".user[2].name") and an optional
//     Validate hook on record types
//   - JSON and YAML adapters plus a JSON Schema projection
//
// Typical usage:
//
//	m, err := recmap.New[User](recmap.Keys(recmap.CamelKeys))
//	u, err := m.Load(ctx, data)
//	u, err = m.LoadJSON(ctx, body)
//	out, err := m.Dump(ctx, u)
package recmap
