package recmap

import (
	"context"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes a top-level YAML mapping and loads it; the config-file
// counterpart of LoadJSON. YAML integers arrive as int and floats as
// float64, which the scalar serializers accept directly.
func (tm *TypedModel[T]) LoadYAML(ctx context.Context, b []byte) (T, error) {
	var zero T
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return zero, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return zero, &InvalidInputError{Expected: "mapping", Got: v}
	}
	return tm.Load(ctx, obj)
}

// DumpYAML dumps a record and encodes the mapping as YAML text.
func (tm *TypedModel[T]) DumpYAML(ctx context.Context, v T) ([]byte, error) {
	out, err := tm.Dump(ctx, v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(out)
}
