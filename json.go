package recmap

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	j "github.com/goccy/go-json"
)

// decodeJSONValue decodes one JSON document into the plain dict shape the
// engine consumes. Numbers are kept as json.Number so the integer/float
// serializers can stay strict about fractional parts. Duplicate object keys
// are rejected before decoding; the map decode would keep only the last one.
func decodeJSONValue(b []byte) (any, error) {
	if err := CheckDuplicateKeys(b); err != nil {
		return nil, err
	}
	dec := j.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func jsonShape(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return "value"
}

// LoadJSON decodes a single top-level JSON object and loads it. A top-level
// array (or scalar) fails with UnexpectedJSONError.
func (tm *TypedModel[T]) LoadJSON(ctx context.Context, b []byte) (T, error) {
	var zero T
	v, err := decodeJSONValue(b)
	if err != nil {
		return zero, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return zero, &UnexpectedJSONError{Expected: "object", Got: jsonShape(v)}
	}
	return tm.Load(ctx, obj)
}

// LoadManyJSON decodes a top-level JSON array of objects and loads each
// element. A top-level object fails with UnexpectedJSONError; a failing
// element reports its array index as the leading path step, e.g. "[1].name".
func (tm *TypedModel[T]) LoadManyJSON(ctx context.Context, b []byte) ([]T, error) {
	v, err := decodeJSONValue(b)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &UnexpectedJSONError{Expected: "array", Got: jsonShape(v)}
	}
	out := make([]T, 0, len(arr))
	for i, el := range arr {
		ev, err := tm.m.Load(ctx, el)
		if err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				le.Path = fmt.Sprintf("[%d]%s", i, le.Path)
			}
			return nil, err
		}
		out = append(out, ev.(T))
	}
	return out, nil
}

// DumpJSON dumps a record and encodes the mapping as JSON text.
func (tm *TypedModel[T]) DumpJSON(ctx context.Context, v T) ([]byte, error) {
	out, err := tm.Dump(ctx, v)
	if err != nil {
		return nil, err
	}
	return j.Marshal(out)
}

// DumpManyJSON dumps a slice of records as a JSON array.
func (tm *TypedModel[T]) DumpManyJSON(ctx context.Context, vs []T) ([]byte, error) {
	out := make([]map[string]any, 0, len(vs))
	for _, v := range vs {
		d, err := tm.Dump(ctx, v)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return j.Marshal(out)
}
