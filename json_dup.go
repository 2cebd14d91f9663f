package recmap

import (
	"bytes"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
)

// CheckDuplicateKeys scans a JSON document for object keys that appear more
// than once within the same object. A map-based decode keeps only the last
// value, hiding the conflict, so the JSON adapters run this scan before
// decoding. Returns the first DuplicateKeyError found, or nil.
func CheckDuplicateKeys(data []byte) error {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	type frame struct {
		object    bool
		seen      map[string]struct{}
		key       string // last key read, used as the path segment
		expectKey bool
		index     int
	}
	var stack []*frame

	top := func() *frame {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}
	pathOf := func(upto int) string {
		var b bytes.Buffer
		for _, f := range stack[:upto] {
			if f.object {
				b.WriteByte('.')
				b.WriteString(f.key)
			} else {
				fmt.Fprintf(&b, "[%d]", f.index)
			}
		}
		return b.String()
	}
	// a completed value re-arms the enclosing container
	afterValue := func() {
		if f := top(); f != nil {
			if f.object {
				f.expectKey = true
			} else {
				f.index++
			}
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case j.Delim:
			switch t {
			case '{':
				stack = append(stack, &frame{object: true, seen: map[string]struct{}{}, expectKey: true})
			case '[':
				stack = append(stack, &frame{})
			case '}', ']':
				stack = stack[:len(stack)-1]
				afterValue()
			}
		case string:
			if f := top(); f != nil && f.object && f.expectKey {
				if _, dup := f.seen[t]; dup {
					return &DuplicateKeyError{Path: pathOf(len(stack) - 1), Key: t}
				}
				f.seen[t] = struct{}{}
				f.key = t
				f.expectKey = false
				continue
			}
			afterValue()
		default:
			afterValue()
		}
	}
}
