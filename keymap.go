package recmap

import (
	"strings"
	"unicode"
)

// KeyMapper translates between the model's declared field keys and the wire's
// key naming convention. ToModel runs on every incoming key before matching
// against declared fields; ToWire runs on every outgoing key.
type KeyMapper interface {
	ToWire(name string) string
	ToModel(key string) string
}

// IdentityKeys leaves keys untouched. It is the default mapper.
var IdentityKeys KeyMapper = identityKeys{}

type identityKeys struct{}

func (identityKeys) ToWire(name string) string { return name }
func (identityKeys) ToModel(key string) string { return key }

// CamelKeys maps snake_case model keys to camelCase wire keys and back, the
// convention of the JSON-facing adapters: "dragon_tartare" <-> "dragonTartare".
var CamelKeys KeyMapper = camelKeys{}

type camelKeys struct{}

func (camelKeys) ToWire(name string) string { return snakeToCamel(name) }
func (camelKeys) ToModel(key string) string { return camelToSnake(key) }

// camelToSnake lowercases the input, inserting "_" before each
// capital-starting word boundary and before each digit run.
func camelToSnake(s string) string {
	rs := []rune(s)
	b := &strings.Builder{}
	for i, r := range rs {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(rs[i-1]) || unicode.IsDigit(rs[i-1]) || (i+1 < len(rs) && unicode.IsLower(rs[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r) && i > 0 && !unicode.IsDigit(rs[i-1]) && rs[i-1] != '_':
			b.WriteByte('_')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// snakeToCamel splits on "_", lowercases the first segment, title-cases the
// rest, and joins.
func snakeToCamel(s string) string {
	segs := strings.Split(s, "_")
	b := &strings.Builder{}
	first := true
	for _, seg := range segs {
		if seg == "" {
			continue
		}
		if first {
			b.WriteString(strings.ToLower(seg))
			first = false
			continue
		}
		r := []rune(strings.ToLower(seg))
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}
