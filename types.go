package recmap

import (
	"fmt"
	"time"
)

// Timestamp is a UTC instant carried on the wire as epoch seconds, possibly
// fractional. It exists as a distinct type so a record can mix numeric
// timestamps with ISO-8601 time.Time fields in the same payload.
type Timestamp float64

// At converts a time.Time into a Timestamp.
func At(t time.Time) Timestamp {
	return Timestamp(float64(t.UnixNano()) / float64(time.Second))
}

// Time converts the Timestamp back to a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	sec := int64(ts)
	nsec := int64((float64(ts) - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

// Date is a calendar date without a time component; its wire form is
// "YYYY-MM-DD". The zero value is not a valid date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is a wall-clock time without a date component; its wire form is
// "HH:MM:SS" with an optional "+HH:MM"/"-HH:MM"/"Z" offset suffix.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
	// Offset is seconds east of UTC; only meaningful when HasOffset is set.
	Offset    int
	HasOffset bool
}

func (t TimeOfDay) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if !t.HasOffset {
		return s
	}
	if t.Offset == 0 {
		return s + "Z"
	}
	off := t.Offset
	sign := "+"
	if off < 0 {
		sign = "-"
		off = -off
	}
	return s + fmt.Sprintf("%s%02d:%02d", sign, off/3600, (off%3600)/60)
}

// Set is an unordered collection with value semantics on the wire: it dumps to
// a list (order unspecified) and silently deduplicates on load.
type Set[T comparable] map[T]struct{}

// NewSet builds a Set from the given items.
func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Has reports whether item is a member of the set.
func (s Set[T]) Has(item T) bool {
	_, ok := s[item]
	return ok
}

// Add inserts item into the set.
func (s Set[T]) Add(item T) { s[item] = struct{}{} }

// Len returns the number of members.
func (s Set[T]) Len() int { return len(s) }

// Items returns the members in unspecified order.
func (s Set[T]) Items() []T {
	out := make([]T, 0, len(s))
	for it := range s {
		out = append(out, it)
	}
	return out
}
