package recmap

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Wire formats are validated against dedicated patterns before any parsing
// runs, so malformed input fails with a format error instead of a parser
// quirk leaking through.
var (
	dateTimeRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[Tt]\d{2}:\d{2}:\d{2}(\.\d+)?([Zz]|[+-]\d{2}:\d{2})$`)
	dateRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeOfDayRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}([Zz]|[+-]\d{2}:\d{2})?$`)
)

// ---- Timestamp as epoch number ----

type timestampKind struct{}

func (timestampKind) Fits(d TypeDescriptor) bool { return d.Type == timestampType }

func (timestampKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	return timestampSerializer{}, nil
}

type timestampSerializer struct{}

func (timestampSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	f, ok := rawFloat(raw)
	if !ok {
		return nil, validationf(CodeNotAFloat)
	}
	return Timestamp(f), nil
}

func (timestampSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	return float64(v.(Timestamp)), nil
}

// ---- DateTime as ISO-8601 string ----

type dateTimeKind struct{}

func (dateTimeKind) Fits(d TypeDescriptor) bool { return d.Type == timeType }

func (dateTimeKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	return dateTimeSerializer{}, nil
}

type dateTimeSerializer struct{}

func (dateTimeSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok || !dateTimeRe.MatchString(s) {
		return nil, validationf(CodeInvalidFormat)
	}
	// the pattern admits lowercase t/z; the parser does not
	t, err := time.Parse(time.RFC3339Nano, strings.ToUpper(s))
	if err != nil {
		return nil, &ValidationError{Code: CodeInvalidFormat, Message: err.Error(), Cause: err}
	}
	return t, nil
}

func (dateTimeSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	// canonical form: UTC, trailing fractional zeros trimmed
	return v.(time.Time).UTC().Format(time.RFC3339Nano), nil
}

// ---- Date as "YYYY-MM-DD" ----

type dateKind struct{}

func (dateKind) Fits(d TypeDescriptor) bool { return d.Type == dateType }

func (dateKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	return dateSerializer{}, nil
}

type dateSerializer struct{}

func (dateSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok || !dateRe.MatchString(s) {
		return nil, validationf(CodeInvalidFormat)
	}
	y, _ := strconv.Atoi(s[0:4])
	mo, _ := strconv.Atoi(s[5:7])
	d, _ := strconv.Atoi(s[8:10])
	// reject impossible dates that survive the pattern (2021-02-30 etc.)
	norm := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if norm.Year() != y || norm.Month() != time.Month(mo) || norm.Day() != d {
		return nil, validationf(CodeInvalidFormat)
	}
	return Date{Year: y, Month: time.Month(mo), Day: d}, nil
}

func (dateSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	return v.(Date).String(), nil
}

// ---- TimeOfDay as "HH:MM:SS" with optional offset ----

type timeKind struct{}

func (timeKind) Fits(d TypeDescriptor) bool { return d.Type == timeOfDayType }

func (timeKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	return timeOfDaySerializer{}, nil
}

type timeOfDaySerializer struct{}

func (timeOfDaySerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok || !timeOfDayRe.MatchString(s) {
		return nil, validationf(CodeInvalidFormat)
	}
	h, _ := strconv.Atoi(s[0:2])
	mi, _ := strconv.Atoi(s[3:5])
	sec, _ := strconv.Atoi(s[6:8])
	if h > 23 || mi > 59 || sec > 59 {
		return nil, validationf(CodeInvalidFormat)
	}
	out := TimeOfDay{Hour: h, Minute: mi, Second: sec}
	if len(s) > 8 {
		out.HasOffset = true
		if s[8] != 'Z' && s[8] != 'z' {
			oh, _ := strconv.Atoi(s[9:11])
			om, _ := strconv.Atoi(s[12:14])
			out.Offset = oh*3600 + om*60
			if s[8] == '-' {
				out.Offset = -out.Offset
			}
		}
	}
	return out, nil
}

func (timeOfDaySerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	return v.(TimeOfDay).String(), nil
}
