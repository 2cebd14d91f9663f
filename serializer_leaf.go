package recmap

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// v4-shaped, case-insensitive
	uuidRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)
	// plain digits.digits; exponent forms and bare integers are rejected
	decimalRe = regexp.MustCompile(`^-?[0-9]+\.[0-9]+$`)
)

// ---- UUID as string ----

type uuidKind struct{}

func (uuidKind) Fits(d TypeDescriptor) bool { return d.Type == uuidType }

func (uuidKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	return uuidSerializer{}, nil
}

type uuidSerializer struct{}

func (uuidSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok || !uuidRe.MatchString(s) {
		return nil, validationf(CodeInvalidFormat)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, &ValidationError{Code: CodeInvalidFormat, Message: err.Error(), Cause: err}
	}
	return u, nil
}

func (uuidSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	return v.(uuid.UUID).String(), nil
}

// ---- Decimal as string ----

type decimalKind struct{}

func (decimalKind) Fits(d TypeDescriptor) bool { return d.Type == decimalType }

func (decimalKind) Build(d TypeDescriptor, m *Model) (Serializer, error) {
	return decimalSerializer{}, nil
}

type decimalSerializer struct{}

func (decimalSerializer) Load(ctx context.Context, rc *Context, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok || !decimalRe.MatchString(s) {
		return nil, validationf(CodeInvalidFormat)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, &ValidationError{Code: CodeInvalidFormat, Message: err.Error(), Cause: err}
	}
	return d, nil
}

func (decimalSerializer) Dump(ctx context.Context, rc *Context, v any) (any, error) {
	return v.(decimal.Decimal).String(), nil
}
