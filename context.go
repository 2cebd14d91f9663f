package recmap

import (
	"strconv"
	"strings"
)

// Mode distinguishes the two directions a Context can run in.
type Mode int

const (
	Loading Mode = iota
	Dumping
)

// Warning is a non-fatal load diagnostic, currently produced when
// AllowMissing leaves a required field at its zero value.
type Warning struct {
	Path    string
	Field   string
	Message string
}

// Decoded carries a loaded value together with the warnings accumulated
// during the run.
type Decoded[T any] struct {
	Value    T
	Warnings []Warning
}

type pathStep struct {
	label string
	index int
	key   bool // true for field/key steps, false for index steps
}

// Context is the run-scoped state threaded through one top-level load or dump
// call: the direction, the path stack used for error reporting, and collected
// warnings. A fresh Context is created per top-level call and never shared.
type Context struct {
	mode     Mode
	stack    []pathStep
	warnings []Warning
}

func newContext(mode Mode) *Context { return &Context{mode: mode} }

// Mode returns the direction of the current run.
func (c *Context) Mode() Mode { return c.mode }

// PushField enters a field or dict-key step; PopStep leaves it.
func (c *Context) PushField(name string) {
	c.stack = append(c.stack, pathStep{label: name, key: true})
}

// PushIndex enters a collection/tuple slot step.
func (c *Context) PushIndex(i int) {
	c.stack = append(c.stack, pathStep{index: i})
}

// PopStep leaves the innermost step. Callers pair it with a Push via defer.
func (c *Context) PopStep() {
	if n := len(c.stack); n > 0 {
		c.stack = c.stack[:n-1]
	}
}

// Path renders the current stack in dotted/bracketed form, e.g. ".user[2].name".
// The root renders as the empty string.
func (c *Context) Path() string {
	if len(c.stack) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for _, s := range c.stack {
		if s.key {
			b.WriteByte('.')
			b.WriteString(s.label)
			continue
		}
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(s.index))
		b.WriteByte(']')
	}
	return b.String()
}

// Warn records a non-fatal diagnostic at the current path.
func (c *Context) Warn(field, message string) {
	c.warnings = append(c.warnings, Warning{Path: c.Path(), Field: field, Message: message})
}
