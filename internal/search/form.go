package search

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/desertthunder/mcat/internal/shared"
)

// MatchMode selects how a keyword is compared against the catalog.
type MatchMode int

const (
	Include MatchMode = iota // substring containment
	Exact                    // full equality
)

func (m MatchMode) String() string {
	if m == Exact {
		return "Exact"
	}
	return "Include"
}

// ParseMatchMode accepts "include" or "exact" in any case. Blank input means Include.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "include":
		return Include, nil
	case "exact":
		return Exact, nil
	default:
		return Include, fmt.Errorf("%w: match mode %q", shared.ErrInvalidArgument, s)
	}
}

// Value is the raw state of one form field.
type Value interface {
	kind() Kind
}

// Keyword is free text with its match mode.
type Keyword struct {
	Text string
	Mode MatchMode
}

// NumberRange holds the raw min and max inputs of a count filter.
type NumberRange struct {
	Min string
	Max string
}

// DurationRange holds min and max length inputs.
type DurationRange struct {
	Min Duration
	Max Duration
}

// DateRange holds min and max date inputs.
type DateRange struct {
	Min Date
	Max Date
}

// Choice is a single enum selection by display value. Blank selects the field default.
type Choice struct {
	Selected string
}

// Choices is a multi-enum selection. An empty selection means All.
type Choices struct {
	Selected []string
}

func (Keyword) kind() Kind       { return KeywordField }
func (NumberRange) kind() Kind   { return NumberRangeField }
func (DurationRange) kind() Kind { return DurationRangeField }
func (DateRange) kind() Kind     { return DateRangeField }
func (Choice) kind() Kind        { return EnumField }
func (Choices) kind() Kind       { return MultiEnumField }

// Form is the raw, unvalidated state of one search screen.
type Form struct {
	schema *Schema
	values map[string]Value
}

// NewForm returns an empty form where every field holds its zero value.
func NewForm(schema *Schema) Form {
	return Form{schema: schema, values: map[string]Value{}}
}

// Schema returns the schema the form was created for.
func (f Form) Schema() *Schema {
	return f.schema
}

// With returns a copy of the form with one field replaced. The receiver is left untouched.
func (f Form) With(name string, v Value) (Form, error) {
	if f.schema == nil {
		return f, fmt.Errorf("%w: form has no schema", shared.ErrInvalidArgument)
	}
	field, ok := f.schema.Field(name)
	if !ok {
		return f, fmt.Errorf("%w: %s has no field %q", shared.ErrInvalidArgument, f.schema.Domain, name)
	}
	if v == nil || v.kind() != field.Kind {
		return f, fmt.Errorf("%w: wrong value type %T for field %q", shared.ErrInvalidArgument, v, name)
	}
	if c, ok := v.(Choices); ok {
		v = Choices{Selected: slices.Clone(c.Selected)}
	}

	next := maps.Clone(f.values)
	if next == nil {
		next = map[string]Value{}
	}
	next[name] = v
	return Form{schema: f.schema, values: next}, nil
}

// MustWith is With for statically known fields; it panics on a schema mismatch.
func (f Form) MustWith(name string, v Value) Form {
	next, err := f.With(name, v)
	if err != nil {
		panic(err)
	}
	return next
}

// Value returns the state of the named field, or the zero value of its kind when unset.
func (f Form) Value(name string) Value {
	if v, ok := f.values[name]; ok {
		return v
	}
	field, _ := f.schema.Field(name)
	return zeroValue(field.Kind)
}

func zeroValue(k Kind) Value {
	switch k {
	case NumberRangeField:
		return NumberRange{}
	case DurationRangeField:
		return DurationRange{}
	case DateRangeField:
		return DateRange{}
	case EnumField:
		return Choice{}
	case MultiEnumField:
		return Choices{}
	default:
		return Keyword{}
	}
}
