package search

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Filter is a validated search payload for one domain. It is only produced by [Compile].
type Filter struct {
	domain Domain
	fields map[string]any
}

// Domain returns the search domain the filter targets.
func (f Filter) Domain() Domain { return f.domain }

// Get returns the wire value for key. A present key may hold nil (an explicit JSON null).
func (f Filter) Get(key string) (any, bool) {
	v, ok := f.fields[key]
	return v, ok
}

// Keys returns the wire keys in sorted order.
func (f Filter) Keys() []string {
	return slices.Sorted(maps.Keys(f.fields))
}

// Len returns the number of wire keys.
func (f Filter) Len() int { return len(f.fields) }

// MarshalJSON encodes the filter as the request body of the domain's search endpoint.
func (f Filter) MarshalJSON() ([]byte, error) {
	if f.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f.fields)
}

// Compile validates form and builds its filter. Nothing is built from a rejected form.
func Compile(form Form) (Filter, error) {
	if err := Validate(form); err != nil {
		return Filter{}, err
	}
	return build(form), nil
}

// build projects an already validated form onto wire keys. Every call produces a fresh payload.
func build(form Form) Filter {
	out := map[string]any{}
	for _, f := range form.schema.Fields {
		switch v := form.Value(f.Name).(type) {
		case Keyword:
			if text := strings.TrimSpace(v.Text); text != "" {
				out[f.Wire+"Keyword"] = text
			}
			out[f.Wire+"Exact"] = v.Mode == Exact
		case NumberRange:
			putPositive(out, f.Wire+"Min", v.Min)
			putPositive(out, f.Wire+"Max", v.Max)
		case DurationRange:
			putSeconds(out, f.Wire+"Min", v.Min)
			putSeconds(out, f.Wire+"Max", v.Max)
		case DateRange:
			putDate(out, f.Wire+"Min", v.Min)
			putDate(out, f.Wire+"Max", v.Max)
		case Choice:
			wire, all, _ := f.lookup(v.Selected)
			if !all {
				out[f.Wire] = wire
			} else if f.All == AllNull {
				out[f.Wire] = nil
			}
		case Choices:
			if wires := selectedWires(f, v.Selected); len(wires) > 0 {
				out[f.Wire] = wires
			} else if f.All == AllNull {
				out[f.Wire] = nil
			}
		}
	}
	return Filter{domain: form.schema.Domain, fields: out}
}

func putPositive(out map[string]any, key, raw string) {
	if n, present, err := parseCount(raw); err == nil && present && n > 0 {
		out[key] = n
	}
}

func putSeconds(out map[string]any, key string, d Duration) {
	if d.IsEmpty() {
		return
	}
	if n, err := DurationToSeconds(d); err == nil && n > 0 {
		out[key] = n
	}
}

func putDate(out map[string]any, key string, d Date) {
	if d.IsEmpty() {
		return
	}
	if s, err := FormatISODate(d); err == nil {
		out[key] = s
	}
}

// selectedWires maps a multi selection to wire values in option order. Selecting All yields nothing.
func selectedWires(f Field, selected []string) []string {
	picked := map[string]bool{}
	for _, s := range selected {
		wire, all, ok := f.lookup(s)
		if all {
			return nil
		}
		if ok {
			picked[wire] = true
		}
	}

	var wires []string
	for _, o := range f.Options {
		if picked[o.Wire] {
			wires = append(wires, o.Wire)
		}
	}
	return wires
}
