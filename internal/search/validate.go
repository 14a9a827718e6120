package search

import (
	"fmt"

	"github.com/desertthunder/mcat/internal/shared"
)

// User-facing validation messages.
const (
	MsgInvalidNumber = "invalid number"
	MsgInvalidDate   = "invalid date"
	MsgMisconfigured = "min/max misconfigured"
	MsgInvalidChoice = "invalid choice"
)

// ValidationError is the single message reported for a rejected form.
type ValidationError struct {
	Field   string // form field name
	Label   string // human field name
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Label, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return shared.ErrInvalidInput
}

func reject(f Field, msg string) *ValidationError {
	return &ValidationError{Field: f.Name, Label: f.Label, Message: msg}
}

// rule is one validation pass over every field. Passes run in order and the first violation ends validation.
type rule func(f Field, v Value) *ValidationError

var rules = []rule{checkWellFormed, checkDates, checkOrder}

// Validate checks form against its schema and returns the first violation, or nil.
//
// It never mutates the form and never touches the network.
func Validate(form Form) error {
	if form.schema == nil {
		return fmt.Errorf("%w: form has no schema", shared.ErrInvalidArgument)
	}
	for _, r := range rules {
		for _, f := range form.schema.Fields {
			if err := r(f, form.Value(f.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkWellFormed rejects numeric components that are not non-negative integers and unknown enum choices.
func checkWellFormed(f Field, v Value) *ValidationError {
	switch v := v.(type) {
	case NumberRange:
		for _, raw := range []string{v.Min, v.Max} {
			if _, _, err := parseCount(raw); err != nil {
				return reject(f, MsgInvalidNumber)
			}
		}
	case DurationRange:
		for _, d := range []Duration{v.Min, v.Max} {
			if _, err := DurationToSeconds(d); err != nil {
				return reject(f, MsgInvalidNumber)
			}
		}
	case Choice:
		if _, _, ok := f.lookup(v.Selected); !ok {
			return reject(f, MsgInvalidChoice)
		}
	case Choices:
		for _, c := range v.Selected {
			if _, _, ok := f.lookup(c); !ok {
				return reject(f, MsgInvalidChoice)
			}
		}
	}
	return nil
}

func checkDates(f Field, v Value) *ValidationError {
	if r, ok := v.(DateRange); ok {
		if !IsValidCalendarDate(r.Min) || !IsValidCalendarDate(r.Max) {
			return reject(f, MsgInvalidDate)
		}
	}
	return nil
}

// checkOrder compares a pair only when both sides are present. A single bound is open on the other side.
func checkOrder(f Field, v Value) *ValidationError {
	var lo, hi int
	switch v := v.(type) {
	case NumberRange:
		if blank(v.Min) || blank(v.Max) {
			return nil
		}
		lo, _, _ = parseCount(v.Min)
		hi, _, _ = parseCount(v.Max)
	case DurationRange:
		if v.Min.IsEmpty() || v.Max.IsEmpty() {
			return nil
		}
		lo, _ = DurationToSeconds(v.Min)
		hi, _ = DurationToSeconds(v.Max)
	case DateRange:
		if v.Min.IsEmpty() || v.Max.IsEmpty() {
			return nil
		}
		lo, _ = DateKey(v.Min)
		hi, _ = DateKey(v.Max)
	default:
		return nil
	}
	if lo > hi {
		return reject(f, MsgMisconfigured)
	}
	return nil
}
