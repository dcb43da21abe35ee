// Package model holds the typed employment and wage records drawn on the chart.
package model

import (
	"fmt"
	"math"
	"strings"
)

// RawRecord is a row of the data source, keyed by column name. Values are not parsed yet.
type RawRecord map[string]string

// Record holds the employment and wage figures for one geographic area.
//
// The derived fields WagesChange and WagesPctChange are computed once by [Transform] (or [Record.Derive]).
type Record struct {
	AreaTitle      string  `json:"area_title"`
	Employment1990 int64   `json:"employment_1990"`
	Employment2015 int64   `json:"employment_2015"`
	Wages1990      float64 `json:"wages_1990"`
	Wages2015      float64 `json:"wages_2015"`
	WagesChange    float64 `json:"wages_change"`
	WagesPctChange float64 `json:"-"`
}

// Derive computes the derived fields from the raw wage figures.
//
// Deriving twice yields the same record. When Wages1990 is zero, WagesPctChange is NaN: see [Record.PctChangeApplicable].
func (r Record) Derive() Record {
	r.WagesChange = r.Wages2015 - r.Wages1990

	if r.Wages1990 == 0 {
		r.WagesPctChange = math.NaN()

		return r
	}

	r.WagesPctChange = r.WagesChange / r.Wages1990

	return r
}

// PctChangeApplicable reports whether the percent change is defined for this record.
func (r Record) PctChangeApplicable() bool {
	return !math.IsNaN(r.WagesPctChange) && !math.IsInf(r.WagesPctChange, 0)
}

// FormatPctChange renders the percent change, or "n/a" when it is not applicable.
func (r Record) FormatPctChange() string {
	if !r.PctChangeApplicable() {
		return "n/a"
	}

	return fmt.Sprintf("%.1f%%", r.WagesPctChange*100) //nolint:mnd
}

// Number returns the numeric value of a field. The area title has no numeric value.
func (r Record) Number(f Field) (float64, bool) {
	switch f {
	case FieldEmployment1990:
		return float64(r.Employment1990), true
	case FieldEmployment2015:
		return float64(r.Employment2015), true
	case FieldWages1990:
		return r.Wages1990, true
	case FieldWages2015:
		return r.Wages2015, true
	case FieldWagesChange:
		return r.WagesChange, true
	case FieldWagesPctChange:
		return r.WagesPctChange, true
	default:
		return 0, false
	}
}

// Field names a column of a [Record] that the chart may be sorted by.
type Field string

// Known record fields.
const (
	FieldAreaTitle      Field = "area_title"
	FieldEmployment1990 Field = "employment_1990"
	FieldEmployment2015 Field = "employment_2015"
	FieldWages1990      Field = "wages_1990"
	FieldWages2015      Field = "wages_2015"
	FieldWagesChange    Field = "wages_change"
	FieldWagesPctChange Field = "wages_pct_change"
)

// String returns the field name as a plain string.
func (f Field) String() string {
	return string(f)
}

// IsValid reports whether the field is one of the known record fields.
func (f Field) IsValid() bool {
	switch f {
	case FieldAreaTitle, FieldEmployment1990, FieldEmployment2015,
		FieldWages1990, FieldWages2015, FieldWagesChange, FieldWagesPctChange:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether the field holds a number.
func (f Field) IsNumeric() bool {
	return f.IsValid() && f != FieldAreaTitle
}

// AllFields returns all known record fields, in column order.
func AllFields() []Field {
	return []Field{
		FieldAreaTitle,
		FieldEmployment1990,
		FieldEmployment2015,
		FieldWages1990,
		FieldWages2015,
		FieldWagesChange,
		FieldWagesPctChange,
	}
}

// SourceFields returns the fields that must be present in the data source.
func SourceFields() []Field {
	return []Field{
		FieldAreaTitle,
		FieldEmployment1990,
		FieldEmployment2015,
		FieldWages1990,
		FieldWages2015,
	}
}

// ParseField resolves a field name, ignoring surrounding blanks and case.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q (should be one of %v)", ErrUnknownField, name, AllFields())
	}

	return f, nil
}

// LineBase selects where the connecting lines of the chart are anchored.
type LineBase string

// Supported baseline modes.
const (
	// LineBaseStart anchors lines at the absolute 1990 and 2015 wages.
	LineBaseStart LineBase = "start"
	// LineBaseChange anchors lines at zero and ends them at the wage change.
	LineBaseChange LineBase = "change"
)

// String returns the baseline mode as a plain string.
func (b LineBase) String() string {
	return string(b)
}

// IsValid reports whether the baseline mode is supported.
func (b LineBase) IsValid() bool {
	return b == LineBaseStart || b == LineBaseChange
}

// ParseLineBase resolves a baseline mode.
func ParseLineBase(name string) (LineBase, error) {
	b := LineBase(strings.ToLower(strings.TrimSpace(name)))
	if !b.IsValid() {
		return "", fmt.Errorf("%w: %q (should be one of %v)", ErrUnknownBase, name, []LineBase{LineBaseStart, LineBaseChange})
	}

	return b, nil
}
