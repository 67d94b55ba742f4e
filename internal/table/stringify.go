package table

import (
	"strconv"
	"strings"
	"time"
)

// FormatOptions configures Format's per-dtype null/empty-value markers and
// display vocabulary, spec.md §4.E "Value-to-string normalization, per
// column dtype" and §4.D "Reverse casting (writer-side)". It is shared
// between package cif's Writer (which formats typed columns directly) and
// ddl2's Stringifier (which additionally re-merges a float's ESD digits),
// so both sides of the Validate->Write pipeline agree on vocabulary.
type FormatOptions struct {
	BoolTrueStr, BoolFalseStr string

	NullBool  string
	NullInt   string
	NullFloat string
	NaNFloat  string
	NullStr   string
	EmptyStr  string

	DateLayout     string // Go time layout, e.g. "2006-01-02"
	DateTimeLayout string // e.g. "2006-01-02:15:04"

	ListDelimiter string
}

// DefaultFormatOptions matches the common DDL2 display vocabulary:
// YES/NO booleans, "." for the bool/int/float/NaN markers (a bare "?" and
// "." are indistinguishable once cast to null for those dtypes, spec.md
// §4.D.1's "literal '.' maps to ... null for int/bool/date" note, so a
// single marker is all either family needs), and the two string-family
// markers kept distinct per spec.md §4.E: "?" for a genuinely missing
// value (no default substituted), "." for the inapplicable/empty-string
// case the forward cast produces from a literal ".", so a Validate then
// Stringify round trip reproduces the original marker. Null date and
// datetime cells use the NullStr marker ("?").
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		BoolTrueStr:    "YES",
		BoolFalseStr:   "NO",
		NullBool:       ".",
		NullInt:        ".",
		NullFloat:      ".",
		NaNFloat:       ".",
		NullStr:        "?",
		EmptyStr:       ".",
		DateLayout:     "2006-01-02",
		DateTimeLayout: "2006-01-02:15:04",
		ListDelimiter:  ",",
	}
}

// Format renders column's i'th cell to its display string, spec.md §4.E.
func Format(col *Column, i int, opts FormatOptions) string {
	return FormatCell(col.Dtype, col.Container, col.Cells[i], opts)
}

// FormatCell lifts FormatScalar over a cell's Container shape: None
// formats the cell directly; List join-delimits every element; Array
// renders a two-element range as "min-max", collapsing to "min" when both
// endpoints are equal, spec.md §4.D's reverse-casting rule for ranges.
func FormatCell(dtype Dtype, container Container, cell Cell, opts FormatOptions) string {
	if cell.Null {
		return nullMarker(dtype, opts)
	}
	switch container {
	case List:
		parts := make([]string, len(cell.Items))
		for i, item := range cell.Items {
			parts[i] = FormatScalar(dtype, item, opts)
		}
		return strings.Join(parts, opts.ListDelimiter)
	case Array:
		parts := make([]string, len(cell.Items))
		for i, item := range cell.Items {
			parts[i] = FormatScalar(dtype, item, opts)
		}
		if len(parts) == 2 && parts[0] == parts[1] {
			return parts[0]
		}
		return strings.Join(parts, "-")
	default:
		return FormatScalar(dtype, cell, opts)
	}
}

// FormatScalar renders a single non-nested leaf cell, dispatching on
// dtype per spec.md §4.E's per-dtype normalization rules.
func FormatScalar(dtype Dtype, cell Cell, opts FormatOptions) string {
	if cell.Null {
		return nullMarker(dtype, opts)
	}
	switch dtype {
	case Bool:
		if cell.Scalar.Bool {
			return opts.BoolTrueStr
		}
		return opts.BoolFalseStr
	case Int:
		return strconv.FormatInt(cell.Scalar.Int, 10)
	case Float:
		f := cell.Scalar.Float
		if f != f { // NaN
			return opts.NaNFloat
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case Date:
		d := cell.Scalar.Date
		layout := opts.DateLayout
		if layout == "" {
			layout = "2006-01-02"
		}
		return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(layout)
	case DateTime:
		dt := cell.Scalar.DateTime
		layout := opts.DateTimeLayout
		if layout == "" {
			layout = "2006-01-02:15:04"
		}
		return time.Date(dt.Date.Year, dt.Date.Month, dt.Date.Day,
			dt.Time.Hour, dt.Time.Minute, dt.Time.Second, dt.Time.Nanosecond, time.UTC).Format(layout)
	default: // Str, Categorical
		if cell.Scalar.Str == "" {
			return opts.EmptyStr
		}
		return cell.Scalar.Str
	}
}

// nullMarker returns the configured null display string for dtype,
// spec.md §4.E: null_bool/null_int/null_float/null_str are distinct,
// configurable markers, not a single unified one.
func nullMarker(dtype Dtype, opts FormatOptions) string {
	switch dtype {
	case Bool:
		return opts.NullBool
	case Int:
		return opts.NullInt
	case Float:
		return opts.NullFloat
	default: // Str, Categorical, Date, DateTime
		return opts.NullStr
	}
}
