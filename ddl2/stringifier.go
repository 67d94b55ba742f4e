package ddl2

import (
	"fmt"
	"strings"

	"github.com/Scinformatic/CIFFile/internal/table"
)

// StringOptions configures the Stringifier's reverse-casting rules,
// spec.md §4.D "Reverse casting (writer-side)". The per-dtype null/empty
// markers and display vocabulary are table.FormatOptions, shared with
// package cif's Writer so both sides of the Validate->Write pipeline agree
// on vocabulary.
type StringOptions struct {
	table.FormatOptions
}

// DefaultStringOptions mirrors DefaultCastOptions' vocabulary/delimiter
// choices so a round trip through Validate then Stringify is stable.
func DefaultStringOptions() StringOptions {
	return StringOptions{FormatOptions: table.DefaultFormatOptions()}
}

// Stringify renders col (the item's merged output column, as installed
// by Validate via Category.SetTypedColumn) back to raw display strings,
// consulting the esd column (if non-nil) to re-merge a `value(esd)`
// representation for float/float-range items. esd may be nil for items
// without an ESD auxiliary.
func Stringify(col, esd *table.Column, opts StringOptions) []string {
	out := make([]string, col.Len())
	for i := 0; i < col.Len(); i++ {
		out[i] = stringifyCell(col.Dtype, col.Container, col.Cells[i], esdCellAt(esd, i), opts)
	}
	return out
}

func esdCellAt(esd *table.Column, i int) *table.Cell {
	if esd == nil || i >= esd.Len() {
		return nil
	}
	return &esd.Cells[i]
}

func stringifyCell(dtype table.Dtype, container table.Container, cell table.Cell, esd *table.Cell, opts StringOptions) string {
	if cell.Null {
		return table.FormatScalar(dtype, cell, opts.FormatOptions)
	}
	switch container {
	case table.List:
		parts := make([]string, len(cell.Items))
		for i, item := range cell.Items {
			parts[i] = table.FormatScalar(dtype, item, opts.FormatOptions)
		}
		return strings.Join(parts, opts.ListDelimiter)
	case table.Array:
		return stringifyRange(dtype, cell, esd, opts)
	default:
		return stringifyScalarESD(dtype, cell, esd, opts)
	}
}

// stringifyRange renders a 2-element array (int-range or float-range) as
// `min-max`, collapsing to `min` when both endpoints and (if present)
// their ESDs match, spec.md §4.D.
func stringifyRange(dtype table.Dtype, cell table.Cell, esd *table.Cell, opts StringOptions) string {
	if len(cell.Items) != 2 {
		panicType("stringify: range cell does not have exactly 2 elements")
	}
	var loEsd, hiEsd *table.Cell
	if esd != nil && len(esd.Items) == 2 {
		loEsd, hiEsd = &esd.Items[0], &esd.Items[1]
	}
	lo := stringifyScalarESD(dtype, cell.Items[0], loEsd, opts)
	hi := stringifyScalarESD(dtype, cell.Items[1], hiEsd, opts)
	if lo == hi {
		return lo
	}
	return lo + "-" + hi
}

// stringifyScalarESD formats one leaf via table.FormatScalar, then (for a
// non-null float with a present ESD) appends the parenthesized digits,
// spec.md §4.D: "floats with ESD merge value(esd) when ESD is present".
func stringifyScalarESD(dtype table.Dtype, cell table.Cell, esd *table.Cell, opts StringOptions) string {
	s := table.FormatScalar(dtype, cell, opts.FormatOptions)
	if dtype == table.Float && !cell.Null && esd != nil && !esd.Null {
		return fmt.Sprintf("%s(%d)", s, esd.Scalar.Int)
	}
	return s
}
