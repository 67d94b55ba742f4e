// Package table is the minimal concrete implementation of the abstract
// typed-table engine contract spec.md §6.4 describes as an external
// dependency: nullable columns of {str, int, bool, float, date, datetime},
// nested list<T> and fixed-length array<T, N>, a fixed-domain categorical
// column, NaN-aware float comparison, and predicate lifting over the
// none/list/array/array_list container shapes of spec.md §4.D.
//
// Nothing in the example pack ships a columnar engine with this nullable
// + nested + categorical shape (see DESIGN.md), so this package is
// necessarily built on the standard library rather than grounded on a
// third-party dependency. It is kept internal and sized to exactly the
// §6.4 contract: it is not a general-purpose dataframe library.
package table

import (
	"fmt"
	"math"

	"github.com/golang-sql/civil"
)

// Dtype is the leaf scalar type of a column, spec.md §4.D.
type Dtype int

const (
	Str Dtype = iota
	Int
	Bool
	Float
	Date
	DateTime
	Categorical
)

func (d Dtype) String() string {
	switch d {
	case Str:
		return "str"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Float:
		return "float"
	case Date:
		return "date"
	case DateTime:
		return "datetime"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Dtype(%d)", int(d))
	}
}

// Container is the nesting shape lifted over a Dtype, spec.md §4.D.
type Container int

const (
	None Container = iota
	List
	Array
	ArrayList
)

// Leaf is a single scalar value of any Dtype. Only the field matching
// Column.Dtype is meaningful.
type Leaf struct {
	Str      string
	Int      int64
	Bool     bool
	Float    float64
	Date     civil.Date
	DateTime civil.DateTime
}

// Cell is one row's value, shaped according to the column's Container:
//   - None:      Scalar is meaningful.
//   - List:      Items holds a null-terminated-free list of scalar cells.
//   - Array:     Items holds exactly ArrayLen scalar cells.
//   - ArrayList: Items holds a list of Array-shaped cells (two levels).
type Cell struct {
	Null   bool
	Scalar Leaf
	Items  []Cell
}

// NullCell is the null Cell for any container shape.
func NullCell() Cell { return Cell{Null: true} }

// Column is a nullable, possibly-nested, possibly-categorical column of
// uniform Dtype/Container/ArrayLen.
type Column struct {
	Name      string
	Dtype     Dtype
	Container Container
	ArrayLen  int // only meaningful when Container is Array or ArrayList
	Cells     []Cell

	// Categories is the fixed enum domain, only set when Dtype ==
	// Categorical (the leaf's Str field holds the category value).
	Categories []string
}

func (c *Column) Len() int { return len(c.Cells) }

// ValidationNullish reports whether a single leaf should be skipped by
// enum/range checks (spec.md §4.D "Validation nullish"): null for any
// type, NaN for float, empty string for string.
func ValidationNullish(dtype Dtype, cell Cell) bool {
	if cell.Null {
		return true
	}
	switch dtype {
	case Float:
		return math.IsNaN(cell.Scalar.Float)
	case Str, Categorical:
		return cell.Scalar.Str == ""
	default:
		return false
	}
}

// MergeNullish reports whether a per-row cell should be treated as
// "fill from next" during output merging (spec.md §4.D "Merge nullish"):
// null always, plus NaN only for scalar (Container == None) float.
func MergeNullish(dtype Dtype, container Container, cell Cell) bool {
	if cell.Null {
		return true
	}
	if dtype == Float && container == None {
		return math.IsNaN(cell.Scalar.Float)
	}
	return false
}

// FloatEqual is NaN-aware float equality: two NaNs compare equal, matching
// spec.md §4.D's "NaN-aware float equality" requirement for merge
// mismatch detection.
func FloatEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

// AnyLeaf implements the "apply predicate at the innermost leaf, lift via
// list/array" rule of spec.md §4.D: for Container == None it applies pred
// directly to the cell; for List/Array it applies elementwise and ORs;
// for ArrayList it recurses two levels. A null cell at any level is never
// passed to pred (it simply doesn't contribute a true).
func AnyLeaf(cell Cell, pred func(Cell) bool) bool {
	if cell.Null {
		return false
	}
	if cell.Items == nil {
		return pred(cell)
	}
	for _, item := range cell.Items {
		if AnyLeaf(item, pred) {
			return true
		}
	}
	return false
}

// AllLeaf is the dual of AnyLeaf, used where a check must hold for every
// non-null leaf (e.g. enum membership: no bad leaf exists).
func AllLeaf(cell Cell, pred func(Cell) bool) bool {
	if cell.Null {
		return true
	}
	if cell.Items == nil {
		return pred(cell)
	}
	for _, item := range cell.Items {
		if !AllLeaf(item, pred) {
			return false
		}
	}
	return true
}

// MapLeaf rebuilds a cell of the same shape with fn applied to every
// non-null leaf (used for enum->bool conversion).
func MapLeaf(cell Cell, fn func(Cell) Cell) Cell {
	if cell.Null {
		return cell
	}
	if cell.Items == nil {
		return fn(cell)
	}
	items := make([]Cell, len(cell.Items))
	for i, item := range cell.Items {
		items[i] = MapLeaf(item, fn)
	}
	return Cell{Items: items}
}
