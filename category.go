package cif

import "github.com/Scinformatic/CIFFile/internal/table"

// Category is a pivoted view over one category's rows: one column per
// distinct keyword, row count equal to the common Values length,
// spec.md §4.C. Cells start as raw (possibly missing-marker) strings;
// the DDL2 validator replaces individual columns with typed
// internal/table.Columns via SetTypedColumn once casting succeeds.
type Category struct {
	name      string
	keyOrder  []string
	raw       map[string][]string
	numRows   int
	typed     map[string]*table.Column
}

func newCategory(name string, rows []*FlatRow) *Category {
	c := &Category{name: name, raw: map[string][]string{}, typed: map[string]*table.Column{}}
	for _, r := range rows {
		if _, ok := c.raw[r.Keyword]; !ok {
			c.keyOrder = append(c.keyOrder, r.Keyword)
		}
		c.raw[r.Keyword] = r.Values
		if n := len(r.Values); n > c.numRows {
			c.numRows = n
		}
	}
	return c
}

// Name returns the category name (mmCIF: the dotted prefix; CIF 1.1:
// the synthetic scheme resolved in DESIGN.md's OQ-1).
func (c *Category) Name() string { return c.name }

// Keywords returns the category's column names in first-occurrence order.
func (c *Category) Keywords() []string { return c.keyOrder }

// NumRows returns the pivoted row count: the common length of each
// keyword's value list.
func (c *Category) NumRows() int { return c.numRows }

// RawColumn returns the unprocessed string values for keyword, or nil if
// the category has no such keyword. Values are exactly as tokenized:
// CIF missing-value markers ("?", ".") are left literal; the DDL2
// validator is responsible for interpreting them.
func (c *Category) RawColumn(keyword string) []string {
	return c.raw[keyword]
}

// TypedColumn returns the cached typed replacement for keyword installed
// by SetTypedColumn, or nil if none has been set (i.e. the column has
// not yet been validated/cast).
func (c *Category) TypedColumn(keyword string) *table.Column {
	return c.typed[keyword]
}

// SetTypedColumn installs col as the typed replacement for keyword.
// Per spec.md §4.C, "replacing a category's typed table is permitted (the
// validator does this)" — any cached derived state is simply overwritten.
func (c *Category) SetTypedColumn(keyword string, col *table.Column) {
	c.typed[keyword] = col
}

// SetRawColumn overwrites keyword's raw string column, adding it to
// Keywords() if it is new. The DDL2 Stringifier uses this to write back
// the reverse-cast display strings of a typed column before the writer
// (package cif's write.go) renders the category.
func (c *Category) SetRawColumn(keyword string, values []string) {
	if _, ok := c.raw[keyword]; !ok {
		c.keyOrder = append(c.keyOrder, keyword)
	}
	c.raw[keyword] = values
	if n := len(values); n > c.numRows {
		c.numRows = n
	}
}

// SingleColMode selects to_id_dict's single-data-column behavior.
type SingleColMode int

const (
	SingleColValue SingleColMode = iota
	SingleColDict
)

// SingleRowMode selects to_id_dict's single-row-group behavior.
type SingleRowMode int

const (
	SingleRowValue SingleRowMode = iota
	SingleRowList
)

// IDDictKeyPolicy selects to_id_dict's duplicate-key (multi-row-group)
// behavior, SPEC_FULL.md §6.1.
type IDDictKeyPolicy int

const (
	KeyPolicyList IDDictKeyPolicy = iota
	KeyPolicyFirst
	KeyPolicyLast
)

// IDDictOptions configures Category.ToIDDict, mirroring
// original_source's CIFSkeleton.to_id_dict parameters.
type IDDictOptions struct {
	Flat      bool
	SingleCol SingleColMode
	SingleRow SingleRowMode
	MultiRow  IDDictKeyPolicy
}

// DefaultIDDictOptions matches the original's keyword defaults.
func DefaultIDDictOptions() IDDictOptions {
	return IDDictOptions{
		Flat:      false,
		SingleCol: SingleColValue,
		SingleRow: SingleRowValue,
		MultiRow:  KeyPolicyList,
	}
}

// rowValues materializes row i as a map of every non-ID keyword to its
// raw string value (missing entries for short columns become "").
func (c *Category) rowValues(dataCols []string, i int) map[string]string {
	m := make(map[string]string, len(dataCols))
	for _, k := range dataCols {
		vals := c.raw[k]
		if i < len(vals) {
			m[k] = vals[i]
		} else {
			m[k] = ""
		}
	}
	return m
}

// dataValue collapses a single row's map according to single_col: a lone
// data column yields its bare string value, otherwise (or when
// SingleColDict is requested) the full map is kept.
func dataValue(m map[string]string, dataCols []string, opts IDDictOptions) interface{} {
	if len(dataCols) == 1 && opts.SingleCol == SingleColValue {
		return m[dataCols[0]]
	}
	return m
}

// ToIDDict builds a (possibly nested) dictionary keyed by one or more
// columns, per spec.md §4.C and SPEC_FULL.md §6.1. ids names the key
// column(s) in key order; every other keyword in the category becomes a
// data column. Returns nil if ids is empty, any id is not a column of
// this category, or the category has no data columns.
func (c *Category) ToIDDict(ids []string, opts IDDictOptions) interface{} {
	if len(ids) == 0 {
		return nil
	}
	idSet := map[string]bool{}
	for _, id := range ids {
		if _, ok := c.raw[id]; !ok {
			return nil
		}
		idSet[id] = true
	}
	var dataCols []string
	for _, k := range c.keyOrder {
		if !idSet[k] {
			dataCols = append(dataCols, k)
		}
	}
	if len(dataCols) == 0 {
		return nil
	}

	type group struct {
		keys []string
		rows []map[string]string
	}
	var order []string
	groups := map[string]*group{}
	for i := 0; i < c.numRows; i++ {
		keys := make([]string, len(ids))
		for j, id := range ids {
			vals := c.raw[id]
			if i < len(vals) {
				keys[j] = vals[i]
			}
		}
		gk := groupKey(keys)
		g, ok := groups[gk]
		if !ok {
			g = &group{keys: keys}
			groups[gk] = g
			order = append(order, gk)
		}
		g.rows = append(g.rows, c.rowValues(dataCols, i))
	}

	collapse := func(g *group) interface{} {
		switch {
		case len(g.rows) == 1:
			row := dataValue(g.rows[0], dataCols, opts)
			if opts.SingleRow == SingleRowList {
				return []interface{}{row}
			}
			return row
		default:
			switch opts.MultiRow {
			case KeyPolicyFirst:
				return dataValue(g.rows[0], dataCols, opts)
			case KeyPolicyLast:
				return dataValue(g.rows[len(g.rows)-1], dataCols, opts)
			default:
				out := make([]interface{}, len(g.rows))
				for i, row := range g.rows {
					out[i] = dataValue(row, dataCols, opts)
				}
				return out
			}
		}
	}

	if len(ids) == 1 || opts.Flat {
		out := map[string]interface{}{}
		for _, gk := range order {
			g := groups[gk]
			key := g.keys[0]
			if len(ids) > 1 {
				key = flatKey(g.keys)
			}
			out[key] = collapse(g)
		}
		return out
	}

	root := map[string]interface{}{}
	for _, gk := range order {
		g := groups[gk]
		cur := root
		for depth := 0; depth < len(g.keys)-1; depth++ {
			k := g.keys[depth]
			next, ok := cur[k].(map[string]interface{})
			if !ok {
				next = map[string]interface{}{}
				cur[k] = next
			}
			cur = next
		}
		cur[g.keys[len(g.keys)-1]] = collapse(g)
	}
	return root
}

func groupKey(keys []string) string { return flatKey(keys) }

// flatKey joins a multi-column key tuple into a single comparable string
// (Go map keys can't be []string the way Python dict keys can be tuples),
// using a control character unlikely to appear in a CIF value as the
// separator.
func flatKey(keys []string) string {
	out := keys[0]
	for _, k := range keys[1:] {
		out += "\x1f" + k
	}
	return out
}
