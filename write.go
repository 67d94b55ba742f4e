package cif

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Scinformatic/CIFFile/internal/table"
)

// ListLayout selects the layout of a single-row category rendered as a
// name-value list, spec.md §4.E.
type ListLayout int

const (
	ListHorizontal ListLayout = iota
	ListTabular
	ListVertical
)

// TableLayout selects the layout of a multi-row (or always_table)
// category rendered as a loop_ table, spec.md §4.E.
type TableLayout int

const (
	TableHorizontal TableLayout = iota
	TableTabularHorizontal
	TableTabularVertical
	TableVertical
)

// WriteOptions configures Write's per-category decision, layout,
// delimiter selection, and (for categories carrying a post-validator
// typed column) per-dtype value normalization, spec.md §4.E.
type WriteOptions struct {
	Indent              int
	IndentInner         int
	AlwaysTable         bool
	MinSpaceColumns     int
	DelimiterPreference []DelimiterKind
	ListLayout          ListLayout
	TableLayout         TableLayout

	// FormatOptions supplies the distinct null_bool/null_int/null_float/
	// nan_float/null_str/empty_str markers and bool/date vocabulary spec.md
	// §4.E's "Value-to-string normalization, per column dtype" names. It is
	// consulted only for keywords with a typed column installed by
	// ddl2.Validator.ValidateCategory (see cellStr); raw (never-validated) columns
	// are written exactly as tokenized.
	table.FormatOptions
}

// DefaultWriteOptions matches BurntSushi-cif/write.go's unquoted-first,
// single-then-double-then-text preference, generalized to the
// caller-configurable form spec.md §4.E requires.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		MinSpaceColumns:     2,
		DelimiterPreference: []DelimiterKind{DelimSingle, DelimDouble, DelimSemicolon},
		ListLayout:          ListVertical,
		TableLayout:         TableTabularVertical,
		FormatOptions:       table.DefaultFormatOptions(),
	}
}

// WriteError is raised when a value is structurally unrepresentable (the
// writer's single data-level raise point, spec.md §7.2): a multiline
// string containing a line beginning with ';', or a value for which no
// configured delimiter is safe.
type WriteError string

func (we WriteError) Error() string { return string(we) }

type writer struct {
	buf  bytes.Buffer
	opts WriteOptions
}

func (w *writer) errf(format string, v ...interface{}) {
	panic(WriteError(fmt.Sprintf("cif: write: %s", fmt.Sprintf(format, v...))))
}

func (w *writer) pf(format string, v ...interface{}) {
	fmt.Fprintf(&w.buf, format, v...)
}

// Write serializes f to dst using opts. Per spec.md §7.2, the entire
// output is rendered into an internal buffer first; if a value turns out
// to be unrepresentable, the resulting WriteError is returned and no
// bytes reach dst. This mirrors BurntSushi-cif/write.go's panic/recover
// error plumbing, retargeted from streaming-to-sink to buffer-then-flush
// so the "no partial output on error" guarantee holds.
func (f *File) Write(dst io.Writer, opts WriteOptions) (err error) {
	w := &writer{opts: opts}
	defer func() {
		if r := recover(); r != nil {
			if we, ok := r.(WriteError); ok {
				err = we
				return
			}
			panic(r)
		}
	}()
	for _, b := range f.Blocks() {
		w.writeBlock(b)
	}
	_, err = dst.Write(w.buf.Bytes())
	return err
}

func (w *writer) writeBlock(b *Block) {
	w.pf("data_%s\n", b.Code())
	for _, cat := range b.Categories() {
		w.writeCategory(cat)
	}
	for _, fr := range b.Frames() {
		w.pf("save_%s\n", fr.Code())
		for _, cat := range fr.Categories() {
			w.writeCategory(cat)
		}
		w.pf("save_\n")
	}
}

func (w *writer) indent() string      { return strings.Repeat(" ", w.opts.Indent) }
func (w *writer) indentInner() string { return strings.Repeat(" ", w.opts.IndentInner) }

// writeCategory implements the per-category list-vs-table decision and
// the layout variants of each (three list, four table), spec.md §4.E.
func (w *writer) writeCategory(cat *Category) {
	if cat.NumRows() <= 1 && !w.opts.AlwaysTable {
		w.writeList(cat)
		return
	}
	w.writeTable(cat)
}

// cellStr renders one category cell for output. A keyword with a typed
// column installed by ddl2.Validator.ValidateCategory (spec.md §4.E: "Given a
// structure tree whose categories contain typed columns (post-validator),
// serialize to CIF text") is rendered via table.Format's dtype-aware
// normalization rather than its stale pre-validation raw string; every
// other keyword is written exactly as tokenized.
func (w *writer) cellStr(cat *Category, keyword string, row int) string {
	if col := cat.TypedColumn(keyword); col != nil && row < col.Len() {
		return w.formatStr(table.Format(col, row, w.opts.FormatOptions))
	}
	vals := cat.RawColumn(keyword)
	var raw string
	if row < len(vals) {
		raw = vals[row]
	}
	return w.formatStr(raw)
}

func (w *writer) fullName(cat *Category, keyword string) string {
	if strings.HasPrefix(cat.Name(), "#") {
		// Synthetic CIF 1.1 loop category (DESIGN.md OQ-1): the keyword
		// already carries the full original tag.
		return keyword
	}
	return cat.Name() + "." + keyword
}

func (w *writer) writeList(cat *Category) {
	ind := w.indent()
	switch w.opts.ListLayout {
	case ListHorizontal:
		w.pf("%s", ind)
		for i, kw := range cat.Keywords() {
			if i > 0 {
				w.pf(" ")
			}
			w.pf("_%s %s", w.fullName(cat, kw), w.cellStr(cat, kw, 0))
		}
		w.pf("\n")
	case ListTabular:
		width := 0
		for _, kw := range cat.Keywords() {
			if n := len("_" + w.fullName(cat, kw)); n > width {
				width = n
			}
		}
		for _, kw := range cat.Keywords() {
			name := "_" + w.fullName(cat, kw)
			pad := strings.Repeat(" ", max(w.opts.MinSpaceColumns, width-len(name)+w.opts.MinSpaceColumns))
			w.pf("%s%s%s%s\n", ind, name, pad, w.cellStr(cat, kw, 0))
		}
	default: // ListVertical
		for _, kw := range cat.Keywords() {
			w.pf("%s_%s\n", ind, w.fullName(cat, kw))
			w.pf("%s%s\n", w.indentInner(), w.cellStr(cat, kw, 0))
		}
	}
}

func (w *writer) writeTable(cat *Category) {
	ind := w.indent()
	inner := w.indentInner()
	w.pf("%sloop_\n", ind)
	kws := cat.Keywords()
	for _, kw := range kws {
		w.pf("%s_%s\n", inner, w.fullName(cat, kw))
	}
	n := cat.NumRows()
	switch w.opts.TableLayout {
	case TableHorizontal:
		for row := 0; row < n; row++ {
			w.pf("%s", inner)
			for i, kw := range kws {
				if i > 0 {
					w.pf(" ")
				}
				w.pf("%s", w.cellStr(cat, kw, row))
			}
			w.pf("\n")
		}
	case TableTabularHorizontal:
		widths := w.columnWidths(cat, kws)
		for row := 0; row < n; row++ {
			w.pf("%s", inner)
			for i, kw := range kws {
				s := w.cellStr(cat, kw, row)
				if i > 0 {
					w.pf("%s", strings.Repeat(" ", w.opts.MinSpaceColumns))
				}
				if i < len(kws)-1 {
					w.pf("%s%s", s, strings.Repeat(" ", widths[i]-len(s)))
				} else {
					w.pf("%s", s)
				}
			}
			w.pf("\n")
		}
	case TableTabularVertical:
		widths := w.columnWidths(cat, kws)
		for row := 0; row < n; row++ {
			for i, kw := range kws {
				s := w.cellStr(cat, kw, row)
				pad := strings.Repeat(" ", widths[i]-len(s))
				if i == 0 {
					w.pf("%s%s%s\n", inner, s, pad)
				} else {
					w.pf("%s%s%s\n", inner, s, pad)
				}
			}
		}
	default: // TableVertical
		for row := 0; row < n; row++ {
			for _, kw := range kws {
				w.pf("%s%s\n", inner, w.cellStr(cat, kw, row))
			}
		}
	}
}

// columnWidths computes, for tabular table layouts, each column's
// rendered width as the max of its header token and every row's
// formatted cell, spec.md §4.E's "Table alignment" rule.
func (w *writer) columnWidths(cat *Category, kws []string) []int {
	widths := make([]int, len(kws))
	for i, kw := range kws {
		widths[i] = len("_" + w.fullName(cat, kw))
		for row := 0; row < cat.NumRows(); row++ {
			if n := len(w.cellStr(cat, kw, row)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}
