package cif

import "strings"

// FlatRow is the normalized representation emitted by the parser: one row
// per data-item declaration, per spec.md §3.
type FlatRow struct {
	BlockCode string
	HasFrame  bool
	FrameCode string
	Category  string
	Keyword   string
	Values    []string
	LoopID    int // 0 for non-loop items, positive and shared within a loop otherwise
}

// FlatTable is the parser's output: an ordered sequence of FlatRows. Order
// preserves the textual order of declarations within each (block, frame),
// per spec.md §5.
type FlatTable struct {
	Rows []*FlatRow
}

// Variant selects the dialect-specific data-name splitting rule of
// spec.md §4.B.
type Variant int

const (
	VariantMMCIF Variant = iota
	VariantCIF1
)

// CaseNormalization controls the case folding applied to block/frame/
// category/keyword names at parser output (never to values), per
// spec.md §4.B.
type CaseNormalization int

const (
	CaseNone CaseNormalization = iota
	CaseLower
	CaseUpper
)

func (c CaseNormalization) apply(s string) string {
	switch c {
	case CaseLower:
		return strings.ToLower(s)
	case CaseUpper:
		return strings.ToUpper(s)
	default:
		return s
	}
}

// ParseOptions configures the parser FSM.
type ParseOptions struct {
	Variant           Variant
	CaseNormalization CaseNormalization
}

// Parse consumes a token stream (as produced by Tokenize) and returns the
// normalized flat table plus any collected parse errors. Errors are
// collected, never raised here (spec.md §4.B/§7); raising on a severity
// threshold is Read's job.
func Parse(tokens []Token, opts ParseOptions) (*FlatTable, *ParseErrors) {
	p := &parserState{
		tokens: tokens,
		opts:   opts,
		table:  &FlatTable{},
		errs:   &ParseErrors{},
		state:  StInFile,
		names:  map[string]Token{},
		nextLoopID: 1,
	}
	p.run()
	return p.table, p.errs
}
