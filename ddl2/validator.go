package ddl2

import (
	"sort"
	"strings"

	"github.com/Scinformatic/CIFFile"
	"github.com/Scinformatic/CIFFile/internal/table"
)

// CaseMode mirrors cif.CaseNormalization for the validator's uchar
// case-folding step, spec.md §4.D rule 3.
type CaseMode int

const (
	CaseNone CaseMode = iota
	CaseLower
	CaseUpper
)

func (m CaseMode) apply(s string) string {
	switch m {
	case CaseLower:
		return strings.ToLower(s)
	case CaseUpper:
		return strings.ToUpper(s)
	default:
		return s
	}
}

// ValidatorOptions configures Validate's per-item pipeline, spec.md §6.3.
type ValidatorOptions struct {
	Cast  CastOptions
	Case  CaseMode // applied to uchar-primitive columns before casting

	EnumToBool     bool
	EnumTrueVocab  []string
	EnumFalseVocab []string

	AddCategoryInfo bool
	AddItemInfo     bool
}

// DefaultValidatorOptions matches DefaultCastOptions' vocabularies for
// EnumToBool's subset test.
func DefaultValidatorOptions() ValidatorOptions {
	return ValidatorOptions{
		Cast:            DefaultCastOptions(),
		Case:            CaseNone,
		EnumToBool:      true,
		EnumTrueVocab:   []string{"yes", "true", "y", "1"},
		EnumFalseVocab:  []string{"no", "false", "n", "0"},
		AddCategoryInfo: true,
		AddItemInfo:     true,
	}
}

// Validator validates cif structure views against a compiled Dictionary,
// spec.md §4.D / §6.3.
type Validator struct {
	Dict *Dictionary
	Opts ValidatorOptions
}

// NewValidator constructs a Validator bound to dict and opts.
func NewValidator(dict *Dictionary, opts ValidatorOptions) *Validator {
	return &Validator{Dict: dict, Opts: opts}
}

// ValidateFile runs ValidateBlock's checks over every block of f, spec.md §6.3.
func (v *Validator) ValidateFile(f *cif.File) *FindingTable {
	ft := &FindingTable{}
	for _, b := range f.Blocks() {
		v.validateBlockInto(b, ft)
	}
	return ft
}

// ValidateBlock runs Validate over a single block's direct categories
// and save frames.
func (v *Validator) ValidateBlock(b *cif.Block) *FindingTable {
	ft := &FindingTable{}
	v.validateBlockInto(b, ft)
	return ft
}

func (v *Validator) validateBlockInto(b *cif.Block, ft *FindingTable) {
	direct := b.Categories()
	v.checkMandatoryCategories(b.Code(), "", direct, ft)
	for _, cat := range direct {
		v.validateCategoryInto(b.Code(), "", cat, ft)
	}
	for _, fr := range b.Frames() {
		cats := fr.Categories()
		for _, cat := range cats {
			v.validateCategoryInto(b.Code(), fr.Code(), cat, ft)
		}
	}
}

// ValidateCategory runs the full per-item pipeline over a single
// category, replacing each successfully-cast item's column with its
// typed merged output, spec.md §4.D. block/frame are used only to
// stamp finding records with a logical address.
func (v *Validator) ValidateCategory(block, frame string, cat *cif.Category) *FindingTable {
	ft := &FindingTable{}
	v.validateCategoryInto(block, frame, cat, ft)
	return ft
}

func (v *Validator) checkMandatoryCategories(block, frame string, cats []*cif.Category, ft *FindingTable) {
	present := map[string]bool{}
	for _, c := range cats {
		present[c.Name()] = true
	}
	for _, catID := range v.Dict.MandatoryCategories {
		if !present[catID] {
			ft.add(&Finding{Kind: MissingCategory, Block: block, Frame: frame, Category: catID})
		}
	}
}

func (v *Validator) validateCategoryInto(block, frame string, cat *cif.Category, ft *FindingTable) {
	catDef, ok := v.Dict.Categories[cat.Name()]
	if !ok {
		ft.add(&Finding{Kind: UndefinedCategory, Block: block, Frame: frame, Category: cat.Name()})
		return
	}

	have := map[string]bool{}
	for _, kw := range cat.Keywords() {
		have[kw] = true
		itemName := catDef.ID + "." + kw
		if _, ok := v.Dict.Items[itemName]; !ok {
			ft.add(&Finding{Kind: UndefinedItem, Block: block, Frame: frame, Category: cat.Name(), Item: kw})
		}
	}
	for _, itemName := range catDef.MandatoryItems {
		it := v.Dict.Items[itemName]
		if it != nil && !have[it.Keyword] {
			ft.add(&Finding{Kind: MissingItem, Block: block, Frame: frame, Category: cat.Name(), Item: it.Keyword})
		}
	}

	byOutput := map[string][]namedPlan{}
	var outputOrder []string

	for _, kw := range cat.Keywords() {
		itemName := catDef.ID + "." + kw
		item, ok := v.Dict.Items[itemName]
		if !ok {
			continue
		}
		raw := append([]string(nil), cat.RawColumn(kw)...)
		present := make([]bool, len(raw))
		var missingRows []int
		for i, s := range raw {
			if s == "?" {
				if item.HasDefault {
					raw[i] = item.Default
					present[i] = true
				} else {
					present[i] = false
					missingRows = append(missingRows, i)
				}
			} else {
				present[i] = true
			}
		}
		if len(missingRows) > 0 {
			ft.add(&Finding{Kind: MissingValue, Block: block, Frame: frame, Category: cat.Name(), Item: kw, Rows: missingRows})
		}

		if item.TypeRegex != "" {
			re, err := compileConstruct(item.TypeRegex)
			if err == nil {
				var bad []int
				for i, s := range raw {
					if !present[i] || s == "." {
						continue
					}
					if !re.MatchString(s) {
						bad = append(bad, i)
					}
				}
				if len(bad) > 0 {
					ft.add(&Finding{Kind: RegexViolation, Block: block, Frame: frame, Category: cat.Name(), Item: kw, Rows: bad})
				}
			}
		}

		if item.TypePrimitive == PrimitiveUchar && v.Opts.Case != CaseNone {
			for i, s := range raw {
				if present[i] {
					raw[i] = v.Opts.Case.apply(s)
				}
			}
		}

		plans := castPlans(item.TypeCode, raw, present, v.Opts.Cast)

		if item.Enumeration != nil {
			v.applyEnum(item, plans, kw, block, frame, cat.Name(), ft)
		}

		if len(item.Range) > 0 {
			v.checkRange(item, plans, kw, block, frame, cat.Name(), ft)
		}

		for _, p := range plans {
			outName := p.outputName(kw)
			if _, seen := byOutput[outName]; !seen {
				outputOrder = append(outputOrder, outName)
			}
			byOutput[outName] = append(byOutput[outName], namedPlan{item: kw, plan: p})
		}
	}

	sort.Strings(outputOrder)
	for _, outName := range outputOrder {
		cands := byOutput[outName]
		sort.SliceStable(cands, func(i, j int) bool {
			iSelf := cands[i].item == outName
			jSelf := cands[j].item == outName
			return iSelf && !jSelf
		})
		merged, mismatchRows := mergeColumn(cands[0].item, cands)
		if len(mismatchRows) > 0 {
			ft.add(&Finding{Kind: AuxiliaryMismatch, Block: block, Frame: frame, Category: cat.Name(), Item: cands[0].item, Column: outName, Rows: mismatchRows})
		}
		cat.SetTypedColumn(outName, merged)
	}
}

// namedPlan pairs a cast plan with the keyword of the item that produced
// it, so merge (step 7 of the validator pipeline) can identify the
// self-producer of an output name.
type namedPlan struct {
	item string
	plan CastPlan
}

func mergeColumn(selfItem string, cands []namedPlan) (*table.Column, []int) {
	first := cands[0].plan
	out := &table.Column{
		Dtype:      first.Dtype,
		Container:  first.Container,
		ArrayLen:   first.ArrayLen,
		Cells:      append([]table.Cell(nil), first.Column...),
		Categories: first.Categories,
	}
	var mismatches []int
	for _, cand := range cands[1:] {
		for i, next := range cand.plan.Column {
			if i >= len(out.Cells) {
				out.Cells = append(out.Cells, next)
				continue
			}
			cur := out.Cells[i]
			if table.MergeNullish(out.Dtype, out.Container, cur) {
				out.Cells[i] = next
				continue
			}
			if table.MergeNullish(out.Dtype, out.Container, next) {
				continue
			}
			if !cellsEqual(out.Dtype, cur, next) {
				mismatches = append(mismatches, i)
			}
		}
	}
	return out, mismatches
}

func cellsEqual(dtype table.Dtype, a, b table.Cell) bool {
	if a.Null != b.Null {
		return false
	}
	if a.Null {
		return true
	}
	if len(a.Items) != len(b.Items) {
		return false
	}
	if a.Items != nil {
		for i := range a.Items {
			if !cellsEqual(dtype, a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	}
	switch dtype {
	case table.Float:
		return table.FloatEqual(a.Scalar.Float, b.Scalar.Float)
	case table.Int:
		return a.Scalar.Int == b.Scalar.Int
	case table.Bool:
		return a.Scalar.Bool == b.Scalar.Bool
	default:
		return a.Scalar.Str == b.Scalar.Str
	}
}

func (v *Validator) applyEnum(item *Item, plans []CastPlan, kw, block, frame, catName string, ft *FindingTable) {
	enumSet := map[string]bool{}
	for val := range item.Enumeration {
		enumSet[val] = true
	}
	toBool := v.Opts.EnumToBool && enumSubsetOfBoolVocab(enumSet, v.Opts.EnumTrueVocab, v.Opts.EnumFalseVocab)

	for i := range plans {
		p := &plans[i]
		if !p.Main {
			continue
		}
		var bad []int
		for row, cell := range p.Column {
			if !table.AllLeaf(cell, func(leaf table.Cell) bool {
				if table.ValidationNullish(p.Dtype, leaf) {
					return true
				}
				return enumSet[leaf.Scalar.Str]
			}) {
				bad = append(bad, row)
			}
		}
		if len(bad) > 0 {
			ft.add(&Finding{Kind: EnumViolation, Block: block, Frame: frame, Category: catName, Item: kw, Rows: bad})
			continue
		}
		if toBool {
			for row, cell := range p.Column {
				p.Column[row] = table.MapLeaf(cell, func(leaf table.Cell) table.Cell {
					return table.Cell{Scalar: table.Leaf{Bool: boolVocabMember(leaf.Scalar.Str, v.Opts.EnumTrueVocab)}}
				})
			}
			p.Dtype = table.Bool
		} else {
			cats := make([]string, 0, len(enumSet))
			for val := range enumSet {
				cats = append(cats, val)
			}
			sort.Strings(cats)
			p.Dtype = table.Categorical
			p.Categories = cats
		}
	}
}

func enumSubsetOfBoolVocab(enumSet map[string]bool, trueVocab, falseVocab []string) bool {
	for val := range enumSet {
		if !boolVocabMember(val, trueVocab) && !boolVocabMember(val, falseVocab) {
			return false
		}
	}
	return true
}

func boolVocabMember(s string, vocab []string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range vocab {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func (v *Validator) checkRange(item *Item, plans []CastPlan, kw, block, frame, catName string, ft *FindingTable) {
	for i := range plans {
		p := &plans[i]
		if !p.Main || (p.Dtype != table.Float && p.Dtype != table.Int) {
			continue
		}
		var bad []int
		for row, cell := range p.Column {
			if table.AnyLeaf(cell, func(leaf table.Cell) bool {
				if table.ValidationNullish(p.Dtype, leaf) {
					return false
				}
				return !inRanges(leafFloat(p.Dtype, leaf), item.Range)
			}) {
				bad = append(bad, row)
			}
		}
		if len(bad) > 0 {
			ft.add(&Finding{Kind: RangeViolation, Block: block, Frame: frame, Category: catName, Item: kw, Rows: bad})
		}
	}
}

func leafFloat(dtype table.Dtype, leaf table.Cell) float64 {
	if dtype == table.Int {
		return float64(leaf.Scalar.Int)
	}
	return leaf.Scalar.Float
}

// inRanges implements spec.md §4.D rule 6: union-of-intervals, both
// bounds exclusive, except lo==hi (non-null) tests equality; a nil bound
// is unbounded on that side.
func inRanges(v float64, ranges []Range) bool {
	for _, r := range ranges {
		if r.Lo != nil && r.Hi != nil && *r.Lo == *r.Hi {
			if v == *r.Lo {
				return true
			}
			continue
		}
		if r.Lo != nil && v <= *r.Lo {
			continue
		}
		if r.Hi != nil && v >= *r.Hi {
			continue
		}
		return true
	}
	return false
}
