package ddl2

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-sql/civil"

	"github.com/Scinformatic/CIFFile/internal/table"
)

// CastPlan is one output column a cast-plan producer emits, spec.md
// §4.D.1. Producers may emit more than one plan per item (e.g. float's
// main value plus its `_esd_digits` auxiliary); exactly one plan per
// producer is flagged Main, and the enumeration and range checks only
// test Main plans. Merge (step 7 of the validator pipeline) orders
// producers by whether the item's keyword equals the output name, not by
// this flag.
type CastPlan struct {
	Suffix     string
	Main       bool
	Dtype      table.Dtype
	Container  table.Container
	ArrayLen   int
	Column     []table.Cell
	Categories []string // set by the validator's enum step when Dtype becomes Categorical
}

// outputName is the merge key a plan contributes to: the item's keyword
// plus the plan's suffix.
func (p CastPlan) outputName(itemKeyword string) string { return itemKeyword + p.Suffix }

// DateOutputMode selects how the partial-date producers render their
// result, spec.md §4.D.1.
type DateOutputMode int

const (
	DateAuto DateOutputMode = iota
	DateOnly
	DateTimeOnly
)

// CastOptions configures every cast-plan producer, spec.md §6.3.
type CastOptions struct {
	CastStrict bool // int: invalid raises vs. lax (invalid -> null)

	BoolTrueWords      []string
	BoolFalseWords     []string
	BoolStrip          bool
	BoolCaseInsensitive bool

	ESDColSuffix string // default "_esd_digits"

	ListDelimiter byte // default ','
	ListTrim      bool

	DatetimeOutput DateOutputMode
}

// DefaultCastOptions matches the common DDL2 boolean vocabulary and list
// delimiter convention used throughout original_source's validator
// tests.
func DefaultCastOptions() CastOptions {
	return CastOptions{
		CastStrict:          true,
		BoolTrueWords:       []string{"yes", "y", "true", "1"},
		BoolFalseWords:      []string{"no", "n", "false", "0"},
		BoolStrip:           true,
		BoolCaseInsensitive: true,
		ESDColSuffix:        "_esd_digits",
		ListDelimiter:       ',',
		ListTrim:            true,
		DatetimeOutput:      DateAuto,
	}
}

// nullCell / inapplicable markers, spec.md §4.D.1: "." maps to the
// type-appropriate inapplicable marker (NaN for float, empty string for
// string-family, null for int/bool/date); every plan additionally
// preserves a genuinely null (missing-value-substituted) cell as null.

func isDot(s string, present bool) bool { return present && s == "." }

// castPlans dispatches on typeCode to the matching producer. Returns nil
// and panics with a *TypeError for an unrecognized or not-yet-supported
// code (3x4_matrix/3x4_matrices), matching spec.md §7's "unsupported
// dtype for a given type code" programmer-error case.
func castPlans(typeCode string, raw []string, present []bool, opts CastOptions) []CastPlan {
	switch typeCode {
	case "boolean":
		return []CastPlan{castBoolean(raw, present, opts)}
	case "int":
		return []CastPlan{castInt(raw, present, opts)}
	case "float":
		return castFloat(raw, present, opts)
	case "int-range":
		return []CastPlan{castIntRange(raw, present)}
	case "float-range":
		return castFloatRange(raw, present, opts)
	case "id_list", "entity_id_list", "ucode-alphanum-csv", "symmetry_operation":
		return []CastPlan{castDelimitedList(raw, present, opts, table.Str)}
	case "int_list":
		return []CastPlan{castDelimitedList(raw, present, opts, table.Int)}
	case "id_list_spc":
		return []CastPlan{castWhitespaceList(raw, present)}
	case "yyyy-mm-dd":
		return []CastPlan{castPartialDate(raw, present, opts, false)}
	case "yyyy-mm-dd:hh:mm", "yyyy-mm-dd:hh:mm-flex", "date_dep":
		return []CastPlan{castPartialDate(raw, present, opts, true)}
	case "3x4_matrix", "3x4_matrices":
		panicType("type code %q is reserved for future implementation (out of core scope)", typeCode)
		return nil
	default:
		panicType("no cast plan producer registered for type code %q", typeCode)
		return nil
	}
}

func boolMatches(s string, vocab []string, opts CastOptions) bool {
	if opts.BoolStrip {
		s = strings.TrimSpace(s)
	}
	for _, v := range vocab {
		if opts.BoolCaseInsensitive {
			if strings.EqualFold(s, v) {
				return true
			}
		} else if s == v {
			return true
		}
	}
	return false
}

func castBoolean(raw []string, present []bool, opts CastOptions) CastPlan {
	cells := make([]table.Cell, len(raw))
	for i, s := range raw {
		if !present[i] {
			cells[i] = table.NullCell()
			continue
		}
		switch {
		case isDot(s, present[i]):
			cells[i] = table.NullCell()
		case boolMatches(s, opts.BoolTrueWords, opts):
			cells[i] = table.Cell{Scalar: table.Leaf{Bool: true}}
		case boolMatches(s, opts.BoolFalseWords, opts):
			cells[i] = table.Cell{Scalar: table.Leaf{Bool: false}}
		default:
			cells[i] = table.NullCell()
		}
	}
	return CastPlan{Main: true, Dtype: table.Bool, Container: table.None, Column: cells}
}

func castInt(raw []string, present []bool, opts CastOptions) CastPlan {
	cells := make([]table.Cell, len(raw))
	for i, s := range raw {
		switch {
		case !present[i], isDot(s, present[i]):
			cells[i] = table.NullCell()
		default:
			v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				if opts.CastStrict {
					panicType("int cast: %q is not a valid integer", s)
				}
				cells[i] = table.NullCell()
				continue
			}
			cells[i] = table.Cell{Scalar: table.Leaf{Int: v}}
		}
	}
	return CastPlan{Main: true, Dtype: table.Int, Container: table.None, Column: cells}
}

var floatESDRe = regexp.MustCompile(`^([+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+))(?:\(([0-9]+)\))?([eE][+-]?[0-9]+)?$`)

func castFloat(raw []string, present []bool, opts CastOptions) []CastPlan {
	main := make([]table.Cell, len(raw))
	esd := make([]table.Cell, len(raw))
	for i, s := range raw {
		switch {
		case !present[i]:
			main[i] = table.NullCell()
			esd[i] = table.NullCell()
		case s == ".":
			main[i] = table.Cell{Scalar: table.Leaf{Float: math.NaN()}}
			esd[i] = table.NullCell()
		default:
			m := floatESDRe.FindStringSubmatch(strings.TrimSpace(s))
			if m == nil {
				panicType("float cast: %q does not match <mantissa>[(esd)][exp]", s)
			}
			mantissa := m[1] + m[3]
			f, err := strconv.ParseFloat(mantissa, 64)
			if err != nil {
				panicType("float cast: %q: %v", s, err)
			}
			main[i] = table.Cell{Scalar: table.Leaf{Float: f}}
			if m[2] != "" {
				d, _ := strconv.ParseInt(m[2], 10, 64)
				esd[i] = table.Cell{Scalar: table.Leaf{Int: d}}
			} else {
				esd[i] = table.NullCell()
			}
		}
	}
	return []CastPlan{
		{Main: true, Dtype: table.Float, Container: table.None, Column: main},
		{Suffix: opts.ESDColSuffix, Dtype: table.Int, Container: table.None, Column: esd},
	}
}

var intRangeRe = regexp.MustCompile(`^([+-]?[0-9]+)-([+-]?[0-9]+)$`)

func castIntRange(raw []string, present []bool) CastPlan {
	cells := make([]table.Cell, len(raw))
	for i, s := range raw {
		switch {
		case !present[i], isDot(s, present[i]):
			cells[i] = table.Cell{Items: []table.Cell{table.NullCell(), table.NullCell()}}
		default:
			m := intRangeRe.FindStringSubmatch(strings.TrimSpace(s))
			if m == nil {
				panicType("int-range cast: %q does not match <int>-<int>", s)
			}
			lo, _ := strconv.ParseInt(m[1], 10, 64)
			hi, _ := strconv.ParseInt(m[2], 10, 64)
			cells[i] = table.Cell{Items: []table.Cell{
				{Scalar: table.Leaf{Int: lo}}, {Scalar: table.Leaf{Int: hi}},
			}}
		}
	}
	return CastPlan{Main: true, Dtype: table.Int, Container: table.Array, ArrayLen: 2, Column: cells}
}

// numEsdRe matches one endpoint of a float-range per spec.md §4.D.1's
// `<num> = [-]?(digits [.] | [.] digits | digits [.] digits)[(<esd_digits>)][e-exp]`
// grammar: a signed mantissa that must contain a decimal point, optional
// parenthesized ESD digits, optional exponent — like floatESDRe above,
// except that floatESDRe also accepts a mantissa with no decimal point.
var numEsdRe = regexp.MustCompile(`^([+-]?(?:[0-9]+\.[0-9]*|\.[0-9]+))(?:\(([0-9]+)\))?([eE][+-]?[0-9]+)?$`)

func parseFloatEsdToken(tok string) (f float64, esd int64, hasESD bool, err error) {
	m := numEsdRe.FindStringSubmatch(tok)
	if m == nil {
		return 0, 0, false, strconv.ErrSyntax
	}
	f, err = strconv.ParseFloat(m[1]+m[3], 64)
	if err != nil {
		return 0, 0, false, err
	}
	if m[2] != "" {
		esd, _ = strconv.ParseInt(m[2], 10, 64)
		hasESD = true
	}
	return f, esd, hasESD, nil
}

func castFloatRange(raw []string, present []bool, opts CastOptions) []CastPlan {
	main := make([]table.Cell, len(raw))
	esd := make([]table.Cell, len(raw))
	for i, s := range raw {
		switch {
		case !present[i]:
			main[i] = table.Cell{Items: []table.Cell{table.NullCell(), table.NullCell()}}
			esd[i] = table.Cell{Items: []table.Cell{table.NullCell(), table.NullCell()}}
		case s == ".":
			nanCell := table.Cell{Scalar: table.Leaf{Float: math.NaN()}}
			main[i] = table.Cell{Items: []table.Cell{nanCell, nanCell}}
			esd[i] = table.Cell{Items: []table.Cell{table.NullCell(), table.NullCell()}}
		default:
			parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
			// A leading '-' on the first endpoint is part of its sign, not
			// a range separator; re-split skipping a leading sign char.
			trimmed := strings.TrimSpace(s)
			if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "+") {
				rest := trimmed[1:]
				if idx := strings.IndexAny(rest, "-"); idx >= 0 {
					parts = []string{trimmed[:idx+1], rest[idx+1:]}
				} else {
					parts = []string{trimmed}
				}
			}
			lof, loesd, loHas, err := parseFloatEsdToken(parts[0])
			if err != nil {
				panicType("float-range cast: %q: invalid first endpoint", s)
			}
			hif, hiesd, hiHas := lof, loesd, loHas
			if len(parts) == 2 {
				hif, hiesd, hiHas, err = parseFloatEsdToken(parts[1])
				if err != nil {
					panicType("float-range cast: %q: invalid second endpoint", s)
				}
			}
			main[i] = table.Cell{Items: []table.Cell{
				{Scalar: table.Leaf{Float: lof}}, {Scalar: table.Leaf{Float: hif}},
			}}
			loEsdCell, hiEsdCell := table.NullCell(), table.NullCell()
			if loHas {
				loEsdCell = table.Cell{Scalar: table.Leaf{Int: loesd}}
			}
			if hiHas {
				hiEsdCell = table.Cell{Scalar: table.Leaf{Int: hiesd}}
			}
			esd[i] = table.Cell{Items: []table.Cell{loEsdCell, hiEsdCell}}
		}
	}
	return []CastPlan{
		{Main: true, Dtype: table.Float, Container: table.Array, ArrayLen: 2, Column: main},
		{Suffix: opts.ESDColSuffix, Dtype: table.Int, Container: table.Array, ArrayLen: 2, Column: esd},
	}
}

func castDelimitedList(raw []string, present []bool, opts CastOptions, elemDtype table.Dtype) CastPlan {
	cells := make([]table.Cell, len(raw))
	sep := string(opts.ListDelimiter)
	for i, s := range raw {
		switch {
		case !present[i]:
			cells[i] = table.NullCell()
		case s == ".":
			cells[i] = table.Cell{Items: []table.Cell{}}
		default:
			toks := strings.Split(s, sep)
			items := make([]table.Cell, len(toks))
			for j, tok := range toks {
				if opts.ListTrim {
					tok = strings.TrimSpace(tok)
				}
				items[j] = elementCell(tok, elemDtype)
			}
			cells[i] = table.Cell{Items: items}
		}
	}
	return CastPlan{Main: true, Dtype: elemDtype, Container: table.List, Column: cells}
}

func castWhitespaceList(raw []string, present []bool) CastPlan {
	cells := make([]table.Cell, len(raw))
	for i, s := range raw {
		switch {
		case !present[i]:
			cells[i] = table.NullCell()
		case s == ".":
			cells[i] = table.Cell{Items: []table.Cell{}}
		default:
			toks := strings.Fields(s)
			items := make([]table.Cell, len(toks))
			for j, tok := range toks {
				items[j] = table.Cell{Scalar: table.Leaf{Str: tok}}
			}
			cells[i] = table.Cell{Items: items}
		}
	}
	return CastPlan{Main: true, Dtype: table.Str, Container: table.List, Column: cells}
}

func elementCell(tok string, dtype table.Dtype) table.Cell {
	if dtype == table.Int {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			panicType("int_list cast: %q is not a valid integer element", tok)
		}
		return table.Cell{Scalar: table.Leaf{Int: v}}
	}
	return table.Cell{Scalar: table.Leaf{Str: tok}}
}

// partialDateRe captures the y{2,4}[-m{1,2}[-d{1,2}]][:h{1,2}[:min{1,2}]]
// partial-date grammar; normalizeYear expands 2- and 3-digit years and
// keeps 4-digit years as written.
var partialDateRe = regexp.MustCompile(
	`^([0-9]{2,4})(?:-([0-9]{1,2})(?:-([0-9]{1,2}))?)?(?::([0-9]{1,2})(?::([0-9]{1,2}))?)?$`)

func normalizeYear(y string) int {
	switch len(y) {
	case 2:
		n, _ := strconv.Atoi(y)
		return 2000 + n
	case 3:
		prefix := "1"
		if y[0] == '0' {
			prefix = "2"
		}
		n, _ := strconv.Atoi(prefix + y)
		return n
	default:
		n, _ := strconv.Atoi(y)
		return n
	}
}

func castPartialDate(raw []string, present []bool, opts CastOptions, allowTime bool) CastPlan {
	cells := make([]table.Cell, len(raw))
	hasTime := false
	parsed := make([]*civil.DateTime, len(raw))
	for i, s := range raw {
		if !present[i] || s == "." {
			continue
		}
		m := partialDateRe.FindStringSubmatch(strings.TrimSpace(s))
		if m == nil {
			panicType("date cast: %q does not match the partial-date grammar", s)
		}
		year := normalizeYear(m[1])
		month := 1
		if m[2] != "" {
			month, _ = strconv.Atoi(m[2])
		}
		day := 1
		if m[3] != "" {
			day, _ = strconv.Atoi(m[3])
		}
		hour, minute := 0, 0
		if allowTime && m[4] != "" {
			hour, _ = strconv.Atoi(m[4])
			hasTime = true
		}
		if allowTime && m[5] != "" {
			minute, _ = strconv.Atoi(m[5])
		}
		dt := civil.DateTime{
			Date: civil.Date{Year: year, Month: time.Month(month), Day: day},
			Time: civil.Time{Hour: hour, Minute: minute},
		}
		parsed[i] = &dt
	}

	outDateTime := opts.DatetimeOutput == DateTimeOnly || (opts.DatetimeOutput == DateAuto && hasTime)
	if outDateTime {
		for i, p := range parsed {
			if p == nil {
				cells[i] = table.NullCell()
				continue
			}
			cells[i] = table.Cell{Scalar: table.Leaf{DateTime: *p}}
		}
		return CastPlan{Main: true, Dtype: table.DateTime, Container: table.None, Column: cells}
	}
	for i, p := range parsed {
		if p == nil {
			cells[i] = table.NullCell()
			continue
		}
		cells[i] = table.Cell{Scalar: table.Leaf{Date: p.Date}}
	}
	return CastPlan{Main: true, Dtype: table.Date, Container: table.None, Column: cells}
}
