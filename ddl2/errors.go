package ddl2

import "fmt"

// FindingKind is the validator's finding taxonomy, spec.md §6.3.
type FindingKind int

const (
	UndefinedCategory FindingKind = iota
	UndefinedItem
	MissingCategory
	MissingItem
	MissingValue
	RegexViolation
	EnumViolation
	RangeViolation
	AuxiliaryMismatch
)

func (k FindingKind) String() string {
	switch k {
	case UndefinedCategory:
		return "undefined_category"
	case UndefinedItem:
		return "undefined_item"
	case MissingCategory:
		return "missing_category"
	case MissingItem:
		return "missing_item"
	case MissingValue:
		return "missing_value"
	case RegexViolation:
		return "regex_violation"
	case EnumViolation:
		return "enum_violation"
	case RangeViolation:
		return "range_violation"
	case AuxiliaryMismatch:
		return "auxiliary_mismatch"
	default:
		return fmt.Sprintf("finding(%d)", int(k))
	}
}

// Finding is one validator finding record, spec.md §6.3: `{type, block,
// frame, category, item, column, rows}`.
type Finding struct {
	Kind     FindingKind
	Block    string
	Frame    string
	Category string
	Item     string
	Column   string
	Rows     []int // nil when the finding isn't row-scoped (e.g. missing_category)
}

func (f *Finding) String() string {
	if len(f.Rows) == 0 {
		return fmt.Sprintf("%s: %s/%s/%s.%s", f.Kind, f.Block, f.Frame, f.Category, f.Item)
	}
	return fmt.Sprintf("%s: %s/%s/%s.%s rows=%v", f.Kind, f.Block, f.Frame, f.Category, f.Item, f.Rows)
}

// FindingTable collects every finding from a Validate call, preserving
// discovery order (spec.md §5's ordering guarantee extended to the
// validator's own findings).
type FindingTable struct {
	Findings []*Finding
}

func (ft *FindingTable) add(f *Finding) { ft.Findings = append(ft.Findings, f) }

// OfKind filters the table to findings of a single kind.
func (ft *FindingTable) OfKind(k FindingKind) []*Finding {
	var out []*Finding
	for _, f := range ft.Findings {
		if f.Kind == k {
			out = append(out, f)
		}
	}
	return out
}

// TypeError is a programmer-level precondition violation (an unsupported
// dtype for a given type code, a dictionary inconsistency): it is raised
// immediately rather than collected, per spec.md §7's "bug-level
// preconditions raise immediately as programmer errors distinct from
// data errors".
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string { return "ddl2: " + e.Message }

func panicType(format string, v ...interface{}) {
	panic(&TypeError{Message: fmt.Sprintf(format, v...)})
}
