// Package ddl2 implements the DDL2 dictionary-driven validator, spec.md
// §4.D: per-item missing-value handling, construct checking, casting,
// enumeration/boolean conversion, range checking, and output merging
// over the string-cell categories produced by package cif.
//
// The per-item pipeline and cast-plan producers are grounded on
// original_source/pkg/src/ciffile/validation/ddl2/_validator.py and
// original_source/pkg/src/scifile/cif/validator/_ddl2.py; the dictionary
// shape matches spec.md §3's DDL2 Dictionary record.
package ddl2

// TypePrimitive is a DDL2 item's primitive classification, spec.md §3.
type TypePrimitive int

const (
	PrimitiveNumb TypePrimitive = iota
	PrimitiveChar
	PrimitiveUchar
)

func (p TypePrimitive) String() string {
	switch p {
	case PrimitiveNumb:
		return "numb"
	case PrimitiveChar:
		return "char"
	case PrimitiveUchar:
		return "uchar"
	default:
		return "primitive(?)"
	}
}

// Range is one interval of a numb item's permitted range; a nil Lo or Hi
// means unbounded on that side, spec.md §4.D rule 6.
type Range struct {
	Lo, Hi *float64
}

// Group is one node of a category's group hierarchy, SPEC_FULL.md §6.2.
type Group struct {
	ID          string
	Description string
	ParentID    string // "" if this is a root group
}

// Category is one DDL2 category definition, spec.md §3.
type Category struct {
	ID             string
	Description    string
	Mandatory      bool
	GroupIDs       []string
	Keys           []string // the category's natural key, one entry per key column
	MandatoryItems []string
	Groups         map[string]*Group
}

// ItemType is one named regex/detail type code, spec.md §3.
type ItemType struct {
	Code      string
	Primitive TypePrimitive
	Regex     string
	Detail    string
}

// Item is one DDL2 data item definition, spec.md §3.
type Item struct {
	Name         string // full dotted name, e.g. "atom_site.id"
	Category     string
	Keyword      string
	Mandatory    bool
	Default      string
	HasDefault   bool
	Enumeration  map[string]string // value -> description
	SubCategory  string
	TypeCode     string
	TypePrimitive TypePrimitive
	TypeRegex    string
	Range        []Range
	Units        string
}

// Dictionary is the normalized DDL2 validation input, spec.md §3.
type Dictionary struct {
	Categories map[string]*Category
	Items      map[string]*Item // keyed by full dotted name
	ItemTypes  map[string]*ItemType

	// MandatoryCategories is a derived index of category IDs with
	// Mandatory == true, spec.md §3's "derived index".
	MandatoryCategories []string

	// itemOrder preserves dictionary declaration order for ItemsOf.
	itemOrder []string
}

// ItemsOf returns every item defined under category catID, in the order
// they were inserted into the dictionary.
func (d *Dictionary) ItemsOf(catID string) []*Item {
	var out []*Item
	for _, name := range d.itemOrder {
		if it := d.Items[name]; it != nil && it.Category == catID {
			out = append(out, it)
		}
	}
	return out
}

// GroupTree reports the full parent chain of catID's groups, root-first,
// SPEC_FULL.md §6.2. Returns nil if the category has no groups or is
// undefined.
func (d *Dictionary) GroupTree(catID string) [][]*Group {
	cat, ok := d.Categories[catID]
	if !ok {
		return nil
	}
	var chains [][]*Group
	for _, gid := range cat.GroupIDs {
		chains = append(chains, d.chainFor(cat, gid))
	}
	return chains
}

func (d *Dictionary) chainFor(cat *Category, gid string) []*Group {
	var chain []*Group
	seen := map[string]bool{}
	for gid != "" && !seen[gid] {
		seen[gid] = true
		g, ok := cat.Groups[gid]
		if !ok {
			break
		}
		chain = append([]*Group{g}, chain...)
		gid = g.ParentID
	}
	return chain
}
