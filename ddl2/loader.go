package ddl2

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Scinformatic/CIFFile"
)

// LoadDictionary compiles a parsed DDL2 dictionary file into the
// normalized Dictionary of spec.md §3, spec.md §6.3's `load_dictionary`.
// It walks the block-direct global lists (category_group_list,
// item_type_list) plus the per-category frames (dict_cat: frame code
// with no dot) and per-item frames (dict_key: frame code with a dot),
// grounded on original_source/pkg/src/ciffile/validator/_ddl2_gen.py's
// real-DDL2 category layout (category/category_group/category_key inside
// a category frame; item/item_enumeration/item_range/item_units/
// item_sub_category inside an item frame).
func LoadDictionary(f *cif.File) (*Dictionary, error) {
	blocks := f.Blocks()
	if len(blocks) == 0 {
		return nil, fmt.Errorf("ddl2: dictionary file has no data block")
	}
	block := blocks[0]

	d := &Dictionary{
		Categories: map[string]*Category{},
		Items:      map[string]*Item{},
		ItemTypes:  map[string]*ItemType{},
	}

	groupPool := map[string]*Group{}
	for _, cat := range block.Categories() {
		switch cat.Name() {
		case "category_group_list":
			loadGroupList(groupPool, cat)
		case "item_type_list":
			loadItemTypeList(d, cat)
		}
	}

	for _, fr := range block.Frames() {
		code := fr.Code()
		if strings.Contains(code, ".") {
			loadItemFrame(d, code, fr)
		} else {
			loadCategoryFrame(d, code, fr, groupPool)
		}
	}

	for _, it := range d.Items {
		if !it.Mandatory {
			continue
		}
		if c, ok := d.Categories[it.Category]; ok {
			c.MandatoryItems = append(c.MandatoryItems, it.Name)
		}
	}

	for id, c := range d.Categories {
		if c.Mandatory {
			d.MandatoryCategories = append(d.MandatoryCategories, id)
		}
	}
	sort.Strings(d.MandatoryCategories)

	return d, nil
}

func catByName(fr *cif.Frame, name string) *cif.Category {
	for _, c := range fr.Categories() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func cellAt(c *cif.Category, keyword string, row int) (string, bool) {
	if c == nil {
		return "", false
	}
	vals := c.RawColumn(keyword)
	if row < 0 || row >= len(vals) {
		return "", false
	}
	v := vals[row]
	if v == "?" || v == "." {
		return "", false
	}
	return v, true
}

// loadGroupList parses the block-direct category_group_list loop into
// pool, keyed by group id; loadCategoryFrame looks group definitions up
// from this shared pool as it assigns each category's own group_ids.
func loadGroupList(pool map[string]*Group, cat *cif.Category) {
	ids := cat.RawColumn("id")
	descs := cat.RawColumn("description")
	parents := cat.RawColumn("parent_id")
	for i := range ids {
		g := &Group{ID: strings.ToLower(ids[i])}
		if i < len(descs) {
			g.Description = strings.TrimSpace(descs[i])
		}
		if i < len(parents) && parents[i] != "." && parents[i] != "?" {
			g.ParentID = strings.ToLower(parents[i])
		}
		pool[g.ID] = g
	}
}

func loadItemTypeList(d *Dictionary, cat *cif.Category) {
	codes := cat.RawColumn("code")
	primitives := cat.RawColumn("primitive_code")
	constructs := cat.RawColumn("construct")
	details := cat.RawColumn("detail")
	for i := range codes {
		it := &ItemType{Code: codes[i]}
		if i < len(primitives) {
			it.Primitive = parsePrimitive(primitives[i])
		}
		if i < len(constructs) {
			it.Regex = constructs[i]
		}
		if i < len(details) {
			it.Detail = details[i]
		}
		d.ItemTypes[it.Code] = it
	}
}

func parsePrimitive(s string) TypePrimitive {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numb":
		return PrimitiveNumb
	case "uchar":
		return PrimitiveUchar
	default:
		return PrimitiveChar
	}
}

func loadCategoryFrame(d *Dictionary, code string, fr *cif.Frame, groupPool map[string]*Group) {
	catCat := catByName(fr, "category")
	if catCat == nil {
		return
	}
	id, ok := cellAt(catCat, "id", 0)
	if !ok {
		id = code
	}
	id = strings.ToLower(id)
	c := &Category{ID: id, Groups: map[string]*Group{}}
	if desc, ok := cellAt(catCat, "description", 0); ok {
		c.Description = strings.TrimSpace(desc)
	}
	if mc, ok := cellAt(catCat, "mandatory_code", 0); ok {
		c.Mandatory = strings.EqualFold(mc, "yes")
	}
	if grp := catByName(fr, "category_group"); grp != nil {
		for _, gid := range grp.RawColumn("id") {
			gid = strings.ToLower(gid)
			c.GroupIDs = append(c.GroupIDs, gid)
			if g, ok := groupPool[gid]; ok {
				c.Groups[gid] = g
			}
		}
	}
	if key := catByName(fr, "category_key"); key != nil {
		for _, name := range key.RawColumn("name") {
			c.Keys = append(c.Keys, strings.ToLower(stripLeadingUnderscore(name)))
		}
	}
	d.Categories[id] = c
}

func loadItemFrame(d *Dictionary, code string, fr *cif.Frame) {
	itemCat := catByName(fr, "item")
	if itemCat == nil {
		return
	}
	name, ok := cellAt(itemCat, "name", 0)
	if !ok {
		name = stripLeadingUnderscore(code)
	}
	name = strings.ToLower(stripLeadingUnderscore(name))
	dotIdx := strings.IndexByte(name, '.')
	it := &Item{Name: name}
	if dotIdx > 0 {
		it.Category = name[:dotIdx]
		it.Keyword = name[dotIdx+1:]
	} else {
		it.Category = name
		it.Keyword = name
	}
	if catID, ok := cellAt(itemCat, "category_id", 0); ok {
		it.Category = strings.ToLower(catID)
	}
	if mc, ok := cellAt(itemCat, "mandatory_code", 0); ok {
		it.Mandatory = strings.EqualFold(mc, "yes")
	}

	if def := catByName(fr, "item_default"); def != nil {
		if v, ok := cellAt(def, "value", 0); ok {
			it.Default = v
			it.HasDefault = true
		}
	}
	if sub := catByName(fr, "item_sub_category"); sub != nil {
		if v, ok := cellAt(sub, "id", 0); ok {
			it.SubCategory = v
		}
	}
	if enum := catByName(fr, "item_enumeration"); enum != nil {
		values := enum.RawColumn("value")
		details := enum.RawColumn("detail")
		if len(values) > 0 {
			it.Enumeration = map[string]string{}
			for i, v := range values {
				det := ""
				if i < len(details) {
					det = details[i]
				}
				it.Enumeration[v] = det
			}
		}
	}
	if rng := catByName(fr, "item_range"); rng != nil {
		mins := rng.RawColumn("minimum")
		maxs := rng.RawColumn("maximum")
		for i := 0; i < len(mins) || i < len(maxs); i++ {
			r := Range{}
			if i < len(mins) {
				r.Lo = parseRangeBound(mins[i])
			}
			if i < len(maxs) {
				r.Hi = parseRangeBound(maxs[i])
			}
			it.Range = append(it.Range, r)
		}
	}
	if typ := catByName(fr, "item_type"); typ != nil {
		if code, ok := cellAt(typ, "code", 0); ok {
			it.TypeCode = code
			if t, ok := d.ItemTypes[code]; ok {
				it.TypePrimitive = t.Primitive
				it.TypeRegex = t.Regex
			}
		}
	}

	d.Items[it.Name] = it
	d.itemOrder = append(d.itemOrder, it.Name)
}

func parseRangeBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == "?" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func stripLeadingUnderscore(s string) string {
	return strings.TrimPrefix(s, "_")
}
