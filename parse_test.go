package cif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string, opts ParseOptions) (*FlatTable, *ParseErrors) {
	t.Helper()
	toks := Tokenize([]byte(src))
	table, errs := Parse(toks, opts)
	return table, errs
}

func TestParseSingleItems(t *testing.T) {
	table, errs := mustParse(t, "data_1CTF\n_entry.id 1ctf\n_entry.name 'andrew''s pet'\n", ParseOptions{Variant: VariantMMCIF})
	require.True(t, errs.Empty())
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "1CTF", table.Rows[0].BlockCode)
	assert.Equal(t, "entry", table.Rows[0].Category)
	assert.Equal(t, "id", table.Rows[0].Keyword)
	assert.Equal(t, []string{"1ctf"}, table.Rows[0].Values)
	assert.Equal(t, 0, table.Rows[0].LoopID)

	assert.Equal(t, "name", table.Rows[1].Keyword)
	assert.Equal(t, []string{"andrew''s pet"}, table.Rows[1].Values)
}

func TestParseLoop(t *testing.T) {
	src := "data_x\nloop_\n_atom_site.id\n_atom_site.type\n1 C\n2 N\n3 O\n"
	table, errs := mustParse(t, src, ParseOptions{Variant: VariantMMCIF})
	require.True(t, errs.Empty())
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "2", "3"}, table.Rows[0].Values)
	assert.Equal(t, []string{"C", "N", "O"}, table.Rows[1].Values)
	assert.Equal(t, table.Rows[0].LoopID, table.Rows[1].LoopID)
	assert.NotZero(t, table.Rows[0].LoopID)
}

func TestParseSaveFrame(t *testing.T) {
	src := "data_abcd\nsave_wat\n_entry.id .\n_entry.name .\nsave_\n"
	table, errs := mustParse(t, src, ParseOptions{Variant: VariantMMCIF})
	require.True(t, errs.Empty())
	require.Len(t, table.Rows, 2)
	for _, r := range table.Rows {
		assert.True(t, r.HasFrame)
		assert.Equal(t, "wat", r.FrameCode)
	}
}

func TestParseDuplicateBlockCode(t *testing.T) {
	_, errs := mustParse(t, "data_x\n_a.b 1\ndata_x\n_a.b 2\n", ParseOptions{Variant: VariantMMCIF})
	require.False(t, errs.Empty())
	found := false
	for _, e := range errs.Errs {
		if e.Kind == ErrBlockCodeDuplicate {
			found = true
		}
	}
	assert.True(t, found)
	assert.Equal(t, SeverityInvalid, errs.MaxSeverity())
}

func TestParseDuplicateDataName(t *testing.T) {
	_, errs := mustParse(t, "data_x\n_a.b 1\n_a.b 2\n", ParseOptions{Variant: VariantMMCIF})
	require.False(t, errs.Empty())
	assert.Equal(t, ErrDataNameDuplicate, errs.Errs[0].Kind)
}

func TestParseIncompleteLoopTable(t *testing.T) {
	_, errs := mustParse(t, "data_x\nloop_\n_a.x\n_a.y\n1 2 3\n", ParseOptions{Variant: VariantMMCIF})
	require.False(t, errs.Empty())
	assert.Equal(t, ErrTableIncomplete, errs.Errs[0].Kind)
}

func TestParseCIF1SingleItemUsesTagAsCategory(t *testing.T) {
	table, errs := mustParse(t, "data_x\n_entry_id 1ctf\n", ParseOptions{Variant: VariantCIF1})
	require.True(t, errs.Empty())
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "entry_id", table.Rows[0].Category)
	assert.Equal(t, "entry_id", table.Rows[0].Keyword)
}

func TestParseCIF1LoopSyntheticCategory(t *testing.T) {
	table, errs := mustParse(t, "data_x\nloop_\n_a\n_b\n1 2\n3 4\n", ParseOptions{Variant: VariantCIF1})
	require.True(t, errs.Empty())
	require.Len(t, table.Rows, 2)
	assert.Equal(t, table.Rows[0].Category, table.Rows[1].Category)
	assert.Contains(t, table.Rows[0].Category, "#")
}

func TestParseMissingCategorySeparator(t *testing.T) {
	_, errs := mustParse(t, "data_x\n_nodothere 1\n", ParseOptions{Variant: VariantMMCIF})
	require.False(t, errs.Empty())
	assert.Equal(t, ErrDataNameMissingCategory, errs.Errs[0].Kind)
}

func TestParseLoopNamedIsMalformedHeader(t *testing.T) {
	_, errs := mustParse(t, "data_x\nloop_y\n_a.b\n1\n", ParseOptions{Variant: VariantMMCIF})
	require.False(t, errs.Empty())
	assert.Equal(t, ErrLoopNamed, errs.Errs[0].Kind)
}

func TestParseCaseNormalization(t *testing.T) {
	table, errs := mustParse(t, "DATA_Foo\n_Entry.ID 1\n", ParseOptions{Variant: VariantMMCIF, CaseNormalization: CaseLower})
	require.True(t, errs.Empty())
	assert.Equal(t, "foo", table.Rows[0].BlockCode)
	assert.Equal(t, "entry", table.Rows[0].Category)
	assert.Equal(t, "id", table.Rows[0].Keyword)
}

func TestReadRaisesOnSeverity(t *testing.T) {
	_, err := ReadString("data_x\n_a.b 1\ndata_x\n_a.b 2\n", ReadOptions{
		Variant:    VariantMMCIF,
		RaiseLevel: SeverityInvalid,
	})
	require.Error(t, err)
	var re *ReadError
	require.ErrorAs(t, err, &re)
}

func TestReadToleratesBelowRaiseLevel(t *testing.T) {
	f, err := ReadString("data_x\n_a.b 1\ndata_x\n_a.b 2\n", ReadOptions{
		Variant:    VariantMMCIF,
		RaiseLevel: SeverityAmbiguous,
	})
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.False(t, f.Errors().Empty())
}
