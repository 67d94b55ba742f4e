package ddl2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scinformatic/CIFFile/internal/table"
)

func allPresent(n int) []bool {
	p := make([]bool, n)
	for i := range p {
		p[i] = true
	}
	return p
}

func TestCastBoolean(t *testing.T) {
	raw := []string{"YES", "no", "Y", "n", "?"}
	present := []bool{true, true, true, true, false}
	plans := castPlans("boolean", raw, present, DefaultCastOptions())
	require.Len(t, plans, 1)
	col := plans[0].Column
	assert.Equal(t, true, col[0].Scalar.Bool)
	assert.Equal(t, false, col[1].Scalar.Bool)
	assert.Equal(t, true, col[2].Scalar.Bool)
	assert.Equal(t, false, col[3].Scalar.Bool)
	assert.True(t, col[4].Null)
}

func TestCastIntStrictRaises(t *testing.T) {
	raw := []string{"not a number"}
	assert.Panics(t, func() {
		castPlans("int", raw, allPresent(1), DefaultCastOptions())
	})
}

func TestCastIntLaxNulls(t *testing.T) {
	opts := DefaultCastOptions()
	opts.CastStrict = false
	plans := castPlans("int", []string{"nope", "42", "."}, []bool{true, true, true}, opts)
	col := plans[0].Column
	assert.True(t, col[0].Null)
	assert.Equal(t, int64(42), col[1].Scalar.Int)
	assert.True(t, col[2].Null)
}

func TestCastFloatWithESD(t *testing.T) {
	raw := []string{"1.23(4)", "5.0", "."}
	plans := castPlans("float", raw, allPresent(3), DefaultCastOptions())
	require.Len(t, plans, 2)
	main, esd := plans[0], plans[1]
	assert.True(t, main.Main)
	assert.Equal(t, "_esd_digits", esd.Suffix)
	assert.InDelta(t, 1.23, main.Column[0].Scalar.Float, 1e-9)
	assert.Equal(t, int64(4), esd.Column[0].Scalar.Int)
	assert.True(t, esd.Column[1].Null)
	assert.True(t, main.Column[2].Scalar.Float != main.Column[2].Scalar.Float) // NaN
}

func TestCastIntRange(t *testing.T) {
	plans := castPlans("int-range", []string{"1-5", "-3-2"}, allPresent(2), DefaultCastOptions())
	require.Len(t, plans, 1)
	p := plans[0]
	assert.Equal(t, table.Array, p.Container)
	assert.Equal(t, 2, p.ArrayLen)
	assert.Equal(t, int64(1), p.Column[0].Items[0].Scalar.Int)
	assert.Equal(t, int64(5), p.Column[0].Items[1].Scalar.Int)
}

func TestCastFloatRangeSignHandling(t *testing.T) {
	plans := castPlans("float-range", []string{"-3.5-2.5", "1.0(2)-2.0(3)", "4.0"}, allPresent(3), DefaultCastOptions())
	require.Len(t, plans, 2)
	main, esd := plans[0], plans[1]

	assert.InDelta(t, -3.5, main.Column[0].Items[0].Scalar.Float, 1e-9)
	assert.InDelta(t, 2.5, main.Column[0].Items[1].Scalar.Float, 1e-9)

	assert.InDelta(t, 1.0, main.Column[1].Items[0].Scalar.Float, 1e-9)
	assert.InDelta(t, 2.0, main.Column[1].Items[1].Scalar.Float, 1e-9)
	assert.Equal(t, int64(2), esd.Column[1].Items[0].Scalar.Int)
	assert.Equal(t, int64(3), esd.Column[1].Items[1].Scalar.Int)

	// missing second endpoint duplicates the first, including its absent ESD
	assert.InDelta(t, 4.0, main.Column[2].Items[0].Scalar.Float, 1e-9)
	assert.InDelta(t, 4.0, main.Column[2].Items[1].Scalar.Float, 1e-9)
	assert.True(t, esd.Column[2].Items[0].Null)
	assert.True(t, esd.Column[2].Items[1].Null)
}

func TestCastFloatRangeExponent(t *testing.T) {
	plans := castPlans("float-range", []string{"1.5e3-2.5e3"}, allPresent(1), DefaultCastOptions())
	require.Len(t, plans, 2)
	main := plans[0]
	assert.InDelta(t, 1500.0, main.Column[0].Items[0].Scalar.Float, 1e-9)
	assert.InDelta(t, 2500.0, main.Column[0].Items[1].Scalar.Float, 1e-9)
}

func TestCastDelimitedList(t *testing.T) {
	plans := castPlans("id_list", []string{"a,b,c", "."}, allPresent(2), DefaultCastOptions())
	require.Len(t, plans, 1)
	p := plans[0]
	assert.Equal(t, table.List, p.Container)
	require.Len(t, p.Column[0].Items, 3)
	assert.Equal(t, "b", p.Column[0].Items[1].Scalar.Str)
	assert.Empty(t, p.Column[1].Items)
}

func TestCastIntList(t *testing.T) {
	plans := castPlans("int_list", []string{"1,2,3"}, allPresent(1), DefaultCastOptions())
	items := plans[0].Column[0].Items
	require.Len(t, items, 3)
	assert.Equal(t, int64(2), items[1].Scalar.Int)
}

func TestCastIDListSpc(t *testing.T) {
	plans := castPlans("id_list_spc", []string{"a b  c"}, allPresent(1), DefaultCastOptions())
	items := plans[0].Column[0].Items
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[2].Scalar.Str)
}

func TestCastPartialDateYearNormalization(t *testing.T) {
	plans := castPlans("yyyy-mm-dd", []string{"99-01-02", "005-06-07", "105-06-07", "2024-03-04"}, allPresent(4), DefaultCastOptions())
	col := plans[0].Column
	assert.Equal(t, 2099, col[0].Scalar.Date.Year)
	assert.Equal(t, 2005, col[1].Scalar.Date.Year)
	assert.Equal(t, 1105, col[2].Scalar.Date.Year)
	assert.Equal(t, 2024, col[3].Scalar.Date.Year)
}

func TestCastPartialDateWithTimePromotesToDateTime(t *testing.T) {
	plans := castPlans("yyyy-mm-dd:hh:mm", []string{"2024-03-04:10:30"}, allPresent(1), DefaultCastOptions())
	p := plans[0]
	assert.Equal(t, table.DateTime, p.Dtype)
	assert.Equal(t, 10, p.Column[0].Scalar.DateTime.Time.Hour)
	assert.Equal(t, 30, p.Column[0].Scalar.DateTime.Time.Minute)
}

func TestCastPartialDateMissingTimeStaysDate(t *testing.T) {
	plans := castPlans("yyyy-mm-dd:hh:mm", []string{"2024-03-04"}, allPresent(1), DefaultCastOptions())
	p := plans[0]
	assert.Equal(t, table.Date, p.Dtype)
}

func TestCastMatrixTypesPanicAsReserved(t *testing.T) {
	assert.Panics(t, func() {
		castPlans("3x4_matrix", []string{"x"}, allPresent(1), DefaultCastOptions())
	})
}

func TestCastUnknownTypeCodePanics(t *testing.T) {
	assert.Panics(t, func() {
		castPlans("not-a-real-type", []string{"x"}, allPresent(1), DefaultCastOptions())
	})
}
