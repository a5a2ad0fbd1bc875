package table

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColumn_NormalizesValues(t *testing.T) {
	col, err := NewColumn("n", Integer, []any{1, int64(2), nil})
	require.NoError(t, err)
	assert.Equal(t, int64(1), col.Value(0))
	assert.True(t, col.IsMissing(2))
	assert.Equal(t, 1, col.MissingCount())

	f, err := NewColumn("f", Float, []any{1.5, math.NaN(), math.Inf(1), 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2}, f.Floats())
	assert.Equal(t, 2, f.MissingCount())

	_, err = NewColumn("bad", Integer, []any{"x"})
	assert.Error(t, err)
}

func TestNew_RejectsDuplicateAndRaggedColumns(t *testing.T) {
	_, err := New(MustColumn("a", Text, "x"), MustColumn("a", Text, "y"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = New(MustColumn("a", Text, "x"), MustColumn("b", Text, "y", "z"))
	assert.ErrorContains(t, err, "rows")
}

func TestTable_Accessors(t *testing.T) {
	tbl := MustNew(
		MustColumn("subject", Text, "Math", "Physics", "Math"),
		MustColumn("grade", Float, 4.0, 3.0, 5.0),
	)
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumColumns())
	assert.False(t, tbl.IsEmpty())
	assert.Equal(t, []string{"subject", "grade"}, tbl.ColumnNames())
	assert.True(t, tbl.HasColumn("grade"))
	assert.False(t, tbl.HasColumn("age"))

	sub := tbl.Take([]int{2, 0})
	grade, ok := sub.Column("grade")
	require.True(t, ok)
	assert.Equal(t, []any{5.0, 4.0}, grade.Values())
	assert.Equal(t, 3, tbl.NumRows(), "source table must be untouched")

	recs := tbl.Records()
	assert.Equal(t, "Physics", recs[1]["subject"])
	assert.Equal(t, 3.0, recs[1]["grade"])
}

func TestTable_IsEmpty(t *testing.T) {
	assert.True(t, MustNew().IsEmpty())
	assert.True(t, MustNew(MustColumn("a", Text)).IsEmpty())
	var nilTable *Table
	assert.True(t, nilTable.IsEmpty())
}

func TestDistinct_NaturalOrder(t *testing.T) {
	nums := MustColumn("n", Integer, 10, 2, nil, 2, 1)
	assert.Equal(t, []any{int64(1), int64(2), int64(10)}, nums.Distinct())

	text := MustColumn("s", Text, "b", "a", "b")
	assert.Equal(t, []any{"a", "b"}, text.Distinct())

	bools := MustColumn("b", Boolean, true, false)
	assert.Equal(t, []any{false, true}, bools.Distinct())

	d1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d0 := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	dates := MustColumn("d", DateTime, d1, d0)
	assert.Equal(t, []any{d0, d1}, dates.Distinct())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "4.5", FormatValue(4.5))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "2024-01-02T00:00:00Z", FormatValue(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
}
