package aggregate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goviz/domain/chart"
	"goviz/domain/core"
	"goviz/domain/table"
)

func scores() *table.Table {
	return table.MustNew(
		table.MustColumn("subject", table.Text, "Physics", "Math", "Math", "Physics", nil, "Chemistry"),
		table.MustColumn("course", table.Integer, 2, 1, 2, 2, 1, 1),
		table.MustColumn("grade", table.Float, 3.0, 4.0, 5.0, 4.0, 2.0, nil),
		table.MustColumn("name", table.Text, "a", "b", "c", "d", "e", "f"),
	)
}

func floatOf(t *testing.T, p *float64) float64 {
	t.Helper()
	require.NotNil(t, p)
	return *p
}

func TestAggregate_Functions(t *testing.T) {
	tests := []struct {
		fn   chart.AggFunc
		want map[string]*float64
	}{
		{chart.AggMean, map[string]*float64{"Chemistry": nil, "Math": ptr(4.5), "Physics": ptr(3.5)}},
		{chart.AggSum, map[string]*float64{"Chemistry": ptr(0), "Math": ptr(9), "Physics": ptr(7)}},
		{chart.AggCount, map[string]*float64{"Chemistry": ptr(0), "Math": ptr(2), "Physics": ptr(2)}},
		{chart.AggMin, map[string]*float64{"Chemistry": nil, "Math": ptr(4), "Physics": ptr(3)}},
		{chart.AggMax, map[string]*float64{"Chemistry": nil, "Math": ptr(5), "Physics": ptr(4)}},
	}

	for _, tt := range tests {
		t.Run(string(tt.fn), func(t *testing.T) {
			res, err := Aggregate(scores(), "subject", "grade", tt.fn)
			require.NoError(t, err)
			assert.Equal(t, []any{"Chemistry", "Math", "Physics"}, res.Keys(), "keys are sorted, missing keys dropped")
			for _, g := range res.Groups {
				want := tt.want[g.Key.(string)]
				if want == nil {
					assert.Nil(t, g.Value, g.Key)
					continue
				}
				assert.InDelta(t, *want, floatOf(t, g.Value), 1e-9, g.Key)
			}
		})
	}
}

func TestAggregate_NumericKeysSortNumerically(t *testing.T) {
	tbl := table.MustNew(
		table.MustColumn("k", table.Integer, 10, 9, 100, 9),
		table.MustColumn("v", table.Float, 1.0, 2.0, 3.0, 4.0),
	)
	res, err := Aggregate(tbl, "k", "v", chart.AggSum)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(9), int64(10), int64(100)}, res.Keys())
	assert.Equal(t, []any{6.0, 1.0, 3.0}, res.Values())
}

func TestAggregate_CountOnTextColumn(t *testing.T) {
	res, err := Aggregate(scores(), "course", "name", chart.AggCount)
	require.NoError(t, err)
	assert.Equal(t, []any{3.0, 3.0}, res.Values())
}

func TestAggregate_Errors(t *testing.T) {
	_, err := Aggregate(scores(), "missing", "grade", chart.AggMean)
	assert.True(t, errors.Is(err, core.ErrUnknownColumn))

	_, err = Aggregate(scores(), "subject", "missing", chart.AggMean)
	var unknown *core.UnknownColumnError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Column)

	_, err = Aggregate(scores(), "subject", "grade", chart.AggFunc("median"))
	assert.True(t, errors.Is(err, core.ErrUnsupportedAggregation))

	_, err = Aggregate(scores(), "subject", "name", chart.AggMean)
	assert.True(t, errors.Is(err, core.ErrNonNumericColumn))
}

func TestAggregate_Deterministic(t *testing.T) {
	first, err := Aggregate(scores(), "subject", "grade", chart.AggMean)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Aggregate(scores(), "subject", "grade", chart.AggMean)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPivot(t *testing.T) {
	pt, err := Pivot(scores(), "course", "subject", "grade", chart.AggMean)
	require.NoError(t, err)

	assert.Equal(t, []any{int64(1), int64(2)}, pt.Rows)
	assert.Equal(t, []any{"Math", "Physics"}, pt.Columns, "combinations with only missing values are not observed")
	require.Len(t, pt.Cells, 2)

	// course 1: Math 4.0, no Physics
	assert.InDelta(t, 4.0, floatOf(t, pt.Cells[0][0]), 1e-9)
	assert.Nil(t, pt.Cells[0][1], "missing combination is undefined, not zero")
	// course 2: Math 5.0, Physics mean(3, 4)
	assert.InDelta(t, 5.0, floatOf(t, pt.Cells[1][0]), 1e-9)
	assert.InDelta(t, 3.5, floatOf(t, pt.Cells[1][1]), 1e-9)
}

func TestPivot_WrapsFailures(t *testing.T) {
	_, err := Pivot(scores(), "course", "subject", "name", chart.AggMean)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrPivot))
	assert.True(t, errors.Is(err, core.ErrNonNumericColumn))

	_, err = Pivot(scores(), "course", "nope", "grade", chart.AggMean)
	assert.True(t, errors.Is(err, core.ErrPivot))
	assert.True(t, errors.Is(err, core.ErrUnknownColumn))

	_, err = Pivot(scores(), "course", "subject", "grade", chart.AggFunc("mode"))
	assert.True(t, errors.Is(err, core.ErrPivot))
	assert.True(t, errors.Is(err, core.ErrUnsupportedAggregation))
}

func ptr(v float64) *float64 { return &v }

func TestAggregate_OverflowIsUndefined(t *testing.T) {
	tbl := table.MustNew(
		table.MustColumn("g", table.Text, "a", "a", "b"),
		table.MustColumn("v", table.Float, 1e308, 1e308, 1.0),
	)

	res, err := Aggregate(tbl, "g", "v", chart.AggSum)
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)
	assert.Nil(t, res.Groups[0].Value, "sum beyond float64 range has no value")
	assert.Equal(t, 2, res.Groups[0].Count)
	assert.InDelta(t, 1.0, floatOf(t, res.Groups[1].Value), 1e-9)

	top, err := Aggregate(tbl, "g", "v", chart.AggMax)
	require.NoError(t, err)
	assert.Equal(t, 1e308, floatOf(t, top.Groups[0].Value))
}

func TestPivot_OverflowCellIsUndefined(t *testing.T) {
	tbl := table.MustNew(
		table.MustColumn("r", table.Text, "x", "x"),
		table.MustColumn("c", table.Text, "y", "y"),
		table.MustColumn("v", table.Float, -1e308, -1e308),
	)

	pt, err := Pivot(tbl, "r", "c", "v", chart.AggSum)
	require.NoError(t, err)
	require.Len(t, pt.Cells, 1)
	assert.Nil(t, pt.Cells[0][0])
}
