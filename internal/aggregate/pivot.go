package aggregate

import (
	"goviz/domain/chart"
	"goviz/domain/core"
	"goviz/domain/table"
)

// PivotTable is a two-dimensional aggregation. Cells[i][j] holds the value
// for Rows[i] and Columns[j], or nil when no value was observed for that
// combination.
type PivotTable struct {
	RowKey      string        `json:"row_key"`
	ColumnKey   string        `json:"column_key"`
	ValueColumn string        `json:"value_column"`
	Func        chart.AggFunc `json:"agg_func"`
	Rows        []any         `json:"rows"`
	Columns     []any         `json:"columns"`
	Cells       [][]*float64  `json:"cells"`
}

// Pivot builds a pivot table of t with rows keyed by rowKey, columns keyed
// by colKey and cells holding fn applied to valueColumn. Every failure is
// returned as a *core.PivotError.
func Pivot(t *table.Table, rowKey, colKey, valueColumn string, fn chart.AggFunc) (*PivotTable, error) {
	rowCol, valCol, err := resolve(t, fn, rowKey, colKey, valueColumn)
	if err != nil {
		return nil, core.NewPivotError(err)
	}
	colCol, _ := t.Column(colKey)

	rowBuckets := make(map[string]*bucket)
	colBuckets := make(map[string]*bucket)
	cells := make(map[[2]string]*bucket)

	for i := 0; i < t.NumRows(); i++ {
		if rowCol.IsMissing(i) || colCol.IsMissing(i) || valCol.IsMissing(i) {
			continue
		}
		rk, ck := rowCol.Key(i), colCol.Key(i)
		if _, ok := rowBuckets[rk]; !ok {
			rowBuckets[rk] = &bucket{key: rowCol.Value(i)}
		}
		if _, ok := colBuckets[ck]; !ok {
			colBuckets[ck] = &bucket{key: colCol.Value(i)}
		}
		cell, ok := cells[[2]string{rk, ck}]
		if !ok {
			cell = &bucket{}
			cells[[2]string{rk, ck}] = cell
		}
		accumulate(cell, valCol, i)
	}

	rows := sortedBuckets(rowBuckets)
	cols := sortedBuckets(colBuckets)

	pt := &PivotTable{
		RowKey:      rowKey,
		ColumnKey:   colKey,
		ValueColumn: valueColumn,
		Func:        fn,
		Rows:        make([]any, len(rows)),
		Columns:     make([]any, len(cols)),
		Cells:       make([][]*float64, len(rows)),
	}
	for j, c := range cols {
		pt.Columns[j] = c.key
	}
	for i, r := range rows {
		pt.Rows[i] = r.key
		pt.Cells[i] = make([]*float64, len(cols))
		rk := table.FormatValue(r.key)
		for j, c := range cols {
			if cell, ok := cells[[2]string{rk, table.FormatValue(c.key)}]; ok {
				pt.Cells[i][j] = apply(fn, cell)
			}
		}
	}
	return pt, nil
}
