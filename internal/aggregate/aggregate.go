// Package aggregate groups table rows by key columns and reduces a value
// column within each group.
package aggregate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"goviz/domain/chart"
	"goviz/domain/core"
	"goviz/domain/table"
)

// Group is one row of an aggregation result. Value is nil when the
// aggregation is undefined for the group (mean, min or max of no values).
type Group struct {
	Key   any      `json:"key"`
	Value *float64 `json:"value"`
	Count int      `json:"count"`
}

// Result is the output of Aggregate, one group per distinct key in natural
// sorted order.
type Result struct {
	GroupBy     string        `json:"group_by"`
	ValueColumn string        `json:"value_column"`
	Func        chart.AggFunc `json:"agg_func"`
	Groups      []Group       `json:"groups"`
}

// Keys returns the group keys in result order.
func (r *Result) Keys() []any {
	keys := make([]any, len(r.Groups))
	for i, g := range r.Groups {
		keys[i] = g.Key
	}
	return keys
}

// Values returns the aggregated values in result order, with nil for
// undefined groups.
func (r *Result) Values() []any {
	values := make([]any, len(r.Groups))
	for i, g := range r.Groups {
		if g.Value != nil {
			values[i] = *g.Value
		}
	}
	return values
}

// bucket accumulates the rows sharing one key.
type bucket struct {
	key    any
	values []float64
	count  int
}

// Aggregate groups t by groupBy and applies fn to valueColumn within each
// group. Rows whose key is missing are dropped. count works for any value
// column; the other functions need a numeric one.
func Aggregate(t *table.Table, groupBy, valueColumn string, fn chart.AggFunc) (*Result, error) {
	keyCol, valCol, err := resolve(t, fn, groupBy, valueColumn)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*bucket)
	for i := 0; i < t.NumRows(); i++ {
		if keyCol.IsMissing(i) {
			continue
		}
		k := keyCol.Key(i)
		b, ok := buckets[k]
		if !ok {
			b = &bucket{key: keyCol.Value(i)}
			buckets[k] = b
		}
		accumulate(b, valCol, i)
	}

	ordered := sortedBuckets(buckets)
	res := &Result{
		GroupBy:     groupBy,
		ValueColumn: valueColumn,
		Func:        fn,
		Groups:      make([]Group, len(ordered)),
	}
	for i, b := range ordered {
		res.Groups[i] = Group{Key: b.key, Value: apply(fn, b), Count: b.count}
	}
	return res, nil
}

// resolve checks that every column exists, that fn is supported and that
// the value column (the last name) can be reduced with fn.
func resolve(t *table.Table, fn chart.AggFunc, names ...string) (*table.Column, *table.Column, error) {
	if t == nil {
		return nil, nil, core.ErrEmptyData
	}
	cols := make([]*table.Column, len(names))
	for i, name := range names {
		col, ok := t.Column(name)
		if !ok {
			return nil, nil, core.NewUnknownColumnError(name, t.ColumnNames())
		}
		cols[i] = col
	}
	if !fn.Valid() {
		return nil, nil, core.NewUnsupportedAggregationError(string(fn))
	}
	valCol := cols[len(cols)-1]
	if fn != chart.AggCount && !valCol.Type.IsNumeric() {
		return nil, nil, core.NewNonNumericColumnError(valCol.Name, string(fn))
	}
	return cols[0], valCol, nil
}

func accumulate(b *bucket, valCol *table.Column, row int) {
	if valCol.IsMissing(row) {
		return
	}
	b.count++
	if f, ok := valCol.Float(row); ok {
		b.values = append(b.values, f)
	}
}

func sortedBuckets(buckets map[string]*bucket) []*bucket {
	out := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		c := table.Compare(out[i].key, out[j].key)
		if c == 0 {
			return table.FormatValue(out[i].key) < table.FormatValue(out[j].key)
		}
		return c < 0
	})
	return out
}

// apply reduces the bucket with fn. The caller has already validated fn.
func apply(fn chart.AggFunc, b *bucket) *float64 {
	var v float64
	switch fn {
	case chart.AggCount:
		v = float64(b.count)
	case chart.AggSum:
		v = floats.Sum(b.values)
	case chart.AggMean:
		if len(b.values) == 0 {
			return nil
		}
		v = stat.Mean(b.values, nil)
	case chart.AggMin:
		if len(b.values) == 0 {
			return nil
		}
		v = floats.Min(b.values)
	case chart.AggMax:
		if len(b.values) == 0 {
			return nil
		}
		v = floats.Max(b.values)
	default:
		return nil
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
