// Package summary computes per-column descriptive statistics for arbitrary
// tables.
package summary

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"goviz/domain/core"
	domain "goviz/domain/summary"
	"goviz/domain/table"
)

const (
	// MaxTopValues caps the frequency table reported per categorical column.
	MaxTopValues = 10
	// TruncationThreshold is the distinct-value count above which a
	// categorical summary is flagged as truncated.
	TruncationThreshold = 20
)

// Summarize describes every column of t. A column whose statistics cannot be
// computed carries the failure in its own summary; the other columns are
// unaffected.
func Summarize(t *table.Table) domain.TableSummary {
	if t == nil {
		return domain.TableSummary{DataKind: domain.DataKindOther, Columns: []domain.ColumnSummary{}}
	}

	out := domain.TableSummary{
		RowCount:    t.NumRows(),
		ColumnCount: t.NumColumns(),
		DataKind:    DetectDataKind(t),
		Columns:     make([]domain.ColumnSummary, 0, t.NumColumns()),
	}
	for _, col := range t.Columns() {
		out.Columns = append(out.Columns, SummarizeColumn(col))
	}
	return out
}

// SummarizeColumn describes a single column.
func SummarizeColumn(col *table.Column) domain.ColumnSummary {
	cs := domain.ColumnSummary{
		Name:         col.Name,
		Type:         col.Type,
		MissingCount: col.MissingCount(),
	}

	if col.Type.IsNumeric() {
		cs.Kind = domain.KindNumeric
		numeric, err := NumericSummary(col)
		if err != nil {
			cs.Err = err
			cs.StatsError = err.Error()
			return cs
		}
		cs.Numeric = numeric
		return cs
	}

	cs.Kind = domain.KindCategorical
	cs.Categorical = CategoricalSummary(col)
	return cs
}

// NumericSummary computes min, max, mean, median and sample standard
// deviation over the non-missing values of col.
func NumericSummary(col *table.Column) (*domain.NumericStats, error) {
	data := stats.Float64Data(col.Floats())
	if data.Len() == 0 {
		return nil, core.NewInsufficientDataError("column " + col.Name + " has no non-missing values")
	}

	min, err := data.Min()
	if err != nil {
		return nil, err
	}
	max, err := data.Max()
	if err != nil {
		return nil, err
	}
	mean, err := data.Mean()
	if err != nil {
		return nil, err
	}
	median, err := data.Median()
	if err != nil {
		return nil, err
	}

	if !finite(mean) || !finite(median) {
		return nil, core.NewInsufficientDataError("statistics of column " + col.Name + " overflow float64")
	}

	ns := &domain.NumericStats{Min: min, Max: max, Mean: mean, Median: median}
	if data.Len() > 1 {
		sd, err := stats.StandardDeviationSample(data)
		if err != nil {
			return nil, err
		}
		if finite(sd) {
			ns.StdDev = &sd
		}
	}

	// Summation rounding can leave the mean just outside [min, max].
	ns.Mean = math.Max(ns.Min, math.Min(ns.Mean, ns.Max))
	return ns, nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// CategoricalSummary builds the frequency table of col. At most
// MaxTopValues entries are returned, most frequent first, ties kept in order
// of first appearance.
func CategoricalSummary(col *table.Column) *domain.CategoricalStats {
	counts := ValueCounts(col)

	top := counts
	if len(top) > MaxTopValues {
		top = top[:MaxTopValues]
	}

	return &domain.CategoricalStats{
		UniqueCount: len(counts),
		TopValues:   top,
		Truncated:   len(counts) > TruncationThreshold,
	}
}

// ValueCounts counts every distinct non-missing value of col, most frequent
// first, ties in order of first appearance.
func ValueCounts(col *table.Column) []domain.ValueCount {
	index := make(map[string]int)
	var counts []domain.ValueCount
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		key := col.Key(i)
		if pos, ok := index[key]; ok {
			counts[pos].Count++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, domain.ValueCount{Value: key, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if counts == nil {
		counts = []domain.ValueCount{}
	}
	return counts
}
