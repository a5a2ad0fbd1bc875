// Package filter narrows a table to the rows matching a set of column
// filters before it is summarized or charted.
package filter

import (
	"goviz/domain/chart"
	"goviz/domain/table"
)

// Apply returns the rows of t that satisfy every filter. Numeric columns
// are filtered by range, other columns by membership or exact match.
// Filters on columns t does not have, or that do not fit the column type,
// are ignored. Missing values never match.
func Apply(t *table.Table, filters []chart.Filter) *table.Table {
	if t == nil || len(filters) == 0 {
		return t
	}

	var preds []func(row int) bool
	for _, f := range filters {
		col, ok := t.Column(f.Column)
		if !ok {
			continue
		}
		if p := predicate(col, f); p != nil {
			preds = append(preds, p)
		}
	}
	if len(preds) == 0 {
		return t
	}

	rows := make([]int, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		if matchAll(preds, r) {
			rows = append(rows, r)
		}
	}
	return t.Take(rows)
}

func matchAll(preds []func(int) bool, row int) bool {
	for _, p := range preds {
		if !p(row) {
			return false
		}
	}
	return true
}

// predicate returns the row test for f, or nil when f does not apply to col.
func predicate(col *table.Column, f chart.Filter) func(int) bool {
	if col.Type.IsNumeric() {
		if f.Min == nil && f.Max == nil {
			return nil
		}
		return func(row int) bool {
			v, ok := col.Float(row)
			if !ok {
				return false
			}
			if f.Min != nil && v < *f.Min {
				return false
			}
			return f.Max == nil || v <= *f.Max
		}
	}

	switch {
	case f.In != nil:
		allowed := make(map[string]bool, len(f.In))
		for _, v := range f.In {
			allowed[v] = true
		}
		return func(row int) bool {
			return !col.IsMissing(row) && allowed[col.Key(row)]
		}
	case f.Equals != nil:
		want := *f.Equals
		return func(row int) bool {
			return !col.IsMissing(row) && col.Key(row) == want
		}
	}
	return nil
}
