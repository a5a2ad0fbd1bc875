package viz

import (
	"goviz/domain/chart"
	"goviz/domain/core"
	"goviz/domain/table"
	"goviz/internal/aggregate"
	"goviz/internal/summary"
)

// kindBuilder produces the traces for one chart kind. It may adjust the
// layout prepared from the request.
type kindBuilder func(t *table.Table, req chart.Request, layout *chart.Layout) ([]chart.Trace, error)

func kindBuilders(style Style) map[chart.Kind]kindBuilder {
	return map[chart.Kind]kindBuilder{
		chart.KindBar:       buildBar,
		chart.KindLine:      buildLine,
		chart.KindScatter:   scatterBuilder(style.ScatterOpacity),
		chart.KindHistogram: buildHistogram,
		chart.KindBox:       buildBox,
		chart.KindHeatmap:   heatmapBuilder(style.HeatmapColorScale),
		chart.KindPie:       buildPie,
	}
}

// rowGroup is the set of rows sharing one color value.
type rowGroup struct {
	key  any
	rows []int
}

// groupRows partitions rows by the color column in natural key order. With
// no color column every row lands in a single unnamed group. Rows with a
// missing color value are left out.
func groupRows(t *table.Table, colorColumn string) []rowGroup {
	color, ok := t.Column(colorColumn)
	if colorColumn == "" || !ok {
		all := make([]int, t.NumRows())
		for i := range all {
			all[i] = i
		}
		return []rowGroup{{rows: all}}
	}

	index := make(map[string]int)
	var groups []rowGroup
	for i := 0; i < color.Len(); i++ {
		if color.IsMissing(i) {
			continue
		}
		k := color.Key(i)
		pos, ok := index[k]
		if !ok {
			pos = len(groups)
			index[k] = pos
			groups = append(groups, rowGroup{key: color.Value(i)})
		}
		groups[pos].rows = append(groups[pos].rows, i)
	}

	keys := make([]any, len(groups))
	for i, g := range groups {
		keys[i] = g.key
	}
	table.SortValues(keys)
	sorted := make([]rowGroup, len(groups))
	for i, k := range keys {
		sorted[i] = groups[index[table.FormatValue(k)]]
	}
	return sorted
}

// valuesAt returns the values of a column at the given rows.
func valuesAt(t *table.Table, column string, rows []int) []any {
	col, _ := t.Column(column)
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = col.Value(r)
	}
	return out
}

func groupName(key any) string {
	return table.FormatValue(key)
}

// rawTraces builds one trace per color group from unaggregated rows.
func rawTraces(t *table.Table, req chart.Request, kind chart.Kind, mode string) []chart.Trace {
	groups := groupRows(t, req.ColorColumn)
	traces := make([]chart.Trace, 0, len(groups))
	for _, g := range groups {
		traces = append(traces, chart.Trace{
			Kind:  kind,
			Role:  chart.RoleMain,
			Name:  groupName(g.key),
			Group: g.key,
			X:     valuesAt(t, req.XColumn, g.rows),
			Y:     valuesAt(t, req.YColumn, g.rows),
			Mode:  mode,
		})
	}
	return traces
}

// aggregatedTrace aggregates y by x and returns it as a single trace.
func aggregatedTrace(t *table.Table, req chart.Request, kind chart.Kind, mode string) ([]chart.Trace, error) {
	res, err := aggregate.Aggregate(t, req.XColumn, req.YColumn, req.AggFunc)
	if err != nil {
		return nil, err
	}
	return []chart.Trace{{
		Kind: kind,
		Role: chart.RoleMain,
		Name: req.YColumn,
		X:    res.Keys(),
		Y:    res.Values(),
		Mode: mode,
	}}, nil
}

// buildBar plots raw rows per color group, or the aggregation of y by x
// when no color column is set.
func buildBar(t *table.Table, req chart.Request, layout *chart.Layout) ([]chart.Trace, error) {
	if req.ColorColumn != "" {
		layout.BarMode = "relative"
		return rawTraces(t, req, chart.KindBar, ""), nil
	}
	return aggregatedTrace(t, req, chart.KindBar, "")
}

// buildLine is buildBar with markers at every point.
func buildLine(t *table.Table, req chart.Request, layout *chart.Layout) ([]chart.Trace, error) {
	const mode = "lines+markers"
	if req.ColorColumn != "" {
		return rawTraces(t, req, chart.KindLine, mode), nil
	}
	return aggregatedTrace(t, req, chart.KindLine, mode)
}

func scatterBuilder(opacity float64) kindBuilder {
	return func(t *table.Table, req chart.Request, layout *chart.Layout) ([]chart.Trace, error) {
		traces := rawTraces(t, req, chart.KindScatter, "markers")
		for i := range traces {
			traces[i].Opacity = opacity
		}
		return traces, nil
	}
}

// buildHistogram bins x per color group, overlaid, with a marginal box plot
// of each group drawn above the main plot. y is ignored.
func buildHistogram(t *table.Table, req chart.Request, layout *chart.Layout) ([]chart.Trace, error) {
	if req.XColumn == "" {
		return nil, core.NewMissingParameterError("histogram requires an X column")
	}
	if req.YLabel == "" {
		layout.YAxisLabel = "count"
	}
	if req.ColorColumn != "" {
		layout.BarMode = "overlay"
	}

	groups := groupRows(t, req.ColorColumn)
	traces := make([]chart.Trace, 0, 2*len(groups))
	for _, g := range groups {
		x := valuesAt(t, req.XColumn, g.rows)
		traces = append(traces, chart.Trace{
			Kind:  chart.KindHistogram,
			Role:  chart.RoleMain,
			Name:  groupName(g.key),
			Group: g.key,
			X:     x,
		})
	}
	for _, g := range groups {
		traces = append(traces, chart.Trace{
			Kind:  chart.KindBox,
			Role:  chart.RoleMarginal,
			Name:  groupName(g.key),
			Group: g.key,
			X:     valuesAt(t, req.XColumn, g.rows),
		})
	}
	return traces, nil
}

// buildBox draws one box per distinct x value from y, split by color group,
// with every raw point overlaid.
func buildBox(t *table.Table, req chart.Request, layout *chart.Layout) ([]chart.Trace, error) {
	traces := rawTraces(t, req, chart.KindBox, "")
	for i := range traces {
		traces[i].BoxPoints = "all"
	}
	return traces, nil
}

// heatmapBuilder pivots the values column over x (rows) and y (columns).
// The axis labels are deliberately swapped: the x axis, which shows the
// pivot columns, carries the Y label and vice versa.
func heatmapBuilder(colorScale string) kindBuilder {
	return func(t *table.Table, req chart.Request, layout *chart.Layout) ([]chart.Trace, error) {
		pt, err := aggregate.Pivot(t, req.XColumn, req.YColumn, req.ColorColumn, req.AggFunc)
		if err != nil {
			return nil, err
		}

		layout.XAxisLabel, layout.YAxisLabel = layout.YAxisLabel, layout.XAxisLabel

		return []chart.Trace{{
			Kind:       chart.KindHeatmap,
			Role:       chart.RoleMain,
			Name:       req.ColorColumn,
			X:          pt.Columns,
			Y:          pt.Rows,
			Z:          pt.Cells,
			ColorScale: colorScale,
		}}, nil
	}
}

// buildPie counts each distinct x value; y and color are ignored.
func buildPie(t *table.Table, req chart.Request, layout *chart.Layout) ([]chart.Trace, error) {
	if req.XColumn == "" {
		return nil, core.NewMissingParameterError("pie chart requires a category column")
	}
	col, _ := t.Column(req.XColumn)

	counts := summary.ValueCounts(col)
	labels := make([]any, len(counts))
	values := make([]any, len(counts))
	for i, vc := range counts {
		labels[i] = vc.Value
		values[i] = vc.Count
	}

	layout.XAxisLabel, layout.YAxisLabel = "", ""
	return []chart.Trace{{
		Kind: chart.KindPie,
		Role: chart.RoleMain,
		Name: req.XColumn,
		X:    labels,
		Y:    values,
	}}, nil
}
