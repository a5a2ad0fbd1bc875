package viz

import (
	"goviz/domain/chart"
	"goviz/domain/core"
	"goviz/domain/table"
	"goviz/internal/summary"
)

const (
	dashboardTitle    = "Data analysis dashboard"
	dashboardTopCount = 10
	// boxSplitLimit is the distinct-value count below which the box panel is
	// split by the second categorical column.
	boxSplitLimit = 10
)

// Dashboard builds the four overview panels for t: a histogram of the first
// numeric column, a scatter of the first two numeric columns, a bar of the
// most frequent values of the first categorical column and a box plot of
// the first numeric column. The scatter panel is left out when t has only
// one numeric column.
func (b *Builder) Dashboard(t *table.Table) (chart.Dashboard, error) {
	if t.IsEmpty() {
		return chart.Dashboard{}, core.ErrEmptyData
	}

	var numeric, categorical []*table.Column
	for _, col := range t.Columns() {
		switch {
		case col.Type.IsNumeric():
			numeric = append(numeric, col)
		case col.Type == table.Text:
			categorical = append(categorical, col)
		}
	}
	if len(numeric) == 0 || len(categorical) == 0 {
		return chart.Dashboard{}, core.NewInsufficientDataError("dashboard needs at least one numeric and one categorical column")
	}

	first := numeric[0]
	panels := []chart.Spec{
		b.Build(t, chart.Request{Kind: chart.KindHistogram, XColumn: first.Name, Title: "Histogram"}),
	}

	if len(numeric) >= 2 {
		panels = append(panels, b.Build(t, chart.Request{
			Kind:    chart.KindScatter,
			XColumn: first.Name,
			YColumn: numeric[1].Name,
			Title:   "Scatter",
		}))
	}

	panels = append(panels, b.topValuesPanel(categorical[0]))

	if len(categorical) >= 2 && len(categorical[1].Distinct()) < boxSplitLimit {
		panels = append(panels, b.Build(t, chart.Request{
			Kind:    chart.KindBox,
			XColumn: categorical[1].Name,
			YColumn: first.Name,
			Title:   "Box",
		}))
	} else {
		panels = append(panels, b.boxPanel(first))
	}

	return chart.Dashboard{Title: dashboardTitle, Panels: panels}, nil
}

// boxPanel is a single box plot of every value of col.
func (b *Builder) boxPanel(col *table.Column) chart.Spec {
	layout := chart.Layout{Title: chart.Title{Text: "Box"}, YAxisLabel: col.Name}
	b.style.decorate(&layout)
	return chart.Spec{
		Traces: []chart.Trace{{
			Kind:      chart.KindBox,
			Role:      chart.RoleMain,
			Name:      col.Name,
			X:         []any{},
			Y:         col.Values(),
			BoxPoints: "all",
		}},
		Layout: layout,
	}
}

// topValuesPanel is a bar chart of the most frequent values of col.
func (b *Builder) topValuesPanel(col *table.Column) chart.Spec {
	counts := summary.ValueCounts(col)
	if len(counts) > dashboardTopCount {
		counts = counts[:dashboardTopCount]
	}
	x := make([]any, len(counts))
	y := make([]any, len(counts))
	for i, vc := range counts {
		x[i] = vc.Value
		y[i] = vc.Count
	}

	layout := chart.Layout{
		Title:      chart.Title{Text: "Bar"},
		XAxisLabel: col.Name,
		YAxisLabel: "count",
	}
	b.style.decorate(&layout)
	return chart.Spec{
		Traces: []chart.Trace{{Kind: chart.KindBar, Role: chart.RoleMain, Name: col.Name, X: x, Y: y}},
		Layout: layout,
	}
}
