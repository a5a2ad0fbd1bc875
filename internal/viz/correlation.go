package viz

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"goviz/domain/chart"
	"goviz/domain/core"
	"goviz/domain/table"
)

const correlationColorScale = "RdBu_r"

// CorrelationMatrix returns a heatmap of the Pearson correlation between
// every pair of numeric columns of t. Each pair uses only the rows where
// both values are present; a pair with fewer than two such rows or with a
// constant column has no correlation and its cell is null.
func (b *Builder) CorrelationMatrix(t *table.Table) (chart.Spec, error) {
	if t.IsEmpty() {
		return chart.Spec{}, core.ErrEmptyData
	}

	var numeric []*table.Column
	for _, col := range t.Columns() {
		if col.Type.IsNumeric() {
			numeric = append(numeric, col)
		}
	}
	if len(numeric) == 0 {
		return chart.Spec{}, core.NewInsufficientDataError("no numeric columns to correlate")
	}

	names := make([]any, len(numeric))
	for i, col := range numeric {
		names[i] = col.Name
	}

	z := make([][]*float64, len(numeric))
	var annotations []chart.Annotation
	for i := range numeric {
		z[i] = make([]*float64, len(numeric))
		for j := range numeric {
			r := correlate(numeric[i], numeric[j])
			z[i][j] = r
			annotations = append(annotations, correlationAnnotation(names[j], names[i], r, b.style.FontSize))
		}
	}

	zmin, zmax := -1.0, 1.0
	layout := chart.Layout{Title: chart.Title{Text: "Correlation matrix"}}
	b.style.decorate(&layout)
	layout.Annotations = annotations

	return chart.Spec{
		Traces: []chart.Trace{{
			Kind:       chart.KindHeatmap,
			Role:       chart.RoleMain,
			X:          names,
			Y:          names,
			Z:          z,
			ColorScale: correlationColorScale,
			ZMin:       &zmin,
			ZMax:       &zmax,
		}},
		Layout: layout,
	}, nil
}

func correlate(a, b *table.Column) *float64 {
	var x, y []float64
	for i := 0; i < a.Len(); i++ {
		av, aok := a.Float(i)
		bv, bok := b.Float(i)
		if aok && bok {
			x = append(x, av)
			y = append(y, bv)
		}
	}
	if len(x) < 2 {
		return nil
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	// rounding can push a perfect correlation just past the bounds
	r = math.Max(-1, math.Min(1, r))
	return &r
}

func correlationAnnotation(x, y any, r *float64, size int) chart.Annotation {
	text, color := "", "black"
	if r != nil {
		text = fmt.Sprintf("%.2f", *r)
		if math.Abs(*r) > 0.5 {
			color = "white"
		}
	}
	return chart.Annotation{
		Text: text,
		X:    x,
		Y:    y,
		Font: chart.Font{Size: size, Color: color},
	}
}
