package viz

import "goviz/domain/chart"

// Style lists the cosmetic defaults applied to every chart. None of them
// affect the data in a spec.
type Style struct {
	FontFamily        string
	FontSize          int
	TitleFontSize     int
	TitleX            float64
	TitleY            float64
	Margin            chart.Margin
	LegendLabel       string
	HoverMode         string
	Template          string
	ScatterOpacity    float64
	HeatmapColorScale string
	ErrorFontSize     int
	ErrorColor        string
}

// DefaultStyle returns the house style.
func DefaultStyle() Style {
	return Style{
		FontFamily:        "Arial",
		FontSize:          14,
		TitleFontSize:     18,
		TitleX:            0.5,
		TitleY:            0.95,
		Margin:            chart.Margin{Left: 50, Right: 50, Top: 80, Bottom: 50},
		LegendLabel:       "Categories",
		HoverMode:         "closest",
		Template:          "plotly_white",
		ScatterOpacity:    0.7,
		HeatmapColorScale: "Viridis",
		ErrorFontSize:     14,
		ErrorColor:        "red",
	}
}

// decorate applies the style to a successfully built layout.
func (s Style) decorate(layout *chart.Layout) {
	layout.Title = chart.Title{
		Text:    layout.Title.Text,
		X:       s.TitleX,
		Y:       s.TitleY,
		XAnchor: "center",
		YAnchor: "top",
		Font:    chart.Font{Size: s.TitleFontSize},
	}
	layout.Font = chart.Font{Family: s.FontFamily, Size: s.FontSize}
	layout.Margin = s.Margin
	layout.LegendLabel = s.LegendLabel
	layout.HoverMode = s.HoverMode
	layout.Template = s.Template
}

// errorSpec renders msg as a chart with no data and a single centered
// annotation.
func (s Style) errorSpec(msg string) chart.Spec {
	return chart.Spec{
		Traces: []chart.Trace{},
		Error:  msg,
		Layout: chart.Layout{
			Title: chart.Title{
				Text:    "Visualization failed: " + msg,
				X:       s.TitleX,
				Y:       s.TitleY,
				XAnchor: "center",
				YAnchor: "top",
				Font:    chart.Font{Size: s.TitleFontSize},
			},
			Font:     chart.Font{Family: s.FontFamily, Size: s.FontSize},
			Margin:   s.Margin,
			Template: s.Template,
			Annotations: []chart.Annotation{{
				Text:      "Error: " + msg,
				X:         0.5,
				Y:         0.5,
				XRef:      "paper",
				YRef:      "paper",
				ShowArrow: false,
				Font:      chart.Font{Size: s.ErrorFontSize, Color: s.ErrorColor},
			}},
		},
	}
}
