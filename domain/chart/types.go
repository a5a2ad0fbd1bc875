// Package chart holds the chart request and the renderer-agnostic chart
// specification produced for it.
package chart

import "strings"

// Kind names a supported visualization.
type Kind string

const (
	KindBar       Kind = "bar"
	KindLine      Kind = "line"
	KindScatter   Kind = "scatter"
	KindHistogram Kind = "histogram"
	KindBox       Kind = "box"
	KindHeatmap   Kind = "heatmap"
	KindPie       Kind = "pie"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{KindBar, KindLine, KindScatter, KindHistogram, KindBox, KindHeatmap, KindPie}

// AggFunc names an aggregation applied to grouped values.
type AggFunc string

const (
	AggMean  AggFunc = "mean"
	AggSum   AggFunc = "sum"
	AggCount AggFunc = "count"
	AggMin   AggFunc = "min"
	AggMax   AggFunc = "max"
)

// Valid reports whether f is one of the supported aggregations.
func (f AggFunc) Valid() bool {
	switch f {
	case AggMean, AggSum, AggCount, AggMin, AggMax:
		return true
	}
	return false
}

// NoGrouping is the color-column value the UI submits when the user picks
// no color grouping.
const NoGrouping = "(no grouping)"

// legacyNoGrouping is the marker sent by older clients.
const legacyNoGrouping = "Без группировки"

// IsNoGrouping reports whether a color column selection means "absent".
func IsNoGrouping(column string) bool {
	c := strings.TrimSpace(column)
	return c == "" || c == NoGrouping || c == legacyNoGrouping
}

// Filter restricts the rows a chart is built from. Exactly one of Range,
// In or Equals is expected to be set.
type Filter struct {
	Column string   `json:"column"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	In     []string `json:"in,omitempty"`
	Equals *string  `json:"equals,omitempty"`
}

// Request describes the chart a user asked for.
type Request struct {
	Kind        Kind     `json:"kind" form:"viz_type"`
	XColumn     string   `json:"x_column,omitempty" form:"x_column"`
	YColumn     string   `json:"y_column,omitempty" form:"y_column"`
	ColorColumn string   `json:"color_column,omitempty" form:"color_column"`
	AggFunc     AggFunc  `json:"agg_func,omitempty" form:"agg_func"`
	Title       string   `json:"title,omitempty" form:"title"`
	XLabel      string   `json:"x_label,omitempty" form:"x_label"`
	YLabel      string   `json:"y_label,omitempty" form:"y_label"`
	Filters     []Filter `json:"filters,omitempty" form:"-"`
}

// WithDefaults fills in the defaults callers rely on: bar charts, mean
// aggregation and no color grouping.
func (r Request) WithDefaults() Request {
	if r.Kind == "" {
		r.Kind = KindBar
	}
	if r.AggFunc == "" {
		r.AggFunc = AggMean
	}
	if IsNoGrouping(r.ColorColumn) {
		r.ColorColumn = ""
	}
	return r
}

// TraceRole distinguishes main traces from decorations such as the marginal
// box plot drawn above a histogram.
type TraceRole string

const (
	RoleMain     TraceRole = "main"
	RoleMarginal TraceRole = "marginal"
)

// Trace is one series of a chart. X and Y hold cell values (numbers,
// strings, booleans, timestamps or null); Z is only used by heatmaps.
type Trace struct {
	Kind       Kind         `json:"kind"`
	Role       TraceRole    `json:"role"`
	Name       string       `json:"name,omitempty"`
	Group      any          `json:"group,omitempty"`
	X          []any        `json:"x"`
	Y          []any        `json:"y,omitempty"`
	Z          [][]*float64 `json:"z,omitempty"`
	Mode       string       `json:"mode,omitempty"`
	Opacity    float64      `json:"opacity,omitempty"`
	BoxPoints  string       `json:"boxpoints,omitempty"`
	ColorScale string       `json:"colorscale,omitempty"`
	ZMin       *float64     `json:"zmin,omitempty"`
	ZMax       *float64     `json:"zmax,omitempty"`
}

// Font is a text style.
type Font struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size"`
	Color  string `json:"color,omitempty"`
}

// Title is a positioned chart title.
type Title struct {
	Text    string  `json:"text"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	XAnchor string  `json:"xanchor,omitempty"`
	YAnchor string  `json:"yanchor,omitempty"`
	Font    Font    `json:"font"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	Left   int `json:"l"`
	Right  int `json:"r"`
	Top    int `json:"t"`
	Bottom int `json:"b"`
}

// Annotation is free text placed on the plot.
type Annotation struct {
	Text      string `json:"text"`
	X         any    `json:"x"`
	Y         any    `json:"y"`
	XRef      string `json:"xref,omitempty"`
	YRef      string `json:"yref,omitempty"`
	ShowArrow bool   `json:"showarrow"`
	Font      Font   `json:"font"`
}

// Layout carries the chart-level presentation.
type Layout struct {
	Title       Title        `json:"title"`
	XAxisLabel  string       `json:"x_axis_label,omitempty"`
	YAxisLabel  string       `json:"y_axis_label,omitempty"`
	LegendLabel string       `json:"legend_label,omitempty"`
	HoverMode   string       `json:"hovermode,omitempty"`
	BarMode     string       `json:"barmode,omitempty"`
	Template    string       `json:"template,omitempty"`
	Font        Font         `json:"font"`
	Margin      Margin       `json:"margin"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Spec is a complete, serializable chart description. When Error is set the
// spec is the error variant: Traces is empty and a single annotation carries
// the message.
type Spec struct {
	Traces []Trace `json:"traces"`
	Layout Layout  `json:"layout"`
	Error  string  `json:"error,omitempty"`
}

// IsError reports whether s is the error variant.
func (s Spec) IsError() bool { return s.Error != "" }

// Dashboard groups several specs computed for one table.
type Dashboard struct {
	Title  string `json:"title"`
	Panels []Spec `json:"panels"`
}
