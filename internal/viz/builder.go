// Package viz turns a table and a chart request into a renderable chart
// specification.
//
// Building never fails from the caller's point of view: every validation,
// aggregation or pivot failure is converted into the error variant of
// chart.Spec, which renders as an empty plot with the message in its
// center.
package viz

import (
	"fmt"

	"goviz/domain/chart"
	"goviz/domain/core"
	"goviz/domain/table"
	"goviz/internal"
	"goviz/internal/filter"
)

// Builder builds chart specs. It holds only configuration and is safe for
// concurrent use.
type Builder struct {
	style       Style
	logger      *internal.Logger
	builders    map[chart.Kind]kindBuilder
	maxParallel int
}

// Option configures a Builder.
type Option func(*Builder)

// WithStyle overrides the cosmetic defaults.
func WithStyle(style Style) Option {
	return func(b *Builder) { b.style = style }
}

// WithLogger sets the logger failures are reported to.
func WithLogger(logger *internal.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithMaxParallel bounds the number of specs BuildMany computes at once.
func WithMaxParallel(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxParallel = n
		}
	}
}

// NewBuilder creates a builder with the default style.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		style:       DefaultStyle(),
		logger:      internal.DefaultLogger,
		maxParallel: 4,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.WithComponent("ChartBuilder")
	b.builders = kindBuilders(b.style)
	return b
}

// Build narrows t by the request's filters, validates req against it and
// returns the chart spec. Any failure
// yields the error variant; Build itself never fails.
func (b *Builder) Build(t *table.Table, req chart.Request) (spec chart.Spec) {
	defer func() {
		if r := recover(); r != nil {
			spec = b.fail(req, fmt.Errorf("internal error: %v", r))
		}
	}()

	spec, err := b.build(t, req)
	if err != nil {
		return b.fail(req, err)
	}
	return spec
}

// ErrorSpec returns the error variant for a request that could not be
// decoded or served.
func (b *Builder) ErrorSpec(req chart.Request, err error) chart.Spec {
	return b.fail(req, err)
}

func (b *Builder) fail(req chart.Request, err error) chart.Spec {
	b.logger.Error("Failed to build %s chart: %v", req.Kind, err)
	return b.style.errorSpec(err.Error())
}

func (b *Builder) build(t *table.Table, req chart.Request) (chart.Spec, error) {
	req = req.WithDefaults()
	t = filter.Apply(t, req.Filters)
	if err := Validate(t, req); err != nil {
		return chart.Spec{}, err
	}

	build, ok := b.builders[req.Kind]
	if !ok {
		return chart.Spec{}, core.NewUnsupportedChartKindError(string(req.Kind))
	}

	layout := defaultLayout(req)
	traces, err := build(t, req, &layout)
	if err != nil {
		return chart.Spec{}, fmt.Errorf("failed to build %s chart: %w", req.Kind, err)
	}

	b.style.decorate(&layout)
	b.logger.Debug("Built %s chart with %d traces", req.Kind, len(traces))
	return chart.Spec{Traces: traces, Layout: layout}, nil
}

// Validate checks req against the schema of t. Checks run in a fixed order
// and the first failure is returned. req is expected to have had
// WithDefaults applied.
func Validate(t *table.Table, req chart.Request) error {
	if t.IsEmpty() {
		return core.ErrEmptyData
	}

	if req.Kind != chart.KindHistogram && req.Kind != chart.KindPie &&
		(req.XColumn == "" || req.YColumn == "") {
		return core.NewMissingParameterError("columns for the X and Y axes are required")
	}

	for _, name := range []string{req.XColumn, req.YColumn, req.ColorColumn} {
		if name != "" && !t.HasColumn(name) {
			return core.NewUnknownColumnError(name, t.ColumnNames())
		}
	}

	if req.Kind == chart.KindHeatmap && (req.XColumn == "" || req.YColumn == "" || req.ColorColumn == "") {
		return core.NewMissingParameterError("heatmap requires all three parameters: X, Y and values")
	}
	return nil
}

// defaultLayout fills the title and axis labels, falling back to the kind
// and column names.
func defaultLayout(req chart.Request) chart.Layout {
	title := req.Title
	if title == "" {
		title = fmt.Sprintf("Visualization %s", req.Kind)
	}
	xLabel := req.XLabel
	if xLabel == "" {
		xLabel = req.XColumn
	}
	yLabel := req.YLabel
	if yLabel == "" {
		yLabel = req.YColumn
	}
	return chart.Layout{
		Title:      chart.Title{Text: title},
		XAxisLabel: xLabel,
		YAxisLabel: yLabel,
	}
}
