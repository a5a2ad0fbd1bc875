package summary

import "goviz/domain/table"

// Kind classifies how a column is summarized.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// DataKind is the best-effort classification of a whole table.
type DataKind string

const (
	DataKindTabular    DataKind = "tabular"
	DataKindTimeSeries DataKind = "time_series"
	DataKindOther      DataKind = "other"
)

// NumericStats are descriptive statistics over the non-missing values of a
// numeric column. StdDev is the sample standard deviation and is nil when
// fewer than two values are present.
type NumericStats struct {
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	StdDev *float64 `json:"std"`
}

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalStats is the frequency table of a non-numeric column.
type CategoricalStats struct {
	UniqueCount int          `json:"unique_count"`
	TopValues   []ValueCount `json:"top_values"`
	Truncated   bool         `json:"truncated"`
}

// ColumnSummary describes one column. Exactly one of Numeric and Categorical
// is set, except when numeric statistics could not be computed; StatsError
// then explains why.
type ColumnSummary struct {
	Name         string            `json:"name"`
	Type         table.ColumnType  `json:"inferred_type"`
	Kind         Kind              `json:"kind"`
	MissingCount int               `json:"missing_count"`
	Numeric      *NumericStats     `json:"numeric_stats,omitempty"`
	Categorical  *CategoricalStats `json:"categorical_stats,omitempty"`
	StatsError   string            `json:"stats_error,omitempty"`

	Err error `json:"-"`
}

// TableSummary describes a whole table.
type TableSummary struct {
	RowCount    int             `json:"row_count"`
	ColumnCount int             `json:"column_count"`
	DataKind    DataKind        `json:"data_kind"`
	Columns     []ColumnSummary `json:"columns"`
}

// Column returns the summary of the named column.
func (s *TableSummary) Column(name string) (ColumnSummary, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}
