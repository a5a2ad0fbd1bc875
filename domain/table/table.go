// Package table defines the in-memory columnar dataset that every summary
// and chart is computed from.
//
// A Table is an ordered list of uniformly typed, uniquely named columns of
// equal length. Missing entries are stored as nil. Tables are never mutated
// after construction; operations that select rows return a new Table.
package table

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// ColumnType is the storage type of a column.
type ColumnType string

const (
	Integer  ColumnType = "integer"
	Float    ColumnType = "float"
	Text     ColumnType = "text"
	Boolean  ColumnType = "boolean"
	DateTime ColumnType = "datetime"
)

// IsNumeric reports whether values of this type carry numeric statistics.
func (t ColumnType) IsNumeric() bool {
	return t == Integer || t == Float
}

// Column is a named, typed sequence of values. Values are int64, float64,
// string, bool or time.Time according to Type, or nil when missing.
type Column struct {
	Name   string
	Type   ColumnType
	values []any
}

// NewColumn validates values against typ and returns a column holding a
// private copy of them. Go int values are widened to int64 and float32 to
// float64; non-finite floats are stored as missing.
func NewColumn(name string, typ ColumnType, values []any) (*Column, error) {
	col := &Column{Name: name, Type: typ, values: make([]any, len(values))}
	for i, v := range values {
		norm, err := normalize(typ, v)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		col.values[i] = norm
	}
	return col, nil
}

// MustColumn is like NewColumn but panics on invalid input. Intended for
// fixtures and tests.
func MustColumn(name string, typ ColumnType, values ...any) *Column {
	col, err := NewColumn(name, typ, values)
	if err != nil {
		panic(err)
	}
	return col
}

func normalize(typ ColumnType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch typ {
	case Integer:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		}
	case Float:
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case float32:
			f = float64(n)
		case int64:
			f = float64(n)
		case int:
			f = float64(n)
		default:
			return nil, fmt.Errorf("expected float, got %T", v)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, nil
		}
		return f, nil
	case Text:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case Boolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case DateTime:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
	default:
		return nil, fmt.Errorf("unknown column type %q", typ)
	}
	return nil, fmt.Errorf("expected %s, got %T", typ, v)
}

// Len returns the number of rows in the column.
func (c *Column) Len() int { return len(c.values) }

// Value returns the raw value at row i (nil when missing).
func (c *Column) Value(i int) any { return c.values[i] }

// IsMissing reports whether row i holds no value.
func (c *Column) IsMissing(i int) bool { return c.values[i] == nil }

// Values returns a copy of the column's values.
func (c *Column) Values() []any {
	out := make([]any, len(c.values))
	copy(out, c.values)
	return out
}

// MissingCount returns the number of missing rows.
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.values {
		if v == nil {
			n++
		}
	}
	return n
}

// Float returns the numeric value at row i. ok is false for missing rows and
// non-numeric columns.
func (c *Column) Float(i int) (float64, bool) {
	switch v := c.values[i].(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// Floats returns all non-missing numeric values in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.values))
	for i := range c.values {
		if f, ok := c.Float(i); ok {
			out = append(out, f)
		}
	}
	return out
}

// Key returns the display form of row i, used for grouping and frequency
// tables. Missing rows return "".
func (c *Column) Key(i int) string {
	return FormatValue(c.values[i])
}

// Distinct returns the distinct non-missing values of the column in natural
// sorted order.
func (c *Column) Distinct() []any {
	seen := make(map[string]bool)
	var out []any
	for i, v := range c.values {
		if v == nil {
			continue
		}
		k := c.Key(i)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	SortValues(out)
	return out
}

// take returns a new column with the given rows.
func (c *Column) take(rows []int) *Column {
	out := &Column{Name: c.Name, Type: c.Type, values: make([]any, len(rows))}
	for i, r := range rows {
		out.values[i] = c.values[r]
	}
	return out
}

// FormatValue renders a cell value as text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// Compare orders two non-nil values of the same column type: numbers
// numerically, datetimes chronologically, false before true, text
// lexicographically. Values of different kinds fall back to comparing their
// text form.
func Compare(a, b any) int {
	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			return cmpOrdered(x, y)
		}
		if y, ok := b.(float64); ok {
			return cmpOrdered(float64(x), y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmpOrdered(x, y)
		}
		if y, ok := b.(int64); ok {
			return cmpOrdered(x, float64(y))
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}
	return cmpOrdered(FormatValue(a), FormatValue(b))
}

func cmpOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortValues sorts values in natural order.
func SortValues(values []any) {
	sort.SliceStable(values, func(i, j int) bool { return Compare(values[i], values[j]) < 0 })
}

// Table is an immutable collection of equally sized columns.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a table. Column names must be unique and all columns must have
// the same length.
func New(columns ...*Column) (*Table, error) {
	t := &Table{columns: columns, index: make(map[string]int, len(columns))}
	for i, col := range columns {
		if col == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, col.Len(), t.rows)
		}
		t.index[col.Name] = i
	}
	return t, nil
}

// MustNew is like New but panics on error. Intended for fixtures and tests.
func MustNew(columns ...*Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the column count.
func (t *Table) NumColumns() int { return len(t.columns) }

// IsEmpty reports whether the table has no rows or no columns.
func (t *Table) IsEmpty() bool {
	return t == nil || t.rows == 0 || len(t.columns) == 0
}

// Columns returns the columns in table order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// HasColumn reports whether the schema contains name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnNames returns column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Take returns a new table holding the given rows in the given order.
func (t *Table) Take(rows []int) *Table {
	cols := make([]*Column, len(t.columns))
	for i, col := range t.columns {
		cols[i] = col.take(rows)
	}
	out := &Table{columns: cols, index: t.index, rows: len(rows)}
	return out
}

// Records returns the table as one map per row, keyed by column name.
func (t *Table) Records() []map[string]any {
	records := make([]map[string]any, t.rows)
	for r := 0; r < t.rows; r++ {
		rec := make(map[string]any, len(t.columns))
		for _, col := range t.columns {
			rec[col.Name] = col.values[r]
		}
		records[r] = rec
	}
	return records
}
