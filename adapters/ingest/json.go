package ingest

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"goviz/domain/table"
)

// record is one flattened JSON object with its keys in document order.
type record map[string]gjson.Result

// parseJSON reads an array of objects, or a single object, into a table.
// Nested objects are flattened into dotted column names ("a.b"); arrays
// are kept as their JSON text. Columns appear in order of first
// appearance.
func parseJSON(data []byte) (*table.Table, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(text) {
		return nil, fmt.Errorf("invalid JSON document")
	}

	root := gjson.ParseBytes(text)
	var items []gjson.Result
	switch {
	case root.IsArray():
		items = root.Array()
	case root.IsObject():
		items = []gjson.Result{root}
	default:
		return nil, fmt.Errorf("JSON document must be an object or an array of objects")
	}

	order := &columnOrder{seen: make(map[string]bool)}
	records := make([]record, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("JSON element %d is not an object", i)
		}
		rec := make(record)
		flatten("", item, rec, order)
		records[i] = rec
	}

	columns := make([]*table.Column, len(order.names))
	for j, name := range order.names {
		cells := make([]gjson.Result, len(records))
		for i, rec := range records {
			cells[i] = rec[name]
		}
		col, err := jsonColumn(name, cells)
		if err != nil {
			return nil, err
		}
		columns[j] = col
	}
	return table.New(columns...)
}

// columnOrder collects column names in order of first appearance.
type columnOrder struct {
	names []string
	seen  map[string]bool
}

func (o *columnOrder) add(name string) {
	if !o.seen[name] {
		o.seen[name] = true
		o.names = append(o.names, name)
	}
}

func flatten(prefix string, obj gjson.Result, rec record, order *columnOrder) {
	obj.ForEach(func(key, value gjson.Result) bool {
		name := prefix + key.String()
		if value.IsObject() && len(value.Map()) > 0 {
			flatten(name+".", value, rec, order)
			return true
		}
		order.add(name)
		rec[name] = value
		return true
	})
}

// jsonColumn types a column from its JSON values. Strings are never
// reinterpreted as numbers.
func jsonColumn(name string, cells []gjson.Result) (*table.Column, error) {
	typ := jsonType(cells)
	values := make([]any, len(cells))
	for i, c := range cells {
		if !present(c) {
			continue
		}
		switch typ {
		case table.Integer:
			values[i] = c.Int()
		case table.Float:
			values[i] = c.Float()
		case table.Boolean:
			values[i] = c.Bool()
		default:
			if c.Type == gjson.String {
				values[i] = c.Str
			} else {
				values[i] = c.Raw
			}
		}
	}
	return table.NewColumn(name, typ, values)
}

func jsonType(cells []gjson.Result) table.ColumnType {
	isInt, isNum, isBool := true, true, true
	n := 0
	for _, c := range cells {
		if !present(c) {
			continue
		}
		n++
		switch c.Type {
		case gjson.Number:
			isBool = false
			if _, err := strconv.ParseInt(c.Raw, 10, 64); err != nil {
				isInt = false
			}
		case gjson.True, gjson.False:
			isInt, isNum = false, false
		default:
			return table.Text
		}
	}
	switch {
	case n == 0:
		return table.Float
	case isNum && isInt:
		return table.Integer
	case isNum:
		return table.Float
	case isBool:
		return table.Boolean
	}
	return table.Text
}

// present reports whether c holds a value: the key exists and is not null.
func present(c gjson.Result) bool {
	return c.Exists() && c.Type != gjson.Null
}
