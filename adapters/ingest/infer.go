package ingest

import (
	"math"
	"strconv"
	"strings"

	"goviz/domain/table"
)

// missingTokens are the cell texts read as missing values.
var missingTokens = map[string]bool{}

func init() {
	for _, tok := range []string{
		"", "NA", "N/A", "n/a", "#N/A", "#N/A N/A", "#NA", "<NA>",
		"NaN", "nan", "-NaN", "-nan", "NULL", "null", "None",
	} {
		missingTokens[tok] = true
	}
}

func isMissing(cell string) bool {
	return missingTokens[strings.TrimSpace(cell)]
}

// inferColumn picks the narrowest type every non-missing cell parses as:
// integer, then float, then boolean, falling back to text. A column with
// no values at all is a float column of missing values.
func inferColumn(name string, cells []string) (*table.Column, error) {
	typ := inferType(cells)
	values := make([]any, len(cells))
	for i, cell := range cells {
		if isMissing(cell) {
			continue
		}
		values[i] = convert(typ, cell)
	}
	return table.NewColumn(name, typ, values)
}

func inferType(cells []string) table.ColumnType {
	isInt, isFloat, isBool := true, true, true
	present := 0
	for _, cell := range cells {
		if isMissing(cell) {
			continue
		}
		present++
		s := strings.TrimSpace(cell)
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, ok := parseFloat(s); !ok {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := parseBool(s); !ok {
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			return table.Text
		}
	}

	switch {
	case present == 0:
		return table.Float
	case isInt:
		return table.Integer
	case isFloat:
		return table.Float
	case isBool:
		return table.Boolean
	}
	return table.Text
}

func convert(typ table.ColumnType, cell string) any {
	s := strings.TrimSpace(cell)
	switch typ {
	case table.Integer:
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	case table.Float:
		f, _ := parseFloat(s)
		return f
	case table.Boolean:
		b, _ := parseBool(s)
		return b
	}
	return cell
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseBool accepts the spellings spreadsheet tools write for booleans.
// Digits are left to the numeric types.
func parseBool(s string) (bool, bool) {
	switch s {
	case "true", "True", "TRUE":
		return true, true
	case "false", "False", "FALSE":
		return false, true
	}
	return false, false
}
