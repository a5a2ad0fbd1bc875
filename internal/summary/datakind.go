package summary

import (
	"regexp"
	"strings"

	domain "goviz/domain/summary"
	"goviz/domain/table"
)

// datePatterns are the textual date shapes recognised by IsLikelyDate.
var datePatterns = []*regexp.Regexp{
	// YYYY-MM-DD with optional time
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([ T]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?)?$`),
	// MM/DD/YYYY, DD/MM/YYYY
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
	// DD-MM-YYYY, MM-DD-YYYY
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`),
	// DD.MM.YYYY
	regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`),
	// YYYY/MM/DD
	regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`),
	// Month DD, YYYY
	regexp.MustCompile(`^[A-Za-z]{3,9} \d{1,2}, \d{4}$`),
	// DD Month YYYY
	regexp.MustCompile(`^\d{1,2} [A-Za-z]{3,9} \d{4}$`),
}

// IsLikelyDate checks if a string value looks like a date.
func IsLikelyDate(value string) bool {
	value = strings.TrimSpace(value)
	for _, pattern := range datePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// DetectDataKind guesses whether t is a time series, plain tabular data or
// something else. It is a best-effort tag for display and never influences
// statistics.
func DetectDataKind(t *table.Table) domain.DataKind {
	if t == nil {
		return domain.DataKindOther
	}

	hasNumeric := false
	for _, col := range t.Columns() {
		switch {
		case col.Type == table.DateTime && col.MissingCount() < col.Len():
			return domain.DataKindTimeSeries
		case col.Type == table.Text && isDateColumn(col):
			return domain.DataKindTimeSeries
		case col.Type.IsNumeric():
			hasNumeric = true
		}
	}

	if hasNumeric {
		return domain.DataKindTabular
	}
	return domain.DataKindOther
}

// isDateColumn reports whether every non-missing value of a text column
// looks like a date. Columns with no values are not dates.
func isDateColumn(col *table.Column) bool {
	seen := 0
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		if !IsLikelyDate(col.Key(i)) {
			return false
		}
		seen++
	}
	return seen > 0
}
