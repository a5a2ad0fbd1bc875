package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"goviz/domain/table"
)

func parseCSV(data []byte) (*table.Table, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV data: %w", err)
		}
		rows = append(rows, record)
	}
	return fromCells(header, rows)
}

// fromCells builds a table from a header row and string cells. Short rows
// are padded with missing values; cells beyond the header are dropped.
func fromCells(header []string, rows [][]string) (*table.Table, error) {
	names := columnNames(header)
	columns := make([]*table.Column, len(names))
	for j, name := range names {
		cells := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		col, err := inferColumn(name, cells)
		if err != nil {
			return nil, err
		}
		columns[j] = col
	}
	return table.New(columns...)
}

// columnNames trims header cells, names blank ones after their position and
// suffixes repeated names the way spreadsheet tools do.
func columnNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			base := name
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}
