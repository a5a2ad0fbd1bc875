// Package ingest loads uploaded files into tables.
//
// CSV and JSON files are decoded with the fallback chain UTF-8 with BOM,
// UTF-8, then Windows-1251. XLSX files are read from their first sheet.
// Column types are inferred from the cell text.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"goviz/domain/table"
)

// Format is a supported upload format, named by its file extension.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatJSON, FormatXLSX}

// FormatFromFilename returns the format implied by the file extension.
func FormatFromFilename(name string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, f := range Formats {
		if string(f) == ext {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported file type: %q", ext)
}

// Read parses r as format into a table.
func Read(r io.Reader, format Format) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s data: %w", format, err)
	}
	return Parse(data, format)
}

// Parse parses data as format into a table.
func Parse(data []byte, format Format) (*table.Table, error) {
	switch format {
	case FormatCSV:
		return parseCSV(data)
	case FormatJSON:
		return parseJSON(data)
	case FormatXLSX:
		return parseXLSX(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported file type: %q", format)
	}
}

// ReadFile loads the file at path, picking the format from its extension.
func ReadFile(path string) (*table.Table, error) {
	format, err := FormatFromFilename(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return Read(f, format)
}
