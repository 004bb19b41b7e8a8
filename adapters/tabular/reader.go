// Package tabular reads and writes the flat file formats the library works
// with: CSV and Excel for datasets, JSON for database collection documents.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"structset/domain/table"
)

// DataReader reads CSV and Excel files into tables.
type DataReader struct {
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader that dispatches on file extension.
func NewDataReader() *DataReader {
	return &DataReader{}
}

// Read loads a tabular file. The first row is the header; cell values are
// coerced to float64 where they parse as numbers, so numeric columns compare
// numerically during verification.
func (r *DataReader) Read(path string) (*table.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("data file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return r.readCSV(path)
	case ".xlsx":
		return r.readExcel(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

func (r *DataReader) readCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("CSV file has no header row")
	}
	return r.processRows(rows)
}

func (r *DataReader) readExcel(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Always read the first sheet.
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("Excel file has no header row")
	}
	return r.processRows(rows)
}

// processRows converts raw string rows into a table, trimming whitespace and
// coercing cell values.
func (r *DataReader) processRows(rows [][]string) (*table.Table, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	t := table.New(headers...)
	for i := 1; i < len(rows); i++ {
		row := make(table.Row, len(headers))
		for j, header := range headers {
			if j < len(rows[i]) {
				row[header] = coerce(strings.TrimSpace(rows[i][j]))
			}
		}
		t.Append(row)
	}
	return t, nil
}

// coerce turns a raw cell into its natural scalar: float64 for numbers, bool
// for true/false, nil for empty, string otherwise.
func coerce(raw string) interface{} {
	if raw == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}
