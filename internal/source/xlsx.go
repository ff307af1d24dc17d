// Package source is the dataset-source boundary: it turns spreadsheet sheets
// into typed datasets and maps sheet names to their default analysis prompt.
// The pipeline core itself never touches persistent storage.
package source

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"Minerva_1.0/internal/models"

	"github.com/xuri/excelize/v2"
)

// timeLayouts are tried in order when inferring timestamp columns.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"01-02-06",
	"1/2/2006 15:04",
	"1/2/2006",
}

// WorkbookStore reads sheets of one xlsx workbook into datasets.
type WorkbookStore struct {
	file *excelize.File
}

// OpenWorkbook opens an xlsx file for sheet loading.
func OpenWorkbook(path string) (*WorkbookStore, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	return &WorkbookStore{file: f}, nil
}

// Close releases the workbook handle.
func (s *WorkbookStore) Close() error {
	return s.file.Close()
}

// Sheets lists the workbook's sheet names in workbook order.
func (s *WorkbookStore) Sheets() []string {
	return s.file.GetSheetList()
}

// LoadSheet reads one sheet into a Dataset. The first row is the header;
// column types are inferred from the body cells.
func (s *WorkbookStore) LoadSheet(name string) (*models.Dataset, error) {
	rows, err := s.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return &models.Dataset{}, nil
	}

	header := rows[0]
	body := rows[1:]
	types := make([]models.ColumnType, len(header))
	for i := range header {
		types[i] = inferColumnType(columnValues(body, i))
	}

	ds := &models.Dataset{Columns: make([]models.Column, len(header))}
	for i, h := range header {
		ds.Columns[i] = models.Column{Name: strings.TrimSpace(h), Type: types[i]}
	}
	for _, raw := range body {
		row := make([]any, len(header))
		for i := range header {
			var cell string
			if i < len(raw) {
				cell = raw[i]
			}
			row[i] = parseCell(cell, types[i])
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func columnValues(body [][]string, col int) []string {
	var out []string
	for _, row := range body {
		if col < len(row) && strings.TrimSpace(row[col]) != "" {
			out = append(out, strings.TrimSpace(row[col]))
		}
	}
	return out
}

// inferColumnType picks numeric or timestamp when every non-empty cell
// parses as such, categorical when the distinct value count is small, and
// text otherwise.
func inferColumnType(values []string) models.ColumnType {
	if len(values) == 0 {
		return models.ColumnText
	}

	numeric := true
	timestamp := true
	for _, v := range values {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
		}
		if _, ok := parseTime(v); !ok {
			timestamp = false
		}
		if !numeric && !timestamp {
			break
		}
	}
	if numeric {
		return models.ColumnNumeric
	}
	if timestamp {
		return models.ColumnTimestamp
	}

	distinct := map[string]struct{}{}
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	if len(distinct) <= 20 && len(distinct)*2 <= len(values) {
		return models.ColumnCategorical
	}
	return models.ColumnText
}

func parseCell(cell string, t models.ColumnType) any {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	switch t {
	case models.ColumnNumeric:
		if n, err := strconv.ParseFloat(cell, 64); err == nil {
			return n
		}
	case models.ColumnTimestamp:
		if ts, ok := parseTime(cell); ok {
			return ts
		}
	}
	return cell
}

func parseTime(v string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
