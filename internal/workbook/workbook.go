// Package workbook exposes a read-only, tabular view of spreadsheet files.
package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook is an opened spreadsheet file.
type Workbook struct {
	file *excelize.File
}

// Open parses the spreadsheet at path. The file on disk is never written.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

// SheetNames returns every sheet, hidden ones included, in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Table loads a sheet. The first non-blank row is the header; every later
// non-blank row is a data row. Blank rows are skipped wherever they appear.
func (w *Workbook) Table(sheet string) (*Table, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return newTable(rows), nil
}

// Close releases the temporary files excelize keeps for large sheets.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Table is the header and data rows of one sheet.
type Table struct {
	header  []string
	rows    [][]string
	columns map[string]int
}

func newTable(raw [][]string) *Table {
	t := &Table{columns: make(map[string]int)}
	for _, row := range raw {
		if isBlank(row) {
			continue
		}
		if t.header == nil {
			t.header = row
			continue
		}
		t.rows = append(t.rows, row)
	}

	for i, name := range t.header {
		if name == "" {
			continue
		}
		// Later duplicates are shadowed by the first occurrence.
		if _, ok := t.columns[name]; !ok {
			t.columns[name] = i
		}
	}
	return t
}

// Header returns the header cells as read.
func (t *Table) Header() []string {
	return t.header
}

// Len is the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Empty reports whether the sheet has no data rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// HasColumn reports whether the header contains name exactly.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// naValues are the cell texts read as missing values, matched exactly and
// without trimming. Same set as the default NA markers of pandas' readers.
var naValues = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNull reports whether a cell text counts as a missing value.
func IsNull(cell string) bool {
	_, ok := naValues[cell]
	return ok
}

// HasNulls reports whether any data row lacks a value in column.
// A missing column has no values at all and therefore reports true.
func (t *Table) HasNulls(column string) bool {
	idx, ok := t.columns[column]
	if !ok {
		return true
	}
	for _, row := range t.rows {
		if idx >= len(row) || IsNull(row[idx]) {
			return true
		}
	}
	return false
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
