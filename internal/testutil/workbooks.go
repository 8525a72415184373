// workbooks.go - Spreadsheet fixtures for tests
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet describes one fixture sheet. Rows[0] is conventionally the header.
// A nil cell is left unset.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// WriteWorkbook saves the given sheets, in order, as an xlsx file in dir
// and returns its path.
func WriteWorkbook(t testing.TB, dir, name string, sheets []Sheet) string {
	t.Helper()

	if len(sheets) == 0 {
		t.Fatal("a workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("renaming first sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("creating sheet %q: %v", sheet.Name, err)
		}

		for r, row := range sheet.Rows {
			for c, value := range row {
				if value == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
					t.Fatalf("setting %s!%s: %v", sheet.Name, cell, err)
				}
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
	return path
}

// ValidCourseSheets returns a conforming course import layout with one
// data row per sheet. Each call returns fresh slices that callers may edit.
func ValidCourseSheets() []Sheet {
	return []Sheet{
		{
			Name: "Course",
			Rows: [][]interface{}{
				{"Course ID", "Course Name"},
				{"C1", "Intro to Go"},
			},
		},
		{
			Name: "Topic",
			Rows: [][]interface{}{
				{"Topic ID", "Topic Name", "Description"},
				{"T1", "Slices", "Working with slices"},
			},
		},
		{
			Name: "Resource",
			Rows: [][]interface{}{
				{"Resource ID", "Resource Name", "Resource Content", "Module ID", "Module Name", "Sub Module ID"},
				{"R1", "Slice tricks", "https://example.com/slices", "M1", "Basics", "SM1"},
			},
		},
		{
			Name: "Learner",
			Rows: [][]interface{}{
				{"Learner ID", "Name", "Essay", "Module ID", "Submodule ID"},
				{101, "Ada", "Slices share backing arrays.", "M1", "SM1"},
			},
		},
	}
}

// FindSheet returns a pointer into sheets for in-place edits.
func FindSheet(sheets []Sheet, name string) *Sheet {
	for i := range sheets {
		if sheets[i].Name == name {
			return &sheets[i]
		}
	}
	return nil
}
