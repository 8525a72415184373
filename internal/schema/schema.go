// Package schema declares the fixed workbook layout accepted for course imports.
package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var document []byte

// SheetSpec lists the columns a sheet must carry.
type SheetSpec struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

// Schema is the ordered set of required sheets.
type Schema struct {
	Sheets []SheetSpec `yaml:"sheets"`
}

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
)

// Default returns the built-in course import layout.
// The embedded document is decoded once; the returned value must not be modified.
func Default() *Schema {
	defaultOnce.Do(func() {
		s, err := Parse(document)
		if err != nil {
			panic(fmt.Sprintf("schema: embedded layout is invalid: %v", err))
		}
		defaultSchema = s
	})
	return defaultSchema
}

// Parse decodes a layout document.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decoding layout: %w", err)
	}
	if len(s.Sheets) == 0 {
		return nil, fmt.Errorf("layout declares no sheets")
	}

	seen := make(map[string]bool, len(s.Sheets))
	for _, sheet := range s.Sheets {
		if sheet.Name == "" {
			return nil, fmt.Errorf("layout declares a sheet without a name")
		}
		if seen[sheet.Name] {
			return nil, fmt.Errorf("sheet %q declared twice", sheet.Name)
		}
		seen[sheet.Name] = true
		if len(sheet.Columns) == 0 {
			return nil, fmt.Errorf("sheet %q declares no columns", sheet.Name)
		}
	}
	return s, nil
}

// ExpectedSheetCount is the exact number of sheets a workbook must contain.
func (s *Schema) ExpectedSheetCount() int {
	return len(s.Sheets)
}

// SheetNames returns the required sheet names in declared order.
func (s *Schema) SheetNames() []string {
	names := make([]string, len(s.Sheets))
	for i, sheet := range s.Sheets {
		names[i] = sheet.Name
	}
	return names
}

// Sheet looks up a sheet by exact name.
func (s *Schema) Sheet(name string) (SheetSpec, bool) {
	for _, sheet := range s.Sheets {
		if sheet.Name == name {
			return sheet, true
		}
	}
	return SheetSpec{}, false
}
