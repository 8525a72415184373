// Package validator checks uploaded course import workbooks against the
// fixed sheet and column layout.
package validator

import (
	"fmt"
	"strings"

	"github.com/course-import/backend/internal/schema"
	"github.com/course-import/backend/internal/workbook"
	"github.com/rs/zerolog"
)

// MessageValid is reported when every check passes.
const MessageValid = "File is valid."

// Result is the outcome of one validation run.
type Result struct {
	Valid   bool
	Message string
}

// Validator runs the layout checks. The zero value is not usable; use New.
type Validator struct {
	schema *schema.Schema
	logger zerolog.Logger
}

// New creates a validator for the given layout.
func New(s *schema.Schema, logger zerolog.Logger) *Validator {
	return &Validator{
		schema: s,
		logger: logger,
	}
}

// Validate checks the built-in layout without logging and returns the message.
func Validate(path string) string {
	return New(schema.Default(), zerolog.Nop()).Validate(path).Message
}

// Validate inspects the workbook at path and reports the first failure found.
// It never returns an error: parse and processing failures, panics included,
// are turned into a descriptive message.
func (v *Validator) Validate(path string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = processingFailure(fmt.Errorf("%v", r))
		}
		v.logResult(path, res)
	}()

	wb, err := workbook.Open(path)
	if err != nil {
		return processingFailure(err)
	}
	defer wb.Close()

	return v.check(wb)
}

func (v *Validator) check(wb *workbook.Workbook) Result {
	names := wb.SheetNames()
	if len(names) != v.schema.ExpectedSheetCount() {
		return invalid(fmt.Sprintf("The file must contain exactly %d sheets.", v.schema.ExpectedSheetCount()))
	}

	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}
	for _, name := range v.schema.SheetNames() {
		if !present[name] {
			return invalid(fmt.Sprintf("Missing required sheet '%s'.", name))
		}
	}

	for _, sheet := range v.schema.Sheets {
		tbl, err := wb.Table(sheet.Name)
		if err != nil {
			return processingFailure(err)
		}
		if res, ok := checkSheet(sheet, tbl); !ok {
			return res
		}
	}

	return Result{Valid: true, Message: MessageValid}
}

func checkSheet(sheet schema.SheetSpec, tbl *workbook.Table) (Result, bool) {
	var missing []string
	for _, column := range sheet.Columns {
		if !tbl.HasColumn(column) {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return invalid(fmt.Sprintf("The sheet '%s' is missing the following fields: %s",
			sheet.Name, strings.Join(missing, ", "))), false
	}

	if tbl.Empty() {
		return invalid(fmt.Sprintf("The sheet '%s' is empty.", sheet.Name)), false
	}

	for _, column := range sheet.Columns {
		if tbl.HasNulls(column) {
			return invalid(fmt.Sprintf("The field '%s' in sheet '%s' contains empty values.",
				column, sheet.Name)), false
		}
	}

	return Result{}, true
}

func invalid(reason string) Result {
	return Result{Message: "Invalid file format: " + reason}
}

func processingFailure(err error) Result {
	return Result{Message: fmt.Sprintf("Error processing the file: %v", err)}
}

func (v *Validator) logResult(path string, res Result) {
	if res.Valid {
		v.logger.Info().Str("path", path).Msg("workbook accepted")
		return
	}
	v.logger.Warn().Str("path", path).Str("reason", res.Message).Msg("workbook rejected")
}
