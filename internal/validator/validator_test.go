package validator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/course-import/backend/internal/schema"
	"github.com/course-import/backend/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(sheets []testutil.Sheet) []testutil.Sheet
		want   string
	}{
		{
			name:   "conforming workbook",
			mutate: func(s []testutil.Sheet) []testutil.Sheet { return s },
			want:   "File is valid.",
		},
		{
			name: "three sheets",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				return s[:3]
			},
			want: "Invalid file format: The file must contain exactly 4 sheets.",
		},
		{
			name: "five sheets",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				return append(s, testutil.Sheet{Name: "Extra"})
			},
			want: "Invalid file format: The file must contain exactly 4 sheets.",
		},
		{
			name: "first missing sheet in declared order",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				s[1].Name = "Topics"
				s[3].Name = "Learners"
				return s
			},
			want: "Invalid file format: Missing required sheet 'Topic'.",
		},
		{
			name: "sheet names are case-sensitive",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				s[0].Name = "course"
				return s
			},
			want: "Invalid file format: Missing required sheet 'Course'.",
		},
		{
			name: "sheet order does not matter",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				return []testutil.Sheet{s[3], s[2], s[1], s[0]}
			},
			want: "File is valid.",
		},
		{
			name: "all missing columns listed in declared order",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				r := testutil.FindSheet(s, "Resource")
				r.Rows = [][]interface{}{
					{"Resource Name", "Module ID", "Extra"},
					{"x", "M1", "y"},
				}
				return s
			},
			want: "Invalid file format: The sheet 'Resource' is missing the following fields: Resource ID, Resource Content, Module Name, Sub Module ID",
		},
		{
			name: "single missing column",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				l := testutil.FindSheet(s, "Learner")
				l.Rows = [][]interface{}{
					{"Learner ID", "Name", "Essay", "Module ID"},
					{1, "Ada", "text", "M1"},
				}
				return s
			},
			want: "Invalid file format: The sheet 'Learner' is missing the following fields: Submodule ID",
		},
		{
			name: "column names match exactly",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				c := testutil.FindSheet(s, "Course")
				c.Rows[0] = []interface{}{"Course ID ", "course name"}
				return s
			},
			want: "Invalid file format: The sheet 'Course' is missing the following fields: Course ID, Course Name",
		},
		{
			name: "earlier sheet failure wins",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				testutil.FindSheet(s, "Learner").Rows = nil
				testutil.FindSheet(s, "Topic").Rows = testutil.FindSheet(s, "Topic").Rows[:1]
				return s
			},
			want: "Invalid file format: The sheet 'Topic' is empty.",
		},
		{
			name: "header without data rows",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				c := testutil.FindSheet(s, "Course")
				c.Rows = c.Rows[:1]
				return s
			},
			want: "Invalid file format: The sheet 'Course' is empty.",
		},
		{
			name: "completely blank sheet reports missing columns first",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				testutil.FindSheet(s, "Course").Rows = nil
				return s
			},
			want: "Invalid file format: The sheet 'Course' is missing the following fields: Course ID, Course Name",
		},
		{
			name: "null in required column",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				r := testutil.FindSheet(s, "Resource")
				r.Rows = append(r.Rows, []interface{}{"R2", "Another", nil, "M1", "Basics", "SM2"})
				return s
			},
			want: "Invalid file format: The field 'Resource Content' in sheet 'Resource' contains empty values.",
		},
		{
			name: "first null column in declared order",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				l := testutil.FindSheet(s, "Learner")
				l.Rows = append(l.Rows, []interface{}{102, "Bob", nil, "M1"})
				return s
			},
			want: "Invalid file format: The field 'Essay' in sheet 'Learner' contains empty values.",
		},
		{
			name: "NA marker in required column",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				l := testutil.FindSheet(s, "Learner")
				l.Rows = append(l.Rows, []interface{}{102, "Bob", "NA", "M1", "SM1"})
				return s
			},
			want: "Invalid file format: The field 'Essay' in sheet 'Learner' contains empty values.",
		},
		{
			name: "N/A marker in required column",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				l := testutil.FindSheet(s, "Learner")
				l.Rows = append(l.Rows, []interface{}{102, "Bob", "N/A", "M1", "SM1"})
				return s
			},
			want: "Invalid file format: The field 'Essay' in sheet 'Learner' contains empty values.",
		},
		{
			name: "null marker in required column",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				tp := testutil.FindSheet(s, "Topic")
				tp.Rows = append(tp.Rows, []interface{}{"T9", "Loops", "null"})
				return s
			},
			want: "Invalid file format: The field 'Description' in sheet 'Topic' contains empty values.",
		},
		{
			name: "#N/A marker in required column",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				c := testutil.FindSheet(s, "Course")
				c.Rows = append(c.Rows, []interface{}{"#N/A", "Advanced"})
				return s
			},
			want: "Invalid file format: The field 'Course ID' in sheet 'Course' contains empty values.",
		},
		{
			name: "whitespace-only cell is a value",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				l := testutil.FindSheet(s, "Learner")
				l.Rows = append(l.Rows, []interface{}{102, "Bob", "  ", "M1", "SM1"})
				return s
			},
			want: "File is valid.",
		},
		{
			name: "nulls outside required columns are allowed",
			mutate: func(s []testutil.Sheet) []testutil.Sheet {
				c := testutil.FindSheet(s, "Course")
				c.Rows = [][]interface{}{
					{"Course ID", "Notes", "Course Name"},
					{"C1", nil, "Intro"},
					{"C2", "", "Advanced"},
				}
				return s
			},
			want: "File is valid.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := testutil.WriteWorkbook(t, dir, "upload.xlsx", tt.mutate(testutil.ValidCourseSheets()))

			assert.Equal(t, tt.want, Validate(path))
		})
	}
}

func TestValidate_ProcessingErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("not a spreadsheet", func(t *testing.T) {
		path := filepath.Join(dir, "plain.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("Course ID,Course Name\nC1,Intro\n"), 0644))

		msg := Validate(path)
		assert.Contains(t, msg, "Error processing the file: ")
		assert.Contains(t, msg, "zip")
	})

	t.Run("missing file", func(t *testing.T) {
		msg := Validate(filepath.Join(dir, "gone.xlsx"))
		assert.Contains(t, msg, "Error processing the file: ")
		assert.Contains(t, msg, "gone.xlsx")
	})
}

func TestValidator_Result(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	v := New(schema.Default(), zerolog.New(&buf))

	ok := v.Validate(testutil.WriteWorkbook(t, dir, "ok.xlsx", testutil.ValidCourseSheets()))
	assert.True(t, ok.Valid)
	assert.Equal(t, MessageValid, ok.Message)
	assert.Contains(t, buf.String(), "workbook accepted")

	buf.Reset()
	sheets := testutil.ValidCourseSheets()[:2]
	bad := v.Validate(testutil.WriteWorkbook(t, dir, "bad.xlsx", sheets))
	assert.False(t, bad.Valid)
	assert.Contains(t, buf.String(), "workbook rejected")
	assert.Contains(t, buf.String(), "exactly 4 sheets")
}

func TestValidator_CustomLayout(t *testing.T) {
	layout, err := schema.Parse([]byte("sheets:\n  - name: Only\n    columns: [Key]\n"))
	require.NoError(t, err)

	dir := t.TempDir()
	path := testutil.WriteWorkbook(t, dir, "single.xlsx", []testutil.Sheet{
		{Name: "Only", Rows: [][]interface{}{{"Key"}, {"k1"}}},
	})

	res := New(layout, zerolog.Nop()).Validate(path)
	assert.True(t, res.Valid)

	// The built-in layout needs four sheets.
	assert.Equal(t, "Invalid file format: The file must contain exactly 4 sheets.", Validate(path))
}

func TestValidator_RecoversFromPanics(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "ok.xlsx", testutil.ValidCourseSheets())

	// A nil layout dereferences inside the checks.
	res := New(nil, zerolog.Nop()).Validate(path)

	assert.False(t, res.Valid)
	assert.True(t, strings.HasPrefix(res.Message, "Error processing the file: "), res.Message)
	assert.Contains(t, res.Message, "nil pointer")
}
