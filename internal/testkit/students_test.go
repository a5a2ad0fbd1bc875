package testkit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goviz/adapters/ingest"
	"goviz/domain/table"
)

func testConfig() StudentGeneratorConfig {
	return StudentGeneratorConfig{StudentCount: 12, ReferenceYear: 2024, Seed: 7}
}

func TestStudentGenerator_Ranges(t *testing.T) {
	students := NewStudentGenerator(testConfig()).Students()

	require.Len(t, students, 12)
	for i, s := range students {
		assert.Equal(t, i+1, s.ID)
		assert.GreaterOrEqual(t, s.Age, 18)
		assert.LessOrEqual(t, s.Age, 25)
		assert.GreaterOrEqual(t, s.Course, 1)
		assert.LessOrEqual(t, s.Course, 5)
		assert.Equal(t, 2024-s.Course, s.EntryYear)
		assert.Len(t, s.Grades, len(Subjects))
		for _, subject := range Subjects {
			assert.GreaterOrEqual(t, s.Grades[subject], 2.0)
			assert.LessOrEqual(t, s.Grades[subject], 5.0)
			assert.GreaterOrEqual(t, s.Attendance[subject], 60.0)
			assert.LessOrEqual(t, s.Attendance[subject], 100.0)
		}
		assert.Equal(t, s.AverageGrade >= ScholarshipThreshold, s.Scholarship)
	}
}

func TestStudentGenerator_Deterministic(t *testing.T) {
	a := NewStudentGenerator(testConfig()).Students()
	b := NewStudentGenerator(testConfig()).Students()

	assert.Equal(t, a, b)

	other := testConfig()
	other.Seed = 8
	assert.NotEqual(t, a, NewStudentGenerator(other).Students())
}

func TestTable(t *testing.T) {
	students := NewStudentGenerator(testConfig()).Students()

	tbl, err := Table(students)

	require.NoError(t, err)
	assert.Equal(t, 12*len(Subjects), tbl.NumRows())
	assert.Equal(t, 12, tbl.NumColumns())
	subject, ok := tbl.Column("subject")
	require.True(t, ok)
	assert.Len(t, subject.Distinct(), len(Subjects))
}

func TestWriteCSV_RoundTripsThroughIngest(t *testing.T) {
	students := NewStudentGenerator(testConfig()).Students()
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, students))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
	parsed, err := ingest.Parse(buf.Bytes(), ingest.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 12*len(Subjects), parsed.NumRows())

	grade, _ := parsed.Column("grade")
	assert.Equal(t, table.Float, grade.Type)
	scholarship, _ := parsed.Column("scholarship")
	assert.Equal(t, table.Boolean, scholarship.Type)
	id, _ := parsed.Column("student_id")
	assert.Equal(t, table.Integer, id.Type)
}
