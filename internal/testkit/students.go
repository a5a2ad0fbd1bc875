// Package testkit generates the demo dataset: synthetic student grades.
package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"

	"goviz/domain/table"
)

var firstNames = []string{
	"Alexander", "Ekaterina", "Mikhail", "Anna", "Dmitry", "Olga",
	"Sergey", "Maria", "Ivan", "Natalia", "Andrey", "Elena",
	"Nikita", "Tatiana", "Vladimir", "Irina", "Alexey", "Yulia",
}

var lastNames = []string{
	"Ivanov", "Smirnova", "Kuznetsov", "Popova", "Sokolov", "Lebedeva",
	"Novikov", "Morozova", "Petrov", "Volkova", "Zakharov", "Pavlova",
	"Solovyov", "Semenova", "Mikhailov", "Fedorova", "Stepanov", "Orlova",
}

// Subjects lists the subjects every student is graded in.
var Subjects = []string{
	"Mathematics", "Physics", "Computer Science", "Russian Language",
	"Literature", "History", "Biology", "Chemistry", "Geography",
}

// ScholarshipThreshold is the average grade that earns a scholarship.
const ScholarshipThreshold = 4.5

// StudentGeneratorConfig configures the student data generator
type StudentGeneratorConfig struct {
	StudentCount  int   `json:"student_count"`
	ReferenceYear int   `json:"reference_year"` // entry year = ReferenceYear - course
	Seed          int64 `json:"seed"`
}

// DefaultStudentConfig returns the defaults used by the demo page
func DefaultStudentConfig() StudentGeneratorConfig {
	return StudentGeneratorConfig{
		StudentCount:  50,
		ReferenceYear: time.Now().Year(),
		Seed:          42,
	}
}

// Student is one generated student with per-subject grades and attendance
type Student struct {
	ID                int                `json:"id"`
	FirstName         string             `json:"first_name"`
	LastName          string             `json:"last_name"`
	Age               int                `json:"age"`
	Course            int                `json:"course"`
	EntryYear         int                `json:"entry_year"`
	Grades            map[string]float64 `json:"grades"`
	Attendance        map[string]float64 `json:"attendance"`
	AverageGrade      float64            `json:"average_grade"`
	AverageAttendance float64            `json:"average_attendance"`
	Scholarship       bool               `json:"scholarship"`
}

// StudentGenerator generates reproducible student data. The same config
// always yields the same students.
type StudentGenerator struct {
	config StudentGeneratorConfig
	rng    *rand.Rand
}

// NewStudentGenerator creates a generator seeded from config
func NewStudentGenerator(config StudentGeneratorConfig) *StudentGenerator {
	return &StudentGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Students generates config.StudentCount students
func (g *StudentGenerator) Students() []Student {
	students := make([]Student, 0, g.config.StudentCount)
	for i := 1; i <= g.config.StudentCount; i++ {
		students = append(students, g.student(i))
	}
	return students
}

func (g *StudentGenerator) student(id int) Student {
	s := Student{
		ID:         id,
		FirstName:  firstNames[g.rng.Intn(len(firstNames))],
		LastName:   lastNames[g.rng.Intn(len(lastNames))],
		Age:        18 + g.rng.Intn(8),
		Course:     1 + g.rng.Intn(5),
		Grades:     make(map[string]float64, len(Subjects)),
		Attendance: make(map[string]float64, len(Subjects)),
	}
	s.EntryYear = g.config.ReferenceYear - s.Course

	var gradeSum, attendanceSum float64
	for _, subject := range Subjects {
		grade := round(g.uniform(2.0, 5.0), 1)
		attendance := round(g.uniform(60.0, 100.0), 1)
		s.Grades[subject] = grade
		s.Attendance[subject] = attendance
		gradeSum += grade
		attendanceSum += attendance
	}
	s.AverageGrade = round(gradeSum/float64(len(Subjects)), 2)
	s.AverageAttendance = round(attendanceSum/float64(len(Subjects)), 2)
	s.Scholarship = s.AverageGrade >= ScholarshipThreshold
	return s
}

func (g *StudentGenerator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// columns of the flattened student table, one row per student and subject
var columns = []struct {
	name string
	typ  table.ColumnType
}{
	{"student_id", table.Integer},
	{"first_name", table.Text},
	{"last_name", table.Text},
	{"age", table.Integer},
	{"course", table.Integer},
	{"entry_year", table.Integer},
	{"subject", table.Text},
	{"grade", table.Float},
	{"attendance", table.Float},
	{"average_grade", table.Float},
	{"average_attendance", table.Float},
	{"scholarship", table.Boolean},
}

func flatten(students []Student) [][]any {
	rows := make([][]any, 0, len(students)*len(Subjects))
	for _, s := range students {
		for _, subject := range Subjects {
			rows = append(rows, []any{
				s.ID, s.FirstName, s.LastName, s.Age, s.Course, s.EntryYear,
				subject, s.Grades[subject], s.Attendance[subject],
				s.AverageGrade, s.AverageAttendance, s.Scholarship,
			})
		}
	}
	return rows
}

// Table flattens students into one row per student and subject.
func Table(students []Student) (*table.Table, error) {
	rows := flatten(students)
	cols := make([]*table.Column, len(columns))
	for j, c := range columns {
		values := make([]any, len(rows))
		for i, row := range rows {
			values[i] = row[j]
		}
		col, err := table.NewColumn(c.name, c.typ, values)
		if err != nil {
			return nil, err
		}
		cols[j] = col
	}
	return table.New(cols...)
}

// WriteCSV writes the flattened student table as UTF-8 CSV with a byte
// order mark, the way spreadsheet tools expect it.
func WriteCSV(w io.Writer, students []Student) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(columns))
	for j, c := range columns {
		header[j] = c.name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range flatten(students) {
		record := make([]string, len(row))
		for j, v := range row {
			switch x := v.(type) {
			case int:
				record[j] = strconv.Itoa(x)
			default:
				record[j] = table.FormatValue(x)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
