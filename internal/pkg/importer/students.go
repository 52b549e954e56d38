// Package importer parses bulk student upload files. The upload format is
// CSV with a fixed header; every row is validated in full and malformed
// rows are reported with their line number instead of being skipped
// silently.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// StudentHeaders is the required column set of the bulk upload template,
// in order.
var StudentHeaders = []string{
	"first_name",
	"last_name",
	"username",
	"email",
	"phone_number",
	"register_number",
	"parent_name",
	"department_id",
	"batch_id",
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// StudentRow is one parsed, validated row of the upload.
type StudentRow struct {
	Line           int    `json:"line"` // 1-based line number in the file
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName,omitempty"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	RegisterNumber string `json:"registerNumber"`
	ParentName     string `json:"parentName,omitempty"`
	DepartmentID   int64  `json:"departmentId"`
	BatchID        int64  `json:"batchId"`
}

// RowError reports one validation failure in the upload.
type RowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Template returns the CSV template content for the bulk upload: the
// header line the parser requires.
func Template() string {
	return strings.Join(StudentHeaders, ",") + "\n"
}

// ParseStudents reads a CSV student upload. It returns the valid rows and
// the per-row validation errors. A malformed header fails the whole file:
// no rows are returned so nothing is imported by accident from a file
// with shifted columns.
func ParseStudents(r io.Reader) ([]StudentRow, []RowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	if err := validateHeader(header); err != nil {
		return nil, nil, err
	}

	var rows []StudentRow
	var rowErrs []RowError

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Message: err.Error()})
			continue
		}

		row, errs := parseRow(line, record)
		if len(errs) > 0 {
			rowErrs = append(rowErrs, errs...)
			continue
		}
		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

// validateHeader checks the header matches StudentHeaders exactly.
func validateHeader(header []string) error {
	if len(header) != len(StudentHeaders) {
		return fmt.Errorf("header has %d columns, want %d (%s)", len(header), len(StudentHeaders), strings.Join(StudentHeaders, ","))
	}
	for i, want := range StudentHeaders {
		got := strings.TrimSpace(strings.ToLower(header[i]))
		if got != want {
			return fmt.Errorf("header column %d is %q, want %q", i+1, header[i], want)
		}
	}
	return nil
}

func parseRow(line int, record []string) (StudentRow, []RowError) {
	var errs []RowError

	field := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := StudentRow{
		Line:           line,
		FirstName:      field(0),
		LastName:       field(1),
		Username:       field(2),
		Email:          field(3),
		PhoneNumber:    field(4),
		RegisterNumber: field(5),
		ParentName:     field(6),
	}

	require := func(name, value string) {
		if value == "" {
			errs = append(errs, RowError{Line: line, Field: name, Message: "is required"})
		}
	}

	require("first_name", row.FirstName)
	require("username", row.Username)
	require("email", row.Email)
	require("register_number", row.RegisterNumber)

	if row.Email != "" && !emailPattern.MatchString(row.Email) {
		errs = append(errs, RowError{Line: line, Field: "email", Message: "is not a valid email address"})
	}

	if digits := countDigits(row.PhoneNumber); row.PhoneNumber != "" && digits < 10 {
		errs = append(errs, RowError{Line: line, Field: "phone_number", Message: "must contain at least 10 digits"})
	}

	if v, err := parseID(field(7)); err != nil {
		errs = append(errs, RowError{Line: line, Field: "department_id", Message: err.Error()})
	} else {
		row.DepartmentID = v
	}

	if v, err := parseID(field(8)); err != nil {
		errs = append(errs, RowError{Line: line, Field: "batch_id", Message: err.Error()})
	} else {
		row.BatchID = v
	}

	return row, errs
}

func parseID(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("is required")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("must be a positive integer")
	}
	return v, nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
