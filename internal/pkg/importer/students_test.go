package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validHeader = "first_name,last_name,username,email,phone_number,register_number,parent_name,department_id,batch_id"

func TestParseStudentsValidFile(t *testing.T) {
	input := validHeader + "\n" +
		"Priya,Sharma,priya.sharma,priya@example.edu,9876543210,CS2023001,Rajesh Sharma,1,2\n" +
		"Arun,Kumar,arun.kumar,arun@example.edu,9876500000,CS2023002,Vel Kumar,1,2\n"

	rows, rowErrs, err := ParseStudents(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Priya", rows[0].FirstName)
	assert.Equal(t, "priya.sharma", rows[0].Username)
	assert.Equal(t, "CS2023001", rows[0].RegisterNumber)
	assert.Equal(t, int64(1), rows[0].DepartmentID)
	assert.Equal(t, int64(2), rows[0].BatchID)
	assert.Equal(t, "Arun", rows[1].FirstName)
}

func TestParseStudentsRejectsBadHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing column", "first_name,last_name,username,email,phone_number,register_number,parent_name,department_id"},
		{"wrong column name", "firstname,last_name,username,email,phone_number,register_number,parent_name,department_id,batch_id"},
		{"shuffled columns", "username,first_name,last_name,email,phone_number,register_number,parent_name,department_id,batch_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.header + "\nPriya,Sharma,priya,priya@example.edu,9876543210,CS2023001,Rajesh,1,2\n"
			rows, rowErrs, err := ParseStudents(strings.NewReader(input))
			assert.Error(t, err)
			assert.Empty(t, rows)
			assert.Empty(t, rowErrs)
		})
	}
}

func TestParseStudentsHeaderCaseInsensitive(t *testing.T) {
	input := strings.ToUpper(validHeader) + "\n" +
		"Priya,Sharma,priya,priya@example.edu,9876543210,CS2023001,Rajesh,1,2\n"

	rows, rowErrs, err := ParseStudents(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Len(t, rows, 1)
}

func TestParseStudentsReportsRowErrorsWithLineNumbers(t *testing.T) {
	input := validHeader + "\n" +
		"Priya,Sharma,priya,priya@example.edu,9876543210,CS2023001,Rajesh,1,2\n" +
		",Sharma,nofirst,nofirst@example.edu,9876543210,CS2023003,Rajesh,1,2\n" +
		"Arun,Kumar,arun,not-an-email,9876543210,CS2023004,Vel,1,2\n" +
		"Dev,Anand,dev,dev@example.edu,9876543210,CS2023005,Gopal,zero,2\n"

	rows, rowErrs, err := ParseStudents(strings.NewReader(input))
	require.NoError(t, err)

	// only the first row is importable
	require.Len(t, rows, 1)
	assert.Equal(t, "CS2023001", rows[0].RegisterNumber)

	require.Len(t, rowErrs, 3)
	assert.Equal(t, 3, rowErrs[0].Line)
	assert.Equal(t, "first_name", rowErrs[0].Field)
	assert.Equal(t, 4, rowErrs[1].Line)
	assert.Equal(t, "email", rowErrs[1].Field)
	assert.Equal(t, 5, rowErrs[2].Line)
	assert.Equal(t, "department_id", rowErrs[2].Field)
}

func TestParseStudentsMultipleErrorsOnOneRow(t *testing.T) {
	input := validHeader + "\n" +
		",Sharma,,bad-email,123,,Rajesh,-1,0\n"

	rows, rowErrs, err := ParseStudents(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rows)

	fields := make([]string, 0, len(rowErrs))
	for _, re := range rowErrs {
		assert.Equal(t, 2, re.Line)
		fields = append(fields, re.Field)
	}
	assert.ElementsMatch(t, []string{"first_name", "username", "email", "phone_number", "register_number", "department_id", "batch_id"}, fields)
}

func TestParseStudentsEmptyFile(t *testing.T) {
	_, _, err := ParseStudents(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseStudentsHeaderOnly(t *testing.T) {
	rows, rowErrs, err := ParseStudents(strings.NewReader(validHeader + "\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, rowErrs)
}

func TestTemplateMatchesRequiredHeader(t *testing.T) {
	assert.Equal(t, validHeader+"\n", Template())
}

func TestRowErrorString(t *testing.T) {
	assert.Equal(t, "line 3: email: is not a valid email address",
		RowError{Line: 3, Field: "email", Message: "is not a valid email address"}.Error())
	assert.Equal(t, "line 7: record on line 7: wrong number of fields",
		RowError{Line: 7, Message: "record on line 7: wrong number of fields"}.Error())
}
