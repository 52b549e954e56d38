// Package academic derives semester numbers and semester date ranges from
// batch names. A batch name encodes its start year ("2023-2027", optionally
// followed by a section letter), and the academic year is assumed to start
// on July 1. All functions degrade to safe defaults on malformed input
// instead of returning errors, so batch bookkeeping never breaks on a bad
// name.
package academic

import (
	"strconv"
	"strings"
	"time"
)

const (
	// MinSemester and MaxSemester bound a four-year programme.
	MinSemester = 1
	MaxSemester = 8

	// academicYearStartMonth is July: odd semesters run July-December,
	// even semesters January-June of the following calendar year.
	academicYearStartMonth = time.July
)

// startYearOf parses the start year from a batch name. The portion before
// the first space is split on "-"; both halves must be present and the
// first numeric. Returns 0 and false on any parse failure.
func startYearOf(batchName string) (int, bool) {
	yearPart := batchName
	if i := strings.IndexByte(batchName, ' '); i >= 0 {
		yearPart = batchName[:i] // "2023-2027 A" -> "2023-2027"
	}

	parts := strings.Split(yearPart, "-")
	if len(parts) != 2 {
		return 0, false
	}

	startYear, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	return startYear, true
}

// CurrentSemester computes the semester a batch is in at the given moment.
// January-June counts as the even semester of the academic year that began
// the previous July; July-December as the odd semester of the current one.
// The result is clamped to [1,8]; a malformed batch name yields 1.
func CurrentSemester(batchName string, now time.Time) int {
	startYear, ok := startYearOf(batchName)
	if !ok {
		return MinSemester
	}

	offset := now.Year() - startYear

	var semester int
	if now.Month() < academicYearStartMonth {
		semester = offset * 2
	} else {
		semester = offset*2 + 1
	}

	if semester < MinSemester {
		return MinSemester
	}
	if semester > MaxSemester {
		return MaxSemester
	}
	return semester
}

// SemesterDateRange returns the calendar span of the given semester for a
// batch. Odd semesters span July 1 - December 31 of the offset year; even
// semesters January 1 - June 30 of the year after. A malformed batch name
// falls back to the full current calendar year.
func SemesterDateRange(batchName string, semester int, now time.Time) (from, to time.Time) {
	startYear, ok := startYearOf(batchName)
	if !ok {
		year := now.Year()
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	offset := (semester - 1) / 2

	if semester%2 != 0 {
		year := startYear + offset
		return time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	year := startYear + offset + 1
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.June, 30, 0, 0, 0, 0, time.UTC)
}
