package models

import "time"

// Batch represents an academic cohort identified by a year-range name
// (e.g. "2023-2027") and an optional section letter. Sections of the same
// name within a department are siblings and share total_sections.
type Batch struct {
	ID               int64       `json:"id" db:"id"`
	DepartmentID     int64       `json:"departmentId" db:"department_id"`
	Name             string      `json:"name" db:"name" example:"2023-2027"`    // Encoded start-end year range
	Section          string      `json:"section,omitempty" db:"section"`        // Section letter, empty for single-section batches
	TotalSections    int         `json:"totalSections" db:"total_sections"`     // Shared across sibling sections
	TutorID          *int64      `json:"tutorId,omitempty" db:"tutor_id"`       // Assigned tutor
	CurrentSemester  int         `json:"currentSemester" db:"current_semester"` // Derived, clamped to [1,8]
	SemesterFromDate *time.Time  `json:"semesterFromDate,omitempty" db:"semester_from_date"`
	SemesterToDate   *time.Time  `json:"semesterToDate,omitempty" db:"semester_to_date"`
	Status           BatchStatus `json:"status" db:"status" example:"Active"`
	StudentCount     int         `json:"studentCount" db:"student_count"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`

	Department *Department `json:"department,omitempty"`
	Tutor      *Profile    `json:"tutor,omitempty"`
}

// FullName returns the display name including the section letter,
// e.g. "2023-2027 A". The semester derivation parses this form.
func (b *Batch) FullName() string {
	if b.Section == "" {
		return b.Name
	}
	return b.Name + " " + b.Section
}
