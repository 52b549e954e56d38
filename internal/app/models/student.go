package models

import "time"

// Student extends Profile via a 1:1 relation on the 'students' table.
type Student struct {
	ProfileID      int64      `json:"profileId" db:"profile_id" example:"5"`                 // ID of the owning profile
	RegisterNumber string     `json:"registerNumber" db:"register_number" example:"611221104023"` // Unique, immutable register number
	ParentName     string     `json:"parentName,omitempty" db:"parent_name"`                 // Parent/guardian name (certificate field)
	BatchID        *int64     `json:"batchId,omitempty" db:"batch_id"`                       // Batch the student belongs to
	TutorID        *int64     `json:"tutorId,omitempty" db:"tutor_id"`                       // Assigned tutor (denormalized from batch)
	HODID          *int64     `json:"hodId,omitempty" db:"hod_id"`                           // Assigned HOD (denormalized from department)
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`              // Date of birth (certificate field)
	Nationality    string     `json:"nationality,omitempty" db:"nationality"`                // Nationality (certificate field)
	AdmissionDate  *time.Time `json:"admissionDate,omitempty" db:"admission_date"`           // Date of admission (certificate field)

	// Relations (populated when needed)
	Profile *Profile `json:"profile,omitempty"` // Owning profile
	Batch   *Batch   `json:"batch,omitempty"`   // Resolved batch
}

// StudentDetail is the flattened view the dashboards and the certificate
// renderer consume: one student with every related name resolved.
type StudentDetail struct {
	Student
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName,omitempty"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	BatchName       string `json:"batchName,omitempty"`       // "2023-2027 A"
	CurrentSemester int    `json:"currentSemester,omitempty"` // From the batch
	DepartmentID    *int64 `json:"departmentId,omitempty"`
	DepartmentName  string `json:"departmentName,omitempty"`
	TutorName       string `json:"tutorName,omitempty"`
	HODName         string `json:"hodName,omitempty"`
}

// FullName joins first and last name.
func (s *StudentDetail) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
