package models

import (
	"time"
)

// Profile defines a person record based on the 'profiles' table.
// Every account (student, tutor, HOD, admin, principal) has exactly one profile.
type Profile struct {
	ID           int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the profile
	FirstName    string    `json:"firstName" db:"first_name" example:"Anitha"`               // First name
	LastName     string    `json:"lastName,omitempty" db:"last_name" example:"Kumari"`       // Last name (optional)
	Username     string    `json:"username" db:"username" example:"anitha.k"`                // Unique login username
	Email        string    `json:"email" db:"email" example:"anitha.k@college.edu"`          // Unique email address
	PhoneNumber  string    `json:"phoneNumber,omitempty" db:"phone_number"`                  // Contact phone number
	Password     string    `json:"-" db:"password"`                                          // Hashed password (excluded from JSON)
	Role         RoleType  `json:"role" db:"role" example:"student"`                         // Role, immutable after provisioning
	DepartmentID *int64    `json:"departmentId,omitempty" db:"department_id"`                // Department affiliation (tutor/hod/student)
	BatchID      *int64    `json:"batchId,omitempty" db:"batch_id"`                          // Batch affiliation (tutor/student)
	IsActive     bool      `json:"isActive" db:"is_active" example:"true"`                   // Whether the account is active
	CreatedAt    time.Time `json:"createdAt" db:"created_at" example:"2024-07-01T10:00:00Z"` // Creation timestamp
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at" example:"2024-07-02T15:30:00Z"` // Last update timestamp

	// Relations (populated when needed)
	Department *Department `json:"department,omitempty"` // Resolved department
	Batch      *Batch      `json:"batch,omitempty"`      // Resolved batch
}

// FullName joins first and last name the way the dashboards display it.
func (p *Profile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
