package dto

import (
	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/pkg/importer"
)

// ProfileResponse represents basic account information
type ProfileResponse struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName,omitempty"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Role         string `json:"role"`
	DepartmentID *int64 `json:"departmentId,omitempty"`
	BatchID      *int64 `json:"batchId,omitempty"`
	IsActive     bool   `json:"isActive"`
}

// NewProfileResponse maps a profile to its response form
func NewProfileResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Username:     p.Username,
		Email:        p.Email,
		PhoneNumber:  p.PhoneNumber,
		Role:         string(p.Role),
		DepartmentID: p.DepartmentID,
		BatchID:      p.BatchID,
		IsActive:     p.IsActive,
	}
}

// CreateStaffRequest provisions a tutor, HOD, admin or principal account
type CreateStaffRequest struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName"`
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	PhoneNumber  string `json:"phoneNumber"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role" binding:"required,oneof=tutor hod admin principal"`
	DepartmentID *int64 `json:"departmentId"`
	BatchID      *int64 `json:"batchId"`
}

// CreateStudentRequest provisions a student together with its profile
type CreateStudentRequest struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName"`
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	PhoneNumber    string `json:"phoneNumber"`
	Password       string `json:"password" binding:"required,min=8"`
	RegisterNumber string `json:"registerNumber" binding:"required"`
	ParentName     string `json:"parentName"`
	DepartmentID   int64  `json:"departmentId" binding:"required,min=1"`
	BatchID        int64  `json:"batchId" binding:"required,min=1"`
	DateOfBirth    string `json:"dateOfBirth"`   // YYYY-MM-DD
	Nationality    string `json:"nationality"`
	AdmissionDate  string `json:"admissionDate"` // YYYY-MM-DD
}

// UpdateStudentRequest updates the mutable fields of a student.
// The register number is immutable and deliberately absent.
type UpdateStudentRequest struct {
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName"`
	Email         string `json:"email" binding:"required,email"`
	PhoneNumber   string `json:"phoneNumber"`
	ParentName    string `json:"parentName"`
	BatchID       int64  `json:"batchId" binding:"required,min=1"`
	DateOfBirth   string `json:"dateOfBirth"`
	Nationality   string `json:"nationality"`
	AdmissionDate string `json:"admissionDate"`
}

// StudentResponse represents a student with resolved relations
type StudentResponse struct {
	ProfileID       int64  `json:"profileId"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName,omitempty"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	RegisterNumber  string `json:"registerNumber"`
	ParentName      string `json:"parentName,omitempty"`
	DepartmentID    *int64 `json:"departmentId,omitempty"`
	DepartmentName  string `json:"departmentName,omitempty"`
	BatchID         *int64 `json:"batchId,omitempty"`
	BatchName       string `json:"batchName,omitempty"`
	CurrentSemester int    `json:"currentSemester,omitempty"`
	TutorID         *int64 `json:"tutorId,omitempty"`
	TutorName       string `json:"tutorName,omitempty"`
	HODID           *int64 `json:"hodId,omitempty"`
	HODName         string `json:"hodName,omitempty"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	Nationality     string `json:"nationality,omitempty"`
	AdmissionDate   string `json:"admissionDate,omitempty"`
}

// NewStudentResponse maps a student detail view to its response form
func NewStudentResponse(s *models.StudentDetail) *StudentResponse {
	resp := &StudentResponse{
		ProfileID:       s.ProfileID,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		Username:        s.Username,
		Email:           s.Email,
		PhoneNumber:     s.PhoneNumber,
		RegisterNumber:  s.RegisterNumber,
		ParentName:      s.ParentName,
		DepartmentID:    s.DepartmentID,
		DepartmentName:  s.DepartmentName,
		BatchID:         s.BatchID,
		BatchName:       s.BatchName,
		CurrentSemester: s.CurrentSemester,
		TutorID:         s.TutorID,
		TutorName:       s.TutorName,
		HODID:           s.HODID,
		HODName:         s.HODName,
		Nationality:     s.Nationality,
	}
	if s.DateOfBirth != nil {
		resp.DateOfBirth = s.DateOfBirth.Format("2006-01-02")
	}
	if s.AdmissionDate != nil {
		resp.AdmissionDate = s.AdmissionDate.Format("2006-01-02")
	}
	return resp
}

// ImportedCredential carries the generated initial password of one imported
// student. It is returned once in the import report and never stored.
type ImportedCredential struct {
	Line           int    `json:"line"`
	Username       string `json:"username"`
	RegisterNumber string `json:"registerNumber"`
	Password       string `json:"password"`
}

// ImportResultResponse summarizes a bulk student upload
type ImportResultResponse struct {
	Imported    int                  `json:"imported"`
	Failed      int                  `json:"failed"`
	Credentials []ImportedCredential `json:"credentials,omitempty"`
	Errors      []importer.RowError  `json:"errors,omitempty"`
}
