package dto

import "github.com/acoe/bonafide/internal/app/models"

// CreateBatchRequest represents batch creation data. Creating a batch
// with totalSections > 1 creates one row per section (A, B, ...).
type CreateBatchRequest struct {
	Name          string `json:"name" binding:"required"`
	DepartmentID  int64  `json:"departmentId" binding:"required,min=1"`
	TotalSections int    `json:"totalSections" binding:"min=0,max=26"`
	TutorID       *int64 `json:"tutorId"`
}

// UpdateBatchRequest represents batch update data. Changing totalSections
// is applied to every sibling section of the same batch name.
type UpdateBatchRequest struct {
	Name          string `json:"name" binding:"required"`
	TotalSections int    `json:"totalSections" binding:"min=0,max=26"`
	TutorID       *int64 `json:"tutorId"`
	Status        string `json:"status" binding:"omitempty,oneof=Active Inactive"`
}

// OverrideSemesterRequest represents a manual semester assignment
type OverrideSemesterRequest struct {
	Semester int `json:"semester" binding:"required,min=1,max=8"`
}

// BatchResponse represents batch information
type BatchResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Section          string `json:"section,omitempty"`
	DisplayName      string `json:"displayName"`
	DepartmentID     int64  `json:"departmentId"`
	DepartmentName   string `json:"departmentName,omitempty"`
	TotalSections    int    `json:"totalSections"`
	TutorID          *int64 `json:"tutorId,omitempty"`
	TutorName        string `json:"tutorName,omitempty"`
	CurrentSemester  int    `json:"currentSemester"`
	SemesterFromDate string `json:"semesterFromDate,omitempty"`
	SemesterToDate   string `json:"semesterToDate,omitempty"`
	Status           string `json:"status"`
	StudentCount     int    `json:"studentCount"`
}

// NewBatchResponse maps a batch to its response form
func NewBatchResponse(b *models.Batch) *BatchResponse {
	resp := &BatchResponse{
		ID:              b.ID,
		Name:            b.Name,
		Section:         b.Section,
		DisplayName:     b.FullName(),
		DepartmentID:    b.DepartmentID,
		TotalSections:   b.TotalSections,
		TutorID:         b.TutorID,
		CurrentSemester: b.CurrentSemester,
		Status:          string(b.Status),
		StudentCount:    b.StudentCount,
	}
	if b.Department != nil {
		resp.DepartmentName = b.Department.Name
	}
	if b.Tutor != nil {
		resp.TutorName = b.Tutor.FullName()
	}
	if b.SemesterFromDate != nil {
		resp.SemesterFromDate = b.SemesterFromDate.Format("2006-01-02")
	}
	if b.SemesterToDate != nil {
		resp.SemesterToDate = b.SemesterToDate.Format("2006-01-02")
	}
	return resp
}
