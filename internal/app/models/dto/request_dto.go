package dto

import "github.com/acoe/bonafide/internal/app/models"

// CreateRequestRequest represents a student's new bonafide application
type CreateRequestRequest struct {
	SubType string `json:"subType"`
	Reason  string `json:"reason" binding:"required"`
}

// ForwardRequestRequest carries the approver's forward action. The
// template is required only when the HOD forwards to the principal.
type ForwardRequestRequest struct {
	TemplateID *int64 `json:"templateId"`
}

// ReturnRequestRequest carries the approver's return action
type ReturnRequestRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ResubmitRequestRequest lets a student amend and resubmit a returned request
type ResubmitRequestRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RequestResponse represents a bonafide request with its student context
type RequestResponse struct {
	ID                int64  `json:"id"`
	StudentID         int64  `json:"studentId"`
	StudentName       string `json:"studentName,omitempty"`
	RegisterNumber    string `json:"registerNumber,omitempty"`
	BatchName         string `json:"batchName,omitempty"`
	DepartmentName    string `json:"departmentName,omitempty"`
	CurrentSemester   int    `json:"currentSemester,omitempty"`
	RequestType       string `json:"requestType"`
	SubType           string `json:"subType,omitempty"`
	Reason            string `json:"reason"`
	Status            string `json:"status"`
	ReturnReason      string `json:"returnReason,omitempty"`
	TemplateID        *int64 `json:"templateId,omitempty"`
	TemplateName      string `json:"templateName,omitempty"`
	CertificateSerial string `json:"certificateSerial,omitempty"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

// NewRequestResponse maps a request and its resolved relations to the response form
func NewRequestResponse(r *models.BonafideRequest) RequestResponse {
	resp := RequestResponse{
		ID:                r.ID,
		StudentID:         r.StudentID,
		RequestType:       r.RequestType,
		SubType:           r.SubType,
		Reason:            r.Reason,
		Status:            string(r.Status),
		ReturnReason:      r.ReturnReason,
		TemplateID:        r.TemplateID,
		CertificateSerial: r.CertificateSerial,
		CreatedAt:         r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:         r.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if r.Student != nil {
		resp.StudentName = r.Student.FullName()
		resp.RegisterNumber = r.Student.RegisterNumber
		resp.BatchName = r.Student.BatchName
		resp.DepartmentName = r.Student.DepartmentName
		resp.CurrentSemester = r.Student.CurrentSemester
	}
	if r.Template != nil {
		resp.TemplateName = r.Template.Name
	}
	return resp
}

// CertificateVerification is the public verification view of an approved request
type CertificateVerification struct {
	Serial         string `json:"serial"`
	StudentName    string `json:"studentName"`
	RegisterNumber string `json:"registerNumber"`
	Department     string `json:"department,omitempty"`
	Batch          string `json:"batch,omitempty"`
	IssuedAt       string `json:"issuedAt"`
	Valid          bool   `json:"valid"`
}
