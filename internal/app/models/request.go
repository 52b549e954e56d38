package models

import "time"

// RequestStatus is the workflow state of a bonafide request.
// The exact strings are part of the stored data model.
type RequestStatus string

const (
	StatusPendingTutor        RequestStatus = "Pending Tutor Approval"
	StatusPendingHOD          RequestStatus = "Pending HOD Approval"
	StatusPendingPrincipal    RequestStatus = "Pending Principal Approval"
	StatusApproved            RequestStatus = "Approved"
	StatusReturnedByTutor     RequestStatus = "Returned by Tutor"
	StatusReturnedByHOD       RequestStatus = "Returned by HOD"
	StatusReturnedByPrincipal RequestStatus = "Returned by Principal"
)

// Returned reports whether the status is one of the returned-to-student states.
func (s RequestStatus) Returned() bool {
	switch s {
	case StatusReturnedByTutor, StatusReturnedByHOD, StatusReturnedByPrincipal:
		return true
	}
	return false
}

// Pending reports whether the request is waiting on an approver.
func (s RequestStatus) Pending() bool {
	switch s {
	case StatusPendingTutor, StatusPendingHOD, StatusPendingPrincipal:
		return true
	}
	return false
}

// BonafideRequest is a student's application for a bonafide certificate,
// based on the 'requests' table. Mutated only through status transitions.
type BonafideRequest struct {
	ID                int64         `json:"id" db:"id"`
	StudentID         int64         `json:"studentId" db:"student_id"`
	RequestType       string        `json:"requestType" db:"request_type" example:"Bonafide Certificate"`
	SubType           string        `json:"subType,omitempty" db:"sub_type" example:"Passport Application"`
	Reason            string        `json:"reason" db:"reason"`
	Status            RequestStatus `json:"status" db:"status"`
	ReturnReason      string        `json:"returnReason,omitempty" db:"return_reason"`
	TemplateID        *int64        `json:"templateId,omitempty" db:"template_id"`      // Chosen by HOD on forward
	CertificateSerial string        `json:"certificateSerial,omitempty" db:"certificate_serial"` // Issued on approval
	CreatedAt         time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time     `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Student  *StudentDetail       `json:"student,omitempty"`
	Template *CertificateTemplate `json:"template,omitempty"`
}
