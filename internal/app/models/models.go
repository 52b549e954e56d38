package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent   RoleType = "student"
	RoleTutor     RoleType = "tutor"
	RoleHOD       RoleType = "hod"
	RoleAdmin     RoleType = "admin"
	RolePrincipal RoleType = "principal"
)

// Valid reports whether r is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleTutor, RoleHOD, RoleAdmin, RolePrincipal:
		return true
	}
	return false
}

// BatchStatus represents the lifecycle state of a batch
type BatchStatus string

const (
	BatchActive   BatchStatus = "Active"
	BatchInactive BatchStatus = "Inactive"
)

// TemplateType represents the kind of certificate template
type TemplateType string

const (
	TemplateHTML TemplateType = "html"
	TemplatePDF  TemplateType = "pdf"
	TemplateWord TemplateType = "word"
)
