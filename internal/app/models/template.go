package models

import "time"

// CertificateTemplate defines a certificate document template.
// HTML templates carry their body inline; pdf/word templates reference
// an uploaded file that is served as-is on approval.
type CertificateTemplate struct {
	ID        int64        `json:"id" db:"id"`
	Name      string       `json:"name" db:"name" example:"Bonafide (Passport)"`
	Type      TemplateType `json:"type" db:"template_type" example:"html"`
	Body      string       `json:"body,omitempty" db:"body"`          // HTML body with {placeholder} tokens
	FilePath  string       `json:"filePath,omitempty" db:"file_path"` // Stored file for pdf/word types
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
}
