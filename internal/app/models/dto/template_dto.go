package dto

import "github.com/acoe/bonafide/internal/app/models"

// CreateTemplateRequest represents certificate template creation data.
// HTML templates carry their body inline; pdf/word templates are uploaded
// as multipart files and only carry metadata here.
type CreateTemplateRequest struct {
	Name string `json:"name" form:"name" binding:"required"`
	Type string `json:"type" form:"type" binding:"required,oneof=html pdf word"`
	Body string `json:"body" form:"body"`
}

// UpdateTemplateRequest represents certificate template update data
type UpdateTemplateRequest struct {
	Name string `json:"name" form:"name" binding:"required"`
	Type string `json:"type" form:"type" binding:"required,oneof=html pdf word"`
	Body string `json:"body" form:"body"`
}

// TemplateResponse represents certificate template information
type TemplateResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Body      string `json:"body,omitempty"`
	FilePath  string `json:"filePath,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// NewTemplateResponse maps a template to its response form
func NewTemplateResponse(t *models.CertificateTemplate) *TemplateResponse {
	return &TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Type:      string(t.Type),
		Body:      t.Body,
		FilePath:  t.FilePath,
		CreatedAt: t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
