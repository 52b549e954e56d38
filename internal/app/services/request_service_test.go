package services

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
	"github.com/acoe/bonafide/internal/pkg/certificate"
)

// brokenConverter stands in for a wkhtmltopdf binary that is missing or
// rejects the document.
type brokenConverter struct{}

func (brokenConverter) Convert(string) ([]byte, error) {
	return nil, errors.New("wkhtmltopdf: executable not found")
}

func renderFixtures() (*models.BonafideRequest, *models.CertificateTemplate) {
	dob := time.Date(2005, time.April, 14, 0, 0, 0, 0, time.UTC)
	admission := time.Date(2023, time.July, 15, 0, 0, 0, 0, time.UTC)

	req := &models.BonafideRequest{
		ID:     7,
		Reason: "Bank Account",
		Status: models.StatusPendingPrincipal,
		Student: &models.StudentDetail{
			Student: models.Student{
				RegisterNumber: "611221104023",
				ParentName:     "Raman",
				DateOfBirth:    &dob,
				Nationality:    "Indian",
				AdmissionDate:  &admission,
			},
			FirstName:       "Priya",
			LastName:        "Raman",
			DepartmentName:  "Computer Science and Engineering",
			CurrentSemester: 4,
		},
	}
	tmpl := &models.CertificateTemplate{
		Name: "Bonafide (Standard)",
		Type: models.TemplateHTML,
		Body: "<p>{studentName}, {studentId}, {reason}</p>",
	}
	return req, tmpl
}

func TestRenderPDFConversionFailureSurfacesAsRenderError(t *testing.T) {
	svc := &RequestService{
		pdfConverter:  brokenConverter{},
		verifyBaseURL: "http://localhost:8080",
		logger:        zerolog.Nop(),
	}
	req, tmpl := renderFixtures()

	_, err := svc.renderPDF(req, tmpl, "serial-1", time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRenderFailed)
}

func TestRenderPDFProducesDocumentWithSerial(t *testing.T) {
	svc := &RequestService{
		pdfConverter:  certificate.HTMLPassthroughConverter{},
		verifyBaseURL: "http://localhost:8080",
		logger:        zerolog.Nop(),
	}
	req, tmpl := renderFixtures()

	content, err := svc.renderPDF(req, tmpl, "serial-1", time.Now())

	require.NoError(t, err)
	assert.Contains(t, string(content), "serial-1")
	assert.Contains(t, string(content), "Priya Raman")
}
