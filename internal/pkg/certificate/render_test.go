package certificate

import (
	"strings"
	"testing"
	"time"

	"github.com/acoe/bonafide/internal/app/models"
)

const testBody = `<p>This is to certify that Mr./Ms. <strong>{studentName}</strong>,
Son/Daughter of Mr./Mrs. <strong>{parentName}</strong>, enrolled in <strong>{department}</strong>.
Roll number <strong>{studentId}</strong>, born <strong>{studentDOB}</strong>,
nationality <strong>{studentNationality}</strong>, studying in Semester {currentSemester},
from {admissionDate} to {presentDate}, for the purpose of <strong>{reason}</strong>.</p>`

func testFixtures() (*models.BonafideRequest, *models.StudentDetail, *models.CertificateTemplate) {
	dob := time.Date(2005, time.April, 14, 0, 0, 0, 0, time.UTC)
	admission := time.Date(2023, time.July, 15, 0, 0, 0, 0, time.UTC)

	req := &models.BonafideRequest{
		ID:     42,
		Reason: "Passport Application",
		Status: models.StatusPendingPrincipal,
	}
	student := &models.StudentDetail{
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
	}
	tmpl := &models.CertificateTemplate{
		Name: "Bonafide (Standard)",
		Type: models.TemplateHTML,
		Body: testBody,
	}
	return req, student, tmpl
}

func TestFillSubstitutesAllPlaceholders(t *testing.T) {
	req, student, tmpl := testFixtures()

	html, err := Fill(req, student, tmpl, Options{Now: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}

	for _, want := range []string{
		"Priya Raman",
		"Raman",
		"Computer Science and Engineering",
		"611221104023",
		"14/04/2005",
		"Indian",
		"Semester 4",
		"Passport Application",
		"15/07/2023",
		"03/03/2025",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Fill() output missing %q", want)
		}
	}

	if strings.Contains(html, "{") || strings.Contains(html, "}") {
		t.Errorf("Fill() left literal placeholder tokens in output:\n%s", html)
	}
}

func TestFillSignatureBlock(t *testing.T) {
	req, student, tmpl := testFixtures()

	html, err := Fill(req, student, tmpl, Options{
		AddSignature: true,
		Serial:       "a3a9c2d4-7e1f-4b3a-9c8d-2f5e6a7b8c9d",
		VerifyURL:    "https://portal.example.edu/api/v1/certificates/verify/a3a9c2d4-7e1f-4b3a-9c8d-2f5e6a7b8c9d",
	})
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}

	if !strings.Contains(html, "a3a9c2d4-7e1f-4b3a-9c8d-2f5e6a7b8c9d") {
		t.Error("signature block missing the certificate serial")
	}
	if !strings.Contains(html, "data:image/png;base64,") {
		t.Error("signature block missing the QR code data URI")
	}
	if !strings.Contains(html, "Seal &amp; Signature") {
		t.Error("signature block missing the signature line")
	}
}

func TestFillWithoutSignatureHasNoSerial(t *testing.T) {
	req, student, tmpl := testFixtures()

	html, err := Fill(req, student, tmpl, Options{Serial: "serial-123"})
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if strings.Contains(html, "serial-123") {
		t.Error("serial rendered despite AddSignature being false")
	}
}

func TestFillRejectsNonHTMLAndEmptyTemplates(t *testing.T) {
	req, student, tmpl := testFixtures()

	tmpl.Type = models.TemplatePDF
	if _, err := Fill(req, student, tmpl, Options{}); err == nil {
		t.Error("Fill() accepted a pdf template")
	}

	tmpl.Type = models.TemplateHTML
	tmpl.Body = "   "
	if _, err := Fill(req, student, tmpl, Options{}); err == nil {
		t.Error("Fill() accepted an empty body")
	}
}

func TestFillMissingDatesDegradeToNA(t *testing.T) {
	req, student, tmpl := testFixtures()
	student.DateOfBirth = nil
	student.AdmissionDate = nil

	html, err := Fill(req, student, tmpl, Options{})
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if !strings.Contains(html, "N/A") {
		t.Error("missing dates should render as N/A")
	}
}

func TestDownloadName(t *testing.T) {
	htmlTmpl := &models.CertificateTemplate{Name: "Bonafide (Standard)", Type: models.TemplateHTML}
	if got := DownloadName(htmlTmpl, "611221104023"); got != "Bonafide-611221104023.pdf" {
		t.Errorf("DownloadName(html) = %q", got)
	}

	wordTmpl := &models.CertificateTemplate{Name: "Scholarship", Type: models.TemplateWord}
	if got := DownloadName(wordTmpl, "611221104023"); got != "Scholarship-611221104023.word" {
		t.Errorf("DownloadName(word) = %q", got)
	}
}
