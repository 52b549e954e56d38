// Package certificate fills bonafide certificate templates and converts
// the result into downloadable documents. Template bodies are stored,
// admin-editable HTML with single-brace {placeholder} tokens.
package certificate

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/acoe/bonafide/internal/app/models"
)

// Placeholder tokens recognised in HTML template bodies.
const (
	PlaceholderStudentName     = "{studentName}"
	PlaceholderParentName      = "{parentName}"
	PlaceholderDepartment      = "{department}"
	PlaceholderStudentID       = "{studentId}"
	PlaceholderStudentDOB      = "{studentDOB}"
	PlaceholderNationality     = "{studentNationality}"
	PlaceholderCurrentSemester = "{currentSemester}"
	PlaceholderReason          = "{reason}"
	PlaceholderAdmissionDate   = "{admissionDate}"
	PlaceholderPresentDate     = "{presentDate}"
)

// Options controls optional parts of the rendered certificate.
type Options struct {
	// AddSignature appends the seal-and-signature block with the
	// verification QR code.
	AddSignature bool
	// Serial is the certificate serial embedded in the signature block.
	Serial string
	// VerifyURL is the public verification endpoint for the serial.
	VerifyURL string
	// Now is the issue timestamp; zero means time.Now().
	Now time.Time
}

// formatDate renders a date as dd/mm/yyyy, the format the certificates use.
// Nil dates come out as "N/A" rather than a zero date.
func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Format("02/01/2006")
}

// Fill substitutes the request and student fields into an HTML template
// body. Every placeholder token is replaced; unknown text is left alone.
func Fill(req *models.BonafideRequest, student *models.StudentDetail, tmpl *models.CertificateTemplate, opts Options) (string, error) {
	if tmpl.Type != models.TemplateHTML {
		return "", fmt.Errorf("template %q is %s, not html", tmpl.Name, tmpl.Type)
	}
	if strings.TrimSpace(tmpl.Body) == "" {
		return "", fmt.Errorf("template %q has an empty body", tmpl.Name)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	nationality := student.Nationality
	if nationality == "" {
		nationality = "Indian"
	}

	replacer := strings.NewReplacer(
		PlaceholderStudentName, student.FullName(),
		PlaceholderParentName, student.ParentName,
		PlaceholderDepartment, student.DepartmentName,
		PlaceholderStudentID, student.RegisterNumber,
		PlaceholderStudentDOB, formatDate(student.DateOfBirth),
		PlaceholderNationality, nationality,
		PlaceholderCurrentSemester, fmt.Sprintf("%d", student.CurrentSemester),
		PlaceholderReason, req.Reason,
		PlaceholderAdmissionDate, formatDate(student.AdmissionDate),
		PlaceholderPresentDate, now.Format("02/01/2006"),
	)

	html := replacer.Replace(tmpl.Body)

	if opts.AddSignature {
		block, err := signatureBlock(opts.Serial, opts.VerifyURL, now)
		if err != nil {
			return "", err
		}
		html += block
	}

	return html, nil
}

// signatureBlock renders the seal-and-signature footer with the serial's
// verification QR code embedded as a data URI.
func signatureBlock(serial, verifyURL string, now time.Time) (string, error) {
	var qrImg string
	if serial != "" && verifyURL != "" {
		png, err := qrcode.Encode(verifyURL, qrcode.Medium, 96)
		if err != nil {
			return "", fmt.Errorf("failed to encode verification QR code: %w", err)
		}
		qrImg = fmt.Sprintf(`<img src="data:image/png;base64,%s" alt="verification QR" width="96" height="96"/>`,
			base64.StdEncoding.EncodeToString(png))
	}

	var b strings.Builder
	b.WriteString(`<div style="margin-top: 40px; display: flex; justify-content: space-between;">`)
	b.WriteString(`<div><p><strong>Date:</strong> ` + now.Format("02/01/2006") + `</p><p><strong>Place:</strong> Hosur</p>`)
	if serial != "" {
		b.WriteString(`<p style="font-size: 11px;">Certificate No: ` + serial + `</p>`)
	}
	if qrImg != "" {
		b.WriteString(qrImg)
	}
	b.WriteString(`</div>`)
	b.WriteString(`<div style="text-align: right;"><p style="margin-bottom: 50px;">&nbsp;</p>`)
	b.WriteString(`<p><strong>Seal &amp; Signature of Head of Institution / Principal</strong></p></div>`)
	b.WriteString(`</div>`)
	return b.String(), nil
}

// DownloadName builds the file name an approved certificate is offered
// under: Bonafide-<registerNumber>.pdf for rendered HTML templates, or
// <templateName>-<registerNumber>.<type> for stored files.
func DownloadName(tmpl *models.CertificateTemplate, registerNumber string) string {
	if tmpl.Type == models.TemplateHTML {
		return fmt.Sprintf("Bonafide-%s.pdf", registerNumber)
	}
	return fmt.Sprintf("%s-%s.%s", tmpl.Name, registerNumber, tmpl.Type)
}
