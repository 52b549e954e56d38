package certificate

import (
	"bytes"
	"fmt"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// PDFConverter converts filled certificate HTML into a PDF document.
type PDFConverter interface {
	Convert(html string) ([]byte, error)
}

// WkhtmltopdfConverter renders PDFs through the wkhtmltopdf binary,
// the server-side equivalent of the html2pdf conversion the approval
// flow performs.
type WkhtmltopdfConverter struct{}

// NewWkhtmltopdfConverter returns a converter using the wkhtmltopdf
// binary found on PATH (or WKHTMLTOPDF_PATH).
func NewWkhtmltopdfConverter() *WkhtmltopdfConverter {
	return &WkhtmltopdfConverter{}
}

// Convert renders the HTML document to A4 PDF bytes.
func (c *WkhtmltopdfConverter) Convert(html string) ([]byte, error) {
	gen, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pdf generator: %w", err)
	}

	gen.PageSize.Set(wkhtmltopdf.PageSizeA4)
	gen.MarginTop.Set(15)
	gen.MarginBottom.Set(15)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	page.DisableExternalLinks.Set(true)
	gen.AddPage(page)

	if err := gen.Create(); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return gen.Bytes(), nil
}

// HTMLPassthroughConverter returns the HTML bytes unchanged. Used in
// tests and as a fallback when no wkhtmltopdf binary is installed.
type HTMLPassthroughConverter struct{}

// Convert returns the input HTML as-is.
func (HTMLPassthroughConverter) Convert(html string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(html)
	return buf.Bytes(), nil
}
