// Package extraction turns uploaded documents and raw job-description text
// into usable structured input for role and candidate records.
package extraction

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// MaxPDFSize is the largest accepted PDF payload.
const MaxPDFSize = 10 << 20 // 10MB

// MinReadableTextLength is the minimum extracted text length for a PDF to be
// considered readable. Scanned image-only PDFs typically yield less.
const MinReadableTextLength = 100

var pdfMagic = []byte("%PDF-")

// Document holds the result of extracting text from an uploaded file.
type Document struct {
	FileName string `json:"fileName"`
	Text     string `json:"text"`
}

// PDFText extracts plain text from a PDF payload. The label names the upload
// in error messages shown to the admin ("job description", "CV", ...).
func PDFText(data []byte, fileName, label string) (*Document, error) {
	if len(data) > MaxPDFSize {
		return nil, fmt.Errorf("%s must be ≤10MB", label)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("%s must be a PDF", label)
	}

	text, err := extractText(data)
	if err != nil {
		return nil, fmt.Errorf("%s could not be parsed: %w", label, err)
	}
	if len(text) < MinReadableTextLength {
		return nil, fmt.Errorf("%s did not contain enough readable text", label)
	}

	return &Document{FileName: fileName, Text: text}, nil
}

func extractText(data []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			continue
		}
		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n\n")
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
