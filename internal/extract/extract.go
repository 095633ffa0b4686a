// Package extract pulls plain text out of uploaded resume documents.
// Format detection sniffs the file's magic bytes rather than trusting
// a client-supplied MIME type or filename extension.
package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	apperrors "resumeforge/internal/errors"
)

// Format identifies the detected document format of an upload.
type Format string

const (
	FormatPDF       Format = "pdf"
	FormatDOCX      Format = "docx"
	FormatPlainText Format = "text"
)

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// DetectFormat sniffs the leading bytes of an upload. DOCX files are
// zip archives, so any zip signature is treated as a DOCX candidate
// and left to the parser to reject.
func DetectFormat(data []byte) (Format, bool) {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return FormatPDF, true
	case bytes.HasPrefix(data, zipMagic):
		return FormatDOCX, true
	case utf8.Valid(data):
		return FormatPlainText, true
	default:
		return "", false
	}
}

// Text extracts plain text from an uploaded document. The returned
// format tells the caller what the upload turned out to be.
func Text(data []byte) (string, Format, error) {
	if len(data) == 0 {
		return "", "", apperrors.NewValidationError(
			apperrors.ErrCodeExtractionFailed,
			"uploaded document is empty",
			nil,
		)
	}

	format, ok := DetectFormat(data)
	if !ok {
		return "", "", apperrors.NewValidationError(
			apperrors.ErrCodeExtractionFailed,
			"unsupported document format, expected PDF, DOCX, or plain text",
			nil,
		)
	}

	var text string
	var err error
	switch format {
	case FormatPDF:
		text, err = pdfText(data)
	case FormatDOCX:
		text, err = docxText(data)
	case FormatPlainText:
		text = string(data)
	}
	if err != nil {
		return "", format, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", format, apperrors.NewValidationError(
			apperrors.ErrCodeExtractionFailed,
			"document contains no extractable text",
			nil,
		).WithContext("format", string(format))
	}
	return text, format, nil
}

// pdfText walks every page and concatenates its plain text. The pdf
// engine panics on some malformed inputs, so the walk runs behind a
// recover that converts the panic into an engine error.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = apperrors.NewInternalError(
				apperrors.ErrCodeEngineUnavailable,
				"pdf engine failed while reading document",
				fmt.Errorf("panic: %v", r),
			)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.NewValidationError(
			apperrors.ErrCodeExtractionFailed,
			"could not parse PDF document",
			err,
		)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.NewValidationError(
			apperrors.ErrCodeExtractionFailed,
			"could not parse DOCX document",
			err,
		)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	return stripXMLTags(content), nil
}

// stripXMLTags flattens raw OOXML body markup into readable text,
// inserting line breaks at paragraph boundaries.
func stripXMLTags(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	var sb strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	text := sb.String()
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&apos;", "'")
	return text
}
