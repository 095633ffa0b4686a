package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	apperrors "resumeforge/internal/errors"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		want   Format
		wantOK bool
	}{
		{name: "pdf magic", data: []byte("%PDF-1.7 rest"), want: FormatPDF, wantOK: true},
		{name: "zip magic", data: []byte("PK\x03\x04rest"), want: FormatDOCX, wantOK: true},
		{name: "plain utf8", data: []byte("Jane Doe\nEngineer"), want: FormatPlainText, wantOK: true},
		{name: "invalid utf8 binary", data: []byte{0xff, 0xfe, 0x00, 0x01}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectFormat(tt.data)
			if ok != tt.wantOK {
				t.Fatalf("DetectFormat ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("DetectFormat = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextPlainPassthrough(t *testing.T) {
	text, format, err := Text([]byte("  Jane Doe\nBackend engineer.  \n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != FormatPlainText {
		t.Errorf("expected plain text format, got %v", format)
	}
	if text != "Jane Doe\nBackend engineer." {
		t.Errorf("expected trimmed passthrough, got %q", text)
	}
}

func TestTextErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		code string
	}{
		{name: "empty upload", data: nil, code: apperrors.ErrCodeExtractionFailed},
		{name: "unsupported binary", data: []byte{0xff, 0xfe, 0x00}, code: apperrors.ErrCodeExtractionFailed},
		{name: "corrupt pdf", data: []byte("%PDF-1.4 not actually a pdf"), code: apperrors.ErrCodeExtractionFailed},
		{name: "zip without document xml", data: emptyZip(t), code: apperrors.ErrCodeExtractionFailed},
		{name: "whitespace only text", data: []byte("   \n\t  "), code: apperrors.ErrCodeExtractionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Text(tt.data)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, appErr.Code)
			}
		})
	}
}

func TestTextDocxRoundTrip(t *testing.T) {
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Backend engineer &amp; Go developer</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("creating zip entry: %v", err)
	}
	if _, err := f.Write([]byte(document)); err != nil {
		t.Fatalf("writing zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}

	text, format, err := Text(buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != FormatDOCX {
		t.Errorf("expected docx format, got %v", format)
	}
	if !strings.Contains(text, "Jane Doe") {
		t.Errorf("expected extracted text to contain name, got %q", text)
	}
	if !strings.Contains(text, "Backend engineer & Go developer") {
		t.Errorf("expected entity-decoded text, got %q", text)
	}
}

func emptyZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("unrelated.txt")
	if err != nil {
		t.Fatalf("creating zip entry: %v", err)
	}
	if _, err := f.Write([]byte("nothing")); err != nil {
		t.Fatalf("writing zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}
