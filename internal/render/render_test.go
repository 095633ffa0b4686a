package render

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"resumeforge/internal/types"
)

func sampleResume() types.Resume {
	return types.Resume{
		Header: types.Header{
			Name:     "Jane Doe",
			Location: "Portland, OR",
			Email:    "jane@example.com",
			Links:    []types.Link{{Label: "GitHub", URL: "https://github.com/jane"}},
		},
		Summary: "Backend engineer shipping Go services.",
		Skills: types.Skills{
			Languages: []string{"Go", "Python"},
			Tools:     []string{"Docker"},
		},
		Experience: []types.Experience{
			{
				Company: "Acme",
				Title:   "Engineer",
				Start:   "2020",
				End:     "Present",
				Bullets: []string{"Built APIs", "Cut latency 40%"},
			},
		},
		Projects: []types.Project{
			{Name: "Tracker", Tech: []string{"go"}, Bullets: []string{"CLI habit tracker"}},
		},
		Education: []types.Education{
			{School: "State University", Degree: "BS", Year: "2019"},
		},
	}
}

func TestResumePDF(t *testing.T) {
	out, err := ResumePDF(sampleResume())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("output missing PDF magic bytes")
	}
	if len(out) < 500 {
		t.Errorf("suspiciously small PDF: %d bytes", len(out))
	}
}

func TestResumePDFEmptyResume(t *testing.T) {
	out, err := ResumePDF(types.Resume{})
	if err != nil {
		t.Fatalf("empty resume must still render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("output missing PDF magic bytes")
	}
}

func TestCoverLetterPDF(t *testing.T) {
	out, err := CoverLetterPDF("Jane Doe", "Dear team,\n\nI am excited to apply.\n\nBest,\nJane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("output missing PDF magic bytes")
	}
}

func TestResumeDOCX(t *testing.T) {
	out, err := ResumeDOCX(sampleResume())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	document := readDocumentXML(t, out)
	for _, want := range []string{"Jane Doe", "EXPERIENCE", "Built APIs", "State University"} {
		if !strings.Contains(document, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
}

func TestResumeDOCXEscapesMarkup(t *testing.T) {
	r := types.Resume{
		Header:  types.Header{Name: "Jane <Doe> & Co"},
		Summary: `Shipped "fast" services`,
	}
	out, err := ResumeDOCX(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	document := readDocumentXML(t, out)
	if !strings.Contains(document, "Jane &lt;Doe&gt; &amp; Co") {
		t.Error("angle brackets and ampersand should be escaped")
	}
	if strings.Contains(document, "<Doe>") {
		t.Error("raw markup leaked into document.xml")
	}
}

func TestCoverLetterDOCX(t *testing.T) {
	out, err := CoverLetterDOCX("Jane", "Dear team,\n\nHello.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	document := readDocumentXML(t, out)
	if !strings.Contains(document, "Dear team,") {
		t.Errorf("document.xml missing letter text")
	}
}

func TestBundle(t *testing.T) {
	bundle, err := Bundle(context.Background(), sampleResume(), "Dear team, I would like to apply.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.HasPrefix(bundle.ResumePDF, []byte("%PDF-")) {
		t.Error("resume PDF missing magic bytes")
	}
	if !bytes.HasPrefix(bundle.CoverLetterPDF, []byte("%PDF-")) {
		t.Error("cover letter PDF missing magic bytes")
	}
	if !bytes.HasPrefix(bundle.ResumeDOCX, []byte("PK\x03\x04")) {
		t.Error("resume DOCX missing zip magic bytes")
	}
	if !bytes.HasPrefix(bundle.CoverLetterDOCX, []byte("PK\x03\x04")) {
		t.Error("cover letter DOCX missing zip magic bytes")
	}
}

func TestBundleCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Bundle(ctx, sampleResume(), "letter"); err == nil {
		t.Error("expected error from cancelled context")
	}
}

// readDocumentXML opens the produced archive and returns the main
// document part.
func readDocumentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening document.xml: %v", err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("reading document.xml: %v", err)
		}
		return string(content)
	}
	t.Fatal("archive has no word/document.xml")
	return ""
}
