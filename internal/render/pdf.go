// Package render produces the downloadable resume and cover letter
// documents from a normalized resume.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	apperrors "resumeforge/internal/errors"
	"resumeforge/internal/types"
)

// ResumePDF renders the resume as a single-column A4 PDF.
func ResumePDF(r types.Resume) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	name := r.Header.Name
	if strings.TrimSpace(name) == "" {
		name = "NAME"
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 8, tr(name))
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 9)
	if contact := contactParts(r.Header); contact != "" {
		pdf.Cell(0, 5, tr(contact))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	if r.Summary != "" {
		addSection(pdf, "SUMMARY")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 4, tr(r.Summary), "", "", false)
		pdf.Ln(3)
	}

	if lines := skillsList(r.Skills); len(lines) > 0 {
		addSection(pdf, "SKILLS")
		pdf.SetFont("Helvetica", "", 9)
		for _, line := range lines {
			pdf.MultiCell(0, 4, tr(line), "", "", false)
		}
		pdf.Ln(3)
	}

	if len(r.Experience) > 0 {
		addSection(pdf, "EXPERIENCE")
		for _, exp := range r.Experience {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.Cell(0, 5, tr(exp.Company+" — "+exp.Title))
			pdf.Ln(5)
			if meta := entryMeta(exp.Location, dateRange(exp.Start, exp.End)); meta != "" {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.Cell(0, 4, tr(meta))
				pdf.Ln(5)
			}
			pdf.SetFont("Helvetica", "", 9)
			addBullets(pdf, tr, exp.Bullets)
			pdf.Ln(2)
		}
		pdf.Ln(1)
	}

	if len(r.Projects) > 0 {
		addSection(pdf, "PROJECTS")
		for _, p := range r.Projects {
			header := p.Name
			if len(p.Tech) > 0 {
				header += " | " + strings.Join(p.Tech, ", ")
			}
			pdf.SetFont("Helvetica", "B", 10)
			pdf.Cell(0, 5, tr(header))
			pdf.Ln(5)
			pdf.SetFont("Helvetica", "", 9)
			addBullets(pdf, tr, p.Bullets)
			pdf.Ln(2)
		}
		pdf.Ln(1)
	}

	if len(r.Education) > 0 {
		addSection(pdf, "EDUCATION")
		for _, edu := range r.Education {
			header := edu.School
			if edu.Degree != "" {
				header += " — " + edu.Degree
			}
			pdf.SetFont("Helvetica", "B", 10)
			pdf.Cell(0, 5, tr(header))
			pdf.Ln(5)
			if meta := entryMeta(edu.Location, edu.Year); meta != "" {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.Cell(0, 4, tr(meta))
				pdf.Ln(5)
			}
			pdf.SetFont("Helvetica", "", 9)
			for _, d := range edu.Details {
				pdf.CellFormat(5, 4, "-", "", 0, "", false, 0, "")
				pdf.MultiCell(0, 4, tr(d), "", "", false)
			}
			pdf.Ln(1)
		}
	}

	return pdfOutput(pdf, "resume")
}

// CoverLetterPDF renders the cover letter body under a name heading.
func CoverLetterPDF(name, letter string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if strings.TrimSpace(name) == "" {
		name = "NAME"
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, tr(name))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	for _, para := range strings.Split(letter, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		pdf.MultiCell(0, 5, tr(para), "", "", false)
		pdf.Ln(4)
	}

	return pdfOutput(pdf, "cover letter")
}

func pdfOutput(pdf *fpdf.Fpdf, kind string) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.NewRenderError(
			apperrors.ErrCodeRenderFailed,
			fmt.Sprintf("pdf output failed for %s", kind),
			err,
		)
	}
	return buf.Bytes(), nil
}

func addSection(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, title)
	pdf.Ln(6)
	pdf.SetDrawColor(100, 100, 100)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(3)
}

func addBullets(pdf *fpdf.Fpdf, tr func(string) string, bullets []string) {
	for _, b := range bullets {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		pdf.CellFormat(5, 4, "-", "", 0, "", false, 0, "")
		pdf.MultiCell(0, 4, tr(b), "", "", false)
	}
}

func contactParts(h types.Header) string {
	var parts []string
	for _, p := range []string{h.Location, h.Email, h.Phone} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	for _, l := range h.Links {
		if l.URL != "" {
			parts = append(parts, l.URL)
		} else if l.Label != "" {
			parts = append(parts, l.Label)
		}
	}
	return strings.Join(parts, "  |  ")
}

func dateRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + "–" + end
	case start != "":
		return start
	default:
		return end
	}
}

func entryMeta(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " | ")
}

func skillsList(s types.Skills) []string {
	var lines []string
	categories := []struct {
		label string
		items []string
	}{
		{"Languages", s.Languages},
		{"Frameworks", s.Frameworks},
		{"Tools", s.Tools},
		{"Other", s.Other},
	}
	for _, c := range categories {
		if len(c.items) > 0 {
			lines = append(lines, c.label+": "+strings.Join(c.items, ", "))
		}
	}
	return lines
}
