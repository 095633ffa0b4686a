package render

import (
	"archive/zip"
	"bytes"
	"strconv"
	"strings"

	"github.com/nguyenthenguyen/docx"

	apperrors "resumeforge/internal/errors"
	"resumeforge/internal/types"
)

// Minimal OOXML package parts. The generated document uses only the
// main document part, which every WordprocessingML consumer accepts.
const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`

	documentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentClose = `</w:body></w:document>`
)

// paragraph styling flags
type paraStyle struct {
	bold bool
	size int // half-points; 0 means inherit default
}

// ResumeDOCX renders the resume as a DOCX document.
func ResumeDOCX(r types.Resume) ([]byte, error) {
	var body strings.Builder

	name := r.Header.Name
	if strings.TrimSpace(name) == "" {
		name = "NAME"
	}
	writeParagraph(&body, name, paraStyle{bold: true, size: 32})
	if contact := contactParts(r.Header); contact != "" {
		writeParagraph(&body, contact, paraStyle{})
	}

	if r.Summary != "" {
		writeParagraph(&body, "SUMMARY", paraStyle{bold: true, size: 24})
		writeParagraph(&body, r.Summary, paraStyle{})
	}

	if lines := skillsList(r.Skills); len(lines) > 0 {
		writeParagraph(&body, "SKILLS", paraStyle{bold: true, size: 24})
		for _, line := range lines {
			writeParagraph(&body, line, paraStyle{})
		}
	}

	if len(r.Experience) > 0 {
		writeParagraph(&body, "EXPERIENCE", paraStyle{bold: true, size: 24})
		for _, exp := range r.Experience {
			writeParagraph(&body, exp.Company+" — "+exp.Title, paraStyle{bold: true})
			if meta := entryMeta(exp.Location, dateRange(exp.Start, exp.End)); meta != "" {
				writeParagraph(&body, meta, paraStyle{})
			}
			for _, b := range exp.Bullets {
				writeParagraph(&body, "• "+b, paraStyle{})
			}
		}
	}

	if len(r.Projects) > 0 {
		writeParagraph(&body, "PROJECTS", paraStyle{bold: true, size: 24})
		for _, p := range r.Projects {
			header := p.Name
			if len(p.Tech) > 0 {
				header += " | " + strings.Join(p.Tech, ", ")
			}
			writeParagraph(&body, header, paraStyle{bold: true})
			for _, b := range p.Bullets {
				writeParagraph(&body, "• "+b, paraStyle{})
			}
		}
	}

	if len(r.Education) > 0 {
		writeParagraph(&body, "EDUCATION", paraStyle{bold: true, size: 24})
		for _, edu := range r.Education {
			header := edu.School
			if edu.Degree != "" {
				header += " — " + edu.Degree
			}
			writeParagraph(&body, header, paraStyle{bold: true})
			if meta := entryMeta(edu.Location, edu.Year); meta != "" {
				writeParagraph(&body, meta, paraStyle{})
			}
			for _, d := range edu.Details {
				writeParagraph(&body, "• "+d, paraStyle{})
			}
		}
	}

	return buildDocx(body.String(), "resume")
}

// CoverLetterDOCX renders the cover letter as a DOCX document.
func CoverLetterDOCX(name, letter string) ([]byte, error) {
	var body strings.Builder

	if strings.TrimSpace(name) == "" {
		name = "NAME"
	}
	writeParagraph(&body, name, paraStyle{bold: true, size: 28})
	writeParagraph(&body, "", paraStyle{})
	for _, para := range strings.Split(letter, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		writeParagraph(&body, para, paraStyle{})
		writeParagraph(&body, "", paraStyle{})
	}

	return buildDocx(body.String(), "cover letter")
}

// buildDocx assembles the OOXML package around a generated body and
// round-trips it through the docx library, which validates the main
// document part and writes the final archive.
func buildDocx(body, kind string) ([]byte, error) {
	document := documentOpen + body + documentClose

	template, err := templateZip(document)
	if err != nil {
		return nil, apperrors.NewRenderError(
			apperrors.ErrCodeRenderFailed,
			"building docx package for "+kind,
			err,
		)
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, apperrors.NewRenderError(
			apperrors.ErrCodeRenderFailed,
			"opening docx package for "+kind,
			err,
		)
	}
	defer doc.Close()

	editable := doc.Editable()
	editable.SetContent(document)

	var out bytes.Buffer
	if err := editable.Write(&out); err != nil {
		return nil, apperrors.NewRenderError(
			apperrors.ErrCodeRenderFailed,
			"writing docx package for "+kind,
			err,
		)
	}
	return out.Bytes(), nil
}

func templateZip(document string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/document.xml", document},
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeParagraph(sb *strings.Builder, text string, style paraStyle) {
	sb.WriteString("<w:p>")
	if text != "" {
		sb.WriteString("<w:r>")
		if style.bold || style.size > 0 {
			sb.WriteString("<w:rPr>")
			if style.bold {
				sb.WriteString("<w:b/>")
			}
			if style.size > 0 {
				sb.WriteString(`<w:sz w:val="` + strconv.Itoa(style.size) + `"/>`)
			}
			sb.WriteString("</w:rPr>")
		}
		sb.WriteString(`<w:t xml:space="preserve">`)
		sb.WriteString(escapeXML(text))
		sb.WriteString("</w:t></w:r>")
	}
	sb.WriteString("</w:p>")
}

func escapeXML(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		case '\'':
			sb.WriteString("&apos;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
