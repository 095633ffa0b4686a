// Package ats produces the plain-text rendering of a resume used for
// keyword scoring and as the canonical text the documents are built
// from, along with the keyword extraction and matching logic itself.
package ats

import (
	"strings"

	"resumeforge/internal/types"
)

const (
	namePlaceholder  = "NAME"
	emptyPlaceholder = "—" // em dash marks a section with no content
)

// Format renders a normalized resume as deterministic plain text. The
// same resume always yields byte-identical output, which keeps scoring
// and document generation reproducible.
func Format(r types.Resume) string {
	var lines []string

	name := collapse(r.Header.Name)
	if name == "" {
		name = namePlaceholder
	}
	lines = append(lines, name)

	if contact := contactLine(r.Header); contact != "" {
		lines = append(lines, contact)
	}

	lines = append(lines, "", "-- SUMMARY --")
	if s := collapse(r.Summary); s != "" {
		lines = append(lines, s)
	} else {
		lines = append(lines, emptyPlaceholder)
	}

	lines = append(lines, "", "-- SKILLS --")
	lines = append(lines, skillLines(r.Skills)...)

	lines = append(lines, "", "-- EXPERIENCE --")
	lines = append(lines, experienceLines(r.Experience)...)

	lines = append(lines, "", "-- PROJECTS --")
	lines = append(lines, projectLines(r.Projects)...)

	lines = append(lines, "", "-- EDUCATION --")
	lines = append(lines, educationLines(r.Education)...)

	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

func contactLine(h types.Header) string {
	var parts []string
	for _, p := range []string{h.Location, h.Email, h.Phone} {
		if c := collapse(p); c != "" {
			parts = append(parts, c)
		}
	}
	for _, l := range h.Links {
		v := collapse(l.URL)
		if v == "" {
			v = collapse(l.Label)
		}
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " | ")
}

func skillLines(s types.Skills) []string {
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
		if len(c.items) == 0 {
			continue
		}
		collapsed := make([]string, 0, len(c.items))
		for _, item := range c.items {
			if v := collapse(item); v != "" {
				collapsed = append(collapsed, v)
			}
		}
		if len(collapsed) > 0 {
			lines = append(lines, c.label+": "+strings.Join(collapsed, ", "))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, emptyPlaceholder)
	}
	return lines
}

func experienceLines(entries []types.Experience) []string {
	if len(entries) == 0 {
		return []string{emptyPlaceholder}
	}
	var lines []string
	for _, e := range entries {
		header := collapse(e.Company) + " — " + collapse(e.Title)
		parts := []string{header}
		if loc := collapse(e.Location); loc != "" {
			parts = append(parts, loc)
		}
		if dates := dateRange(e.Start, e.End); dates != "" {
			parts = append(parts, dates)
		}
		lines = append(lines, strings.Join(parts, " | "))
		lines = append(lines, bulletLines(e.Bullets)...)
	}
	return lines
}

func projectLines(entries []types.Project) []string {
	if len(entries) == 0 {
		return []string{emptyPlaceholder}
	}
	var lines []string
	for _, p := range entries {
		header := collapse(p.Name)
		if tech := joinCollapsed(p.Tech, ", "); tech != "" {
			header += " | " + tech
		}
		lines = append(lines, header)
		lines = append(lines, bulletLines(p.Bullets)...)
	}
	return lines
}

func educationLines(entries []types.Education) []string {
	if len(entries) == 0 {
		return []string{emptyPlaceholder}
	}
	var lines []string
	for _, e := range entries {
		header := collapse(e.School)
		if degree := collapse(e.Degree); degree != "" {
			header += " — " + degree
		}
		parts := []string{header}
		if loc := collapse(e.Location); loc != "" {
			parts = append(parts, loc)
		}
		if year := collapse(e.Year); year != "" {
			parts = append(parts, year)
		}
		lines = append(lines, strings.Join(parts, " | "))
		for _, d := range e.Details {
			if v := collapse(d); v != "" {
				lines = append(lines, "- "+v)
			}
		}
	}
	return lines
}

// bulletLines renders an entry's bullets; an entry with none gets a
// single placeholder bullet so the entry is visibly empty rather than
// silently truncated.
func bulletLines(bullets []string) []string {
	var lines []string
	for _, b := range bullets {
		if v := collapse(b); v != "" {
			lines = append(lines, "- "+v)
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "- "+emptyPlaceholder)
	}
	return lines
}

// dateRange joins start and end with an en dash, tolerating either
// side being absent.
func dateRange(start, end string) string {
	s, e := collapse(start), collapse(end)
	switch {
	case s != "" && e != "":
		return s + "–" + e
	case s != "":
		return s
	default:
		return e
	}
}

// collapse trims a string and squashes internal runs of whitespace to
// single spaces, so embedded newlines in model output cannot break the
// line-oriented format.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func joinCollapsed(items []string, sep string) string {
	var out []string
	for _, item := range items {
		if v := collapse(item); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
