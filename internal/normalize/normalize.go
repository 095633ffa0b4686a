// Package normalize turns loosely shaped JSON values, as produced by a
// language model, into the canonical resume record. Normalization is
// total: any input yields a usable Resume, never an error. Unknown
// fields are ignored, wrong-typed scalars are coerced where a sensible
// string reading exists, and entries missing their identifying fields
// are dropped.
package normalize

import (
	"encoding/json"
	"strings"

	"resumeforge/internal/types"
)

// Resume normalizes a decoded JSON value into a canonical resume.
// Every slice in the result is non-nil so downstream renderers never
// see a null list.
func Resume(raw any) types.Resume {
	m := asMap(raw)

	out := types.Resume{
		Header:     header(m["header"]),
		Summary:    asString(m["summary"]),
		Skills:     skills(m["skills"]),
		Experience: experience(m["experience"]),
		Projects:   projects(m["projects"]),
		Education:  education(m["education"]),
	}
	return out
}

func header(raw any) types.Header {
	m := asMap(raw)
	h := types.Header{
		Name:     asString(m["name"]),
		Location: asString(m["location"]),
		Email:    asString(m["email"]),
		Phone:    asString(m["phone"]),
		Links:    []types.Link{},
	}
	for _, item := range asSlice(m["links"]) {
		lm := asMap(item)
		l := types.Link{
			Label: asString(lm["label"]),
			URL:   asString(lm["url"]),
		}
		if l.Label == "" && l.URL == "" {
			continue
		}
		h.Links = append(h.Links, l)
	}
	return h
}

func skills(raw any) types.Skills {
	m := asMap(raw)
	return types.Skills{
		Languages:  stringList(m["languages"]),
		Frameworks: stringList(m["frameworks"]),
		Tools:      stringList(m["tools"]),
		Other:      stringList(m["other"]),
	}
}

func experience(raw any) []types.Experience {
	out := []types.Experience{}
	for _, item := range asSlice(raw) {
		m := asMap(item)
		e := types.Experience{
			Company:  asString(m["company"]),
			Title:    asString(m["title"]),
			Location: asString(m["location"]),
			Start:    asString(m["start"]),
			End:      asString(m["end"]),
			Bullets:  stringList(m["bullets"]),
		}
		// An entry without both a company and a title cannot be
		// presented meaningfully, so it is dropped.
		if e.Company == "" || e.Title == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func projects(raw any) []types.Project {
	out := []types.Project{}
	for _, item := range asSlice(raw) {
		m := asMap(item)
		p := types.Project{
			Name:    asString(m["name"]),
			Tech:    stringList(m["tech"]),
			Bullets: stringList(m["bullets"]),
		}
		if p.Name == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func education(raw any) []types.Education {
	out := []types.Education{}
	for _, item := range asSlice(raw) {
		m := asMap(item)
		e := types.Education{
			School:   asString(m["school"]),
			Degree:   asString(m["degree"]),
			Location: asString(m["location"]),
			Year:     asString(m["year"]),
			Details:  stringList(m["details"]),
		}
		if e.School == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

// asMap returns the value as a JSON object, or an empty map when the
// value is anything else.
func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// asSlice returns the value as a JSON array, or nil when the value is
// anything else.
func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

// asString coerces a scalar JSON value to a trimmed string. Numbers
// keep their literal digits (years arriving as 2021 rather than
// "2021" are common model output), booleans become "true"/"false",
// and everything else collapses to "".
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		n, _ := json.Marshal(s)
		return string(n)
	case bool:
		if s {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// stringList coerces a JSON array into trimmed, non-empty strings.
func stringList(v any) []string {
	out := []string{}
	for _, item := range asSlice(v) {
		s := asString(item)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
