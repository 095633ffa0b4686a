package ai

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	apperrors "resumeforge/internal/errors"
)

// maxSnippetLen bounds how much raw model output is attached to a
// parse error for debugging.
const maxSnippetLen = 500

// TailorPayload is the decoded shape of a tailoring response. Resume
// stays loosely typed here; normalization owns turning it into the
// canonical record.
type TailorPayload struct {
	Resume      any
	CoverLetter string
}

// ParseTailorResponse extracts the tailoring payload from raw model
// output. Models wrap JSON in markdown fences or surround it with
// prose often enough that a strict json.Unmarshal of the whole body
// is not good enough, so parsing falls back to scanning for the first
// balanced JSON object in the text.
func ParseTailorResponse(raw string) (TailorPayload, error) {
	cleaned := stripFences(raw)

	if payload, ok := decodePayload(cleaned); ok {
		return payload, nil
	}

	if candidate, ok := firstJSONObject(cleaned); ok {
		if payload, ok := decodePayload(candidate); ok {
			return payload, nil
		}
	}

	return TailorPayload{}, apperrors.NewAIError(
		apperrors.ErrCodeUnparseableResponse,
		"model response contained no usable JSON object",
		nil,
	).WithContext("response_snippet", snippet(raw))
}

// decodePayload tries to read one JSON object as a tailoring payload.
// An object that parses but carries neither a resume nor a cover
// letter is rejected, since the scanner may have latched onto an
// unrelated object embedded in prose.
func decodePayload(s string) (TailorPayload, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return TailorPayload{}, false
	}

	resume, hasResume := obj["resume"]
	letter, hasLetter := obj["cover_letter"]
	if !hasLetter {
		letter, hasLetter = obj["coverLetter"]
	}
	if !hasResume && !hasLetter {
		return TailorPayload{}, false
	}

	payload := TailorPayload{Resume: resume}
	if s, ok := letter.(string); ok {
		payload.CoverLetter = strings.TrimSpace(s)
	}
	return payload, true
}

// stripFences removes a leading/trailing markdown code fence pair if
// the body is wrapped in one.
func stripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	// Drop an optional language tag on the opening fence line.
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(body[:idx])
		if firstLine == "" || isFenceTag(firstLine) {
			body = body[idx+1:]
		}
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// firstJSONObject scans for the first balanced top-level JSON object,
// tracking string and escape state so that braces inside string values
// do not confuse the depth count.
func firstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxSnippetLen {
		return s
	}
	// Back off to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := maxSnippetLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
