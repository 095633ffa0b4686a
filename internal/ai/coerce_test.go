package ai

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	apperrors "resumeforge/internal/errors"
)

func TestParseTailorResponse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantLetter string
		expectErr  bool
	}{
		{
			name:       "clean json",
			raw:        `{"resume": {"header": {"name": "Jane"}}, "cover_letter": "Dear team,"}`,
			wantLetter: "Dear team,",
		},
		{
			name: "fenced json with language tag",
			raw: "```json\n" +
				`{"resume": {}, "cover_letter": "Hello"}` +
				"\n```",
			wantLetter: "Hello",
		},
		{
			name: "fenced json without language tag",
			raw: "```\n" +
				`{"resume": {}, "cover_letter": "Hi"}` +
				"\n```",
			wantLetter: "Hi",
		},
		{
			name:       "json surrounded by prose",
			raw:        `Sure! Here is the result: {"resume": {}, "cover_letter": "Greetings"} Hope this helps.`,
			wantLetter: "Greetings",
		},
		{
			name:       "braces inside string values",
			raw:        `{"resume": {"summary": "Worked on {redacted} systems"}, "cover_letter": "Dear {hiring manager},"}`,
			wantLetter: "Dear {hiring manager},",
		},
		{
			name:       "camelCase cover letter key",
			raw:        `{"resume": {}, "coverLetter": "Alt key"}`,
			wantLetter: "Alt key",
		},
		{
			name:      "no json at all",
			raw:       "I could not produce a resume this time, sorry.",
			expectErr: true,
		},
		{
			name:      "unbalanced braces",
			raw:       `{"resume": {"header": {"name": "Jane"`,
			expectErr: true,
		},
		{
			name:      "json object without expected keys",
			raw:       `{"status": "ok", "data": []}`,
			expectErr: true,
		},
		{
			name:      "empty response",
			raw:       "",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ParseTailorResponse(tt.raw)

			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				var appErr *apperrors.AppError
				if !errors.As(err, &appErr) {
					t.Fatalf("expected AppError, got %T", err)
				}
				if appErr.Code != apperrors.ErrCodeUnparseableResponse {
					t.Errorf("expected code %s, got %s", apperrors.ErrCodeUnparseableResponse, appErr.Code)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if payload.CoverLetter != tt.wantLetter {
				t.Errorf("expected cover letter %q, got %q", tt.wantLetter, payload.CoverLetter)
			}
		})
	}
}

func TestParseTailorResponseSnippetTruncated(t *testing.T) {
	raw := strings.Repeat("x", 2000)
	_, err := ParseTailorResponse(raw)
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	snippet, ok := appErr.Context["response_snippet"].(string)
	if !ok {
		t.Fatal("expected response_snippet in error context")
	}
	if len(snippet) > 500 {
		t.Errorf("snippet should be capped at 500 bytes, got %d", len(snippet))
	}
}

func TestParseTailorResponseSnippetRuneSafe(t *testing.T) {
	// Three-byte runes do not divide 500 evenly, so a byte-offset cut
	// would land inside a rune.
	raw := strings.Repeat("€", 400)
	_, err := ParseTailorResponse(raw)
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	snippet, ok := appErr.Context["response_snippet"].(string)
	if !ok {
		t.Fatal("expected response_snippet in error context")
	}
	if len(snippet) > 500 {
		t.Errorf("snippet should be capped at 500 bytes, got %d", len(snippet))
	}
	if !utf8.ValidString(snippet) {
		t.Error("snippet should never split a multi-byte rune")
	}
}

func TestParseTailorResponseNumbersPreserved(t *testing.T) {
	payload, err := ParseTailorResponse(`{"resume": {"education": [{"school": "State", "year": 2021}]}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := payload.Resume.(map[string]any)
	if !ok {
		t.Fatalf("expected resume object, got %T", payload.Resume)
	}
	edu := m["education"].([]any)[0].(map[string]any)
	if got, ok := edu["year"].(json.Number); !ok || got.String() != "2021" {
		t.Errorf("expected year preserved as json.Number 2021, got %v", edu["year"])
	}
}
