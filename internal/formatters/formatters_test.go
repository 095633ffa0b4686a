package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumeforge/internal/types"
)

func sampleResult() types.TailorResult {
	return types.TailorResult{
		ATSText:     "JANE DOE\n-- SUMMARY --\nGo engineer.\n",
		CoverLetter: "Dear Hiring Manager,\n\nI am interested.\n",
		Match: types.MatchResult{
			Score:   67,
			Present: []string{"go", "kubernetes"},
			Missing: []string{"terraform"},
		},
	}
}

func TestFormatTailorResult(t *testing.T) {
	registry := NewFormatterRegistry()

	tests := []struct {
		name     string
		format   string
		contains []string
	}{
		{
			name:     "text",
			format:   "text",
			contains: []string{"=== TAILORED RESUME ===", "=== COVER LETTER ===", "Score: 67/100", "- terraform"},
		},
		{
			name:     "markdown",
			format:   "markdown",
			contains: []string{"# Tailored Resume", "# Cover Letter", "**Score:** 67/100", "## Missing Keywords"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := registry.Format(sampleResult(), tt.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("expected output to contain %q", want)
				}
			}
		})
	}
}

func TestFormatTailorResultJSON(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestFormatMatchResult(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleResult().Match, "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "Score: 67/100") {
		t.Error("expected score in output")
	}
	if !strings.Contains(output, "Present keywords:") {
		t.Error("expected present keyword section")
	}
}

func TestFormatUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	if _, err := registry.Format(sampleResult(), "yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestGetSupportedFormats(t *testing.T) {
	registry := NewFormatterRegistry()

	formats := registry.GetSupportedFormats()
	if len(formats) != 3 {
		t.Errorf("expected 3 supported formats, got %v", formats)
	}
}
