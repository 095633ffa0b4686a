package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumeforge/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "TailorResult", &TailorTextFormatter{})
	registry.RegisterFormatter("markdown", "TailorResult", &TailorMarkdownFormatter{})
	registry.RegisterFormatter("text", "MatchResult", &MatchTextFormatter{})
	registry.RegisterFormatter("markdown", "MatchResult", &MatchMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.TailorResult:
		return "TailorResult"
	case types.MatchResult:
		return "MatchResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// TailorTextFormatter handles text formatting for tailoring results
type TailorTextFormatter struct{}

func (ttf *TailorTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.TailorResult)
	if !ok {
		return "", fmt.Errorf("expected TailorResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== TAILORED RESUME ===\n\n")
	output.WriteString(result.ATSText)
	output.WriteString("\n\n")

	output.WriteString("=== COVER LETTER ===\n\n")
	output.WriteString(result.CoverLetter)
	output.WriteString("\n\n")

	output.WriteString("=== KEYWORD MATCH ===\n")
	output.WriteString(formatMatchText(result.Match))

	return output.String(), nil
}

func (ttf *TailorTextFormatter) SupportedType() string {
	return "TailorResult"
}

// TailorMarkdownFormatter handles markdown formatting for tailoring results
type TailorMarkdownFormatter struct{}

func (tmf *TailorMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.TailorResult)
	if !ok {
		return "", fmt.Errorf("expected TailorResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Tailored Resume\n\n")
	output.WriteString("```\n")
	output.WriteString(result.ATSText)
	output.WriteString("```\n\n")

	output.WriteString("# Cover Letter\n\n")
	output.WriteString(result.CoverLetter)
	output.WriteString("\n\n")

	output.WriteString("# Keyword Match\n\n")
	output.WriteString(formatMatchMarkdown(result.Match))

	return output.String(), nil
}

func (tmf *TailorMarkdownFormatter) SupportedType() string {
	return "TailorResult"
}

// MatchTextFormatter handles text formatting for keyword match results
type MatchTextFormatter struct{}

func (mtf *MatchTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchResult)
	if !ok {
		return "", fmt.Errorf("expected MatchResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== KEYWORD MATCH ===\n")
	output.WriteString(formatMatchText(result))
	return output.String(), nil
}

func (mtf *MatchTextFormatter) SupportedType() string {
	return "MatchResult"
}

// MatchMarkdownFormatter handles markdown formatting for keyword match results
type MatchMarkdownFormatter struct{}

func (mmf *MatchMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchResult)
	if !ok {
		return "", fmt.Errorf("expected MatchResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Keyword Match\n\n")
	output.WriteString(formatMatchMarkdown(result))
	return output.String(), nil
}

func (mmf *MatchMarkdownFormatter) SupportedType() string {
	return "MatchResult"
}

func formatMatchText(match types.MatchResult) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("Score: %d/100\n\n", match.Score))

	if len(match.Present) > 0 {
		output.WriteString("Present keywords:\n")
		for _, kw := range match.Present {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}

	if len(match.Missing) > 0 {
		output.WriteString("Missing keywords:\n")
		for _, kw := range match.Missing {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
	}

	return output.String()
}

func formatMatchMarkdown(match types.MatchResult) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", match.Score))

	if len(match.Present) > 0 {
		output.WriteString("## Present Keywords\n")
		for _, kw := range match.Present {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}

	if len(match.Missing) > 0 {
		output.WriteString("## Missing Keywords\n")
		for _, kw := range match.Missing {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
	}

	return output.String()
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
