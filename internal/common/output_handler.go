package common

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"resumeforge/internal/errors"
	"resumeforge/internal/formatters"
	"resumeforge/internal/types"
)

// ValidateOutputFormat rejects output formats outside the configured
// set. An empty set means any format is accepted.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 || slices.Contains(supportedFormats, format) {
		return nil
	}
	return fmt.Errorf("output format %q is not supported, choose one of: %s",
		format, strings.Join(supportedFormats, ", "))
}

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
	DocumentsDir string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
}

// NewOutputHandler creates a new output handler
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
	}
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	// Validate output file
	if err := oh.fileProcessor.ValidateOutputFile(config.OutputFile); err != nil {
		return err
	}

	// Format output using the registry
	output, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	// Write output
	if config.OutputFile != "" {
		err = oh.fileProcessor.WriteFile(config.OutputFile, output)
		if err != nil {
			return err // Error already wrapped by WriteFile
		}

		// Log success
		oh.logger.Info("Output written successfully",
			"file", config.OutputFile, "format", config.OutputFormat)
	} else {
		fmt.Print(output)
	}

	return nil
}

// WriteDocuments writes the rendered document bundle into a directory
// using the given base name.
func (oh *OutputHandler) WriteDocuments(bundle types.DocumentBundle, dir, baseName string) error {
	files := []struct {
		name string
		data []byte
	}{
		{baseName + "_resume.pdf", bundle.ResumePDF},
		{baseName + "_resume.docx", bundle.ResumeDOCX},
		{baseName + "_cover_letter.pdf", bundle.CoverLetterPDF},
		{baseName + "_cover_letter.docx", bundle.CoverLetterDOCX},
	}

	for _, f := range files {
		if len(f.data) == 0 {
			continue
		}
		path := filepath.Join(dir, f.name)
		if err := oh.fileProcessor.WriteBinaryFile(path, f.data); err != nil {
			return err
		}
		oh.logger.Info("Document written", "file", path, "bytes", len(f.data))
	}

	return nil
}

// GetSupportedFormats returns all supported output formats
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
