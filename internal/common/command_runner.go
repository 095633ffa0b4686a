package common

import (
	"context"
	"fmt"

	"resumeforge/internal/errors"
	"resumeforge/internal/types"
)

// TailorOperation runs the tailoring pipeline on a job description and
// a raw resume upload.
type TailorOperation func(ctx context.Context, jobDescription string, resumeData []byte) (types.TailorResult, error)

// RunTailorCommand encapsulates the common logic for the file-based
// tailoring command: read inputs, run the pipeline, write the
// formatted result and optionally the rendered documents.
func RunTailorCommand(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	resumeFile, jobFile string,
	operation TailorOperation,
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	resumeData, err := fileProcessor.ReadResumeFile(resumeFile)
	if err != nil {
		return err
	}

	jobDescription, err := fileProcessor.ReadTextFile(jobFile)
	if err != nil {
		return err
	}

	logger.Info("Tailoring resume",
		"resume_file", resumeFile,
		"resume_bytes", len(resumeData),
		"job_file", jobFile,
		"job_length", len(jobDescription))

	result, err := operation(ctx, jobDescription, resumeData)
	if err != nil {
		return err
	}

	if err := outputHandler.HandleOutput(result, cmdConfig); err != nil {
		return err
	}

	if cmdConfig.DocumentsDir != "" {
		if err := outputHandler.WriteDocuments(result.Documents, cmdConfig.DocumentsDir, "tailored"); err != nil {
			return fmt.Errorf("failed to write documents: %w", err)
		}
	}

	return nil
}
