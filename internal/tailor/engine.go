// Package tailor orchestrates the full tailoring pipeline: extract the
// uploaded resume, ask the model for a tailored rewrite, normalize the
// structured reply, score it against the job description, and render
// the document bundle.
package tailor

import (
	"context"
	"strings"

	"resumeforge/internal/ai"
	"resumeforge/internal/ats"
	"resumeforge/internal/config"
	apperrors "resumeforge/internal/errors"
	"resumeforge/internal/extract"
	"resumeforge/internal/normalize"
	"resumeforge/internal/render"
	"resumeforge/internal/types"
)

// Engine runs tailoring operations. The model provider is only needed
// for Tailor; Score and Regenerate work without one.
type Engine struct {
	provider ai.AIProvider
	matching config.MatchingConfig
	logger   *apperrors.Logger
}

// NewEngine creates an engine. provider may be nil for offline use.
func NewEngine(provider ai.AIProvider, matching config.MatchingConfig, logger *apperrors.Logger) *Engine {
	return &Engine{
		provider: provider,
		matching: matching,
		logger:   logger,
	}
}

// Tailor runs the full pipeline on an uploaded resume (PDF, DOCX, or
// plain text) and a job description.
func (e *Engine) Tailor(ctx context.Context, jobDescription string, resumeUpload []byte) (types.TailorResult, error) {
	if err := e.validateJob(jobDescription); err != nil {
		return types.TailorResult{}, err
	}

	sourceText, format, err := extract.Text(resumeUpload)
	if err != nil {
		return types.TailorResult{}, err
	}
	if len(sourceText) < e.matching.MinResumeChars {
		return types.TailorResult{}, apperrors.NewValidationError(
			apperrors.ErrCodeInvalidRequest,
			"extracted resume text is too short to tailor",
			nil,
		).WithContext("length", len(sourceText)).
			WithContext("minimum", e.matching.MinResumeChars)
	}

	e.logger.Debug("extracted resume text",
		"format", string(format),
		"chars", len(sourceText))

	if e.provider == nil {
		return types.TailorResult{}, apperrors.NewConfigError(
			apperrors.ErrCodeMissingAPIKey,
			"no AI provider configured for tailoring",
			nil,
		)
	}

	raw, usage, err := e.provider.TailorResume(ctx, types.TailorInput{
		JobDescription: jobDescription,
		ResumeText:     sourceText,
	})
	if err != nil {
		return types.TailorResult{}, err
	}
	if usage != nil {
		e.logger.Debug("model token usage",
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"total_tokens", usage.TotalTokens)
	}

	payload, err := ai.ParseTailorResponse(raw)
	if err != nil {
		return types.TailorResult{}, err
	}

	resume := normalize.Resume(payload.Resume)
	result, err := e.assemble(ctx, resume, payload.CoverLetter, jobDescription)
	if err != nil {
		return types.TailorResult{}, err
	}
	result.SourceText = sourceText
	if usage != nil {
		result.TokenUsage = &types.TokenUsage{
			InputTokens:  usage.InputTokens,
			OutputTokens: usage.OutputTokens,
			TotalTokens:  usage.TotalTokens,
		}
	}
	return result, nil
}

// Regenerate re-renders documents from an already tailored resume,
// typically after manual edits, without another model call. The job
// description is optional; when present the match score is recomputed.
func (e *Engine) Regenerate(ctx context.Context, resume types.Resume, coverLetter, jobDescription string) (types.TailorResult, error) {
	if strings.TrimSpace(resume.Header.Name) == "" {
		return types.TailorResult{}, apperrors.NewValidationError(
			apperrors.ErrCodeInvalidRequest,
			"resume header name is required",
			nil,
		)
	}
	if len(coverLetter) < e.matching.MinLetterChars {
		return types.TailorResult{}, apperrors.NewValidationError(
			apperrors.ErrCodeInvalidRequest,
			"cover letter is too short to render",
			nil,
		).WithContext("length", len(coverLetter)).
			WithContext("minimum", e.matching.MinLetterChars)
	}
	if jobDescription != "" {
		if err := e.validateJob(jobDescription); err != nil {
			return types.TailorResult{}, err
		}
	}
	return e.assemble(ctx, resume, coverLetter, jobDescription)
}

// Score computes the keyword match between a job description and a
// resume without calling the model.
func (e *Engine) Score(jobDescription, resumeText string) (types.MatchResult, error) {
	if err := e.validateJob(jobDescription); err != nil {
		return types.MatchResult{}, err
	}
	if len(resumeText) < e.matching.MinResumeChars {
		return types.MatchResult{}, apperrors.NewValidationError(
			apperrors.ErrCodeInvalidRequest,
			"resume text is too short to score",
			nil,
		).WithContext("length", len(resumeText)).
			WithContext("minimum", e.matching.MinResumeChars)
	}

	keywords := ats.ExtractKeywords(jobDescription, e.matching.MaxKeywords)
	return ats.Match(resumeText, keywords), nil
}

func (e *Engine) assemble(ctx context.Context, resume types.Resume, coverLetter, jobDescription string) (types.TailorResult, error) {
	atsText := ats.Format(resume)

	match := types.MatchResult{Keywords: []string{}, Present: []string{}, Missing: []string{}}
	if jobDescription != "" {
		keywords := ats.ExtractKeywords(jobDescription, e.matching.MaxKeywords)
		match = ats.Match(atsText, keywords)
	}

	documents, err := render.Bundle(ctx, resume, coverLetter)
	if err != nil {
		return types.TailorResult{}, err
	}

	return types.TailorResult{
		ATSText:     atsText,
		Resume:      resume,
		CoverLetter: coverLetter,
		Match:       match,
		Documents:   documents,
	}, nil
}

func (e *Engine) validateJob(jobDescription string) error {
	if len(jobDescription) < e.matching.MinJobChars {
		return apperrors.NewValidationError(
			apperrors.ErrCodeInvalidRequest,
			"job description is too short to tailor against",
			nil,
		).WithContext("length", len(jobDescription)).
			WithContext("minimum", e.matching.MinJobChars)
	}
	return nil
}
