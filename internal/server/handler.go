package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resumeforge/internal/ai"
	"resumeforge/internal/observability"
	"resumeforge/internal/tailor"
	"resumeforge/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// TailorResponse is the response body for the tailor endpoint. The
// document fields are base64-encoded by the JSON encoder.
type TailorResponse struct {
	ID          string               `json:"id"`
	Resume      types.Resume         `json:"resume"`
	CoverLetter string               `json:"coverLetter"`
	ATSText     string               `json:"atsText"`
	Match       types.MatchResult    `json:"match"`
	Documents   types.DocumentBundle `json:"documents"`
	Degraded    bool                 `json:"degraded,omitempty"`
}

// RegenerateResponse is the response body for the regenerate endpoint.
type RegenerateResponse struct {
	Resume      types.Resume         `json:"resume"`
	CoverLetter string               `json:"coverLetter"`
	ATSText     string               `json:"atsText"`
	Match       types.MatchResult    `json:"match"`
	Documents   types.DocumentBundle `json:"documents"`
}

// createTailorHandler wraps the tailor handler with observability
func (s *Server) createTailorHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumeforge.api")
		ctx, span := tracer.Start(ctx, "api.tailor")
		defer span.End()

		jobDescription, resumeUpload, err := s.parseTailorRequest(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", err.Error(), "", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_bytes", len(resumeUpload)),
			attribute.Int("request.job_length", len(jobDescription)),
			attribute.String("operation", "tailor"),
		)

		// Create AI service for the tailor operation
		tailorConfig := s.AppConfig.GetTailorConfig()
		aiService, err := ai.NewService(&tailorConfig, "tailor", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), "", http.StatusInternalServerError)
			return
		}

		engine := tailor.NewEngine(aiService.Provider, s.AppConfig.Matching, s.Logger)

		// Track the AI operation with tracing and token metrics
		metrics := om.GetMetrics()
		var result types.TailorResult
		err = metrics.TrackAIOperation(ctx, "tailor", func(ctx context.Context) *observability.AIOperationResult {
			output, tailorErr := engine.Tailor(ctx, jobDescription, resumeUpload)
			result = output

			opResult := &observability.AIOperationResult{Error: tailorErr}
			if output.TokenUsage != nil {
				opResult.TokenUsage = &observability.TokenUsage{
					InputTokens:  output.TokenUsage.InputTokens,
					OutputTokens: output.TokenUsage.OutputTokens,
					TotalTokens:  output.TokenUsage.TotalTokens,
				}
			}
			return opResult
		})

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordTailored(ctx, 0, false)
			writeAppError(w, err, "Failed to tailor resume")
			return
		}

		metrics.RecordTailored(ctx, result.Match.Score, true)

		entry := s.History.Add(jobDescription, result)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("history.id", entry.ID),
			attribute.Int("match.score", result.Match.Score),
		)

		writeJSONResponse(w, TailorResponse{
			ID:          entry.ID,
			Resume:      result.Resume,
			CoverLetter: result.CoverLetter,
			ATSText:     result.ATSText,
			Match:       result.Match,
			Documents:   result.Documents,
			Degraded:    entry.Degraded,
		})
	}
}

// parseTailorRequest accepts either a JSON body or a multipart upload
// with a "resume" file and "job_description" field.
func (s *Server) parseTailorRequest(r *http.Request) (string, []byte, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(s.MaxRequestSize); err != nil {
			return "", nil, fmt.Errorf("failed to parse multipart form: %w", err)
		}

		jobDescription := r.FormValue("job_description")
		if strings.TrimSpace(jobDescription) == "" {
			return "", nil, fmt.Errorf("job_description field is required")
		}

		file, _, err := r.FormFile("resume")
		if err != nil {
			return "", nil, fmt.Errorf("resume file is required: %w", err)
		}
		defer func() {
			if err := file.Close(); err != nil {
				s.Logger.Warn("Failed to close uploaded file", "error", err)
			}
		}()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read resume file: %w", err)
		}
		return jobDescription, data, nil
	}

	var req TailorRequest
	if err := parseJSONRequest(r, &req); err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return "", nil, fmt.Errorf("jobDescription field is required")
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		return "", nil, fmt.Errorf("resumeText field is required")
	}
	return req.JobDescription, []byte(req.ResumeText), nil
}

// createRegenerateHandler re-renders documents from an edited resume
// without calling the model
func (s *Server) createRegenerateHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumeforge.api")
		ctx, span := tracer.Start(ctx, "api.regenerate")
		defer span.End()

		var req RegenerateRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), "", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.letter_length", len(req.CoverLetter)),
			attribute.String("operation", "regenerate"),
		)

		engine := tailor.NewEngine(nil, s.AppConfig.Matching, s.Logger)
		metrics := om.GetMetrics()

		result, err := engine.Regenerate(ctx, req.Resume, req.CoverLetter, req.JobDescription)
		if err != nil {
			span.RecordError(err)
			metrics.RecordRegenerated(ctx, false)
			writeAppError(w, err, "Failed to regenerate documents")
			return
		}

		metrics.RecordRegenerated(ctx, true)
		span.SetAttributes(attribute.Bool("success", true))

		writeJSONResponse(w, RegenerateResponse{
			Resume:      result.Resume,
			CoverLetter: result.CoverLetter,
			ATSText:     result.ATSText,
			Match:       result.Match,
			Documents:   result.Documents,
		})
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.Manager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		limited := originalMiddleware(next)
		return func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			limited(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordRateLimitHit(r.Context(), getClientIP(r))
			}
		}
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
