package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resumeforge/internal/config"
	forgeErrors "resumeforge/internal/errors"
	"resumeforge/internal/types"
)

func testServer(t *testing.T, apiKeys []string) *Server {
	t.Helper()
	logger, _ := forgeErrors.New("error")

	appCfg := &config.Config{
		Matching: config.MatchingConfig{
			MaxKeywords:    35,
			MinJobChars:    50,
			MinResumeChars: 50,
			MinLetterChars: 10,
		},
		History: config.HistoryConfig{Capacity: 5, MaxEntryBytes: 8 << 20},
	}
	appCfg.Observability.HealthCheck.Timeout = 5 * time.Second

	return NewServer(appCfg, ServerConfig{
		Host:           "127.0.0.1",
		Port:           "8080",
		Version:        "test",
		APIKeys:        apiKeys,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxRequestSize: 1 << 20,
	}, logger)
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		apiKeys        []string
		headers        map[string]string
		expectedStatus int
	}{
		{
			name:           "no keys configured skips auth",
			apiKeys:        nil,
			headers:        map[string]string{},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid api key header",
			apiKeys:        []string{"valid-key-12345"},
			headers:        map[string]string{"X-API-Key": "valid-key-12345"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid bearer token",
			apiKeys:        []string{"valid-key-12345"},
			headers:        map[string]string{"Authorization": "Bearer valid-key-12345"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing key",
			apiKeys:        []string{"valid-key-12345"},
			headers:        map[string]string{},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid key",
			apiKeys:        []string{"valid-key-12345"},
			headers:        map[string]string{"X-API-Key": "wrong-key"},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testServer(t, tt.apiKeys)

			handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest(http.MethodPost, "/tailor", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			handler(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestParseTailorRequestJSON(t *testing.T) {
	s := testServer(t, nil)

	body := `{"jobDescription": "We need a Go engineer.", "resumeText": "Jane Doe, engineer."}`
	r := httptest.NewRequest(http.MethodPost, "/tailor", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	job, resume, err := s.parseTailorRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job != "We need a Go engineer." {
		t.Errorf("unexpected job description %q", job)
	}
	if string(resume) != "Jane Doe, engineer." {
		t.Errorf("unexpected resume text %q", resume)
	}
}

func TestParseTailorRequestMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing job description", body: `{"resumeText": "Jane Doe"}`},
		{name: "missing resume text", body: `{"jobDescription": "Go engineer"}`},
		{name: "not json", body: `plain text`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testServer(t, nil)
			r := httptest.NewRequest(http.MethodPost, "/tailor", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")

			if _, _, err := s.parseTailorRequest(r); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseTailorRequestMultipart(t *testing.T) {
	s := testServer(t, nil)

	var buf strings.Builder
	boundary := "testboundary"
	buf.WriteString("--" + boundary + "\r\n")
	buf.WriteString("Content-Disposition: form-data; name=\"job_description\"\r\n\r\n")
	buf.WriteString("We need a Go engineer.\r\n")
	buf.WriteString("--" + boundary + "\r\n")
	buf.WriteString("Content-Disposition: form-data; name=\"resume\"; filename=\"resume.txt\"\r\n")
	buf.WriteString("Content-Type: text/plain\r\n\r\n")
	buf.WriteString("Jane Doe, engineer.\r\n")
	buf.WriteString("--" + boundary + "--\r\n")

	r := httptest.NewRequest(http.MethodPost, "/tailor", strings.NewReader(buf.String()))
	r.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)

	job, resume, err := s.parseTailorRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job != "We need a Go engineer." {
		t.Errorf("unexpected job description %q", job)
	}
	if string(resume) != "Jane Doe, engineer." {
		t.Errorf("unexpected resume content %q", resume)
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "invalid request",
			err:      forgeErrors.NewValidationError(forgeErrors.ErrCodeInvalidRequest, "bad", nil),
			expected: http.StatusBadRequest,
		},
		{
			name:     "extraction failure",
			err:      forgeErrors.NewValidationError(forgeErrors.ErrCodeExtractionFailed, "bad pdf", nil),
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "unparseable model response",
			err:      forgeErrors.NewAIError(forgeErrors.ErrCodeUnparseableResponse, "bad json", nil),
			expected: http.StatusBadGateway,
		},
		{
			name:     "ai failure",
			err:      forgeErrors.NewAIError(forgeErrors.ErrCodeAIServiceFailed, "down", nil),
			expected: http.StatusBadGateway,
		},
		{
			name:     "history not found",
			err:      forgeErrors.NewValidationError(forgeErrors.ErrCodeHistoryNotFound, "missing", nil),
			expected: http.StatusNotFound,
		},
		{
			name:     "render failure",
			err:      forgeErrors.NewRenderError(forgeErrors.ErrCodeRenderFailed, "pdf", nil),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestHistoryHandlers(t *testing.T) {
	s := testServer(t, nil)

	entry := s.History.Add("Backend Go engineer role", types.TailorResult{
		CoverLetter: "Dear Hiring Manager,",
		Match:       types.MatchResult{Score: 72},
	})

	// List
	w := httptest.NewRecorder()
	s.historyListHandler(w, httptest.NewRequest(http.MethodGet, "/history", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list struct {
		Entries []struct {
			ID    string `json:"id"`
			Score int    `json:"score"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(list.Entries) != 1 || list.Entries[0].ID != entry.ID || list.Entries[0].Score != 72 {
		t.Errorf("unexpected list response: %+v", list)
	}

	// Get by id
	r := httptest.NewRequest(http.MethodGet, "/history/"+entry.ID, nil)
	r.SetPathValue("id", entry.ID)
	w = httptest.NewRecorder()
	s.historyGetHandler(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Unknown id
	r = httptest.NewRequest(http.MethodGet, "/history/unknown", nil)
	r.SetPathValue("id", "unknown")
	w = httptest.NewRecorder()
	s.historyGetHandler(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}
	var errResp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.Code != forgeErrors.ErrCodeHistoryNotFound {
		t.Errorf("expected code %s, got %s", forgeErrors.ErrCodeHistoryNotFound, errResp.Code)
	}
}

func TestStatsHandler(t *testing.T) {
	s := testServer(t, nil)

	w := httptest.NewRecorder()
	s.statsHandler(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if response["service"] != "resumeforge" {
		t.Errorf("unexpected service name %v", response["service"])
	}
	if _, ok := response["history"]; !ok {
		t.Error("expected history stats")
	}
}

func TestStatsHandlerMethodNotAllowed(t *testing.T) {
	s := testServer(t, nil)

	w := httptest.NewRecorder()
	s.statsHandler(w, httptest.NewRequest(http.MethodPost, "/stats", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestBuildTLSConfig(t *testing.T) {
	s := testServer(t, nil)

	// Disabled mode
	cfg, err := s.buildTLSConfig()
	if err != nil || cfg != nil {
		t.Errorf("expected nil config for disabled TLS, got %v, %v", cfg, err)
	}

	// Server mode without files
	s.TLSConfig = config.TLSConfig{Mode: "server"}
	if _, err := s.buildTLSConfig(); err == nil {
		t.Error("expected error for missing cert files")
	}

	// Unknown mode
	s.TLSConfig = config.TLSConfig{Mode: "mutual"}
	if _, err := s.buildTLSConfig(); err == nil {
		t.Error("expected error for unsupported mode")
	}
}
