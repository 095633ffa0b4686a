package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumeforge/internal/errors"
)

func TestRateLimiterAllow(t *testing.T) {
	logger, _ := errors.New("error")
	limiter := NewRateLimiter(60, time.Minute, 2, logger)
	defer limiter.Close()

	// Burst capacity allows the first two requests immediately.
	if !limiter.Allow("ip:10.0.0.1") {
		t.Error("first request should be allowed")
	}
	if !limiter.Allow("ip:10.0.0.1") {
		t.Error("second request within burst should be allowed")
	}
	if limiter.Allow("ip:10.0.0.1") {
		t.Error("third immediate request should be rejected")
	}

	// A different key has its own bucket.
	if !limiter.Allow("ip:10.0.0.2") {
		t.Error("request from different key should be allowed")
	}
}

func TestRateLimiterStats(t *testing.T) {
	logger, _ := errors.New("error")
	limiter := NewRateLimiter(120, time.Minute, 5, logger)
	defer limiter.Close()

	limiter.Allow("a")
	limiter.Allow("b")

	stats := limiter.GetStats()
	if stats["active_limiters"] != 2 {
		t.Errorf("expected 2 active limiters, got %v", stats["active_limiters"])
	}
	if stats["burst_capacity"] != 5 {
		t.Errorf("expected burst capacity 5, got %v", stats["burst_capacity"])
	}
	if stats["rate_per_minute"] != 120.0 {
		t.Errorf("expected 120 requests per minute, got %v", stats["rate_per_minute"])
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		byAPIKey bool
		byIP     bool
		headers  map[string]string
		expected string
	}{
		{
			name:     "api key header preferred",
			byAPIKey: true,
			byIP:     true,
			headers:  map[string]string{"X-API-Key": "secret123"},
			expected: "api:secret123",
		},
		{
			name:     "bearer token fallback",
			byAPIKey: true,
			byIP:     false,
			headers:  map[string]string{"Authorization": "Bearer tok456"},
			expected: "api:tok456",
		},
		{
			name:     "falls back to ip",
			byAPIKey: true,
			byIP:     true,
			headers:  map[string]string{},
			expected: "ip:192.0.2.1",
		},
		{
			name:     "disabled",
			byAPIKey: false,
			byIP:     false,
			headers:  map[string]string{"X-API-Key": "secret123"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/tailor", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			got := getRateLimitKey(r, tt.byAPIKey, tt.byIP)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{
			name:     "x-forwarded-for first valid ip",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			remote:   "192.0.2.1:1234",
			expected: "203.0.113.7",
		},
		{
			name:     "x-real-ip",
			headers:  map[string]string{"X-Real-IP": "198.51.100.9"},
			remote:   "192.0.2.1:1234",
			expected: "198.51.100.9",
		},
		{
			name:     "remote addr fallback",
			headers:  map[string]string{},
			remote:   "192.0.2.55:4567",
			expected: "192.0.2.55",
		},
		{
			name:     "invalid forwarded header ignored",
			headers:  map[string]string{"X-Forwarded-For": "not-an-ip"},
			remote:   "192.0.2.55:4567",
			expected: "192.0.2.55",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/health", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			got := getClientIP(r)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("short"); got != "****" {
		t.Errorf("expected short keys fully masked, got %q", got)
	}
	if got := maskAPIKey("abcdefghijklmnop"); got != "abcdefgh****" {
		t.Errorf("expected prefix-masked key, got %q", got)
	}
}
