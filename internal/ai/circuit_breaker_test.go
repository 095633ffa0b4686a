package ai

import (
	"testing"
	"time"

	"google.golang.org/genai"

	"resumeforge/internal/config"
)

func TestCircuitBreakerCreation(t *testing.T) {
	tailorConfig := &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "gemini-2.5-pro",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}

	cb := NewAICircuitBreaker("Tailor", tailorConfig, nil)
	if cb == nil {
		t.Fatal("Circuit breaker should not be nil when enabled")
	}

	stats := cb.GetStats()

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "AI-Tailor" {
		t.Errorf("Expected circuit breaker name 'AI-Tailor', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	enabled, ok := stats["enabled"].(bool)
	if !ok {
		t.Fatal("Circuit breaker enabled status not found")
	}
	if !enabled {
		t.Error("Circuit breaker should be enabled")
	}

	if !cb.IsHealthy() {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestModelCircuitBreakerIndependence(t *testing.T) {
	cfg := &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      5,
			Interval:         30 * time.Second,
			Timeout:          45 * time.Second,
			MinRequests:      2,
			FailureThreshold: 0.7,
		},
	}

	contentCB := NewAICircuitBreaker("Tailor", cfg, nil)
	modelCB := NewModelCircuitBreaker("Tailor", cfg, nil)

	if contentCB == nil || modelCB == nil {
		t.Fatal("Both circuit breakers should be created when enabled")
	}

	contentName := contentCB.GetStats()["name"].(string)
	modelName := modelCB.GetModelStats()["name"].(string)
	if contentName == modelName {
		t.Errorf("Content and model circuit breakers should have distinct names, both got '%s'", contentName)
	}
	if modelName != "AI-Model-Tailor" {
		t.Errorf("Expected model circuit breaker name 'AI-Model-Tailor', got '%s'", modelName)
	}

	if !contentCB.IsHealthy() {
		t.Error("Content circuit breaker should be healthy initially")
	}
	if !modelCB.IsModelHealthy() {
		t.Error("Model circuit breaker should be healthy initially")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	disabledConfig := &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled: false,
		},
	}

	cb := NewAICircuitBreaker("Disabled", disabledConfig, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	mcb := NewModelCircuitBreaker("Disabled", disabledConfig, nil)
	if mcb != nil {
		t.Fatal("Model circuit breaker should be nil when disabled")
	}

	// A nil breaker still executes the function directly.
	stats := cb.GetStats()
	if enabled, _ := stats["enabled"].(bool); enabled {
		t.Error("Disabled circuit breaker stats should report enabled=false")
	}
}

func TestCircuitBreakerNilExecute(t *testing.T) {
	var cb *AICircuitBreaker

	called := false
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		called = true
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Execute on nil breaker returned error: %v", err)
	}
	if !called {
		t.Error("Execute on nil breaker should still invoke the function")
	}
}
