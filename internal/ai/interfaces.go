package ai

import (
	"context"

	"resumeforge/internal/types"
)

// AIProvider is the interface for model backends. TailorResume returns
// the raw model text; parsing and normalization happen in the caller
// so junk output can be coerced instead of rejected outright.
type AIProvider interface {
	TailorResume(ctx context.Context, input types.TailorInput) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
