// Package llm abstracts the multimodal model provider used for screenshot
// critique. Providers return the model's raw text; shaping it into a strict
// result is the normalizer's job, never the provider's.
package llm

import (
	"context"
	"errors"

	"design-insight-backend/internal/analysis"
)

// Client abstracts vision-model providers.
type Client interface {
	// AnalyzeImage sends the screenshot and critique prompt to the model
	// and returns its raw text response.
	AnalyzeImage(ctx context.Context, input AnalyzeInput) (string, error)
}

// AnalyzeInput captures one critique request.
type AnalyzeInput struct {
	ImageBase64 string
	MIMEType    string
	APIKey      string
	Options     analysis.Options
}

// Provider failures the handler translates into specific user-facing
// messages. Anything else collapses to a generic analysis failure.
var (
	ErrInvalidAPIKey = errors.New("invalid API key")
	ErrRateLimited   = errors.New("rate limit reached")
	ErrSafetyBlocked = errors.New("image blocked by safety policy")
)
