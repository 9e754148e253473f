package llm

import (
	"context"
	"fmt"
)

// Client abstracts vision model providers for diagram analysis. Implementations
// are constructed once and reused across calls.
type Client interface {
	AnalyzeDiagram(ctx context.Context, input AnalyzeInput) (string, error)
}

// AnalyzeInput carries the encoded diagram for one invocation.
type AnalyzeInput struct {
	ImageBase64 string
	ImageFormat string
}

// Upstream error codes.
const (
	ErrCodeTimeout                = "Timeout"
	ErrCodeServiceError           = "ServiceError"
	ErrCodeMalformedModelResponse = "MalformedModelResponse"
)

// UpstreamError reports a failed model service call. The code distinguishes
// timeouts from service rejections and unusable response shapes; no retry
// happens at this level.
type UpstreamError struct {
	Code       string
	StatusCode int
	Details    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s (status %d): %s", e.Code, e.StatusCode, e.Details)
	}
	return fmt.Sprintf("upstream %s: %s", e.Code, e.Details)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
