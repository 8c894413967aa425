package classify

import (
	"context"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/domain/extraction"
)

// Completer sends a system instruction + user payload to an AI model.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error)
}

// StructuredExtractor turns raw text into a typed record using an AI model.
// Any error means the caller falls back to rule-based extraction.
type StructuredExtractor interface {
	Extract(ctx context.Context, rawText string) (extraction.Result, error)
}
