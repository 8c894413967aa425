package docintel

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/docintel/internal/domain"
)

// Completer sends one system instruction plus one user message to a language model.
// Its output is treated as untrusted text; any error falls back to rules or the dictionary.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// CompletionRequest is a single model exchange.
type CompletionRequest struct {
	System    string
	User      string
	JSON      bool // the caller expects a JSON object
	MaxTokens int
}

// CompletionResult carries the model text and token counts.
type CompletionResult struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// completerAdapter wraps a public Completer to satisfy domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(
	ctx context.Context, req domain.CompletionRequest,
) (domain.CompletionResult, error) {
	r, err := a.inner.Complete(ctx, CompletionRequest{
		System:    req.System,
		User:      req.User,
		JSON:      req.JSON,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("complete: %w", err)
	}
	return domain.CompletionResult{
		Text:         r.Text,
		InputTokens:  r.InputTokens,
		OutputTokens: r.OutputTokens,
	}, nil
}
