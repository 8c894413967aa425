package domain

import "context"

// KeyPrefix namespaces every key this service writes to a shared KV store.
const KeyPrefix = "docintel:"

// Completer is the AI completion contract shared by the extraction and expansion paths.
// Implementations must honour ctx cancellation; the output is untrusted text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// HealthChecker verifies AI provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CompletionRequest is a single system-instruction + user-payload exchange.
type CompletionRequest struct {
	System    string
	User      string
	JSON      bool // ask the provider for a JSON object when it supports it
	MaxTokens int
	Purpose   string // metrics label: "extraction" | "expansion"
}

// CompletionResult carries the raw model text and token usage.
type CompletionResult struct {
	Text         string
	InputTokens  int
	OutputTokens int
}
