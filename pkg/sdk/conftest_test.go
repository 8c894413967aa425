package docintel

import (
	"context"
	"strings"
	"sync"
	"testing"
)

// fakeCompleter answers extraction and expansion prompts with canned JSON.
type fakeCompleter struct {
	mu         sync.Mutex
	extraction string
	terms      string
	err        error
	calls      int
}

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (CompletionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return CompletionResult{}, f.err
	}
	if strings.Contains(req.System, "expand search phrases") {
		return CompletionResult{Text: f.terms, InputTokens: 10, OutputTokens: 5}, nil
	}
	return CompletionResult{Text: f.extraction, InputTokens: 100, OutputTokens: 40}, nil
}

func newMemoryClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), append([]Option{WithSQLite(":memory:")}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}
