// Package anthropic implements domain.Completer over the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/metrics"
)

const (
	provider = "anthropic"

	// DefaultMaxTokens bounds a completion when the request leaves MaxTokens unset.
	DefaultMaxTokens = 1024

	jsonInstruction = "\n\nRespond with a single JSON value and nothing else."
)

// Config holds the Anthropic provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int // < 0 keeps the SDK default
	Logger     *zap.Logger
}

// Completer sends a system prompt plus one user message per request.
type Completer struct {
	client anthropic.Client
	model  string
	logger *zap.Logger
}

// NewCompleter creates an Anthropic completion provider.
func NewCompleter(cfg *Config) *Completer {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Completer{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}
}

// Complete implements domain.Completer. The first text block of the reply is returned.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	system := req.System
	if req.JSON {
		system += jsonInstruction
	}

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: system, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	})

	duration := time.Since(start)

	if err != nil {
		c.recordError(req.Purpose, "api_error")
		return domain.CompletionResult{}, parseAPIError(err)
	}

	result := domain.CompletionResult{
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}
	for _, block := range message.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			result.Text = block.Text
			break
		}
	}
	if result.Text == "" {
		c.recordError(req.Purpose, "empty_response")
		return domain.CompletionResult{}, domain.NewExternalServiceError(
			provider, "messages", fmt.Errorf("no text content: %w", domain.ErrMalformedResponse),
		)
	}

	metrics.AIRequestsTotal.WithLabelValues(provider, c.model, req.Purpose, "success").Inc()
	metrics.AIRequestDuration.WithLabelValues(provider, c.model, req.Purpose).Observe(duration.Seconds())
	metrics.AITokensTotal.WithLabelValues(provider, c.model, "input").Add(float64(result.InputTokens))
	metrics.AITokensTotal.WithLabelValues(provider, c.model, "output").Add(float64(result.OutputTokens))

	c.logger.Debug("AI completion",
		zap.String("provider", provider),
		zap.String("purpose", req.Purpose),
		zap.Duration("duration", duration),
		zap.Int("input_tokens", result.InputTokens),
		zap.Int("output_tokens", result.OutputTokens),
	)

	return result, nil
}

// HealthCheck verifies API availability via the models listing.
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.Models.List(ctx, anthropic.ModelListParams{}); err != nil {
		return domain.NewExternalServiceError(provider, "list models", err)
	}
	return nil
}

func (c *Completer) recordError(purpose, errType string) {
	metrics.AIRequestsTotal.WithLabelValues(provider, c.model, purpose, "error").Inc()
	metrics.AIErrorsTotal.WithLabelValues(provider, c.model, errType).Inc()
}

func parseAPIError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return domain.NewExternalServiceError(provider, "messages",
			fmt.Errorf("API error %d: %w", apiErr.StatusCode, err))
	}
	return domain.NewExternalServiceError(provider, "messages", err)
}
