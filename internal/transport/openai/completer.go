// Package openai implements domain.Completer over the OpenAI-compatible chat completions API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/metrics"
)

// DefaultMaxTokens bounds a completion when the request leaves MaxTokens unset.
const DefaultMaxTokens = 1024

// Completer is a completion provider using the OpenAI-compatible API.
type Completer struct {
	client   *openai.Client
	model    string
	user     string
	provider string
	logger   *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	User     string
	Provider string
	Logger   *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion provider.
func NewCompleter(cfg *Config) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Completer{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		user:     cfg.User,
		provider: provider,
		logger:   logger,
	}
}

// Complete implements domain.Completer with transport-level metrics.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens: maxTokens,
		User:      c.user,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)

	duration := time.Since(start)

	if err != nil {
		c.recordError(req.Purpose, "api_error")
		return domain.CompletionResult{}, c.parseAPIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		c.recordError(req.Purpose, "empty_response")
		return domain.CompletionResult{}, domain.NewExternalServiceError(
			c.provider, "chat completion", fmt.Errorf("empty completion: %w", domain.ErrMalformedResponse),
		)
	}

	metrics.AIRequestsTotal.WithLabelValues(c.provider, c.model, req.Purpose, "success").Inc()
	metrics.AIRequestDuration.WithLabelValues(c.provider, c.model, req.Purpose).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.AITokensTotal.WithLabelValues(c.provider, c.model, "input").Add(float64(resp.Usage.PromptTokens))
		metrics.AITokensTotal.WithLabelValues(c.provider, c.model, "output").Add(float64(resp.Usage.CompletionTokens))
	}

	c.logger.Debug("AI completion",
		zap.String("provider", c.provider),
		zap.String("purpose", req.Purpose),
		zap.Duration("duration", duration),
		zap.Int("input_tokens", resp.Usage.PromptTokens),
		zap.Int("output_tokens", resp.Usage.CompletionTokens),
	)

	return domain.CompletionResult{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return domain.NewExternalServiceError(c.provider, "list models", err)
	}
	return nil
}

func (c *Completer) recordError(purpose, errType string) {
	metrics.AIRequestsTotal.WithLabelValues(c.provider, c.model, purpose, "error").Inc()
	metrics.AIErrorsTotal.WithLabelValues(c.provider, c.model, errType).Inc()
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped in domain.ExternalServiceError; transport errors keep their cause.
func (c *Completer) parseAPIError(err error) error {
	const op = "chat completion"

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return domain.NewExternalServiceError(c.provider, op,
			fmt.Errorf("API error %d: %s", reqErr.HTTPStatusCode, detail))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewExternalServiceError(c.provider, op,
			fmt.Errorf("API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message))
	}

	return domain.NewExternalServiceError(c.provider, op, err)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
