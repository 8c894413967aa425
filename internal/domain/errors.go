package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientText signals recognized text too short to classify.
	ErrInsufficientText = errors.New("insufficient text")
	// ErrNoDomainSuggested signals a classified document without a life domain.
	ErrNoDomainSuggested = errors.New("no domain suggested")
	// ErrExternalService signals an AI or OCR provider failure.
	ErrExternalService = errors.New("external service error")
	// ErrMalformedResponse signals an AI response that could not be decoded.
	ErrMalformedResponse = fmt.Errorf("malformed response: %w", ErrExternalService)
	// ErrEntryNotFound signals a missing domain entry.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrInvalidInput signals a request that failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidQuery signals a search query with no usable phrase.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrAIDisabled signals that no AI provider is configured.
	ErrAIDisabled = errors.New("ai provider disabled")
)

// InsufficientTextError carries the trimmed text length that failed the minimum.
type InsufficientTextError struct {
	Length int
	Min    int
}

func (e *InsufficientTextError) Error() string {
	return fmt.Sprintf("%s: %d characters, need at least %d", ErrInsufficientText.Error(), e.Length, e.Min)
}

func (e *InsufficientTextError) Unwrap() error { return ErrInsufficientText }

// NoDomainSuggestedError names the document type that could not be routed.
type NoDomainSuggestedError struct {
	DocumentType string
}

func (e *NoDomainSuggestedError) Error() string {
	return fmt.Sprintf("%s for document type %q", ErrNoDomainSuggested.Error(), e.DocumentType)
}

func (e *NoDomainSuggestedError) Unwrap() error { return ErrNoDomainSuggested }

// ExternalServiceError wraps a provider failure with the operation that failed.
type ExternalServiceError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap exposes both the sentinel and the cause, so errors.Is works for
// ErrExternalService as well as context.DeadlineExceeded.
func (e *ExternalServiceError) Unwrap() []error { return []error{ErrExternalService, e.Err} }

// NewExternalServiceError creates an ExternalServiceError.
func NewExternalServiceError(provider, op string, err error) error {
	return &ExternalServiceError{Provider: provider, Op: op, Err: err}
}
