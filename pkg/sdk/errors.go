package docintel

import "github.com/kailas-cloud/docintel/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInsufficientText  = domain.ErrInsufficientText
	ErrNoDomainSuggested = domain.ErrNoDomainSuggested
	ErrEntryNotFound     = domain.ErrEntryNotFound
	ErrInvalidInput      = domain.ErrInvalidInput
	ErrInvalidQuery      = domain.ErrInvalidQuery
	ErrExternalService   = domain.ErrExternalService
)
