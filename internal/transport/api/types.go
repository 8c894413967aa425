// Package api holds the HTTP contract of the docintel service: wire types,
// the ServerInterface the chi transport implements, and the routing wrapper
// that binds path and query parameters.
package api

import "time"

// ErrorResponseCode is a stable machine-readable error code.
type ErrorResponseCode string

// Defines values for ErrorResponseCode.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeInvalidQuery     ErrorResponseCode = "invalid_query"
	ErrorResponseCodeInsufficientText ErrorResponseCode = "insufficient_text"
	ErrorResponseCodeDomainRequired   ErrorResponseCode = "domain_required"
	ErrorResponseCodeEntryNotFound    ErrorResponseCode = "entry_not_found"
	ErrorResponseCodeProviderError    ErrorResponseCode = "provider_error"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`

	// Extraction is attached when the document was classified but needs a user-picked domain.
	Extraction *Extraction `json:"extraction,omitempty"`
}

// Extraction is a classification result.
type Extraction struct {
	DocumentType    string         `json:"document_type"`
	Confidence      float64        `json:"confidence"`
	SuggestedDomain *string        `json:"suggested_domain"`
	Fields          map[string]any `json:"fields"`
	RawText         string         `json:"raw_text"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// ClassifyRequest defines model for ClassifyRequest.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// IngestDocumentRequest carries recognized text of an uploaded file.
type IngestDocumentRequest struct {
	OwnerId  string  `json:"owner_id"`
	FileRef  string  `json:"file_ref"`
	MimeType string  `json:"mime_type"`
	Text     string  `json:"text"`
	Domain   *string `json:"domain,omitempty"`
}

// IngestDocumentResponse defines model for IngestDocumentResponse.
type IngestDocumentResponse struct {
	DocumentId string     `json:"document_id"`
	Extraction Extraction `json:"extraction"`
	Entry      Entry      `json:"entry"`
}

// CreateEntryRequest routes a previously returned extraction.
type CreateEntryRequest struct {
	OwnerId    string     `json:"owner_id"`
	Extraction Extraction `json:"extraction"`
	Domain     *string    `json:"domain,omitempty"`
}

// Entry defines model for Entry.
type Entry struct {
	Id          string         `json:"id"`
	OwnerId     string         `json:"owner_id"`
	Domain      string         `json:"domain"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// EntryCursorListResponse defines model for EntryCursorListResponse.
type EntryCursorListResponse struct {
	Items      []Entry `json:"items"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor,omitempty"`
	Total      *int    `json:"total,omitempty"`
}

// PatchEntryRequest is a partial edit. A null metadata value removes the key.
type PatchEntryRequest struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Domain      *string        `json:"domain,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// SearchResultItem defines model for SearchResultItem.
type SearchResultItem struct {
	Entry        Entry    `json:"entry"`
	Score        int      `json:"score"`
	MatchedTerms []string `json:"matched_terms"`
}

// SearchResultListResponse defines model for SearchResultListResponse.
type SearchResultListResponse struct {
	Items   []SearchResultItem `json:"items"`
	Terms   []string           `json:"terms"`
	Total   int                `json:"total"`
	Scanned int                `json:"scanned"`
}

// ExpandResponse defines model for ExpandResponse.
type ExpandResponse struct {
	Phrases []string `json:"phrases"`
	Terms   []string `json:"terms"`
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ListEntriesParams defines parameters for ListEntries.
type ListEntriesParams struct {
	OwnerId string  `form:"owner_id" json:"owner_id"`
	Domain  *string `form:"domain,omitempty" json:"domain,omitempty"`
	Cursor  *string `form:"cursor,omitempty" json:"cursor,omitempty"`
	Limit   *int    `form:"limit,omitempty" json:"limit,omitempty"`
}

// EntryParams defines the owner scope of single-entry operations.
type EntryParams struct {
	OwnerId string `form:"owner_id" json:"owner_id"`
}

// SearchEntriesParams defines parameters for SearchEntries.
type SearchEntriesParams struct {
	OwnerId string  `form:"owner_id" json:"owner_id"`
	Q       string  `form:"q" json:"q"`
	Domain  *string `form:"domain,omitempty" json:"domain,omitempty"`
	Limit   *int    `form:"limit,omitempty" json:"limit,omitempty"`
}

// ExpandTermsParams defines parameters for ExpandTerms.
type ExpandTermsParams struct {
	Q string `form:"q" json:"q"`
}
