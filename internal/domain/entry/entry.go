package entry

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// Metadata keys the router writes and the scorer reads.
const (
	MetaDocumentType      = "documentType"
	MetaParsingConfidence = "parsingConfidence"
	MetaOCRText           = "ocrText"
	MetaCategory          = "category"
	MetaSubtype           = "subtype"
)

// Size limits.
const (
	MaxTitleLen       = 300
	MaxDescriptionLen = 20000
)

// Entry is a persisted, domain-bucketed document record.
type Entry struct {
	id          string
	ownerID     string
	domain      lifedomain.Domain
	title       string
	description string
	metadata    map[string]any
	createdAt   time.Time
	updatedAt   time.Time
}

// New validates and creates an Entry. createdAt and updatedAt are both set to now.
func New(
	id, ownerID string, d lifedomain.Domain, title, description string,
	metadata map[string]any, now time.Time,
) (Entry, error) {
	e := Entry{
		id:          strings.TrimSpace(id),
		ownerID:     strings.TrimSpace(ownerID),
		domain:      d,
		title:       strings.TrimSpace(title),
		description: description,
		metadata:    cloneMap(metadata),
		createdAt:   now.UTC(),
		updatedAt:   now.UTC(),
	}
	if err := e.validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Reconstruct creates an Entry without validation (storage hydration).
func Reconstruct(
	id, ownerID string, d lifedomain.Domain, title, description string,
	metadata map[string]any, createdAt, updatedAt time.Time,
) Entry {
	return Entry{
		id: id, ownerID: ownerID, domain: d, title: title, description: description,
		metadata: metadata, createdAt: createdAt, updatedAt: updatedAt,
	}
}

func (e *Entry) validate() error {
	if e.id == "" {
		return fmt.Errorf("%w: entry ID is required", domain.ErrInvalidInput)
	}
	if e.ownerID == "" {
		return fmt.Errorf("%w: owner ID is required", domain.ErrInvalidInput)
	}
	if !e.domain.IsValid() {
		return fmt.Errorf("%w: unknown domain %q", domain.ErrInvalidInput, e.domain)
	}
	if e.title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(e.title) > MaxTitleLen {
		return fmt.Errorf("%w: title too long (max %d)", domain.ErrInvalidInput, MaxTitleLen)
	}
	if utf8.RuneCountInString(e.description) > MaxDescriptionLen {
		return fmt.Errorf("%w: description too long (max %d)", domain.ErrInvalidInput, MaxDescriptionLen)
	}
	return nil
}

// ID returns the entry identifier.
func (e *Entry) ID() string { return e.id }

// OwnerID returns the owning user.
func (e *Entry) OwnerID() string { return e.ownerID }

// Domain returns the life domain.
func (e *Entry) Domain() lifedomain.Domain { return e.domain }

// Title returns the entry title.
func (e *Entry) Title() string { return e.title }

// Description returns the entry description.
func (e *Entry) Description() string { return e.description }

// Metadata returns the metadata map.
func (e *Entry) Metadata() map[string]any { return e.metadata }

// CreatedAt returns the creation time.
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

// UpdatedAt returns the last update time.
func (e *Entry) UpdatedAt() time.Time { return e.updatedAt }

// MetaString returns metadata[key] when it is a string.
func (e *Entry) MetaString(key string) string {
	if s, ok := e.metadata[key].(string); ok {
		return s
	}
	return ""
}

// DocumentType returns the classified document type recorded in metadata.
func (e *Entry) DocumentType() string {
	if t := e.MetaString(MetaDocumentType); t != "" {
		return t
	}
	return e.MetaString("type")
}

// Category returns metadata.category.
func (e *Entry) Category() string { return e.MetaString(MetaCategory) }

// Subtype returns metadata.subtype.
func (e *Entry) Subtype() string { return e.MetaString(MetaSubtype) }

// Body returns the full text searched at the lowest relevance tier.
func (e *Entry) Body() string {
	ocr := e.MetaString(MetaOCRText)
	switch {
	case ocr == "":
		return e.description
	case e.description == "":
		return ocr
	}
	return e.description + "\n" + ocr
}

func cloneMap(m map[string]any) map[string]any {
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
