package entry

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// Patch is a partial user edit. Nil pointers leave the field untouched.
// Metadata keys are merged; a nil value deletes the key.
type Patch struct {
	Title       *string
	Description *string
	Domain      *lifedomain.Domain
	Metadata    map[string]any
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Domain == nil && len(p.Metadata) == 0
}

// Apply returns a validated copy of e with p applied and updatedAt set to now.
func (e *Entry) Apply(p Patch, now time.Time) (Entry, error) {
	if p.IsEmpty() {
		return Entry{}, fmt.Errorf("%w: empty patch", domain.ErrInvalidInput)
	}

	out := Entry{
		id:          e.id,
		ownerID:     e.ownerID,
		domain:      e.domain,
		title:       e.title,
		description: e.description,
		metadata:    cloneMap(e.metadata),
		createdAt:   e.createdAt,
		updatedAt:   now.UTC(),
	}
	if p.Title != nil {
		out.title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		out.description = *p.Description
	}
	if p.Domain != nil {
		out.domain = *p.Domain
	}
	for k, v := range p.Metadata {
		if v == nil {
			delete(out.metadata, k)
			continue
		}
		out.metadata[k] = v
	}

	if err := out.validate(); err != nil {
		return Entry{}, err
	}
	return out, nil
}
