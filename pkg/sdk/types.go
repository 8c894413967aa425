package docintel

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/domain/doctype"
	"github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/extraction"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
	"github.com/kailas-cloud/docintel/internal/domain/search/scored"
)

// Extraction is the classifier output for one document.
type Extraction struct {
	DocumentType    string
	Confidence      float64
	SuggestedDomain string // empty when no domain could be inferred
	Fields          map[string]any
	RawText         string
	Metadata        map[string]any
}

// Entry is a stored, routed document.
type Entry struct {
	ID          string
	OwnerID     string
	Domain      string
	Title       string
	Description string
	Metadata    map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EntryPatch is a partial entry update.
// Nil fields are unchanged. A nil value in Metadata deletes that key.
type EntryPatch struct {
	Title       *string
	Description *string
	Domain      *string
	Metadata    map[string]any
}

// ListResult is one page of entries.
type ListResult struct {
	Entries    []Entry
	NextCursor string // empty on the last page
}

// Upload is recognized text plus the file it came from.
type Upload struct {
	OwnerID  string
	FileRef  string
	MIMEType string
	Text     string
	Domain   string // optional user-picked domain
}

// IngestResult is what Ingest produced. Entry is nil when routing needs a domain.
type IngestResult struct {
	DocumentID string
	Extraction Extraction
	Entry      *Entry
}

// SearchQuery is a comma-delimited free-text query with an optional domain filter.
type SearchQuery struct {
	Q      string
	Domain string
	Limit  int // 0 = default (50), capped at 200
}

// SearchHit is a ranked entry.
type SearchHit struct {
	Entry        Entry
	Score        int
	MatchedTerms []string
}

// SearchResult is a ranked search response.
type SearchResult struct {
	Hits    []SearchHit
	Terms   []string
	Scanned int
}

func fromInternalExtraction(res *extraction.Result) Extraction {
	out := Extraction{
		DocumentType: string(res.DocumentType),
		Confidence:   res.Confidence,
		Fields:       res.Fields,
		RawText:      res.RawText,
		Metadata:     res.Metadata,
	}
	if res.SuggestedDomain != nil {
		out.SuggestedDomain = res.SuggestedDomain.String()
	}
	return out
}

func toInternalExtraction(ex Extraction) (extraction.Result, error) {
	d, err := parseDomain(ex.SuggestedDomain)
	if err != nil {
		return extraction.Result{}, err
	}
	res := extraction.Result{
		Confidence:      extraction.ClampConfidence(ex.Confidence),
		SuggestedDomain: d,
		Fields:          ex.Fields,
		RawText:         ex.RawText,
		Metadata:        ex.Metadata,
	}
	res.DocumentType, _ = doctype.Parse(ex.DocumentType) // unknown labels become "other"
	return res, nil
}

func fromInternalEntry(e *entry.Entry) Entry {
	return Entry{
		ID:          e.ID(),
		OwnerID:     e.OwnerID(),
		Domain:      e.Domain().String(),
		Title:       e.Title(),
		Description: e.Description(),
		Metadata:    e.Metadata(),
		CreatedAt:   e.CreatedAt(),
		UpdatedAt:   e.UpdatedAt(),
	}
}

func fromInternalEntries(in []entry.Entry) []Entry {
	out := make([]Entry, len(in))
	for i := range in {
		out[i] = fromInternalEntry(&in[i])
	}
	return out
}

func fromInternalHits(in []scored.Candidate) []SearchHit {
	out := make([]SearchHit, len(in))
	for i := range in {
		out[i] = SearchHit{
			Entry:        fromInternalEntry(&in[i].Entry),
			Score:        in[i].Score,
			MatchedTerms: in[i].MatchedTerms,
		}
	}
	return out
}

func toInternalPatch(p EntryPatch) (entry.Patch, error) {
	var d *lifedomain.Domain
	if p.Domain != nil {
		parsed, err := parseDomain(*p.Domain)
		if err != nil {
			return entry.Patch{}, err
		}
		if parsed == nil {
			return entry.Patch{}, fmt.Errorf("%w: domain cannot be cleared", domain.ErrInvalidInput)
		}
		d = parsed
	}
	return entry.Patch{
		Title:       p.Title,
		Description: p.Description,
		Domain:      d,
		Metadata:    p.Metadata,
	}, nil
}

// parseDomain maps "" to nil and rejects unknown names.
func parseDomain(s string) (*lifedomain.Domain, error) {
	if s == "" {
		return nil, nil
	}
	d, ok := lifedomain.Parse(s)
	if !ok {
		return nil, fmt.Errorf("%w: unknown domain %q", domain.ErrInvalidInput, s)
	}
	return &d, nil
}
