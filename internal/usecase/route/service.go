package route

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/extraction"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// DefaultDescriptionLimit is how many runes of raw text become the default description.
const DefaultDescriptionLimit = 500

// Router turns classification results into domain entries.
type Router struct {
	descLimit int
	newID     func() string
	now       func() time.Time
}

// Option customizes a Router.
type Option func(*Router)

// WithDescriptionLimit overrides the default description length.
func WithDescriptionLimit(n int) Option {
	return func(r *Router) {
		if n > 0 {
			r.descLimit = n
		}
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Router) { r.newID = fn }
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(r *Router) { r.now = fn }
}

// New creates a Router.
func New(opts ...Option) *Router {
	r := &Router{
		descLimit: DefaultDescriptionLimit,
		newID:     func() string { return uuid.New().String() },
		now:       time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Route builds an entry in the suggested domain.
// Returns *domain.NoDomainSuggestedError when the result has no domain.
func (r *Router) Route(res extraction.Result, ownerID string) (entry.Entry, error) {
	if res.SuggestedDomain == nil || !res.SuggestedDomain.IsValid() {
		return entry.Entry{}, &domain.NoDomainSuggestedError{DocumentType: string(res.DocumentType)}
	}
	return r.build(res, ownerID, *res.SuggestedDomain)
}

// RouteWithDomain builds an entry in a caller-chosen domain, ignoring the suggestion.
func (r *Router) RouteWithDomain(res extraction.Result, ownerID string, d lifedomain.Domain) (entry.Entry, error) {
	if !d.IsValid() {
		return entry.Entry{}, fmt.Errorf("%w: unknown domain %q", domain.ErrInvalidInput, d)
	}
	return r.build(res, ownerID, d)
}

func (r *Router) build(res extraction.Result, ownerID string, d lifedomain.Domain) (entry.Entry, error) {
	now := r.now()

	meta := make(map[string]any, len(res.Fields)+len(res.Metadata)+3)
	for k, v := range res.Fields {
		meta[k] = v
	}
	for k, v := range res.Metadata {
		meta[k] = v
	}
	meta[entry.MetaDocumentType] = string(res.DocumentType)
	meta[entry.MetaParsingConfidence] = extraction.ClampConfidence(res.Confidence)
	if strings.TrimSpace(res.RawText) != "" {
		meta[entry.MetaOCRText] = res.RawText
	}

	title, ok := res.StringField(extraction.FieldTitle)
	if !ok {
		title = extraction.SynthesizeTitle(res.DocumentType, now)
	}
	title = truncateRunes(strings.Join(strings.Fields(title), " "), entry.MaxTitleLen)

	desc, ok := res.StringField(extraction.FieldDescription)
	if !ok {
		desc = truncateRunes(strings.TrimSpace(res.RawText), r.descLimit)
	}
	desc = truncateRunes(desc, entry.MaxDescriptionLen)

	e, err := entry.New(r.newID(), ownerID, d, title, desc, meta, now)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("build entry: %w", err)
	}
	return e, nil
}

func truncateRunes(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}
