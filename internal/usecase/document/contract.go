package document

import (
	"context"

	"github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/extraction"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// Repository defines the storage contract for domain entries.
type Repository interface {
	Create(ctx context.Context, e *entry.Entry) error
	Get(ctx context.Context, ownerID, id string) (entry.Entry, error)
	Page(ctx context.Context, ownerID string, d *lifedomain.Domain, cursor string, limit int) (
		entries []entry.Entry, nextCursor string, err error,
	)
	Update(ctx context.Context, e *entry.Entry) error
	Delete(ctx context.Context, ownerID, id string) error
	Count(ctx context.Context, ownerID string, d *lifedomain.Domain) (int, error)
}

// Classifier turns recognized text into a validated extraction.
type Classifier interface {
	Classify(ctx context.Context, rawText string) (extraction.Result, error)
}

// Router turns an extraction into an entry.
type Router interface {
	Route(res extraction.Result, ownerID string) (entry.Entry, error)
	RouteWithDomain(res extraction.Result, ownerID string, d lifedomain.Domain) (entry.Entry, error)
}
