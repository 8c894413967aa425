package chi

import (
	"context"

	"github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/extraction"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
	"github.com/kailas-cloud/docintel/internal/domain/search/query"
	documentuc "github.com/kailas-cloud/docintel/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docintel/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docintel/internal/usecase/search"
)

// Classifier turns recognized text into an extraction.
type Classifier interface {
	Classify(ctx context.Context, rawText string) (extraction.Result, error)
}

// Documents is the ingest and entry CRUD use case.
type Documents interface {
	Ingest(ctx context.Context, up documentuc.Upload) (documentuc.IngestResult, error)
	CreateFromExtraction(
		ctx context.Context, ownerID string, res extraction.Result, d *lifedomain.Domain,
	) (entry.Entry, error)
	Get(ctx context.Context, ownerID, id string) (entry.Entry, error)
	List(ctx context.Context, ownerID string, d *lifedomain.Domain, cursor string, limit int) (
		[]entry.Entry, string, error,
	)
	Patch(ctx context.Context, ownerID, id string, p entry.Patch) (entry.Entry, error)
	Delete(ctx context.Context, ownerID, id string) error
	Count(ctx context.Context, ownerID string, d *lifedomain.Domain) (int, error)
}

// Searcher answers ranked free-text queries.
type Searcher interface {
	Search(ctx context.Context, ownerID string, q query.Query) (searchuc.Result, error)
}

// Expander turns sub-phrases into a merged term set.
type Expander interface {
	ExpandAll(ctx context.Context, phrases []string) []string
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
