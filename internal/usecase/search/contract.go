package search

import (
	"context"

	"github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// EntryLister reads an owner's entries most recent first.
// d == nil means every domain; limit <= 0 means no limit.
type EntryLister interface {
	List(ctx context.Context, ownerID string, d *lifedomain.Domain, limit int) ([]entry.Entry, error)
}

// Expander turns query sub-phrases into one merged term set. It never fails.
type Expander interface {
	ExpandAll(ctx context.Context, phrases []string) []string
}
