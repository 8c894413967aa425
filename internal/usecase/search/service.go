package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/docintel/internal/domain/search/query"
	"github.com/kailas-cloud/docintel/internal/domain/search/scored"
)

// DefaultMaxCandidates bounds how many recent entries one search scores.
const DefaultMaxCandidates = 5000

// Result is a ranked search response.
type Result struct {
	Terms      []string
	Candidates []scored.Candidate
	Scanned    int
}

// Service answers free-text queries over an owner's entries.
type Service struct {
	entries       EntryLister
	expander      Expander
	maxCandidates int
}

// New creates a search service. maxCandidates <= 0 uses DefaultMaxCandidates.
func New(entries EntryLister, expander Expander, maxCandidates int) *Service {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &Service{entries: entries, expander: expander, maxCandidates: maxCandidates}
}

// Search expands the query, scores the owner's entries and returns at most q.Limit() results.
func (s *Service) Search(ctx context.Context, ownerID string, q query.Query) (Result, error) {
	candidates, err := s.entries.List(ctx, ownerID, q.Domain(), s.maxCandidates)
	if err != nil {
		return Result{}, fmt.Errorf("list entries: %w", err)
	}

	terms := s.expander.ExpandAll(ctx, q.Phrases())
	ranked := Score(q.Phrases(), terms, candidates)
	if len(ranked) > q.Limit() {
		ranked = ranked[:q.Limit()]
	}

	return Result{Terms: terms, Candidates: ranked, Scanned: len(candidates)}, nil
}
