package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// Limit bounds.
const (
	DefaultLimit = 50
	MaxLimit     = 200
	MaxRawLen    = 1000
)

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// Normalize lower-cases a phrase, unifies apostrophes and collapses whitespace.
func Normalize(s string) string {
	s = apostrophes.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// Query is an ephemeral search request: comma-delimited sub-phrases plus an optional domain filter.
type Query struct {
	raw     string
	phrases []string
	domain  *lifedomain.Domain
	limit   int
}

// New parses raw into sub-phrases. limit <= 0 means DefaultLimit; above MaxLimit is capped.
func New(raw string, d *lifedomain.Domain, limit int) (Query, error) {
	if len(raw) > MaxRawLen {
		return Query{}, fmt.Errorf("%w: query too long (max %d)", domain.ErrInvalidQuery, MaxRawLen)
	}
	if d != nil && !d.IsValid() {
		return Query{}, fmt.Errorf("%w: unknown domain %q", domain.ErrInvalidQuery, *d)
	}

	seen := make(map[string]struct{})
	var phrases []string
	for _, part := range strings.Split(raw, ",") {
		p := Normalize(part)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		phrases = append(phrases, p)
	}
	if len(phrases) == 0 {
		return Query{}, fmt.Errorf("%w: no search phrase in %q", domain.ErrInvalidQuery, raw)
	}

	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return Query{raw: raw, phrases: phrases, domain: d, limit: limit}, nil
}

// Raw returns the phrase as typed.
func (q *Query) Raw() string { return q.raw }

// Phrases returns normalized, deduplicated sub-phrases in input order.
func (q *Query) Phrases() []string { return q.phrases }

// Domain returns the optional domain filter.
func (q *Query) Domain() *lifedomain.Domain { return q.domain }

// Limit returns the maximum number of results.
func (q *Query) Limit() int { return q.limit }
