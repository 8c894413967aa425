package docintel

import (
	"context"
	"fmt"
	"time"
)

// EntryService manages one owner's entries.
type EntryService struct {
	ownerID string
	svc     documentUseCase
	obs     *observer
}

// Create routes a previously returned extraction and stores it.
// domain overrides the suggestion; pass "" to use it.
func (s *EntryService) Create(ctx context.Context, ex Extraction, domain string) (_ Entry, err error) {
	start := time.Now()
	defer func() { s.obs.observe("create_entry", start, err) }()

	res, err := toInternalExtraction(ex)
	if err != nil {
		return Entry{}, fmt.Errorf("create entry: %w", err)
	}
	d, err := parseDomain(domain)
	if err != nil {
		return Entry{}, fmt.Errorf("create entry: %w", err)
	}
	e, err := s.svc.CreateFromExtraction(ctx, s.ownerID, res, d)
	if err != nil {
		return Entry{}, fmt.Errorf("create entry: %w", err)
	}
	return fromInternalEntry(&e), nil
}

// Get retrieves an entry by ID.
func (s *EntryService) Get(ctx context.Context, id string) (_ Entry, err error) {
	start := time.Now()
	defer func() { s.obs.observe("get_entry", start, err) }()

	e, err := s.svc.Get(ctx, s.ownerID, id)
	if err != nil {
		return Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return fromInternalEntry(&e), nil
}

// List returns a page of entries, most recent first. domain "" lists every domain.
func (s *EntryService) List(ctx context.Context, domain, cursor string, limit int) (_ ListResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("list_entries", start, err) }()

	d, err := parseDomain(domain)
	if err != nil {
		return ListResult{}, fmt.Errorf("list entries: %w", err)
	}
	entries, next, err := s.svc.List(ctx, s.ownerID, d, cursor, limit)
	if err != nil {
		return ListResult{}, fmt.Errorf("list entries: %w", err)
	}
	return ListResult{Entries: fromInternalEntries(entries), NextCursor: next}, nil
}

// Patch applies a partial update.
func (s *EntryService) Patch(ctx context.Context, id string, p EntryPatch) (_ Entry, err error) {
	start := time.Now()
	defer func() { s.obs.observe("patch_entry", start, err) }()

	ip, err := toInternalPatch(p)
	if err != nil {
		return Entry{}, fmt.Errorf("patch: %w", err)
	}
	e, err := s.svc.Patch(ctx, s.ownerID, id, ip)
	if err != nil {
		return Entry{}, fmt.Errorf("patch: %w", err)
	}
	return fromInternalEntry(&e), nil
}

// Delete removes an entry by ID.
func (s *EntryService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("delete_entry", start, err) }()

	if err = s.svc.Delete(ctx, s.ownerID, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// Count returns how many entries the owner has; domain "" counts all.
func (s *EntryService) Count(ctx context.Context, domain string) (int, error) {
	d, err := parseDomain(domain)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	n, err := s.svc.Count(ctx, s.ownerID, d)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}
