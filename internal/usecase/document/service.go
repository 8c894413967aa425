package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/extraction"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
	"github.com/kailas-cloud/docintel/internal/domain/rawdoc"
)

// Metadata keys linking an entry back to its upload.
const (
	MetaDocumentID = "documentId"
	MetaFileRef    = "fileRef"
	MetaMIMEType   = "mimeType"
)

// Upload is an uploaded file reference with its recognized text.
type Upload struct {
	OwnerID  string
	FileRef  string
	MIMEType string
	Text     string
	Domain   *lifedomain.Domain // user-picked domain, overrides the suggestion
}

// IngestResult is what Ingest produced. Extraction is set whenever
// classification succeeded, even if routing then failed.
type IngestResult struct {
	Document   rawdoc.Document
	Extraction *extraction.Result
	Entry      *entry.Entry
}

// Service handles document ingest and entry CRUD.
type Service struct {
	repo            Repository
	classifier      Classifier
	router          Router
	now             func() time.Time
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
}

// New creates a document service.
func New(repo Repository, classifier Classifier, router Router, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:            repo,
		classifier:      classifier,
		router:          router,
		now:             time.Now,
		logger:          logger,
		defaultPageSize: 50,
		maxPageSize:     200,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// WithClock replaces time.Now.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Ingest classifies an upload, routes it to a domain and persists the entry.
// A *domain.NoDomainSuggestedError comes back with the extraction filled in
// so the caller can ask the user for a domain.
func (s *Service) Ingest(ctx context.Context, up Upload) (IngestResult, error) {
	doc, err := rawdoc.New(uuid.New().String(), up.OwnerID, up.FileRef, up.MIMEType, s.now())
	if err != nil {
		return IngestResult{}, fmt.Errorf("new document: %w", err)
	}
	if err = doc.AttachText(up.Text); err != nil {
		return IngestResult{}, fmt.Errorf("attach text: %w", err)
	}
	out := IngestResult{Document: doc}

	res, err := s.classifier.Classify(ctx, up.Text)
	if err != nil {
		return out, fmt.Errorf("classify: %w", err)
	}
	out.Extraction = &res

	withUpload := res.Clone()
	if withUpload.Metadata == nil {
		withUpload.Metadata = make(map[string]any)
	}
	withUpload.Metadata[MetaDocumentID] = doc.ID()
	if ref := strings.TrimSpace(doc.FileRef()); ref != "" {
		withUpload.Metadata[MetaFileRef] = ref
	}
	if mt := strings.TrimSpace(doc.MIMEType()); mt != "" {
		withUpload.Metadata[MetaMIMEType] = mt
	}

	e, err := s.route(withUpload, up.OwnerID, up.Domain)
	if err != nil {
		if errors.Is(err, domain.ErrNoDomainSuggested) {
			s.logger.Info("Document needs a domain",
				zap.String("document_id", doc.ID()),
				zap.String("document_type", string(res.DocumentType)),
			)
		}
		return out, err
	}

	if err := s.repo.Create(ctx, &e); err != nil {
		return out, fmt.Errorf("create entry: %w", err)
	}
	out.Entry = &e
	return out, nil
}

// CreateFromExtraction routes a previously returned extraction and persists it.
func (s *Service) CreateFromExtraction(
	ctx context.Context, ownerID string, res extraction.Result, d *lifedomain.Domain,
) (entry.Entry, error) {
	e, err := s.route(res, ownerID, d)
	if err != nil {
		return entry.Entry{}, err
	}
	if err := s.repo.Create(ctx, &e); err != nil {
		return entry.Entry{}, fmt.Errorf("create entry: %w", err)
	}
	return e, nil
}

func (s *Service) route(res extraction.Result, ownerID string, d *lifedomain.Domain) (entry.Entry, error) {
	var (
		e   entry.Entry
		err error
	)
	if d != nil {
		e, err = s.router.RouteWithDomain(res, ownerID, *d)
	} else {
		e, err = s.router.Route(res, ownerID)
	}
	if err != nil {
		return entry.Entry{}, fmt.Errorf("route: %w", err)
	}
	return e, nil
}

// Get retrieves an entry by owner and ID.
func (s *Service) Get(ctx context.Context, ownerID, id string) (entry.Entry, error) {
	e, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// List returns a page of entries, most recent first.
func (s *Service) List(
	ctx context.Context, ownerID string, d *lifedomain.Domain, cursor string, limit int,
) ([]entry.Entry, string, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, "", fmt.Errorf("%w: owner ID is required", domain.ErrInvalidInput)
	}
	if d != nil && !d.IsValid() {
		return nil, "", fmt.Errorf("%w: unknown domain %q", domain.ErrInvalidInput, *d)
	}
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	entries, next, err := s.repo.Page(ctx, ownerID, d, cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("list entries: %w", err)
	}
	return entries, next, nil
}

// Patch applies a user edit to an entry.
func (s *Service) Patch(ctx context.Context, ownerID, id string, p entry.Patch) (entry.Entry, error) {
	current, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	updated, err := current.Apply(p, s.now())
	if err != nil {
		return entry.Entry{}, fmt.Errorf("apply patch: %w", err)
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return entry.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	return updated, nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// Count returns the number of entries an owner has, optionally per domain.
func (s *Service) Count(ctx context.Context, ownerID string, d *lifedomain.Domain) (int, error) {
	n, err := s.repo.Count(ctx, ownerID, d)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}
