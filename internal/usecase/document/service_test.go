package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/domain/doctype"
	"github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/extraction"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
	"github.com/kailas-cloud/docintel/internal/usecase/route"
)

// --- Mocks ---

type mockRepo struct {
	created   []entry.Entry
	createErr error
	getResult entry.Entry
	getErr    error
	page      []entry.Entry
	next      string
	pageErr   error
	gotLimit  int
	updated   []entry.Entry
	updateErr error
	deleteErr error
	count     int
}

func (m *mockRepo) Create(_ context.Context, e *entry.Entry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, *e)
	return nil
}

func (m *mockRepo) Get(_ context.Context, _, _ string) (entry.Entry, error) {
	return m.getResult, m.getErr
}

func (m *mockRepo) Page(_ context.Context, _ string, _ *lifedomain.Domain, _ string, limit int) (
	[]entry.Entry, string, error,
) {
	m.gotLimit = limit
	return m.page, m.next, m.pageErr
}

func (m *mockRepo) Update(_ context.Context, e *entry.Entry) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, *e)
	return nil
}

func (m *mockRepo) Delete(_ context.Context, _, _ string) error { return m.deleteErr }

func (m *mockRepo) Count(_ context.Context, _ string, _ *lifedomain.Domain) (int, error) {
	return m.count, nil
}

type mockClassifier struct {
	result extraction.Result
	err    error
}

func (m *mockClassifier) Classify(_ context.Context, rawText string) (extraction.Result, error) {
	if m.err != nil {
		return extraction.Result{}, m.err
	}
	res := m.result.Clone()
	res.RawText = rawText
	return res, nil
}

var testNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func newTestService(repo *mockRepo, cls *mockClassifier) *Service {
	r := route.New(
		route.WithIDGenerator(func() string { return "e-1" }),
		route.WithClock(func() time.Time { return testNow }),
	)
	return New(repo, cls, r, nil).WithClock(func() time.Time { return testNow })
}

func receiptResult() extraction.Result {
	return extraction.Result{
		DocumentType:    doctype.Receipt,
		Confidence:      0.9,
		SuggestedDomain: lifedomain.Ptr(lifedomain.Financial),
		Fields:          map[string]any{extraction.FieldTitle: "Hardware store"},
	}
}

// --- Tests ---

func TestIngest_PersistsRoutedEntry(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, &mockClassifier{result: receiptResult()})

	out, err := svc.Ingest(context.Background(), Upload{
		OwnerID: "u1", FileRef: "s3://bucket/r.jpg", MIMEType: "image/jpeg", Text: "receipt text",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Entry == nil || out.Extraction == nil {
		t.Fatalf("expected entry and extraction, got %+v", out)
	}
	if len(repo.created) != 1 || repo.created[0].ID() != "e-1" {
		t.Fatalf("expected one created entry, got %+v", repo.created)
	}
	meta := repo.created[0].Metadata()
	if meta[MetaDocumentID] != out.Document.ID() || meta[MetaFileRef] != "s3://bucket/r.jpg" {
		t.Errorf("upload metadata missing: %v", meta)
	}
	if _, ok := out.Extraction.Metadata[MetaDocumentID]; ok {
		t.Error("returned extraction must not be mutated with upload metadata")
	}
	if text, ok := out.Document.Text(); !ok || text != "receipt text" {
		t.Errorf("document text = %q, %v", text, ok)
	}
}

func TestIngest_NoDomainReturnsExtraction(t *testing.T) {
	repo := &mockRepo{}
	res := extraction.Result{DocumentType: doctype.Other, Confidence: 0.3}
	svc := newTestService(repo, &mockClassifier{result: res})

	out, err := svc.Ingest(context.Background(), Upload{OwnerID: "u1", Text: "a note to self about stuff"})
	if !errors.Is(err, domain.ErrNoDomainSuggested) {
		t.Fatalf("expected ErrNoDomainSuggested, got %v", err)
	}
	if out.Extraction == nil || out.Extraction.DocumentType != doctype.Other {
		t.Errorf("extraction should be returned, got %+v", out.Extraction)
	}
	if len(repo.created) != 0 {
		t.Error("nothing should be persisted")
	}
}

func TestIngest_UserDomainOverrides(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, &mockClassifier{result: receiptResult()})

	out, err := svc.Ingest(context.Background(), Upload{
		OwnerID: "u1", Text: "receipt text", Domain: lifedomain.Ptr(lifedomain.Home),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Entry.Domain() != lifedomain.Home {
		t.Errorf("domain = %q, want home", out.Entry.Domain())
	}
}

func TestIngest_Errors(t *testing.T) {
	short := &domain.InsufficientTextError{Length: 3, Min: 10}
	svc := newTestService(&mockRepo{}, &mockClassifier{err: short})
	if _, err := svc.Ingest(context.Background(), Upload{OwnerID: "u1", Text: "abc"}); !errors.Is(err, domain.ErrInsufficientText) {
		t.Errorf("expected ErrInsufficientText, got %v", err)
	}

	svc = newTestService(&mockRepo{}, &mockClassifier{result: receiptResult()})
	if _, err := svc.Ingest(context.Background(), Upload{Text: "receipt"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for missing owner, got %v", err)
	}

	boom := errors.New("disk full")
	svc = newTestService(&mockRepo{createErr: boom}, &mockClassifier{result: receiptResult()})
	out, err := svc.Ingest(context.Background(), Upload{OwnerID: "u1", Text: "receipt text"})
	if !errors.Is(err, boom) || out.Entry != nil {
		t.Errorf("expected storage error and no entry, got %v %+v", err, out.Entry)
	}
}

func TestCreateFromExtraction(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo, &mockClassifier{})

	e, err := svc.CreateFromExtraction(context.Background(), "u1",
		extraction.Result{DocumentType: doctype.Other, RawText: "note"}, lifedomain.Ptr(lifedomain.Legal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Domain() != lifedomain.Legal || len(repo.created) != 1 {
		t.Errorf("unexpected result %+v", e)
	}
}

func TestList_ClampsLimit(t *testing.T) {
	repo := &mockRepo{next: "50"}
	svc := newTestService(repo, &mockClassifier{}).WithPagination(10, 20)

	if _, _, err := svc.List(context.Background(), "u1", nil, "", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.gotLimit != 10 {
		t.Errorf("default limit = %d, want 10", repo.gotLimit)
	}
	_, next, _ := svc.List(context.Background(), "u1", nil, "", 999)
	if repo.gotLimit != 20 || next != "50" {
		t.Errorf("limit = %d next = %q", repo.gotLimit, next)
	}

	bad := lifedomain.Domain("pets")
	if _, _, err := svc.List(context.Background(), "u1", &bad, "", 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, _, err := svc.List(context.Background(), "", nil, "", 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPatch(t *testing.T) {
	orig, _ := entry.New("e-1", "u1", lifedomain.Financial, "Old", "", nil, testNow.Add(-time.Hour))
	repo := &mockRepo{getResult: orig}
	svc := newTestService(repo, &mockClassifier{})

	title := "New title"
	updated, err := svc.Patch(context.Background(), "u1", "e-1", entry.Patch{
		Title:  &title,
		Domain: lifedomain.Ptr(lifedomain.Home),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title() != "New title" || updated.Domain() != lifedomain.Home {
		t.Errorf("patch not applied: %+v", updated)
	}
	if !updated.UpdatedAt().Equal(testNow) {
		t.Errorf("updatedAt = %v", updated.UpdatedAt())
	}
	if len(repo.updated) != 1 {
		t.Errorf("expected one update, got %d", len(repo.updated))
	}

	if _, err := svc.Patch(context.Background(), "u1", "e-1", entry.Patch{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty patch, got %v", err)
	}
}

func TestGetAndDelete_NotFound(t *testing.T) {
	repo := &mockRepo{getErr: domain.ErrEntryNotFound, deleteErr: domain.ErrEntryNotFound}
	svc := newTestService(repo, &mockClassifier{})

	if _, err := svc.Get(context.Background(), "u1", "missing"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("Get: expected ErrEntryNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), "u1", "missing"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("Delete: expected ErrEntryNotFound, got %v", err)
	}
	if _, err := svc.Patch(context.Background(), "u1", "missing", entry.Patch{}); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("Patch: expected ErrEntryNotFound, got %v", err)
	}
}
