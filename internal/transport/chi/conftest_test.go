package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/extraction"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
	"github.com/kailas-cloud/docintel/internal/domain/search/query"
	documentuc "github.com/kailas-cloud/docintel/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docintel/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docintel/internal/usecase/search"
)

type mockClassifier struct {
	res     extraction.Result
	err     error
	gotText string
}

func (m *mockClassifier) Classify(_ context.Context, rawText string) (extraction.Result, error) {
	m.gotText = rawText
	return m.res, m.err
}

type mockDocuments struct {
	ingestFn func(up documentuc.Upload) (documentuc.IngestResult, error)
	createFn func(ownerID string, res extraction.Result, d *lifedomain.Domain) (entry.Entry, error)
	getFn    func(ownerID, id string) (entry.Entry, error)
	listFn   func(ownerID string, d *lifedomain.Domain, cursor string, limit int) ([]entry.Entry, string, error)
	patchFn  func(ownerID, id string, p entry.Patch) (entry.Entry, error)
	deleteFn func(ownerID, id string) error
	count    int
}

func (m *mockDocuments) Ingest(_ context.Context, up documentuc.Upload) (documentuc.IngestResult, error) {
	return m.ingestFn(up)
}

func (m *mockDocuments) CreateFromExtraction(
	_ context.Context, ownerID string, res extraction.Result, d *lifedomain.Domain,
) (entry.Entry, error) {
	return m.createFn(ownerID, res, d)
}

func (m *mockDocuments) Get(_ context.Context, ownerID, id string) (entry.Entry, error) {
	return m.getFn(ownerID, id)
}

func (m *mockDocuments) List(
	_ context.Context, ownerID string, d *lifedomain.Domain, cursor string, limit int,
) ([]entry.Entry, string, error) {
	return m.listFn(ownerID, d, cursor, limit)
}

func (m *mockDocuments) Patch(_ context.Context, ownerID, id string, p entry.Patch) (entry.Entry, error) {
	return m.patchFn(ownerID, id, p)
}

func (m *mockDocuments) Delete(_ context.Context, ownerID, id string) error {
	return m.deleteFn(ownerID, id)
}

func (m *mockDocuments) Count(_ context.Context, _ string, _ *lifedomain.Domain) (int, error) {
	return m.count, nil
}

type mockSearcher struct {
	res      searchuc.Result
	err      error
	gotOwner string
	gotQuery query.Query
}

func (m *mockSearcher) Search(_ context.Context, ownerID string, q query.Query) (searchuc.Result, error) {
	m.gotOwner = ownerID
	m.gotQuery = q
	return m.res, m.err
}

type mockExpander struct {
	terms []string
	got   []string
}

func (m *mockExpander) ExpandAll(_ context.Context, phrases []string) []string {
	m.got = phrases
	return m.terms
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

type fixture struct {
	classifier *mockClassifier
	documents  *mockDocuments
	search     *mockSearcher
	expander   *mockExpander
	health     *mockHealth
	handler    http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		classifier: &mockClassifier{},
		documents:  &mockDocuments{},
		search:     &mockSearcher{},
		expander:   &mockExpander{},
		health:     &mockHealth{},
	}
	s := NewServer(f.classifier, f.documents, f.search, f.expander, f.health, zap.NewNop())
	f.handler = NewRouter(s, nil, zap.NewNop())
	return f
}

func (f *fixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response (status %d): %v", rr.Code, err)
	}
	return v
}

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func testEntry(t *testing.T, id string, d lifedomain.Domain, title string) entry.Entry {
	t.Helper()
	e, err := entry.New(id, "user-1", d, title, "", map[string]any{entry.MetaDocumentType: "invoice"}, testNow)
	if err != nil {
		t.Fatalf("entry.New: %v", err)
	}
	return e
}
