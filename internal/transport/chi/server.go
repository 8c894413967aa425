package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
	"github.com/kailas-cloud/docintel/internal/domain/search/query"
	"github.com/kailas-cloud/docintel/internal/logger"
	gen "github.com/kailas-cloud/docintel/internal/transport/api"
	documentuc "github.com/kailas-cloud/docintel/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docintel/internal/usecase/health"
)

// maxBodyBytes bounds request bodies; recognized text of a multi-page scan fits comfortably.
const maxBodyBytes = 4 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements api.ServerInterface.
type Server struct {
	classifier    Classifier
	documents     Documents
	search        Searcher
	expander      Expander
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	classifier Classifier,
	documents Documents,
	search Searcher,
	expander Expander,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		classifier: classifier,
		documents:  documents,
		search:     search,
		expander:   expander,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		noDomainHandler,
		sentinelHandler(domain.ErrInsufficientText,
			http.StatusUnprocessableEntity, gen.ErrorResponseCodeInsufficientText),
		sentinelHandler(domain.ErrEntryNotFound, http.StatusNotFound, gen.ErrorResponseCodeEntryNotFound),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, gen.ErrorResponseCodeInvalidQuery),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrExternalService, http.StatusBadGateway, gen.ErrorResponseCodeProviderError),
	}
	return s
}

// Classify handles POST /api/v1/classify.
func (s *Server) Classify(w http.ResponseWriter, r *http.Request) {
	var req gen.ClassifyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.classifier.Classify(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, extractionToGen(&res))
}

// IngestDocument handles POST /api/v1/documents.
func (s *Server) IngestDocument(w http.ResponseWriter, r *http.Request) {
	var req gen.IngestDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	d, err := domainFromGen(req.Domain)
	if err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	out, err := s.documents.Ingest(r.Context(), documentuc.Upload{
		OwnerID:  req.OwnerId,
		FileRef:  req.FileRef,
		MIMEType: req.MimeType,
		Text:     req.Text,
		Domain:   d,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoDomainSuggested) && out.Extraction != nil {
			ex := extractionToGen(out.Extraction)
			writeJSON(w, http.StatusUnprocessableEntity, gen.ErrorResponse{
				Code:       gen.ErrorResponseCodeDomainRequired,
				Message:    safeDomainMessage(err),
				Extraction: &ex,
			})
			return
		}
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/entries/"+out.Entry.ID())
	writeJSON(w, http.StatusCreated, gen.IngestDocumentResponse{
		DocumentId: out.Document.ID(),
		Extraction: extractionToGen(out.Extraction),
		Entry:      entryToGen(out.Entry),
	})
}

// CreateEntry handles POST /api/v1/entries.
func (s *Server) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req gen.CreateEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	d, err := domainFromGen(req.Domain)
	if err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	res := extractionFromGen(req.Extraction)
	e, err := s.documents.CreateFromExtraction(r.Context(), req.OwnerId, res, d)
	if err != nil {
		if errors.Is(err, domain.ErrNoDomainSuggested) {
			writeJSON(w, http.StatusUnprocessableEntity, gen.ErrorResponse{
				Code:       gen.ErrorResponseCodeDomainRequired,
				Message:    safeDomainMessage(err),
				Extraction: &req.Extraction,
			})
			return
		}
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/entries/"+e.ID())
	writeJSON(w, http.StatusCreated, entryToGen(&e))
}

// ListEntries handles GET /api/v1/entries.
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request, params gen.ListEntriesParams) {
	d, err := domainFromGen(params.Domain)
	if err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	cursor := ""
	if params.Cursor != nil {
		cursor = *params.Cursor
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	entries, next, err := s.documents.List(r.Context(), params.OwnerId, d, cursor, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]gen.Entry, len(entries))
	for i := range entries {
		items[i] = entryToGen(&entries[i])
	}

	resp := gen.EntryCursorListResponse{
		Items:   items,
		HasMore: next != "",
	}
	if next != "" {
		resp.NextCursor = &next
	}
	if total, err := s.documents.Count(r.Context(), params.OwnerId, d); err == nil {
		resp.Total = &total
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetEntry handles GET /api/v1/entries/{id}.
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request, id string, params gen.EntryParams) {
	e, err := s.documents.Get(r.Context(), params.OwnerId, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToGen(&e))
}

// PatchEntry handles PATCH /api/v1/entries/{id}.
func (s *Server) PatchEntry(w http.ResponseWriter, r *http.Request, id string, params gen.EntryParams) {
	var req gen.PatchEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := patchFromGen(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	e, err := s.documents.Patch(r.Context(), params.OwnerId, id, p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryToGen(&e))
}

// DeleteEntry handles DELETE /api/v1/entries/{id}.
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request, id string, params gen.EntryParams) {
	if err := s.documents.Delete(r.Context(), params.OwnerId, id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchEntries handles GET /api/v1/search.
func (s *Server) SearchEntries(w http.ResponseWriter, r *http.Request, params gen.SearchEntriesParams) {
	if strings.TrimSpace(params.OwnerId) == "" {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, "owner_id is required")
		return
	}
	d, err := domainFromGen(params.Domain)
	if err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
		return
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	q, err := query.New(params.Q, d, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.search.Search(r.Context(), params.OwnerId, q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]gen.SearchResultItem, len(res.Candidates))
	for i := range res.Candidates {
		c := &res.Candidates[i]
		items[i] = gen.SearchResultItem{
			Entry:        entryToGen(&c.Entry),
			Score:        c.Score,
			MatchedTerms: nonNil(c.MatchedTerms),
		}
	}

	writeJSON(w, http.StatusOK, gen.SearchResultListResponse{
		Items:   items,
		Terms:   nonNil(res.Terms),
		Total:   len(items),
		Scanned: res.Scanned,
	})
}

// ExpandTerms handles GET /api/v1/expand.
func (s *Server) ExpandTerms(w http.ResponseWriter, r *http.Request, params gen.ExpandTermsParams) {
	q, err := query.New(params.Q, nil, 0)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, gen.ExpandResponse{
		Phrases: q.Phrases(),
		Terms:   nonNil(s.expander.ExpandAll(r.Context(), q.Phrases())),
	})
}

// HealthCheck handles GET /health. Degraded still answers 200: the fallbacks keep serving.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, gen.HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ParamErrorHandler answers parameter binding failures.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var pe *gen.InvalidParamFormatError
	if errors.As(err, &pe) {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest,
			fmt.Sprintf("invalid or missing parameter %q", pe.ParamName))
		return
	}
	writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "invalid request")
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Typed errors carry user-facing detail and are rendered in full.
func safeDomainMessage(err error) string {
	var ite *domain.InsufficientTextError
	if errors.As(err, &ite) {
		return ite.Error()
	}
	var nde *domain.NoDomainSuggestedError
	if errors.As(err, &nde) {
		return nde.Error()
	}
	// validation messages are built from request data only
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvalidQuery) {
		return lastSegment(err.Error())
	}

	sentinels := []error{
		domain.ErrInsufficientText,
		domain.ErrNoDomainSuggested,
		domain.ErrEntryNotFound,
		domain.ErrExternalService,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// lastSegment drops use-case wrapping prefixes ("get entry: route: ...") down to the
// innermost "sentinel: detail" part.
func lastSegment(msg string) string {
	for _, s := range []string{domain.ErrInvalidInput.Error(), domain.ErrInvalidQuery.Error()} {
		if i := strings.Index(msg, s); i >= 0 {
			return msg[i:]
		}
	}
	return msg
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// noDomainHandler covers routing failures that reach the generic path without an extraction.
func noDomainHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrNoDomainSuggested) {
		return false
	}
	writeError(w, http.StatusUnprocessableEntity, gen.ErrorResponseCodeDomainRequired, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func patchFromGen(req gen.PatchEntryRequest) (entry.Patch, error) {
	d, err := domainFromGen(req.Domain)
	if err != nil {
		return entry.Patch{}, err
	}
	p := entry.Patch{
		Title:       req.Title,
		Description: req.Description,
		Domain:      d,
		Metadata:    req.Metadata,
	}
	if p.IsEmpty() {
		return entry.Patch{}, errors.New("patch must change at least one field")
	}
	return p, nil
}

func domainFromGen(s *string) (*lifedomain.Domain, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, ok := lifedomain.Parse(*s)
	if !ok {
		return nil, fmt.Errorf("unknown domain %q", *s)
	}
	return &d, nil
}
