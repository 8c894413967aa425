package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Classify recognized text (POST /api/v1/classify)
	Classify(w http.ResponseWriter, r *http.Request)
	// Classify, route and store an uploaded document (POST /api/v1/documents)
	IngestDocument(w http.ResponseWriter, r *http.Request)
	// Store an extraction as an entry (POST /api/v1/entries)
	CreateEntry(w http.ResponseWriter, r *http.Request)
	// (GET /api/v1/entries)
	ListEntries(w http.ResponseWriter, r *http.Request, params ListEntriesParams)
	// (GET /api/v1/entries/{id})
	GetEntry(w http.ResponseWriter, r *http.Request, id string, params EntryParams)
	// (PATCH /api/v1/entries/{id})
	PatchEntry(w http.ResponseWriter, r *http.Request, id string, params EntryParams)
	// (DELETE /api/v1/entries/{id})
	DeleteEntry(w http.ResponseWriter, r *http.Request, id string, params EntryParams)
	// (GET /api/v1/search)
	SearchEntries(w http.ResponseWriter, r *http.Request, params SearchEntriesParams)
	// (GET /api/v1/expand)
	ExpandTerms(w http.ResponseWriter, r *http.Request, params ExpandTermsParams)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ServerInterfaceWrapper converts requests to typed handler calls.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Classify operation middleware
func (siw *ServerInterfaceWrapper) Classify(w http.ResponseWriter, r *http.Request) {
	siw.Handler.Classify(w, r)
}

// IngestDocument operation middleware
func (siw *ServerInterfaceWrapper) IngestDocument(w http.ResponseWriter, r *http.Request) {
	siw.Handler.IngestDocument(w, r)
}

// CreateEntry operation middleware
func (siw *ServerInterfaceWrapper) CreateEntry(w http.ResponseWriter, r *http.Request) {
	siw.Handler.CreateEntry(w, r)
}

// ListEntries operation middleware
func (siw *ServerInterfaceWrapper) ListEntries(w http.ResponseWriter, r *http.Request) {
	var params ListEntriesParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, true, "owner_id", q, &params.OwnerId); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "owner_id", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "domain", q, &params.Domain); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "domain", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "cursor", q, &params.Cursor); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "cursor", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &params.Limit); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}

	siw.Handler.ListEntries(w, r, params)
}

// GetEntry operation middleware
func (siw *ServerInterfaceWrapper) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, params, ok := siw.bindEntry(w, r)
	if !ok {
		return
	}
	siw.Handler.GetEntry(w, r, id, params)
}

// PatchEntry operation middleware
func (siw *ServerInterfaceWrapper) PatchEntry(w http.ResponseWriter, r *http.Request) {
	id, params, ok := siw.bindEntry(w, r)
	if !ok {
		return
	}
	siw.Handler.PatchEntry(w, r, id, params)
}

// DeleteEntry operation middleware
func (siw *ServerInterfaceWrapper) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, params, ok := siw.bindEntry(w, r)
	if !ok {
		return
	}
	siw.Handler.DeleteEntry(w, r, id, params)
}

func (siw *ServerInterfaceWrapper) bindEntry(w http.ResponseWriter, r *http.Request) (string, EntryParams, bool) {
	var (
		id     string
		params EntryParams
	)

	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return "", params, false
	}

	if err := runtime.BindQueryParameter("form", true, true, "owner_id", r.URL.Query(), &params.OwnerId); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "owner_id", Err: err})
		return "", params, false
	}
	return id, params, true
}

// SearchEntries operation middleware
func (siw *ServerInterfaceWrapper) SearchEntries(w http.ResponseWriter, r *http.Request) {
	var params SearchEntriesParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, true, "owner_id", q, &params.OwnerId); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "owner_id", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "q", q, &params.Q); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "domain", q, &params.Domain); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "domain", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &params.Limit); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}

	siw.Handler.SearchEntries(w, r, params)
}

// ExpandTerms operation middleware
func (siw *ServerInterfaceWrapper) ExpandTerms(w http.ResponseWriter, r *http.Request) {
	var params ExpandTermsParams
	if err := runtime.BindQueryParameter("form", true, true, "q", r.URL.Query(), &params.Q); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}
	siw.Handler.ExpandTerms(w, r, params)
}

// HealthCheck operation middleware
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.Handler.HealthCheck(w, r)
}

// Metrics operation middleware
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.Handler.Metrics(w, r)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates http.Handler with routing matching the API.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	base := options.BaseURL
	r.Group(func(r chi.Router) {
		r.Post(base+"/api/v1/classify", wrapper.Classify)
		r.Post(base+"/api/v1/documents", wrapper.IngestDocument)
		r.Post(base+"/api/v1/entries", wrapper.CreateEntry)
		r.Get(base+"/api/v1/entries", wrapper.ListEntries)
		r.Get(base+"/api/v1/entries/{id}", wrapper.GetEntry)
		r.Patch(base+"/api/v1/entries/{id}", wrapper.PatchEntry)
		r.Delete(base+"/api/v1/entries/{id}", wrapper.DeleteEntry)
		r.Get(base+"/api/v1/search", wrapper.SearchEntries)
		r.Get(base+"/api/v1/expand", wrapper.ExpandTerms)
		r.Get(base+"/health", wrapper.HealthCheck)
		r.Get(base+"/metrics", wrapper.Metrics)
	})

	return r
}
