package chi

import (
	"github.com/kailas-cloud/docintel/internal/domain/doctype"
	"github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/extraction"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
	gen "github.com/kailas-cloud/docintel/internal/transport/api"
)

func extractionToGen(res *extraction.Result) gen.Extraction {
	var suggested *string
	if res.SuggestedDomain != nil {
		d := res.SuggestedDomain.String()
		suggested = &d
	}
	fields := res.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	return gen.Extraction{
		DocumentType:    string(res.DocumentType),
		Confidence:      res.Confidence,
		SuggestedDomain: suggested,
		Fields:          fields,
		RawText:         res.RawText,
		Metadata:        res.Metadata,
	}
}

// extractionFromGen accepts a client-echoed extraction. Unknown types become
// "other" and unknown domains are dropped; the router re-validates the rest.
func extractionFromGen(ex gen.Extraction) extraction.Result {
	t, ok := doctype.Parse(ex.DocumentType)
	if !ok {
		t = doctype.Other
	}
	var suggested *lifedomain.Domain
	if ex.SuggestedDomain != nil {
		if d, ok := lifedomain.Parse(*ex.SuggestedDomain); ok {
			suggested = &d
		}
	}
	return extraction.Result{
		DocumentType:    t,
		Confidence:      extraction.ClampConfidence(ex.Confidence),
		SuggestedDomain: suggested,
		Fields:          ex.Fields,
		RawText:         ex.RawText,
		Metadata:        ex.Metadata,
	}
}

func entryToGen(e *entry.Entry) gen.Entry {
	return gen.Entry{
		Id:          e.ID(),
		OwnerId:     e.OwnerID(),
		Domain:      e.Domain().String(),
		Title:       e.Title(),
		Description: e.Description(),
		Metadata:    e.Metadata(),
		CreatedAt:   e.CreatedAt(),
		UpdatedAt:   e.UpdatedAt(),
	}
}
