package extraction

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/kailas-cloud/docintel/internal/domain/doctype"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// Well-known field keys. Fields is open; these are the ones the pipeline fills or normalizes.
const (
	FieldTitle       = "title"
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldVendor      = "vendor"
	FieldDescription = "description"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldReference   = "referenceNumber"
	FieldPolicy      = "policyNumber"
	FieldVIN         = "vin"
	FieldDoctor      = "doctorName"
	FieldCategory    = "category"
	FieldSubtype     = "subtype"
)

// Metadata keys attached by the validation pass.
const (
	MetaParsedAt   = "parsedAt"
	MetaTextLength = "textLength"
	MetaAIParsed   = "aiParsed"
	MetaSource     = "source"
)

// Source values for MetaSource.
const (
	SourceAI    = "ai"
	SourceRules = "rules"
)

// AIParsedThreshold: results with confidence strictly above it count as AI-parsed.
const AIParsedThreshold = 0.5

// Result is the structured output of classifying recognized text.
type Result struct {
	DocumentType    doctype.Type       `json:"documentType"`
	Confidence      float64            `json:"confidence"`
	SuggestedDomain *lifedomain.Domain `json:"suggestedDomain"`
	Fields          map[string]any     `json:"fields"`
	RawText         string             `json:"rawText"`
	Metadata        map[string]any     `json:"metadata,omitempty"`
}

// ClampConfidence bounds c to [0,1]. NaN becomes 0.
func ClampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// StringField returns a trimmed non-empty string field.
// Numbers are formatted, other types are ignored.
func (r *Result) StringField(key string) (string, bool) {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = fmt.Sprintf("%g", t)
	case int:
		s = fmt.Sprintf("%d", t)
	case fmt.Stringer:
		s = t.String()
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// HasField reports whether key holds a non-empty value.
func (r *Result) HasField(key string) bool {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// SetIfEmpty sets key only when it has no value yet. Returns true if set.
func (r *Result) SetIfEmpty(key string, v any) bool {
	if r.HasField(key) {
		return false
	}
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	r.Fields[key] = v
	return true
}

// Clone returns a deep-enough copy (maps are copied one level).
func (r *Result) Clone() Result {
	c := *r
	c.Fields = cloneMap(r.Fields)
	c.Metadata = cloneMap(r.Metadata)
	if r.SuggestedDomain != nil {
		d := *r.SuggestedDomain
		c.SuggestedDomain = &d
	}
	return c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// SynthesizeTitle builds "{Type label} - {YYYY-MM-DD}" for results without a title.
func SynthesizeTitle(t doctype.Type, now time.Time) string {
	label := []rune(t.Label())
	if len(label) == 0 {
		label = []rune(doctype.Other.Label())
	}
	label[0] = unicode.ToUpper(label[0])
	return string(label) + " - " + now.Format(time.DateOnly)
}
