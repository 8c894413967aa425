package extraction

import (
	"math"
	"testing"
	"time"

	"github.com/kailas-cloud/docintel/internal/domain/doctype"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{7, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}
	for _, tc := range tests {
		if got := ClampConfidence(tc.in); got != tc.want {
			t.Errorf("ClampConfidence(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetIfEmpty(t *testing.T) {
	r := Result{Fields: map[string]any{FieldTitle: "Set", FieldVendor: "  "}}

	if r.SetIfEmpty(FieldTitle, "Other") {
		t.Error("title already set, must not overwrite")
	}
	if !r.SetIfEmpty(FieldVendor, "Acme") {
		t.Error("blank vendor should be filled")
	}
	if !r.SetIfEmpty(FieldAmount, "1.00") {
		t.Error("missing amount should be filled")
	}
	if r.Fields[FieldTitle] != "Set" || r.Fields[FieldVendor] != "Acme" {
		t.Errorf("unexpected fields: %v", r.Fields)
	}
}

func TestSetIfEmpty_NilFields(t *testing.T) {
	var r Result
	if !r.SetIfEmpty(FieldDate, "2024-01-01") {
		t.Fatal("expected set")
	}
	if r.Fields[FieldDate] != "2024-01-01" {
		t.Errorf("unexpected fields: %v", r.Fields)
	}
}

func TestStringField(t *testing.T) {
	r := Result{Fields: map[string]any{"a": " x ", "b": 12.5, "c": []string{"no"}, "d": ""}}
	if s, ok := r.StringField("a"); !ok || s != "x" {
		t.Errorf("a = %q, %v", s, ok)
	}
	if s, ok := r.StringField("b"); !ok || s != "12.5" {
		t.Errorf("b = %q, %v", s, ok)
	}
	if _, ok := r.StringField("c"); ok {
		t.Error("slice should not be a string field")
	}
	if _, ok := r.StringField("d"); ok {
		t.Error("empty string should not count")
	}
}

func TestClone_Independent(t *testing.T) {
	r := Result{Fields: map[string]any{"a": "1"}, SuggestedDomain: lifedomain.Ptr(lifedomain.Health)}
	c := r.Clone()
	c.Fields["a"] = "2"
	*c.SuggestedDomain = lifedomain.Home
	if r.Fields["a"] != "1" || *r.SuggestedDomain != lifedomain.Health {
		t.Error("clone shares state with original")
	}
}

func TestSynthesizeTitle(t *testing.T) {
	now := time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC)
	tests := []struct {
		t    doctype.Type
		want string
	}{
		{doctype.Receipt, "Receipt - 2026-03-04"},
		{doctype.PayStub, "Pay stub - 2026-03-04"},
		{doctype.Other, "Other - 2026-03-04"},
		{"", "Other - 2026-03-04"},
	}
	for _, tt := range tests {
		if got := SynthesizeTitle(tt.t, now); got != tt.want {
			t.Errorf("SynthesizeTitle(%q) = %q, want %q", tt.t, got, tt.want)
		}
	}
}
