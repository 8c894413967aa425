package doctype

import (
	"testing"

	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Type
		ok   bool
	}{
		{"receipt", Receipt, true},
		{"Insurance Policy", InsurancePolicy, true},
		{"vehicle-registration", VehicleRegistration, true},
		{"OTHER", Other, true},
		{"memo", Other, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := Parse(tc.in)
			if got != tc.want || ok != tc.ok {
				t.Errorf("Parse(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestCanonicalDomain(t *testing.T) {
	if d, ok := Prescription.CanonicalDomain(); !ok || d != lifedomain.Health {
		t.Errorf("prescription -> %q, %v", d, ok)
	}
	if _, ok := Other.CanonicalDomain(); ok {
		t.Error("other must not imply a domain")
	}
	for _, typ := range All() {
		if typ == Other {
			continue
		}
		if _, ok := typ.CanonicalDomain(); !ok {
			t.Errorf("%q has no canonical domain", typ)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := MedicalRecord.Label(); got != "medical record" {
		t.Errorf("Label = %q", got)
	}
}
