package classify

import (
	"testing"

	"github.com/kailas-cloud/docintel/internal/domain/doctype"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

func TestRuleSet_Match(t *testing.T) {
	rs := MustDefaultRuleSet()

	tests := []struct {
		text       string
		wantType   doctype.Type
		wantDomain lifedomain.Domain
		wantMatch  bool
	}{
		{"Thank you for your PURCHASE", doctype.Receipt, lifedomain.Financial, true},
		{"Rx #88812 Amoxicillin", doctype.Prescription, lifedomain.Health, true},
		{"Your insurance policy declarations", doctype.InsurancePolicy, lifedomain.Insurance, true},
		{"Insurance claim form", doctype.InsuranceClaim, lifedomain.Insurance, true},
		{"Vehicle Registration Renewal", doctype.VehicleRegistration, lifedomain.Vehicles, true},
		{"Lease agreement", doctype.Contract, lifedomain.Legal, true},
		{"Oregon Driver’s License", doctype.Identification, lifedomain.Identity, true},
		{"insurance card", "", "", false},
		{"proxy server", "", "", false}, // "rx" only as a whole word
		{"nothing to see", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			rule, ok := rs.Match(tt.text)
			if ok != tt.wantMatch {
				t.Fatalf("match = %v, want %v", ok, tt.wantMatch)
			}
			if !ok {
				return
			}
			if rule.Type != tt.wantType {
				t.Errorf("type = %q, want %q", rule.Type, tt.wantType)
			}
			if rule.Domain == nil || *rule.Domain != tt.wantDomain {
				t.Errorf("domain = %v, want %q", rule.Domain, tt.wantDomain)
			}
		})
	}
}

func TestRuleSet_FirstMatchWins(t *testing.T) {
	rule, ok := MustDefaultRuleSet().Match("receipt for insurance policy payment")
	if !ok || rule.Type != doctype.Receipt {
		t.Fatalf("expected receipt to win, got %q", rule.Type)
	}
}

func TestNewRuleSet_Invalid(t *testing.T) {
	bad := lifedomain.Domain("nope")
	cases := map[string][]Rule{
		"unknown type": {{Type: "spaceship", AnyOf: []string{"x"}}},
		"other type":   {{Type: doctype.Other, AnyOf: []string{"x"}}},
		"bad domain":   {{Type: doctype.Bill, Domain: &bad, AnyOf: []string{"x"}}},
		"no keywords":  {{Type: doctype.Bill}},
	}
	for name, rules := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewRuleSet(rules); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseRules(t *testing.T) {
	data := []byte(`
rules:
  - type: bill
    domain: home
    any: [mortgage, "escrow statement"]
  - type: receipt
    all: [thank, you]
`)
	rules, err := ParseRules(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rs, err := NewRuleSet(rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rule, ok := rs.Match("Your Escrow Statement is ready")
	if !ok || rule.Type != doctype.Bill || rule.Domain == nil || *rule.Domain != lifedomain.Home {
		t.Errorf("unexpected match: %+v ok=%v", rule, ok)
	}
	rule, ok = rs.Match("thank you for shopping")
	if !ok || rule.Type != doctype.Receipt || rule.Domain != nil {
		t.Errorf("unexpected match: %+v ok=%v", rule, ok)
	}
}

func TestParseRules_Errors(t *testing.T) {
	if _, err := ParseRules([]byte("rules: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := ParseRules([]byte("rules: []")); err == nil {
		t.Error("expected empty rules error")
	}
}
