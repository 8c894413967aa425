package classify

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/docintel/internal/domain/doctype"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// Rule-based confidences.
const (
	RuleMatchConfidence = 0.4
	NoMatchConfidence   = 0.3
)

// Rule maps keywords to a document type. A rule matches when every AllOf keyword
// and at least one AnyOf keyword (if any are given) occur as whole words.
type Rule struct {
	Type   doctype.Type       `yaml:"type"`
	Domain *lifedomain.Domain `yaml:"domain"`
	AnyOf  []string           `yaml:"any"`
	AllOf  []string           `yaml:"all"`
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// DefaultRules returns the built-in keyword rules in priority order.
func DefaultRules() []Rule {
	fin := lifedomain.Financial
	health := lifedomain.Health
	ins := lifedomain.Insurance
	veh := lifedomain.Vehicles
	legal := lifedomain.Legal
	emp := lifedomain.Employment
	ident := lifedomain.Identity

	return []Rule{
		{Type: doctype.Receipt, Domain: &fin, AnyOf: []string{"receipt", "purchase"}},
		{Type: doctype.Prescription, Domain: &health, AnyOf: []string{"prescription", "rx"}},
		{Type: doctype.InsurancePolicy, Domain: &ins, AllOf: []string{"insurance", "policy"}},
		{Type: doctype.InsuranceClaim, Domain: &ins, AllOf: []string{"insurance", "claim"}},
		{Type: doctype.VehicleRegistration, Domain: &veh, AnyOf: []string{"vehicle", "registration"}},
		{Type: doctype.Invoice, Domain: &fin, AnyOf: []string{"invoice"}},
		{Type: doctype.BankStatement, Domain: &fin, AnyOf: []string{
			"bank statement", "account statement", "checking account", "savings account",
		}},
		{Type: doctype.PayStub, Domain: &emp, AnyOf: []string{
			"pay stub", "paystub", "earnings statement", "net pay", "gross pay",
		}},
		{Type: doctype.TaxDocument, Domain: &fin, AnyOf: []string{"w-2", "1099", "tax return", "irs"}},
		{Type: doctype.Bill, Domain: &fin, AnyOf: []string{"bill", "amount due", "utility"}},
		{Type: doctype.MedicalRecord, Domain: &health, AnyOf: []string{
			"medical record", "diagnosis", "patient", "lab results",
		}},
		{Type: doctype.ServiceRecord, Domain: &veh, AnyOf: []string{
			"oil change", "service record", "maintenance", "repair order",
		}},
		{Type: doctype.Contract, Domain: &legal, AnyOf: []string{"agreement", "contract", "lease"}},
		{Type: doctype.Identification, Domain: &ident, AnyOf: []string{
			"driver's license", "drivers license", "passport", "identification card", "id card",
		}},
	}
}

// ParseRules decodes a YAML rules file ("rules: [{type, domain, any, all}]").
func ParseRules(data []byte) ([]Rule, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("parse rules: no rules defined")
	}
	return f.Rules, nil
}

type compiledRule struct {
	rule  Rule
	anyOf []*regexp.Regexp
	allOf []*regexp.Regexp
}

// RuleSet is an immutable, compiled list of keyword rules. First match wins.
type RuleSet struct {
	rules []compiledRule
}

// NewRuleSet validates and compiles rules.
func NewRuleSet(rules []Rule) (*RuleSet, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		if !r.Type.IsValid() || r.Type == doctype.Other {
			return nil, fmt.Errorf("rule %d: invalid document type %q", i, r.Type)
		}
		if r.Domain != nil && !r.Domain.IsValid() {
			return nil, fmt.Errorf("rule %d: invalid domain %q", i, *r.Domain)
		}
		if len(r.AnyOf) == 0 && len(r.AllOf) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i, r.Type)
		}
		cr := compiledRule{rule: r}
		for _, kw := range r.AnyOf {
			cr.anyOf = append(cr.anyOf, keywordRegexp(kw))
		}
		for _, kw := range r.AllOf {
			cr.allOf = append(cr.allOf, keywordRegexp(kw))
		}
		compiled = append(compiled, cr)
	}
	return &RuleSet{rules: compiled}, nil
}

// MustDefaultRuleSet compiles DefaultRules, panicking on a programming error.
func MustDefaultRuleSet() *RuleSet {
	rs, err := NewRuleSet(DefaultRules())
	if err != nil {
		panic(err)
	}
	return rs
}

var apostropheFold = strings.NewReplacer("’", "'", "‘", "'")

// Match returns the first rule whose keywords occur in text.
func (rs *RuleSet) Match(text string) (Rule, bool) {
	text = apostropheFold.Replace(text)
	for _, cr := range rs.rules {
		if cr.matches(text) {
			return cr.rule, true
		}
	}
	return Rule{}, false
}

func (cr *compiledRule) matches(text string) bool {
	for _, re := range cr.allOf {
		if !re.MatchString(text) {
			return false
		}
	}
	if len(cr.anyOf) == 0 {
		return true
	}
	for _, re := range cr.anyOf {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func keywordRegexp(kw string) *regexp.Regexp {
	kw = strings.ToLower(strings.TrimSpace(kw))
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
}
