package expand

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/docintel/internal/domain/search/query"
)

// Dictionary maps a normalized phrase to its synonym group.
// Groups are disjoint: a term belongs to at most one group, so distinct
// concepts (driver's license vs. vehicle registration) never share expansions.
type Dictionary struct {
	groups [][]string
	index  map[string]int
}

type dictionaryFile struct {
	Groups [][]string `yaml:"groups"`
}

// NewDictionary validates groups and builds the lookup index.
func NewDictionary(groups [][]string) (*Dictionary, error) {
	d := &Dictionary{index: make(map[string]int)}
	for gi, g := range groups {
		var norm []string
		seen := make(map[string]struct{}, len(g))
		for _, term := range g {
			t := query.Normalize(term)
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			if prev, taken := d.index[t]; taken {
				return nil, fmt.Errorf("dictionary: term %q in group %d already belongs to %v", t, gi, d.groups[prev])
			}
			seen[t] = struct{}{}
			d.index[t] = len(d.groups)
			norm = append(norm, t)
		}
		if len(norm) == 0 {
			continue
		}
		d.groups = append(d.groups, norm)
	}
	return d, nil
}

// ParseDictionary decodes a YAML file of the form "groups: [[a, b], [c, d]]".
func ParseDictionary(data []byte) (*Dictionary, error) {
	var f dictionaryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	return NewDictionary(f.Groups)
}

// Lookup returns a copy of the group containing phrase.
func (d *Dictionary) Lookup(phrase string) ([]string, bool) {
	gi, ok := d.index[query.Normalize(phrase)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), d.groups[gi]...), true
}

// Len returns the number of groups.
func (d *Dictionary) Len() int { return len(d.groups) }

// DefaultGroups is the built-in synonym table.
func DefaultGroups() [][]string {
	return [][]string{
		{"driver's license", "drivers license", "driver license", "dl"},
		{"registration", "vehicle registration", "car registration", "auto registration", "reg"},
		{"passport", "passport card"},
		{"birth certificate", "birth cert"},
		{"social security card", "ssn card"},
		{"receipt", "receipts", "proof of purchase"},
		{"invoice", "invoices"},
		{"prescription", "prescriptions", "rx"},
		{"insurance policy", "policy", "coverage", "declarations page"},
		{"insurance claim", "claim", "claims"},
		{"insurance card", "proof of insurance"},
		{"pay stub", "paystub", "pay slip", "payslip", "earnings statement"},
		{"tax return", "tax document", "tax form"},
		{"w-2", "w2", "wage statement"},
		{"1099", "form 1099"},
		{"bank statement", "account statement"},
		{"medical record", "medical records", "health record"},
		{"lab results", "lab report", "test results"},
		{"vaccination record", "immunization record", "vaccine card"},
		{"oil change", "service record", "maintenance record"},
		{"vin", "vehicle identification number"},
		{"lease", "rental agreement", "lease agreement"},
		{"mortgage", "mortgage statement", "home loan"},
		{"utility bill", "electric bill", "water bill", "gas bill"},
		{"warranty", "warranties", "guarantee"},
	}
}

// DefaultDictionary compiles DefaultGroups.
func DefaultDictionary() *Dictionary {
	d, err := NewDictionary(DefaultGroups())
	if err != nil {
		panic(err)
	}
	return d
}
