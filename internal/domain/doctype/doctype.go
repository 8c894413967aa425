package doctype

import (
	"strings"

	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// Type is the closed document type enumeration.
type Type string

// Document types.
const (
	Receipt             Type = "receipt"
	Invoice             Type = "invoice"
	Bill                Type = "bill"
	Prescription        Type = "prescription"
	MedicalRecord       Type = "medical_record"
	InsurancePolicy     Type = "insurance_policy"
	InsuranceClaim      Type = "insurance_claim"
	VehicleRegistration Type = "vehicle_registration"
	ServiceRecord       Type = "service_record"
	Contract            Type = "contract"
	TaxDocument         Type = "tax_document"
	BankStatement       Type = "bank_statement"
	PayStub             Type = "pay_stub"
	Identification      Type = "identification"
	Other               Type = "other"
)

// canonical maps a type to the domain it belongs to without further context.
// Other has no canonical domain.
var canonical = map[Type]lifedomain.Domain{
	Receipt:             lifedomain.Financial,
	Invoice:             lifedomain.Financial,
	Bill:                lifedomain.Financial,
	Prescription:        lifedomain.Health,
	MedicalRecord:       lifedomain.Health,
	InsurancePolicy:     lifedomain.Insurance,
	InsuranceClaim:      lifedomain.Insurance,
	VehicleRegistration: lifedomain.Vehicles,
	ServiceRecord:       lifedomain.Vehicles,
	Contract:            lifedomain.Legal,
	TaxDocument:         lifedomain.Financial,
	BankStatement:       lifedomain.Financial,
	PayStub:             lifedomain.Employment,
	Identification:      lifedomain.Identity,
}

// All returns every document type, Other last.
func All() []Type {
	return []Type{
		Receipt, Invoice, Bill, Prescription, MedicalRecord, InsurancePolicy, InsuranceClaim,
		VehicleRegistration, ServiceRecord, Contract, TaxDocument, BankStatement, PayStub,
		Identification, Other,
	}
}

// IsValid checks if t is part of the enumeration.
func (t Type) IsValid() bool {
	if t == Other {
		return true
	}
	_, ok := canonical[t]
	return ok
}

// CanonicalDomain returns the domain implied by t, if any.
func (t Type) CanonicalDomain() (lifedomain.Domain, bool) {
	d, ok := canonical[t]
	return d, ok
}

// Label returns a human-readable form ("insurance_policy" -> "insurance policy").
func (t Type) Label() string { return strings.ReplaceAll(string(t), "_", " ") }

// Parse normalizes free-form model output ("Insurance Policy", "insurance-policy")
// into a Type. Unknown values map to Other with ok=false.
func Parse(s string) (Type, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	t := Type(s)
	if t.IsValid() {
		return t, true
	}
	return Other, false
}

// Strings returns the enumeration as strings, for prompts and JSON schemas.
func Strings() []string {
	all := All()
	out := make([]string, len(all))
	for i, t := range all {
		out[i] = string(t)
	}
	return out
}
