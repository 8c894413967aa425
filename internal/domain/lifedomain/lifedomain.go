package lifedomain

import "strings"

// Domain is a life-management bucket for entries.
type Domain string

// Supported domains.
const (
	Financial  Domain = "financial"
	Health     Domain = "health"
	Insurance  Domain = "insurance"
	Vehicles   Domain = "vehicles"
	Home       Domain = "home"
	Legal      Domain = "legal"
	Employment Domain = "employment"
	Identity   Domain = "identity"
)

// All returns the supported domains in display order.
func All() []Domain {
	return []Domain{Financial, Health, Insurance, Vehicles, Home, Legal, Employment, Identity}
}

// IsValid checks if the domain is one of the supported values.
func (d Domain) IsValid() bool {
	switch d {
	case Financial, Health, Insurance, Vehicles, Home, Legal, Employment, Identity:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (d Domain) String() string { return string(d) }

// Parse normalizes s and returns the matching domain.
// Accepts a few common aliases ("finance", "medical", "auto").
func Parse(s string) (Domain, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, ok := aliases[s]; ok {
		return d, true
	}
	d := Domain(s)
	return d, d.IsValid()
}

var aliases = map[string]Domain{
	"finance":  Financial,
	"finances": Financial,
	"money":    Financial,
	"medical":  Health,
	"auto":     Vehicles,
	"vehicle":  Vehicles,
	"car":      Vehicles,
	"housing":  Home,
	"work":     Employment,
	"id":       Identity,
}

// Ptr returns a pointer to d, for optional domain fields.
func Ptr(d Domain) *Domain { return &d }
