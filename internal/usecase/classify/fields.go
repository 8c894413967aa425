package classify

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/docintel/internal/domain/extraction"
)

var (
	reDate      = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	reAmount    = regexp.MustCompile(`\$\s*\d[\d,]*(\.\d{2})?`)
	rePhone     = regexp.MustCompile(`(?:\+?1[\s.-]?)?\(?\b\d{3}\)?[\s.-]?\d{3}[\s.-]\d{4}\b`)
	reEmail     = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reReference = regexp.MustCompile(`(?i)(?:#|\bno\.|\bnumber:)\s*([A-Z0-9][A-Z0-9-]{2,})`)
	rePolicy    = regexp.MustCompile(`(?i)\bpolicy\s*(?:no\.?|number|#)?\s*:?\s*([A-Z0-9][A-Z0-9-]{4,})`)
	reVIN       = regexp.MustCompile(`\b[A-HJ-NPR-Z0-9]{17}\b`)
	reDoctor    = regexp.MustCompile(`\b(?:Dr\.?|DR\.?|Doctor)\s+([A-Z][A-Za-z'-]+(?:\s+[A-Z][A-Za-z'-]+)?)`)
	reHasDigit  = regexp.MustCompile(`\d`)
	reHasLetter = regexp.MustCompile(`[A-Z]`)
)

// Supplement fills empty fields from regex scans of text. It never overwrites.
// Dates take the first match, amounts the last (totals follow line items).
func Supplement(res *extraction.Result, text string) {
	if m := reDate.FindString(text); m != "" {
		res.SetIfEmpty(extraction.FieldDate, m)
	}
	if amt, ok := lastAmount(text); ok {
		res.SetIfEmpty(extraction.FieldAmount, amt)
	}
	if m := rePhone.FindString(text); m != "" {
		res.SetIfEmpty(extraction.FieldPhone, strings.TrimSpace(m))
	}
	if m := reEmail.FindString(text); m != "" {
		res.SetIfEmpty(extraction.FieldEmail, strings.ToLower(m))
	}
	if m := reReference.FindStringSubmatch(text); m != nil {
		res.SetIfEmpty(extraction.FieldReference, m[1])
	}
	if m := rePolicy.FindStringSubmatch(text); m != nil && reHasDigit.MatchString(m[1]) {
		res.SetIfEmpty(extraction.FieldPolicy, strings.ToUpper(m[1]))
	}
	for _, m := range reVIN.FindAllString(text, -1) {
		if reHasDigit.MatchString(m) && reHasLetter.MatchString(m) {
			res.SetIfEmpty(extraction.FieldVIN, m)
			break
		}
	}
	if m := reDoctor.FindStringSubmatch(text); m != nil {
		res.SetIfEmpty(extraction.FieldDoctor, "Dr. "+m[1])
	}
}

func lastAmount(text string) (string, bool) {
	all := reAmount.FindAllString(text, -1)
	if len(all) == 0 {
		return "", false
	}
	return ParseAmount(all[len(all)-1])
}

var amountCleaner = strings.NewReplacer("$", "", ",", "", " ", "", "USD", "", "usd", "")

// ParseAmount normalizes "$1,234.5" style input to a two-decimal string.
func ParseAmount(s string) (string, bool) {
	s = amountCleaner.Replace(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", false
	}
	return d.StringFixed(2), true
}
