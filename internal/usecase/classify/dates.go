package classify

import (
	"strings"
	"time"
)

// ISODate is the canonical date layout for extracted fields.
const ISODate = "2006-01-02"

// Month-first layouts win over day-first ones; day-first only applies when
// the month-first reading is impossible (e.g. 15/03/2024).
var dateLayouts = []string{
	ISODate,
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"1-2-2006",
	"1.2.2006",
	"1/2/06",
	"1-2-06",
	"2/1/2006",
	"2-1-2006",
	"2/1/06",
	"2-1-06",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Jan. 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02-Jan-2006",
}

// NormalizeDate reformats a recognizable date as YYYY-MM-DD.
// An already-ISO date comes back unchanged.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISODate), true
		}
	}
	return s, false
}
