package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/search/query"
	"github.com/kailas-cloud/docintel/internal/domain/search/scored"
)

// Scoring weights.
const (
	PhraseInTitle  = 100
	PhraseInType   = 80
	TermInTitle    = 10
	TermInType     = 5
	TermInDomain   = 3
	TermInBody     = 1
	GateTrigger    = 100
	GateMinScore   = 50
	shortTermRunes = 3
)

// fields is a candidate's searchable text, normalized once per Score call.
type fields struct {
	title   string
	types   []string // document type and category, used by both phrase and term rules
	subtype string
	domain  string
	body    string
}

func newFields(e *entry.Entry) fields {
	return fields{
		title:   query.Normalize(e.Title()),
		types:   []string{label(e.DocumentType()), label(e.Category())},
		subtype: label(e.Subtype()),
		domain:  label(string(e.Domain())),
		body:    query.Normalize(e.Body()),
	}
}

func label(s string) string {
	return query.Normalize(strings.ReplaceAll(s, "_", " "))
}

// Score ranks candidates against the query's sub-phrases and expanded terms.
// The result is sorted by score descending, ties keep input order, and once
// any candidate reaches GateTrigger only candidates at GateMinScore or above remain.
// It never returns nil.
func Score(phrases, terms []string, candidates []entry.Entry) []scored.Candidate {
	phrases = normalizeAll(phrases)
	terms = normalizeAll(terms)

	out := make([]scored.Candidate, 0, len(candidates))
	gate := false
	for i := range candidates {
		c := scoreOne(phrases, terms, &candidates[i])
		if c.Score <= 0 {
			continue
		}
		if c.Score >= GateTrigger {
			gate = true
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if gate {
		kept := out[:0]
		for _, c := range out {
			if c.Score >= GateMinScore {
				kept = append(kept, c)
			}
		}
		out = kept
	}
	return out
}

func scoreOne(phrases, terms []string, e *entry.Entry) scored.Candidate {
	f := newFields(e)
	c := scored.Candidate{Entry: *e}

	for _, p := range phrases {
		if strings.Contains(f.title, p) {
			c.Add(PhraseInTitle, p)
		}
		if containsPhrase(f.types, p) {
			c.Add(PhraseInType, p)
		}
	}

	for _, t := range terms {
		switch {
		case hasTerm(f.title, t):
			c.Add(TermInTitle, t)
		case hasTermAny(f.types, t) || hasTerm(f.subtype, t):
			c.Add(TermInType, t)
		case hasTerm(f.domain, t):
			c.Add(TermInDomain, t)
		case hasTerm(f.body, t):
			c.Add(TermInBody, t)
		}
	}
	return c
}

// hasTerm reports a substring match for an expanded term. Terms of up to
// shortTermRunes runes (abbreviations like "dl") must match a whole word.
// Phrases always use a plain substring match.
func hasTerm(haystack, needle string) bool {
	if needle == "" || haystack == "" {
		return false
	}
	if len([]rune(needle)) > shortTermRunes {
		return strings.Contains(haystack, needle)
	}
	for from := 0; ; {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(needle)
		if boundary(haystack, start-1) && boundary(haystack, end) {
			return true
		}
		from = start + 1
	}
}

func boundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r := rune(s[i])
	return r < 0x80 && !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func hasTermAny(haystacks []string, needle string) bool {
	for _, h := range haystacks {
		if hasTerm(h, needle) {
			return true
		}
	}
	return false
}

func containsPhrase(haystacks []string, phrase string) bool {
	for _, h := range haystacks {
		if strings.Contains(h, phrase) {
			return true
		}
	}
	return false
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = query.Normalize(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
