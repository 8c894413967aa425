package scored

import "github.com/kailas-cloud/docintel/internal/domain/entry"

// Candidate is an entry with its relevance score and the terms that contributed to it.
// Score only ever grows while rules are applied.
type Candidate struct {
	Entry        entry.Entry
	Score        int
	MatchedTerms []string
}

// Add increases the score and records term as contributing.
func (c *Candidate) Add(points int, term string) {
	if points <= 0 {
		return
	}
	c.Score += points
	for _, t := range c.MatchedTerms {
		if t == term {
			return
		}
	}
	c.MatchedTerms = append(c.MatchedTerms, term)
}
