package expand

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/docintel/internal/domain"
)

const (
	maxSuggestions     = 10
	maxSuggestionRunes = 60
	expansionMaxTokens = 256
)

const suggestSystemPrompt = `You expand search phrases for a personal document archive.
Reply with JSON only: {"terms": ["...", "..."]}.
List at most 10 lower-case spellings, abbreviations or exact synonyms of the phrase.
Never include related but different documents (a driver's license is not a vehicle registration).`

// AISuggester implements Suggester on top of a completion model.
type AISuggester struct {
	completer domain.Completer
}

// NewAISuggester creates an AISuggester.
func NewAISuggester(c domain.Completer) *AISuggester {
	return &AISuggester{completer: c}
}

// Suggest asks the model for synonyms of phrase.
func (s *AISuggester) Suggest(ctx context.Context, phrase string) ([]string, error) {
	resp, err := s.completer.Complete(ctx, domain.CompletionRequest{
		System:    suggestSystemPrompt,
		User:      "Phrase: " + phrase,
		JSON:      true,
		MaxTokens: expansionMaxTokens,
		Purpose:   "expansion",
	})
	if err != nil {
		return nil, fmt.Errorf("ai suggest: %w", err)
	}
	terms, err := ParseSuggestions(resp.Text)
	if err != nil {
		return nil, err
	}
	return terms, nil
}

// ParseSuggestions accepts a JSON array or an object with a "terms" array,
// optionally inside a code fence. Non-string items are skipped.
func ParseSuggestions(text string) ([]string, error) {
	text = stripCodeFence(text)

	var raw []any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		var obj map[string]any
		if objErr := json.Unmarshal([]byte(text), &obj); objErr != nil {
			return nil, fmt.Errorf("decode suggestions: %v: %w", err, domain.ErrMalformedResponse)
		}
		arr, ok := obj["terms"].([]any)
		if !ok {
			return nil, fmt.Errorf("suggestions object has no terms array: %w", domain.ErrMalformedResponse)
		}
		raw = arr
	}

	terms := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || len([]rune(s)) > maxSuggestionRunes {
			continue
		}
		terms = append(terms, s)
		if len(terms) == maxSuggestions {
			break
		}
	}
	return terms, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
