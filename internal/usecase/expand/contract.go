package expand

import "context"

// Suggester proposes synonyms for a normalized phrase.
// An error or an empty slice sends the caller to the dictionary.
type Suggester interface {
	Suggest(ctx context.Context, phrase string) ([]string, error)
}
