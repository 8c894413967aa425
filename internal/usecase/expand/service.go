package expand

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/docintel/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/docintel/internal/logger"
	"github.com/kailas-cloud/docintel/internal/metrics"
)

// Defaults for Options.
const (
	DefaultTimeout     = 3 * time.Second
	DefaultMaxParallel = 4
)

// Options configures a Service. Zero values take defaults.
type Options struct {
	Timeout     time.Duration
	MaxParallel int
	Logger      *zap.Logger
}

// Service expands search phrases into related terms.
type Service struct {
	suggester   Suggester
	dict        *Dictionary
	timeout     time.Duration
	maxParallel int
	logger      *zap.Logger
}

// New creates a Service. suggester may be nil (dictionary only).
func New(suggester Suggester, dict *Dictionary, opts Options) *Service {
	if dict == nil {
		dict = DefaultDictionary()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = DefaultMaxParallel
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		suggester:   suggester,
		dict:        dict,
		timeout:     opts.Timeout,
		maxParallel: opts.MaxParallel,
		logger:      opts.Logger,
	}
}

// Expand returns deduplicated terms for a single phrase. The normalized
// phrase is always the first element. Empty input yields nil.
func (s *Service) Expand(ctx context.Context, phrase string) []string {
	phrase = query.Normalize(phrase)
	if phrase == "" {
		return nil
	}
	if terms, ok := s.suggest(ctx, phrase); ok {
		return dedup(phrase, terms)
	}
	return dedup(phrase, s.Fallback(phrase))
}

// ExpandAll expands every phrase concurrently and merges the results in input order.
func (s *Service) ExpandAll(ctx context.Context, phrases []string) []string {
	results := make([][]string, len(phrases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, p := range phrases {
		g.Go(func() error {
			results[i] = s.Expand(gctx, p)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	var merged []string
	seen := make(map[string]struct{})
	for _, terms := range results {
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			merged = append(merged, t)
		}
	}
	return merged
}

// Fallback expands phrase without AI: dictionary group, plural toggle, or itself.
func (s *Service) Fallback(phrase string) []string {
	phrase = query.Normalize(phrase)
	if terms, ok := s.dict.Lookup(phrase); ok {
		return terms
	}
	if alt, ok := PluralToggle(phrase); ok {
		return []string{phrase, alt}
	}
	return []string{phrase}
}

func (s *Service) suggest(ctx context.Context, phrase string) ([]string, bool) {
	if s.suggester == nil {
		return nil, false
	}
	if ctx.Err() != nil {
		metrics.FallbacksTotal.WithLabelValues("expansion", "canceled").Inc()
		return nil, false
	}

	sctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	terms, err := s.suggester.Suggest(sctx, phrase)
	switch {
	case err != nil:
		reason := "provider_error"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(sctx.Err(), context.DeadlineExceeded) {
			reason = "timeout"
		} else if errors.Is(err, context.Canceled) {
			reason = "canceled"
		}
		metrics.FallbacksTotal.WithLabelValues("expansion", reason).Inc()
		s.logger.Debug("AI expansion failed, using dictionary",
			logpkg.Text("phrase", phrase),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return nil, false
	case len(terms) == 0:
		metrics.FallbacksTotal.WithLabelValues("expansion", "empty").Inc()
		return nil, false
	}
	return terms, true
}

// PluralToggle flips a single word longer than three characters between
// singular and plural. Multi-word phrases and Latin-looking singulars
// ending in "is" or "us" are left alone.
func PluralToggle(word string) (string, bool) {
	if strings.ContainsAny(word, " \t") || utf8.RuneCountInString(word) <= 3 {
		return "", false
	}
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return strings.TrimSuffix(word, "ies") + "y", true
	case hasAnySuffix(word, "sses", "xes", "ches", "shes", "zzes"):
		return strings.TrimSuffix(word, "es"), true
	case hasAnySuffix(word, "is", "us"):
		return "", false
	case hasAnySuffix(word, "ss", "x", "ch", "sh", "zz"):
		return word + "es", true
	case strings.HasSuffix(word, "s"):
		return strings.TrimSuffix(word, "s"), true
	case strings.HasSuffix(word, "y") && !isVowel(word[len(word)-2]):
		return strings.TrimSuffix(word, "y") + "ies", true
	default:
		return word + "s", true
	}
}

func hasAnySuffix(word string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(word, suf) {
			return true
		}
	}
	return false
}

func isVowel(b byte) bool {
	return strings.IndexByte("aeiou", b) >= 0
}

func dedup(first string, terms []string) []string {
	out := []string{first}
	seen := map[string]struct{}{first: {}}
	for _, t := range terms {
		t = query.Normalize(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
