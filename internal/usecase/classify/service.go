package classify

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/domain/doctype"
	"github.com/kailas-cloud/docintel/internal/domain/extraction"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
	logpkg "github.com/kailas-cloud/docintel/internal/logger"
	"github.com/kailas-cloud/docintel/internal/metrics"
)

// Defaults for Options.
const (
	DefaultMinTextLength = 10
	DefaultAITimeout     = 60 * time.Second
	MaxTitleRunes        = 300
)

// Options configures a Service. Zero values take defaults.
type Options struct {
	MinTextLength int
	AITimeout     time.Duration
	Now           func() time.Time
	Logger        *zap.Logger
}

// Service classifies recognized text. AI extraction is primary, keyword rules are the fallback.
type Service struct {
	ai      StructuredExtractor
	rules   *RuleSet
	minLen  int
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a Service. ai may be nil (rule-based only).
func New(ai StructuredExtractor, rules *RuleSet, opts Options) *Service {
	if rules == nil {
		rules = MustDefaultRuleSet()
	}
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = DefaultMinTextLength
	}
	if opts.AITimeout <= 0 {
		opts.AITimeout = DefaultAITimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		ai:      ai,
		rules:   rules,
		minLen:  opts.MinTextLength,
		timeout: opts.AITimeout,
		now:     opts.Now,
		logger:  opts.Logger,
	}
}

// Classify returns a validated extraction for rawText.
// The only error is *domain.InsufficientTextError; AI failures fall back to rules.
func (s *Service) Classify(ctx context.Context, rawText string) (extraction.Result, error) {
	trimmed := strings.TrimSpace(rawText)
	if n := utf8.RuneCountInString(trimmed); n < s.minLen {
		return extraction.Result{}, &domain.InsufficientTextError{Length: n, Min: s.minLen}
	}

	res, source := s.primary(ctx, rawText)
	Supplement(&res, rawText)
	s.validate(&res, rawText, source)

	metrics.ClassificationsTotal.WithLabelValues(string(res.DocumentType), source).Inc()
	return res, nil
}

func (s *Service) primary(ctx context.Context, rawText string) (extraction.Result, string) {
	if s.ai == nil {
		return s.RuleBased(rawText), extraction.SourceRules
	}

	aiCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.ai.Extract(aiCtx, rawText)
	if err == nil {
		return res, extraction.SourceAI
	}

	reason := fallbackReason(aiCtx, err)
	metrics.FallbacksTotal.WithLabelValues("extraction", reason).Inc()
	s.logger.Warn("AI extraction failed, using rules",
		zap.String("reason", reason),
		logpkg.Text("text", rawText),
		zap.Error(err),
	)
	return s.RuleBased(rawText), extraction.SourceRules
}

// RuleBased classifies rawText with keyword rules only.
func (s *Service) RuleBased(rawText string) extraction.Result {
	res := extraction.Result{
		DocumentType: doctype.Other,
		Confidence:   NoMatchConfidence,
		Fields:       make(map[string]any),
		RawText:      rawText,
	}
	if rule, ok := s.rules.Match(rawText); ok {
		res.DocumentType = rule.Type
		res.Confidence = RuleMatchConfidence
		if rule.Domain != nil {
			d := *rule.Domain
			res.SuggestedDomain = &d
		}
	}
	return res
}

func (s *Service) validate(res *extraction.Result, rawText, source string) {
	now := s.now()

	res.RawText = rawText
	res.Confidence = extraction.ClampConfidence(res.Confidence)
	if !res.DocumentType.IsValid() {
		res.DocumentType = doctype.Other
	}
	if res.SuggestedDomain != nil && !res.SuggestedDomain.IsValid() {
		res.SuggestedDomain = nil
	}
	if res.SuggestedDomain == nil {
		if d, ok := res.DocumentType.CanonicalDomain(); ok {
			res.SuggestedDomain = lifedomain.Ptr(d)
		}
	}
	if res.Fields == nil {
		res.Fields = make(map[string]any)
	}

	if title, ok := res.StringField(extraction.FieldTitle); ok {
		res.Fields[extraction.FieldTitle] = normalizeTitle(title)
	} else {
		res.Fields[extraction.FieldTitle] = extraction.SynthesizeTitle(res.DocumentType, now)
	}

	if date, ok := res.StringField(extraction.FieldDate); ok {
		if iso, parsed := NormalizeDate(date); parsed {
			res.Fields[extraction.FieldDate] = iso
		}
	}

	if res.Metadata == nil {
		res.Metadata = make(map[string]any)
	}
	res.Metadata[extraction.MetaParsedAt] = now.UTC().Format(time.RFC3339)
	res.Metadata[extraction.MetaTextLength] = utf8.RuneCountInString(rawText)
	res.Metadata[extraction.MetaAIParsed] = res.Confidence > extraction.AIParsedThreshold
	res.Metadata[extraction.MetaSource] = source
}

func normalizeTitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return truncateRunes(s, MaxTitleRunes)
}

func fallbackReason(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return "canceled"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, domain.ErrAIDisabled):
		return "disabled"
	default:
		return "provider_error"
	}
}
