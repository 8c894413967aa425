package docintel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docintel/internal/db/redis"
	"github.com/kailas-cloud/docintel/internal/db/sqldb"
	"github.com/kailas-cloud/docintel/internal/domain"
	"github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/extraction"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
	"github.com/kailas-cloud/docintel/internal/domain/search/query"
	entryrepo "github.com/kailas-cloud/docintel/internal/repository/entry"
	"github.com/kailas-cloud/docintel/internal/repository/expcache"
	classifyuc "github.com/kailas-cloud/docintel/internal/usecase/classify"
	documentuc "github.com/kailas-cloud/docintel/internal/usecase/document"
	expanduc "github.com/kailas-cloud/docintel/internal/usecase/expand"
	healthuc "github.com/kailas-cloud/docintel/internal/usecase/health"
	"github.com/kailas-cloud/docintel/internal/usecase/route"
	searchuc "github.com/kailas-cloud/docintel/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal use-case interfaces, swapped for mocks in tests.
type classifyUseCase interface {
	Classify(ctx context.Context, rawText string) (extraction.Result, error)
}

type documentUseCase interface {
	Ingest(ctx context.Context, up documentuc.Upload) (documentuc.IngestResult, error)
	CreateFromExtraction(
		ctx context.Context, ownerID string, res extraction.Result, d *lifedomain.Domain,
	) (entry.Entry, error)
	Get(ctx context.Context, ownerID, id string) (entry.Entry, error)
	List(ctx context.Context, ownerID string, d *lifedomain.Domain, cursor string, limit int) (
		[]entry.Entry, string, error,
	)
	Patch(ctx context.Context, ownerID, id string, p entry.Patch) (entry.Entry, error)
	Delete(ctx context.Context, ownerID, id string) error
	Count(ctx context.Context, ownerID string, d *lifedomain.Domain) (int, error)
}

type searchUseCase interface {
	Search(ctx context.Context, ownerID string, q query.Query) (searchuc.Result, error)
}

type expandUseCase interface {
	ExpandAll(ctx context.Context, phrases []string) []string
}

// entryStore is implemented by both entry repositories.
type entryStore interface {
	documentuc.Repository
	searchuc.EntryLister
}

// backend is an opened store.
type backend struct {
	entries entryStore
	pinger  healthuc.DBPinger
	kv      *redis.Store // nil for SQL stores
	close   func()
}

// Client is the docintel SDK entry point.
type Client struct {
	store       *backend
	classifySvc classifyUseCase
	docSvc      documentUseCase
	searchSvc   searchUseCase
	expandSvc   expandUseCase
	healthSvc   healthUseCase
	obs         *observer
}

// New creates a Client and connects to storage.
// The provided context is used for the readiness check and schema migration.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("docintel: storage required (use WithSQLite, WithPostgres, WithValkey or WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.close()
		return nil, err
	}
	return c, nil
}

func openBackend(ctx context.Context, cfg *clientConfig) (*backend, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := redis.NewStore(redis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("docintel: create %s store: %w", cfg.driver, err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("docintel: database not ready: %w", err)
		}
		return &backend{entries: entryrepo.NewRedis(s), pinger: s, kv: s, close: s.Close}, nil
	case "sqlite", "postgres":
		db, err := sqldb.Open(ctx, sqldb.Dialect(cfg.driver), cfg.dsn, sqldb.Options{})
		if err != nil {
			return nil, fmt.Errorf("docintel: open %s: %w", cfg.driver, err)
		}
		if err := db.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			db.Close()
			return nil, fmt.Errorf("docintel: database not ready: %w", err)
		}
		repo := entryrepo.NewSQL(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("docintel: %w", err)
		}
		return &backend{entries: repo, pinger: db, close: db.Close}, nil
	default:
		return nil, fmt.Errorf("docintel: unknown driver %q", cfg.driver)
	}
}

func wireClient(store *backend, cfg *clientConfig, obs *observer) (*Client, error) {
	rules := classifyuc.MustDefaultRuleSet()
	if cfg.rules != nil {
		parsed, err := classifyuc.ParseRules(cfg.rules)
		if err != nil {
			return nil, fmt.Errorf("docintel: %w", err)
		}
		if rules, err = classifyuc.NewRuleSet(parsed); err != nil {
			return nil, fmt.Errorf("docintel: %w", err)
		}
	}
	dict := expanduc.DefaultDictionary()
	if cfg.dict != nil {
		var err error
		if dict, err = expanduc.ParseDictionary(cfg.dict); err != nil {
			return nil, fmt.Errorf("docintel: %w", err)
		}
	}

	// Pass nil interfaces (not typed nil pointers) when no completer is set.
	var (
		extractor classifyuc.StructuredExtractor
		suggester expanduc.Suggester
		aiChecker healthuc.AIChecker
	)
	if cfg.completer != nil {
		comp := &completerAdapter{inner: cfg.completer}
		x, err := classifyuc.NewAIExtractor(comp)
		if err != nil {
			return nil, fmt.Errorf("docintel: %w", err)
		}
		extractor = x
		suggester = expanduc.NewAISuggester(comp)
		if store.kv != nil {
			suggester = expcache.New(suggester, store.kv, expcache.DefaultTTL, nil, nil)
		}
		if hc, ok := cfg.completer.(domain.HealthChecker); ok {
			aiChecker = hc
		}
	}

	classifySvc := classifyuc.New(extractor, rules, classifyuc.Options{MinTextLength: cfg.minTextLength})
	expandSvc := expanduc.New(suggester, dict, expanduc.Options{})

	return &Client{
		store:       store,
		classifySvc: classifySvc,
		docSvc:      documentuc.New(store.entries, classifySvc, route.New(), zap.NewNop()),
		searchSvc:   searchuc.New(store.entries, expandSvc, searchuc.DefaultMaxCandidates),
		expandSvc:   expandSvc,
		healthSvc:   healthuc.New(store.pinger, aiChecker),
		obs:         obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Classify extracts a document type, suggested domain and fields from recognized text.
// AI failures fall back to keyword rules; the only error is ErrInsufficientText.
func (c *Client) Classify(ctx context.Context, text string) (_ Extraction, err error) {
	start := time.Now()
	defer func() { c.obs.observe("classify", start, err) }()

	res, err := c.classifySvc.Classify(ctx, text)
	if err != nil {
		return Extraction{}, fmt.Errorf("classify: %w", err)
	}
	ex := fromInternalExtraction(&res)
	c.obs.observeExtraction(&ex)
	return ex, nil
}

// Ingest classifies an upload, routes it and stores the entry.
// When no domain can be inferred the error wraps ErrNoDomainSuggested and the
// returned result still carries the extraction; retry with Entries(owner).Create.
func (c *Client) Ingest(ctx context.Context, up Upload) (_ IngestResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest", start, err) }()

	d, err := parseDomain(up.Domain)
	if err != nil {
		return IngestResult{}, fmt.Errorf("ingest: %w", err)
	}

	out, ingestErr := c.docSvc.Ingest(ctx, documentuc.Upload{
		OwnerID:  up.OwnerID,
		FileRef:  up.FileRef,
		MIMEType: up.MIMEType,
		Text:     up.Text,
		Domain:   d,
	})

	res := IngestResult{DocumentID: out.Document.ID()}
	if out.Extraction != nil {
		res.Extraction = fromInternalExtraction(out.Extraction)
		c.obs.observeExtraction(&res.Extraction)
	}
	if out.Entry != nil {
		e := fromInternalEntry(out.Entry)
		res.Entry = &e
	}
	if ingestErr != nil {
		return res, fmt.Errorf("ingest: %w", ingestErr)
	}
	return res, nil
}

// Search ranks the owner's entries against a comma-delimited query.
func (c *Client) Search(ctx context.Context, ownerID string, sq SearchQuery) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	d, err := parseDomain(sq.Domain)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	q, err := query.New(sq.Q, d, sq.Limit)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	res, err := c.searchSvc.Search(ctx, ownerID, q)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return SearchResult{
		Hits:    fromInternalHits(res.Candidates),
		Terms:   res.Terms,
		Scanned: res.Scanned,
	}, nil
}

// Expand returns the merged term set for a comma-delimited query.
func (c *Client) Expand(ctx context.Context, q string) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("expand", start, err) }()

	parsed, err := query.New(q, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("expand: %w", err)
	}
	return c.expandSvc.ExpandAll(ctx, parsed.Phrases()), nil
}

// Entries returns the entry service for one owner.
func (c *Client) Entries(ownerID string) *EntryService {
	return &EntryService{ownerID: ownerID, svc: c.docSvc, obs: c.obs}
}
