package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docintel/internal/config"
	"github.com/kailas-cloud/docintel/internal/db/redis"
	"github.com/kailas-cloud/docintel/internal/db/sqldb"
	"github.com/kailas-cloud/docintel/internal/domain"
	logpkg "github.com/kailas-cloud/docintel/internal/logger"
	"github.com/kailas-cloud/docintel/internal/metrics"
	entryrepo "github.com/kailas-cloud/docintel/internal/repository/entry"
	"github.com/kailas-cloud/docintel/internal/repository/expcache"
	anthropicAI "github.com/kailas-cloud/docintel/internal/transport/anthropic"
	chiTransport "github.com/kailas-cloud/docintel/internal/transport/chi"
	openaiAI "github.com/kailas-cloud/docintel/internal/transport/openai"
	classifyuc "github.com/kailas-cloud/docintel/internal/usecase/classify"
	documentuc "github.com/kailas-cloud/docintel/internal/usecase/document"
	expanduc "github.com/kailas-cloud/docintel/internal/usecase/expand"
	healthuc "github.com/kailas-cloud/docintel/internal/usecase/health"
	"github.com/kailas-cloud/docintel/internal/usecase/route"
	searchuc "github.com/kailas-cloud/docintel/internal/usecase/search"
	"github.com/kailas-cloud/docintel/internal/version"
)

// aiProvider is what the composition root needs from a completion transport.
type aiProvider interface {
	domain.Completer
	domain.HealthChecker
}

// entryStore is satisfied by both entry repositories.
type entryStore interface {
	documentuc.Repository
	searchuc.EntryLister
}

// storage bundles the entry repository with the handles main owns.
type storage struct {
	entries entryStore
	pinger  healthuc.DBPinger
	kv      *redis.Store // nil for SQL drivers
	close   func()
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docintel API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	ctx := context.Background()
	store, err := openStorage(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.close()
	logger.Info("Connected to database")

	// Register AI metrics explicitly (no init())
	metrics.RegisterAIMetrics()

	ai := buildAIProvider(cfg.AI, logger)

	rules, err := loadRules(cfg.Classify.RulesPath)
	if err != nil {
		logger.Fatal("Failed to load classification rules", zap.Error(err))
	}
	dict, err := loadDictionary(cfg.Expansion.DictionaryPath)
	if err != nil {
		logger.Fatal("Failed to load expansion dictionary", zap.Error(err))
	}

	// Pass nil interfaces (not typed nil pointers) when AI is disabled.
	var (
		extractor classifyuc.StructuredExtractor
		suggester expanduc.Suggester
		aiChecker healthuc.AIChecker
	)
	if ai != nil {
		aiExtractor, err := classifyuc.NewAIExtractor(ai)
		if err != nil {
			logger.Fatal("Failed to build AI extractor", zap.Error(err))
		}
		extractor = aiExtractor
		suggester = buildSuggester(ai, store.kv, cfg.AI, logger)
		aiChecker = ai
	}

	classifySvc := classifyuc.New(extractor, rules, classifyuc.Options{
		MinTextLength: cfg.Classify.MinTextLength,
		AITimeout:     time.Duration(cfg.AI.ExtractionTimeoutSec) * time.Second,
		Logger:        logger,
	})
	router := route.New(route.WithDescriptionLimit(cfg.Classify.DescriptionLimit))
	expandSvc := expanduc.New(suggester, dict, expanduc.Options{
		Timeout:     time.Duration(cfg.AI.ExpansionTimeoutSec) * time.Second,
		MaxParallel: cfg.AI.MaxParallelExpansions,
		Logger:      logger,
	})
	searchSvc := searchuc.New(store.entries, expandSvc, cfg.Search.MaxCandidates)
	docSvc := documentuc.New(store.entries, classifySvc, router, logger).
		WithPagination(cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	healthSvc := healthuc.New(store.pinger, aiChecker)

	server := chiTransport.NewServer(classifySvc, docSvc, searchSvc, expandSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStorage connects the configured driver, waits for readiness and prepares the entry repository.
func openStorage(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*storage, error) {
	readiness := time.Duration(cfg.ReadinessTimeout) * time.Second

	if cfg.IsKV() {
		kv, err := redis.NewStore(redis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
		}
		if err := kv.WaitForReady(ctx, readiness); err != nil {
			kv.Close()
			return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
		}
		if info, err := kv.Server(ctx); err != nil {
			logger.Warn("Failed to read server info", zap.Error(err))
		} else {
			if info.Name != cfg.Driver {
				logger.Warn("Configured driver differs from server",
					zap.String("driver", cfg.Driver), zap.String("server", info.Name))
			}
			logger.Info("Connected to key-value store",
				zap.String("server", info.Name), zap.String("version", info.Version))
		}
		return &storage{entries: entryrepo.NewRedis(kv), pinger: kv, kv: kv, close: kv.Close}, nil
	}

	sqlDB, err := sqldb.Open(ctx, sqldb.Dialect(cfg.Driver), cfg.DSN, sqldb.Options{})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if err := sqlDB.WaitForReady(ctx, readiness); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
	}
	repo := entryrepo.NewSQL(sqlDB)
	if err := repo.Migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &storage{entries: repo, pinger: sqlDB, close: sqlDB.Close}, nil
}

// buildAIProvider returns nil when no provider is configured.
func buildAIProvider(cfg config.AIConfig, logger *zap.Logger) aiProvider {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openaiAI.NewCompleter(&openaiAI.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Logger:   logger,
		})
	case config.ProviderAnthropic:
		return anthropicAI.NewCompleter(&anthropicAI.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			MaxRetries: -1,
			Logger:     logger,
		})
	default:
		return nil
	}
}

// buildSuggester wraps the AI suggester with the KV cache when the store supports it.
func buildSuggester(
	ai domain.Completer, kv *redis.Store, cfg config.AIConfig, logger *zap.Logger,
) expanduc.Suggester {
	base := expanduc.NewAISuggester(ai)
	if kv == nil {
		return base
	}
	ttl := time.Duration(cfg.ExpansionCacheTTLHrs) * time.Hour
	return expcache.New(base, kv, ttl, metrics.ExpansionCacheTotal, logger)
}

func loadRules(path string) (*classifyuc.RuleSet, error) {
	data, err := config.ReadOptional(path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return classifyuc.MustDefaultRuleSet(), nil
	}
	rules, err := classifyuc.ParseRules(data)
	if err != nil {
		return nil, err
	}
	return classifyuc.NewRuleSet(rules)
}

func loadDictionary(path string) (*expanduc.Dictionary, error) {
	data, err := config.ReadOptional(path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return expanduc.DefaultDictionary(), nil
	}
	return expanduc.ParseDictionary(data)
}
