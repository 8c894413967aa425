package docintel

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey", "redis", "sqlite" or "postgres"
	addrs    []string
	password string
	dsn      string

	completer Completer
	rules     []byte
	dict      []byte

	minTextLength int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey stores entries in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores entries in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSQLite stores entries in a SQLite file. ":memory:" keeps them in process.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "sqlite"
		c.dsn = path
	})
}

// WithPostgres stores entries in PostgreSQL.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "postgres"
		c.dsn = dsn
	})
}

// WithCompleter enables AI extraction and AI term expansion.
func WithCompleter(comp Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = comp
	})
}

// WithRules replaces the built-in keyword rules with a YAML rules document.
func WithRules(yamlDoc []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.rules = yamlDoc
	})
}

// WithDictionary replaces the built-in expansion dictionary with a YAML document.
func WithDictionary(yamlDoc []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.dict = yamlDoc
	})
}

// WithMinTextLength sets how many characters of text are needed to classify.
// Default: 10.
func WithMinTextLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minTextLength = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
