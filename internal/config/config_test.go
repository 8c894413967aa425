package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_Database(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseConfig
		wantErr string
	}{
		{"valkey ok", DatabaseConfig{Driver: "valkey", Addrs: []string{"a:6379"}}, ""},
		{"redis db 3", DatabaseConfig{Driver: "redis", Addrs: []string{"a:6379"}, DB: 3}, ""},
		{"redis db out of range", DatabaseConfig{Driver: "redis", Addrs: []string{"a:6379"}, DB: 16}, "database.db must be between 0 and 15"},
		{"redis without addrs", DatabaseConfig{Driver: "redis"}, `database.addrs is required for driver "redis"`},
		{"sqlite ok", DatabaseConfig{Driver: "sqlite", DSN: "data/docintel.db"}, ""},
		{"postgres without dsn", DatabaseConfig{Driver: "postgres"}, `database.dsn is required for driver "postgres"`},
		{"unknown driver", DatabaseConfig{Driver: "mongo"}, "database.driver must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database = tt.db

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_AIProvider(t *testing.T) {
	tests := []struct {
		name    string
		ai      AIConfig
		wantErr bool
	}{
		{"none", AIConfig{Provider: "none"}, false},
		{"openai with key", AIConfig{Provider: "openai", APIKey: "sk-test"}, false},
		{"anthropic with key", AIConfig{Provider: "anthropic", APIKey: "sk-ant"}, false},
		{"openai without key", AIConfig{Provider: "openai"}, true},
		{"unknown", AIConfig{Provider: "gemini", APIKey: "k"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.AI = tt.ai

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_SearchLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultLimit = 300

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when default limit exceeds max limit")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 75 {
		t.Errorf("expected WriteTimeoutSec=75, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Driver != DriverValkey {
		t.Errorf("expected Driver=valkey, got %q", cfg.Database.Driver)
	}
	if cfg.AI.Provider != ProviderNone || cfg.AI.Enabled() {
		t.Errorf("expected AI disabled by default, got %q", cfg.AI.Provider)
	}
	if cfg.AI.ExtractionTimeoutSec != 60 || cfg.AI.ExpansionTimeoutSec != 3 {
		t.Errorf("unexpected AI timeouts: %d / %d", cfg.AI.ExtractionTimeoutSec, cfg.AI.ExpansionTimeoutSec)
	}
	if cfg.AI.MaxParallelExpansions != 4 {
		t.Errorf("expected MaxParallelExpansions=4, got %d", cfg.AI.MaxParallelExpansions)
	}
	if cfg.AI.ExpansionCacheTTLHrs != 168 {
		t.Errorf("expected ExpansionCacheTTLHrs=168, got %d", cfg.AI.ExpansionCacheTTLHrs)
	}
	if cfg.Classify.MinTextLength != 10 || cfg.Classify.DescriptionLimit != 500 {
		t.Errorf("unexpected classify defaults: %+v", cfg.Classify)
	}
	if cfg.Search.DefaultLimit != 50 || cfg.Search.MaxLimit != 200 || cfg.Search.MaxCandidates != 5000 {
		t.Errorf("unexpected search defaults: %+v", cfg.Search)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{Driver: "sqlite", ReadinessTimeout: 15},
		AI:       AIConfig{Provider: "openai", ExpansionTimeoutSec: 5},
		Classify: ClassifyConfig{MinTextLength: 20},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected Driver=sqlite, got %q", cfg.Database.Driver)
	}
	if cfg.AI.ExpansionTimeoutSec != 5 {
		t.Errorf("expected ExpansionTimeoutSec=5, got %d", cfg.AI.ExpansionTimeoutSec)
	}
	if cfg.Classify.MinTextLength != 20 {
		t.Errorf("expected MinTextLength=20, got %d", cfg.Classify.MinTextLength)
	}
}

func TestIsKV(t *testing.T) {
	for driver, want := range map[string]bool{"valkey": true, "redis": true, "sqlite": false, "postgres": false} {
		if got := (DatabaseConfig{Driver: driver}).IsKV(); got != want {
			t.Errorf("IsKV(%q) = %v, want %v", driver, got, want)
		}
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DOCINTEL_TEST_KEY", "sk-live")
	t.Setenv("DOCINTEL_TEST_EMPTY", "")

	in := "key: ${DOCINTEL_TEST_KEY}\nport: ${DOCINTEL_TEST_PORT_UNSET:-8080}\nempty: ${DOCINTEL_TEST_EMPTY:-fallback}\nnone: ${DOCINTEL_TEST_NONE_UNSET}"
	want := "key: sk-live\nport: 8080\nempty: fallback\nnone: "

	if got := string(expandEnvVars([]byte(in))); got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestReadOptional(t *testing.T) {
	data, err := ReadOptional("")
	if err != nil || data != nil {
		t.Fatalf("empty path: data=%v err=%v", data, err)
	}

	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("rules: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	data, err = ReadOptional(path)
	if err != nil || string(data) != "rules: []\n" {
		t.Fatalf("data=%q err=%v", data, err)
	}

	if _, err := ReadOptional(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.HTTP.Port == 0 {
		t.Error("expected port from config/local.yaml")
	}
}
