package logger

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	tests := []struct {
		env       string
		wantLevel zapcore.Level
	}{
		{"prod", zapcore.InfoLevel},
		{"local", zapcore.DebugLevel},
		{"dev", zapcore.DebugLevel},
		{"docker", zapcore.DebugLevel},
		{"test", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			l, err := NewLogger(tt.env)
			if err != nil {
				t.Fatalf("NewLogger(%q): %v", tt.env, err)
			}
			if !l.Core().Enabled(tt.wantLevel) {
				t.Errorf("level %s should be enabled", tt.wantLevel)
			}
			if tt.wantLevel > zapcore.DebugLevel && l.Core().Enabled(tt.wantLevel-1) {
				t.Errorf("level %s should be disabled", tt.wantLevel-1)
			}
		})
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging"); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled with warn override")
	}

	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestContextLogger(t *testing.T) {
	base := zap.NewNop()
	fallback := zap.NewExample()

	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Error("expected fallback for empty context")
	}

	ctx := ContextWithLogger(context.Background(), base)
	if got := FromContext(ctx); got != base {
		t.Error("expected logger stored in context")
	}
	if got := FromContextOr(ctx, fallback); got != base {
		t.Error("context logger should win over fallback")
	}
}

func TestText(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	long := "Patient: Jane Roe, DOB 1980-02-03, diagnosis follows " + strings.Repeat("x", 200)
	l.Info("short", Text("q", "flu shot"))
	l.Info("long", Text("doc", long))

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	short, _ := entries[0].ContextMap()["q"].(map[string]any)
	if short["preview"] != "flu shot" || short["runes"] != 8 {
		t.Errorf("short text = %v", short)
	}

	doc, _ := entries[1].ContextMap()["doc"].(map[string]any)
	preview, _ := doc["preview"].(string)
	if doc["runes"] != len([]rune(long)) {
		t.Errorf("runes = %v, want %d", doc["runes"], len([]rune(long)))
	}
	if strings.Contains(preview, "diagnosis") || !strings.HasSuffix(preview, "…") {
		t.Errorf("preview leaks or is not truncated: %q", preview)
	}
}
