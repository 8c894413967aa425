package expand

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type mockSuggester struct {
	mu      sync.Mutex
	fn      func(ctx context.Context, phrase string) ([]string, error)
	calls   []string
	current atomic.Int32
	peak    atomic.Int32
}

func (m *mockSuggester) Suggest(ctx context.Context, phrase string) ([]string, error) {
	n := m.current.Add(1)
	defer m.current.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	m.mu.Lock()
	m.calls = append(m.calls, phrase)
	m.mu.Unlock()
	return m.fn(ctx, phrase)
}

func contains(terms []string, t string) bool {
	for _, x := range terms {
		if x == t {
			return true
		}
	}
	return false
}

func TestExpand_Dictionary(t *testing.T) {
	svc := New(nil, nil, Options{})

	got := svc.Expand(context.Background(), "Driver’s  License")
	want := []string{"driver's license", "drivers license", "driver license", "dl"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}

	got = svc.Expand(context.Background(), "registration")
	want = []string{"registration", "vehicle registration", "car registration", "auto registration", "reg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

func TestExpand_Precision(t *testing.T) {
	svc := New(nil, nil, Options{})
	license := svc.Expand(context.Background(), "driver's license")
	registration := svc.Expand(context.Background(), "vehicle registration")

	for _, term := range license {
		if contains(registration, term) {
			t.Errorf("term %q shared by driver's license and vehicle registration", term)
		}
	}
	for _, term := range registration {
		if contains(license, term) {
			t.Errorf("term %q shared by vehicle registration and driver's license", term)
		}
	}
}

func TestExpand_OriginalAlwaysFirst(t *testing.T) {
	svc := New(nil, nil, Options{})
	got := svc.Expand(context.Background(), "DL")
	if got[0] != "dl" {
		t.Errorf("first term = %q, want dl", got[0])
	}
	if len(got) != 4 {
		t.Errorf("expected the whole license group, got %v", got)
	}
}

func TestExpand_UnknownPhrases(t *testing.T) {
	svc := New(nil, nil, Options{})
	tests := []struct {
		in   string
		want []string
	}{
		{"Boats", []string{"boats", "boat"}},
		{"boat", []string{"boat", "boats"}},
		{"batteries", []string{"batteries", "battery"}},
		{"battery", []string{"battery", "batteries"}},
		{"glass", []string{"glass", "glasses"}},
		{"key", []string{"key"}},
		{"roof repair", []string{"roof repair"}},
		{"   ", nil},
	}
	for _, tt := range tests {
		if got := svc.Expand(context.Background(), tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Expand(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPluralToggle(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"glasses", "glass", true},
		{"boxes", "box", true},
		{"taxes", "tax", true},
		{"receipts", "receipt", true},
		{"licenses", "license", true},
		{"invoice", "invoices", true},
		{"policies", "policy", true},
		{"church", "churches", true},
		{"analysis", "", false},
		{"status", "", false},
		{"bus", "", false},
		{"car wash", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := PluralToggle(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("PluralToggle(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExpand_AISuccess(t *testing.T) {
	ai := &mockSuggester{fn: func(_ context.Context, _ string) ([]string, error) {
		return []string{"Boat Title", "boat", "  ", "vessel"}, nil
	}}
	svc := New(ai, nil, Options{})

	got := svc.Expand(context.Background(), "boat")
	want := []string{"boat", "boat title", "vessel"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

func TestExpand_AIFallbacks(t *testing.T) {
	cases := map[string]func(ctx context.Context, phrase string) ([]string, error){
		"error": func(context.Context, string) ([]string, error) { return nil, errors.New("503") },
		"empty": func(context.Context, string) ([]string, error) { return []string{}, nil },
		"timeout": func(ctx context.Context, _ string) ([]string, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			svc := New(&mockSuggester{fn: fn}, nil, Options{Timeout: 20 * time.Millisecond})
			got := svc.Expand(context.Background(), "registration")
			if len(got) != 5 || got[1] != "vehicle registration" {
				t.Errorf("expected dictionary fallback, got %v", got)
			}
		})
	}
}

func TestExpand_CanceledSkipsAI(t *testing.T) {
	ai := &mockSuggester{fn: func(context.Context, string) ([]string, error) { return []string{"x"}, nil }}
	svc := New(ai, nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := svc.Expand(ctx, "receipt")
	if !contains(got, "proof of purchase") {
		t.Errorf("expected dictionary result, got %v", got)
	}
	if len(ai.calls) != 0 {
		t.Errorf("AI should not be called on a canceled context")
	}
}

func TestExpandAll_MergesInOrderWithLimit(t *testing.T) {
	ai := &mockSuggester{fn: func(_ context.Context, phrase string) ([]string, error) {
		time.Sleep(5 * time.Millisecond)
		if phrase == "vin" {
			return nil, errors.New("down")
		}
		return []string{phrase + " copy", "shared"}, nil
	}}
	svc := New(ai, nil, Options{MaxParallel: 2})

	got := svc.ExpandAll(context.Background(), []string{"alpha", "vin", "beta", "gamma", "delta"})
	want := []string{
		"alpha", "alpha copy", "shared",
		"vin", "vehicle identification number",
		"beta", "beta copy",
		"gamma", "gamma copy",
		"delta", "delta copy",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandAll = %v, want %v", got, want)
	}
	if peak := ai.peak.Load(); peak > 2 {
		t.Errorf("concurrency peak = %d, want <= 2", peak)
	}
}

func TestExpandAll_Empty(t *testing.T) {
	if got := New(nil, nil, Options{}).ExpandAll(context.Background(), nil); len(got) != 0 {
		t.Errorf("expected no terms, got %v", got)
	}
}
