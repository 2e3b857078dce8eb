package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/carescreen/internal/store"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}
}

func TestRetry(t *testing.T) {
	down := &ErrProviderUnavailable{Err: errors.New("down")}
	invalid := &ErrInvalidResponse{Err: errors.New("bad")}

	tests := []struct {
		name      string
		responses []MockResponse
		wantCalls int
		wantErr   bool
	}{
		{"first try", []MockResponse{{Content: json.RawMessage(`{}`)}}, 1, false},
		{"transient then ok", []MockResponse{{Err: down}, {Content: json.RawMessage(`{}`)}}, 2, false},
		{"rate limit then ok", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, {Content: json.RawMessage(`{}`)}}, 2, false},
		{"all fail", []MockResponse{{Err: down}, {Err: down}, {Err: down}, {Err: down}}, 3, true},
		{"invalid retried once", []MockResponse{{Err: invalid}, {Err: invalid}, {Content: json.RawMessage(`{}`)}}, 2, true},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, {Content: json.RawMessage(`{}`)}}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_StopsOnCancel(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	cfg := fastRetry()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
}

type fakeSink struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeSink) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, d)
	return f.err
}

func TestRecording(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":true}`), Usage: Usage{InputTokens: 12, OutputTokens: 3}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	sink := &fakeSink{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := WithRecording(mock, "mock", sink, logger)

	ctx := WithPurpose(context.Background(), "wellness-suggestions")
	req := UserPrompt("be brief", "hello")
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected error")
	}

	if len(sink.events) != 2 {
		t.Fatalf("events = %d, want 2", len(sink.events))
	}
	ok, failed := sink.events[0], sink.events[1]
	if !ok.Success || ok.Purpose != "wellness-suggestions" || ok.InputTokens != 12 || ok.ResponseBody != `{"ok":true}` {
		t.Errorf("success event = %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, "[system]\nbe brief") || !strings.Contains(ok.RequestBody, "[user]\nhello") {
		t.Errorf("request body = %q", ok.RequestBody)
	}
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("failure event = %+v", failed)
	}
}

func TestRecording_SinkErrorDoesNotFailCall(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	sink := &fakeSink{err: errors.New("disk full")}
	p := WithRecording(mock, "mock", sink, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("sink error leaked: %v", err)
	}
}

func TestRecording_NilSink(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRecording(mock, "mock", nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatal(err)
	}
}

func TestPurposeFrom(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Errorf("got %q", got)
	}
	if got := PurposeFrom(WithPurpose(context.Background(), "x")); got != "x" {
		t.Errorf("got %q", got)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{context.DeadlineExceeded, "timeout"},
		{&ErrRateLimit{}, "rate_limit"},
		{&ErrInvalidResponse{}, "invalid_response"},
		{&ErrMaxTokensExceeded{}, "max_tokens"},
		{&ErrProviderUnavailable{}, "unavailable"},
		{errors.New("x"), "error"},
	}
	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"items":[]}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: listSchema()})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if len(mock.Calls()) != 1 {
		t.Fatalf("calls = %d", len(mock.Calls()))
	}
}

func TestPricing(t *testing.T) {
	c, ok := LookupCost("gpt-4o-mini")
	if !ok {
		t.Fatal("gpt-4o-mini should be priced")
	}
	if got := c.Cost(1_000_000, 1_000_000); got != 0.75 {
		t.Errorf("cost = %v, want 0.75", got)
	}
	if _, ok := LookupCost("google/gemini-2.0-flash-001"); !ok {
		t.Error("openrouter id should resolve by model part")
	}
	if _, ok := LookupCost("mock"); ok {
		t.Error("mock should not be priced")
	}
}
