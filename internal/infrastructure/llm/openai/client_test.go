package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/infrastructure/resilience"
)

func fastExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	})
}

func TestGenerateSendsChatRequest(t *testing.T) {
	var captured chatRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  the analysis  "}}]}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, APIKey: "sk-test", Model: "gpt-4o"})
	content, err := client.Generate(context.Background(), "You are a legal expert.", "Summarize.", domain.EngineParams{Temperature: 0.7, MaxOutputTokens: 250})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if content != "the analysis" {
		t.Fatalf("expected trimmed content, got %q", content)
	}
	if auth != "Bearer sk-test" {
		t.Fatalf("unexpected authorization header: %q", auth)
	}
	if captured.Model != "gpt-4o" {
		t.Fatalf("unexpected model: %q", captured.Model)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[0].Content != "You are a legal expert." {
		t.Fatalf("unexpected system message: %+v", captured.Messages[0])
	}
	if captured.Messages[1].Role != "user" || captured.Messages[1].Content != "Summarize." {
		t.Fatalf("unexpected user message: %+v", captured.Messages[1])
	}
	if captured.Temperature != 0.7 || captured.MaxTokens != 250 {
		t.Fatalf("params not forwarded: %+v", captured)
	}
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	client := New(Config{BaseURL: "http://localhost:0", Model: "gpt-4o"})
	_, err := client.Generate(context.Background(), "persona", "prompt", domain.EngineParams{})
	if !domain.IsKind(err, domain.ErrEngineFailed) {
		t.Fatalf("expected engine failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("expected configuration hint in error, got %v", err)
	}
}

func TestGenerateDoesNotRetryAuthError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, APIKey: "sk-bad", Model: "gpt-4o", Executor: fastExecutor()})
	_, err := client.Generate(context.Background(), "persona", "prompt", domain.EngineParams{})
	if !domain.IsKind(err, domain.ErrEngineFailed) {
		t.Fatalf("expected engine failure, got %v", err)
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("auth error must not be temporary: %v", err)
	}
	if calls != 1 {
		t.Fatalf("auth error must not be retried, got %d calls", calls)
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestGenerateRetriesServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "upstream overload", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"recovered"}}]}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, APIKey: "sk-test", Model: "gpt-4o", Executor: fastExecutor()})
	content, err := client.Generate(context.Background(), "persona", "prompt", domain.EngineParams{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if content != "recovered" {
		t.Fatalf("unexpected content: %q", content)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestGenerateRateLimitIsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, APIKey: "sk-test", Model: "gpt-4o", Executor: fastExecutor()})
	_, err := client.Generate(context.Background(), "persona", "prompt", domain.EngineParams{})
	if !domain.IsKind(err, domain.ErrEngineFailed) {
		t.Fatalf("expected engine failure, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("rate limit must carry the temporary kind: %v", err)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, APIKey: "sk-test", Model: "gpt-4o"})
	_, err := client.Generate(context.Background(), "persona", "prompt", domain.EngineParams{})
	if !domain.IsKind(err, domain.ErrEngineFailed) {
		t.Fatalf("expected engine failure for empty choices, got %v", err)
	}
}
