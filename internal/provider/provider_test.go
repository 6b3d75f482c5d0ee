package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"horse.fit/lingonews/internal/config"
)

func TestOpenAIGenerateSendsDeterministicChatRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization header: %q", got)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["model"] != "gpt-test" {
			t.Errorf("unexpected model: %v", body["model"])
		}
		if temp, ok := body["temperature"].(float64); !ok || temp != 0 {
			t.Errorf("expected temperature 0, got %v", body["temperature"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Bonjour  "}}]}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("sk-test", "gpt-test", server.URL+"/v1", 5*time.Second)
	defer p.Close()

	got, err := p.Generate(context.Background(), "Translate hello")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "Bonjour" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestOpenAIGenerateMapsRateLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("sk-test", "", server.URL, time.Second)
	defer p.Close()

	_, err := p.Generate(context.Background(), "Translate hello")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Message != "Rate limit reached" || apiErr.Code != "rate_limit_exceeded" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestOpenAIGenerateReportsServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	p := NewOpenAIProvider("", "", server.URL, time.Second)
	defer p.Close()

	_, err := p.Generate(context.Background(), "Translate hello")
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, ErrRateLimited) {
		t.Fatalf("did not expect rate limit classification")
	}
	if !Transient(err) {
		t.Fatalf("expected 502 to be transient")
	}
}

func TestGeminiGenerateJoinsCandidateParts(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-test:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "g-key" {
			t.Errorf("unexpected api key header: %q", got)
		}

		var body generateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.GenerationConfig.Temperature != 0 {
			t.Errorf("expected temperature 0, got %v", body.GenerationConfig.Temperature)
		}
		if len(body.Contents) != 1 || body.Contents[0].Parts[0].Text != "Translate hola" {
			t.Errorf("unexpected contents: %+v", body.Contents)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello"},{"text":" world\n"}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	p := NewGeminiProvider("g-key", "models/gemini-test", server.URL, time.Second)
	defer p.Close()

	got, err := p.Generate(context.Background(), "Translate hola")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "Hello world" {
		t.Fatalf("unexpected output: %q", got)
	}
	if p.ModelName() != "gemini-test" {
		t.Fatalf("unexpected model name: %q", p.ModelName())
	}
}

func TestGeminiGenerateMapsResourceExhausted(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	p := NewGeminiProvider("g-key", "", server.URL, time.Second)
	defer p.Close()

	_, err := p.Generate(context.Background(), "Translate hola")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestGeminiGenerateRejectsBlockedPrompt(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	p := NewGeminiProvider("g-key", "", server.URL, time.Second)
	defer p.Close()

	if _, err := p.Generate(context.Background(), "Translate hola"); err == nil {
		t.Fatalf("expected blocked prompt error")
	}
}

func TestAPIErrorRateLimitedByCode(t *testing.T) {
	t.Parallel()

	err := &APIError{Provider: OpenAIName, StatusCode: 400, Code: "rate_limit_exceeded", Message: "slow down"}
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected code-based rate limit detection")
	}
	if Transient(err) {
		t.Fatalf("rate limits must not be transient")
	}
	if Transient(&APIError{Provider: OpenAIName, StatusCode: 401, Message: "bad key"}) {
		t.Fatalf("auth failures must not be transient")
	}
	if Transient(context.Canceled) {
		t.Fatalf("cancellation must not be transient")
	}
}

func TestRegistryResolvesDefault(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		TranslationProvider: "Gemini",
		OpenAIModel:         "gpt-test",
		GeminiModel:         "gemini-test",
		ProviderTimeout:     time.Second,
	}
	registry, err := NewRegistryFromConfig(cfg)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	defer registry.Close()

	if registry.DefaultProvider() != GeminiName {
		t.Fatalf("unexpected default provider: %q", registry.DefaultProvider())
	}

	generator, err := registry.Generator("")
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}
	if generator.Name() != GeminiName || generator.ModelName() != "gemini-test" {
		t.Fatalf("unexpected default generator: %s/%s", generator.Name(), generator.ModelName())
	}

	names := registry.ProviderNames()
	if len(names) != 2 || names[0] != GeminiName || names[1] != OpenAIName {
		t.Fatalf("unexpected provider names: %v", names)
	}

	if _, err := registry.Generator("mistral"); err == nil {
		t.Fatalf("expected unknown provider to fail")
	}
}

func TestRegistryFromConfigRejectsUnknownDefault(t *testing.T) {
	t.Parallel()

	_, err := NewRegistryFromConfig(&config.Config{TranslationProvider: "llama"})
	if err == nil {
		t.Fatalf("expected unknown default provider to fail")
	}
}
