package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenAIProviderRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{}, 0); err == nil {
		t.Fatal("expected an error without an API key")
	}
}

func TestOpenAIProviderBoundsCallDuration(t *testing.T) {
	// The gateway hangs longer than the configured timeout; the call
	// must be abandoned at the HTTP client, not wait for the server.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL}, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	start := time.Now()
	_, err = p.Generate(context.Background(), Request{Prompt: "bonjour"})
	elapsed := time.Since(start)

	var timeout *ErrTimeout
	if !errors.As(err, &timeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if elapsed > time.Second {
		t.Errorf("call ran %s, not bounded by the 50ms timeout", elapsed)
	}
}

func TestOpenAIProviderMapsAPIErrorToBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited", "type": "requests"}}`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL}, time.Second)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	_, err = p.Generate(context.Background(), Request{Prompt: "bonjour"})
	var bad *ErrBadStatus
	if !errors.As(err, &bad) {
		t.Fatalf("error = %v, want ErrBadStatus", err)
	}
	if bad.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", bad.StatusCode)
	}
}
