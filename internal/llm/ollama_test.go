package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOllamaGenerate(t *testing.T) {
	var gotReq ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaGenerateResponse{
			Model:    "llama3.2",
			Response: "1. Parti politique le plus proche:\nPS",
		})
	}))
	defer srv.Close()

	p, err := NewOllamaProvider(OllamaConfig{BaseURL: srv.URL, Model: "llama3.2"}, 5*time.Second)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{
		Prompt:      "analyse",
		Temperature: 0.3,
		MaxTokens:   1500,
		TopP:        0.9,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if resp.Text == "" {
		t.Fatal("expected non-empty response text")
	}
	if resp.Model != "llama3.2" {
		t.Errorf("model = %q, want llama3.2", resp.Model)
	}
	if gotReq.Stream {
		t.Error("stream must be disabled")
	}
	if gotReq.Temperature != 0.3 || gotReq.MaxTokens != 1500 || gotReq.TopP != 0.9 {
		t.Errorf("generation params not forwarded: %+v", gotReq)
	}
}

func TestOllamaGenerateBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p, _ := NewOllamaProvider(OllamaConfig{BaseURL: srv.URL}, 5*time.Second)
	_, err := p.Generate(context.Background(), Request{Prompt: "x"})

	var badStatus *ErrBadStatus
	if !errors.As(err, &badStatus) {
		t.Fatalf("expected ErrBadStatus, got %v", err)
	}
	if badStatus.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", badStatus.StatusCode)
	}
}

func TestOllamaGenerateEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "   "})
	}))
	defer srv.Close()

	p, _ := NewOllamaProvider(OllamaConfig{BaseURL: srv.URL}, 5*time.Second)
	_, err := p.Generate(context.Background(), Request{Prompt: "x"})

	var empty *ErrEmptyResponse
	if !errors.As(err, &empty) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestOllamaGenerateUnreachable(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p, _ := NewOllamaProvider(OllamaConfig{BaseURL: srv.URL}, time.Second)
	_, err := p.Generate(context.Background(), Request{Prompt: "x"})

	var unavail *ErrUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestOllamaGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p, _ := NewOllamaProvider(OllamaConfig{BaseURL: srv.URL}, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{Prompt: "x"})

	var timeout *ErrTimeout
	if !errors.As(err, &timeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
