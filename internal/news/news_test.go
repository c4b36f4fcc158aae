package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inesalsa/politicool/internal/llm"
)

func TestCleanSummary(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"plain summary untouched",
			"Le gouvernement annonce une réforme. Elle entre en vigueur en mars.",
			"Le gouvernement annonce une réforme. Elle entre en vigueur en mars.",
		},
		{
			"intro prefix stripped",
			"Voici un résumé de l'article : Le gouvernement annonce une réforme.",
			"Le gouvernement annonce une réforme.",
		},
		{
			"refusal replaced",
			"Je ne peux pas résumer cet article.",
			summaryUnavailable,
		},
		{
			"english refusal replaced",
			"I cannot provide a summary of this article.",
			summaryUnavailable,
		},
		{"empty replaced", "   ", summaryUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanSummary(tt.in); got != tt.want {
				t.Errorf("cleanSummary(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSummarizeUsesProvider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Un résumé concis en trois phrases."})
	a := &Article{Title: "Titre", Content: "Contenu complet de l'article."}

	got := Summarize(context.Background(), mock, a)
	if got != "Un résumé concis en trois phrases." {
		t.Errorf("summary = %q", got)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("call count = %d", mock.CallCount())
	}
}

func TestSummarizeDegradesOnProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue behaves as unavailable
	a := &Article{Title: "Titre", Content: "Contenu de l'article."}

	if got := Summarize(context.Background(), mock, a); got != summaryUnavailable {
		t.Errorf("summary = %q, want unavailable message", got)
	}
}

func TestFetchCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("language") != "fr" {
			t.Errorf("language = %q, want fr", r.URL.Query().Get("language"))
		}
		if r.URL.Query().Get("apiKey") != "test-key" {
			t.Errorf("api key not forwarded")
		}
		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"source": {"name": "Le Monde"}, "title": "Titre un", "description": "Desc", "url": "https://example.org/1", "publishedAt": "2026-08-29"},
				{"source": {"name": "Le Figaro"}, "title": "", "url": "https://example.org/2"}
			]
		}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL
	client := NewClient(cfg)

	articles, err := client.FetchCategory(context.Background(), "Économie")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("articles = %d, want 1 (untitled entry dropped)", len(articles))
	}
	if articles[0].Source != "Le Monde" || articles[0].Category != "Économie" {
		t.Errorf("article = %+v", articles[0])
	}
}

func TestFetchCategoryAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "error", "message": "apiKeyInvalid"}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "bad"
	cfg.BaseURL = srv.URL

	if _, err := NewClient(cfg).FetchCategory(context.Background(), "Santé"); err == nil {
		t.Fatal("expected error for api error status")
	}
}

func TestFilterByCategory(t *testing.T) {
	feed := []Article{
		{Title: "a", Category: "Économie"},
		{Title: "b", Category: "Santé"},
		{Title: "c", Category: "Économie"},
	}

	got := filterByCategory(feed, []string{"économie"})
	if len(got) != 2 {
		t.Fatalf("filtered = %d, want 2", len(got))
	}
	if got := filterByCategory(feed, nil); len(got) != 3 {
		t.Errorf("nil filter should pass everything, got %d", len(got))
	}
}
