package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Config drives the NewsAPI client and the summary cache.
type Config struct {
	// APIKey authenticates against NewsAPI. Empty disables fetching;
	// callers get an empty feed instead of an error.
	APIKey string

	// BaseURL of the NewsAPI v2 endpoint.
	BaseURL string

	// RedisAddr enables the day-cache when non-empty.
	RedisAddr string

	// CacheTTL bounds how long a fetched feed is served from cache.
	CacheTTL time.Duration

	// PageSize caps articles fetched per category.
	PageSize int

	// Timeout bounds one HTTP fetch.
	Timeout time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://newsapi.org/v2",
		CacheTTL: 24 * time.Hour,
		PageSize: 5,
		Timeout:  15 * time.Second,
	}
}

// ConfigFromEnv loads settings from POLITICOOL_* environment variables,
// falling back to defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("POLITICOOL_NEWSAPI_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("POLITICOOL_NEWSAPI_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("POLITICOOL_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	return cfg
}

// Article is one feed entry, enriched with a generated summary.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Category    string `json:"category"`
	PublishedAt string `json:"published_at"`
	Summary     string `json:"summary"`
}

// searchQueries maps quiz categories to French search terms. The feed
// mirrors the quiz structure so dashboard filtering by user interest
// lines up with quiz categories.
var searchQueries = map[string]string{
	"Affaires internationales": "diplomatie OR international OR conflit",
	"Économie":                 "économie OR inflation OR budget",
	"Environnement":            "climat OR environnement OR énergie",
	"Éducation":                "éducation OR école OR université",
	"Santé":                    "santé OR hôpital OR sécurité sociale",
	"Justice":                  "justice OR tribunal OR loi",
	"Culture":                  "culture OR cinéma OR patrimoine",
	"Technologie":              "technologie OR numérique OR intelligence artificielle",
}

type apiResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Client fetches French-language articles from NewsAPI.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchCategory returns the latest articles matching one quiz
// category's search terms.
func (c *Client) FetchCategory(ctx context.Context, category string) ([]Article, error) {
	query, ok := searchQueries[category]
	if !ok {
		return nil, fmt.Errorf("no search terms for category %q", category)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "fr")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprintf("%d", c.cfg.PageSize))
	params.Set("apiKey", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build news request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch news for %q: %w", category, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read news response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news api status %d for %q", resp.StatusCode, category)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}
	if parsed.Status != "ok" {
		return nil, fmt.Errorf("news api error: %s", parsed.Message)
	}

	articles := make([]Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			Source:      a.Source.Name,
			Category:    category,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}
