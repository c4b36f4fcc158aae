package news

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/inesalsa/politicool/internal/llm"
	"github.com/inesalsa/politicool/internal/store"
)

const cacheKey = "politicool:news:feed"

// Service assembles the categorized news feed: NewsAPI fetch, generated
// summaries, article persistence for question ingestion, and a redis
// day-cache in front of it all. Every degradation path returns what it
// has; the feed being empty or stale never fails a caller.
type Service struct {
	cfg      Config
	client   *Client
	provider llm.Provider
	articles store.ArticleRepo
	cache    *redis.Client
	log      *zap.Logger
}

// NewService wires a Service. The redis cache is enabled only when
// cfg.RedisAddr is set.
func NewService(cfg Config, provider llm.Provider, articles store.ArticleRepo, log *zap.Logger) *Service {
	s := &Service{
		cfg:      cfg,
		client:   NewClient(cfg),
		provider: provider,
		articles: articles,
		log:      log,
	}
	if cfg.RedisAddr != "" {
		s.cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	return s
}

// Feed returns the cached feed, fetching and caching a fresh one on a
// miss. Categories filters the result when non-empty.
func (s *Service) Feed(ctx context.Context, categories []string) ([]Article, error) {
	feed := s.fromCache(ctx)
	if feed == nil {
		var err error
		feed, err = s.Refresh(ctx)
		if err != nil {
			return nil, err
		}
	}
	return filterByCategory(feed, categories), nil
}

// Refresh fetches every category, summarizes the articles, persists
// them for question ingestion, and rewrites the cache. Per-category
// fetch failures are logged and skipped so one broken query does not
// empty the whole feed.
func (s *Service) Refresh(ctx context.Context) ([]Article, error) {
	if s.cfg.APIKey == "" {
		s.log.Warn("news api key not configured, serving empty feed")
		return nil, nil
	}

	var feed []Article
	for category := range searchQueries {
		articles, err := s.client.FetchCategory(ctx, category)
		if err != nil {
			s.log.Warn("news fetch failed",
				zap.String("category", category),
				zap.Error(err),
			)
			continue
		}
		for i := range articles {
			articles[i].Summary = Summarize(ctx, s.provider, &articles[i])
			s.persist(ctx, &articles[i])
		}
		feed = append(feed, articles...)
	}

	s.toCache(ctx, feed)
	s.log.Info("news feed refreshed", zap.Int("articles", len(feed)))
	return feed, nil
}

func (s *Service) persist(ctx context.Context, a *Article) {
	if s.articles == nil {
		return
	}
	row := &store.Article{
		Title:       a.Title,
		Content:     a.Content,
		URL:         a.URL,
		Category:    a.Category,
		PublishedAt: a.PublishedAt,
	}
	if err := s.articles.Upsert(ctx, row); err != nil {
		s.log.Warn("article persist failed", zap.String("url", a.URL), zap.Error(err))
	}
}

// fromCache returns the cached feed or nil on miss or cache trouble.
func (s *Service) fromCache(ctx context.Context) []Article {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		s.log.Warn("news cache read failed", zap.Error(err))
		return nil
	}

	var feed []Article
	if err := json.Unmarshal(data, &feed); err != nil {
		s.log.Warn("news cache entry corrupt", zap.Error(err))
		return nil
	}
	return feed
}

func (s *Service) toCache(ctx context.Context, feed []Article) {
	if s.cache == nil || len(feed) == 0 {
		return
	}
	data, err := json.Marshal(feed)
	if err != nil {
		s.log.Warn("news cache encode failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, cacheKey, data, s.cfg.CacheTTL).Err(); err != nil {
		s.log.Warn("news cache write failed", zap.Error(err))
	}
}

func filterByCategory(feed []Article, categories []string) []Article {
	if len(categories) == 0 {
		return feed
	}
	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[strings.ToLower(strings.TrimSpace(c))] = true
	}

	var out []Article
	for _, a := range feed {
		if wanted[strings.ToLower(a.Category)] {
			out = append(out, a)
		}
	}
	return out
}
