package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepo persists fetched news articles. Articles are keyed by
// URL; refetching the same feed is a no-op.
type ArticleRepo interface {
	// Upsert inserts the article or leaves the existing row for the
	// same URL untouched. The article's ID is filled in either way.
	Upsert(ctx context.Context, a *Article) error

	// Recent returns up to limit articles, newest first.
	Recent(ctx context.Context, limit int) ([]Article, error)

	// WithoutQuestions returns articles no question was generated
	// from yet, oldest first so the backlog drains in order.
	WithoutQuestions(ctx context.Context, limit int) ([]Article, error)
}

type articleRepo struct {
	db *gorm.DB
}

func (r *articleRepo) Upsert(ctx context.Context, a *Article) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoNothing: true,
	}).Create(a).Error
	if err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}

	if a.ID == 0 {
		// Conflict path: resolve the existing row's ID.
		var existing Article
		if err := r.db.WithContext(ctx).Where("url = ?", a.URL).First(&existing).Error; err != nil {
			return fmt.Errorf("resolve article by url: %w", err)
		}
		a.ID = existing.ID
	}
	return nil
}

func (r *articleRepo) Recent(ctx context.Context, limit int) ([]Article, error) {
	var articles []Article
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("load recent articles: %w", err)
	}
	return articles, nil
}

func (r *articleRepo) WithoutQuestions(ctx context.Context, limit int) ([]Article, error) {
	var articles []Article
	q := r.db.WithContext(ctx).
		Where("id NOT IN (?)", r.db.Model(&Question{}).Select("article_id").Where("article_id IS NOT NULL")).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("load unprocessed articles: %w", err)
	}
	return articles, nil
}
