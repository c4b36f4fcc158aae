package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// QuestionRepo exposes the question catalog. The quiz core only reads
// it; writes come from the ingestion collaborator and admin curation.
type QuestionRepo interface {
	// ValidByCategory returns all valid questions of a category
	// (case-insensitive match).
	ValidByCategory(ctx context.Context, category string) ([]Question, error)

	// NewestValid returns up to limit valid questions of the category
	// whose IDs are not in exclude, newest first.
	NewestValid(ctx context.Context, category string, exclude []uint, limit int) ([]Question, error)

	// RandomValid returns up to limit valid questions of the category
	// in random order, excluding IDs in exclude. When only is non-empty
	// the result is further restricted to those IDs.
	RandomValid(ctx context.Context, category string, exclude, only []uint, limit int) ([]Question, error)

	// HasValidRemaining reports whether the category still holds at
	// least one valid question outside exclude.
	HasValidRemaining(ctx context.Context, category string, exclude []uint) (bool, error)

	// Create inserts a new (unvalidated) question.
	Create(ctx context.Context, q *Question) error

	// FindSimilar returns the first valid-or-pending question whose
	// text contains fragment (case-insensitive), or nil.
	FindSimilar(ctx context.Context, fragment string) (*Question, error)

	// Unvalidated returns questions awaiting admin curation.
	Unvalidated(ctx context.Context) ([]Question, error)

	// Validate marks a question admin-approved.
	Validate(ctx context.Context, id uint) error

	// Refuse marks a question rejected without deleting it.
	Refuse(ctx context.Context, id uint) error

	// Delete removes a question outright.
	Delete(ctx context.Context, id uint) error
}

type questionRepo struct {
	db *gorm.DB
}

func (r *questionRepo) ValidByCategory(ctx context.Context, category string) ([]Question, error) {
	var questions []Question
	err := r.db.WithContext(ctx).
		Where("LOWER(category) = ? AND valid = ?", strings.ToLower(category), true).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("load questions for %q: %w", category, err)
	}
	return questions, nil
}

func (r *questionRepo) NewestValid(ctx context.Context, category string, exclude []uint, limit int) ([]Question, error) {
	q := r.validInCategory(ctx, category, exclude)

	var questions []Question
	if err := q.Order("id DESC").Limit(limit).Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("load newest questions: %w", err)
	}
	return questions, nil
}

func (r *questionRepo) RandomValid(ctx context.Context, category string, exclude, only []uint, limit int) ([]Question, error) {
	q := r.validInCategory(ctx, category, exclude)
	if len(only) > 0 {
		q = q.Where("id IN ?", only)
	}

	var questions []Question
	if err := q.Order("RANDOM()").Limit(limit).Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("load random questions: %w", err)
	}
	return questions, nil
}

func (r *questionRepo) HasValidRemaining(ctx context.Context, category string, exclude []uint) (bool, error) {
	var count int64
	if err := r.validInCategory(ctx, category, exclude).Model(&Question{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count remaining questions: %w", err)
	}
	return count > 0, nil
}

// validInCategory builds the shared valid-question filter. An empty
// exclude list must not emit "NOT IN (NULL)", which matches nothing.
func (r *questionRepo) validInCategory(ctx context.Context, category string, exclude []uint) *gorm.DB {
	q := r.db.WithContext(ctx).
		Where("LOWER(category) = ? AND valid = ?", strings.ToLower(category), true)
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}
	return q
}

func (r *questionRepo) Create(ctx context.Context, question *Question) error {
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (r *questionRepo) FindSimilar(ctx context.Context, fragment string) (*Question, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, nil
	}

	var q Question
	err := r.db.WithContext(ctx).
		Where("LOWER(text) LIKE ?", "%"+strings.ToLower(fragment)+"%").
		First(&q).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("similarity lookup: %w", err)
	}
	return &q, nil
}

func (r *questionRepo) Unvalidated(ctx context.Context) ([]Question, error) {
	var questions []Question
	err := r.db.WithContext(ctx).
		Where("valid = ? AND refused = ?", false, false).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("load unvalidated questions: %w", err)
	}
	return questions, nil
}

func (r *questionRepo) Validate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&Question{}).Where("id = ?", id).
		Updates(map[string]any{"valid": true, "validated_at": gorm.Expr("CURRENT_TIMESTAMP")})
	if res.Error != nil {
		return fmt.Errorf("validate question %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *questionRepo) Refuse(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&Question{}).Where("id = ?", id).
		Update("refused", true)
	if res.Error != nil {
		return fmt.Errorf("refuse question %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *questionRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Question{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete question %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
