package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResponseRepo persists per-question answers with the active/historical
// lifecycle. It is the sole writer of Response rows.
type ResponseRepo interface {
	// Active returns the user's active responses, question preloaded.
	Active(ctx context.Context, userID uint) ([]Response, error)

	// ActiveByStatus returns active responses filtered by status.
	ActiveByStatus(ctx context.Context, userID uint, status string) ([]Response, error)

	// Historical returns up to limit deactivated answered responses,
	// newest first, question preloaded. limit <= 0 means unlimited.
	Historical(ctx context.Context, userID uint, limit int) ([]Response, error)

	// Save records an answer or skip for (user, question). Idempotent:
	// when an active row already exists it is updated in place, so the
	// active-row count per (user, question) never exceeds one.
	Save(ctx context.Context, userID, questionID uint, text, status string) error

	// DeactivateAll flips every active response of the user to
	// historical and returns how many rows were deactivated. Older
	// historical rows for the same question are dropped first so the
	// (user, question, active) uniqueness constraint holds.
	DeactivateAll(ctx context.Context, userID uint) (int64, error)
}

type responseRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

func (r *responseRepo) Active(ctx context.Context, userID uint) ([]Response, error) {
	var responses []Response
	err := r.db.WithContext(ctx).
		Preload("Question").
		Where("user_id = ? AND active = ?", userID, true).
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("load active responses: %w", err)
	}
	return responses, nil
}

func (r *responseRepo) ActiveByStatus(ctx context.Context, userID uint, status string) ([]Response, error) {
	var responses []Response
	err := r.db.WithContext(ctx).
		Preload("Question").
		Where("user_id = ? AND active = ? AND status = ?", userID, true, status).
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("load active %s responses: %w", status, err)
	}
	return responses, nil
}

func (r *responseRepo) Historical(ctx context.Context, userID uint, limit int) ([]Response, error) {
	q := r.db.WithContext(ctx).
		Preload("Question").
		Where("user_id = ? AND active = ? AND status = ?", userID, false, StatusAnswered).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var responses []Response
	if err := q.Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("load historical responses: %w", err)
	}
	return responses, nil
}

func (r *responseRepo) Save(ctx context.Context, userID, questionID uint, text, status string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Response
		err := tx.Where("user_id = ? AND question_id = ? AND active = ?", userID, questionID, true).
			First(&existing).Error

		switch {
		case err == nil:
			existing.Text = text
			existing.Status = status
			existing.UpdatedAt = time.Now().UTC()
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("update active response: %w", err)
			}
			return nil

		case err == gorm.ErrRecordNotFound:
			resp := Response{
				UserID:     userID,
				QuestionID: questionID,
				Text:       text,
				Status:     status,
				Active:     true,
			}
			if err := tx.Create(&resp).Error; err != nil {
				return fmt.Errorf("insert response: %w", err)
			}
			return nil

		default:
			return fmt.Errorf("look up active response: %w", err)
		}
	})
}

func (r *responseRepo) DeactivateAll(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active []Response
		if err := tx.Where("user_id = ? AND active = ?", userID, true).Find(&active).Error; err != nil {
			return fmt.Errorf("load active responses: %w", err)
		}

		for _, resp := range active {
			// Only one historical row per (user, question) is retained.
			if err := tx.Where("user_id = ? AND question_id = ? AND active = ?",
				userID, resp.QuestionID, false).Delete(&Response{}).Error; err != nil {
				return fmt.Errorf("drop stale historical row: %w", err)
			}

			if err := tx.Model(&Response{}).Where("id = ?", resp.ID).
				Updates(map[string]any{"active": false, "updated_at": time.Now().UTC()}).Error; err != nil {
				return fmt.Errorf("deactivate response %d: %w", resp.ID, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.log.Info("responses deactivated",
		zap.Uint("user_id", userID),
		zap.Int64("count", count),
	)
	return count, nil
}
