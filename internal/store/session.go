package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Progress is the decoded form of a user's saved traversal state.
type Progress struct {
	CurrentCategory string
	Exhausted       []string
	InProgress      bool
	FollowUp        bool
}

// SessionRepo manages browser-session tokens and saved quiz progress.
// Progress is single-flight per user: one row, overwritten on every
// save, so a second browser tab shares rather than forks the traversal.
type SessionRepo interface {
	// SaveProgress upserts the user's traversal state.
	SaveProgress(ctx context.Context, userID uint, p Progress) error

	// GetProgress returns the saved state, or nil when none exists.
	GetProgress(ctx context.Context, userID uint) (*Progress, error)

	// ClearProgress removes the saved state (quiz completed or reset).
	// The follow-up flag survives inside a fresh row when keepFollowUp
	// is set, since it spans traversals.
	ClearProgress(ctx context.Context, userID uint, keepFollowUp bool) error

	// CreateToken mints a new opaque session token for the user.
	CreateToken(ctx context.Context, userID uint) (string, error)

	// UserIDByToken resolves a token, returning 0 when unknown.
	UserIDByToken(ctx context.Context, token string) (uint, error)

	// DeleteToken invalidates a session token.
	DeleteToken(ctx context.Context, token string) error
}

type sessionRepo struct {
	db *gorm.DB
}

func (r *sessionRepo) SaveProgress(ctx context.Context, userID uint, p Progress) error {
	exhausted, err := json.Marshal(p.Exhausted)
	if err != nil {
		return fmt.Errorf("encode exhausted categories: %w", err)
	}

	row := QuizProgress{
		UserID:          userID,
		CurrentCategory: p.CurrentCategory,
		ExhaustedJSON:   string(exhausted),
		InProgress:      p.InProgress,
		FollowUp:        p.FollowUp,
		UpdatedAt:       time.Now().UTC(),
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save quiz progress: %w", err)
	}
	return nil
}

func (r *sessionRepo) GetProgress(ctx context.Context, userID uint) (*Progress, error) {
	var row QuizProgress
	err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz progress: %w", err)
	}

	p := Progress{
		CurrentCategory: row.CurrentCategory,
		InProgress:      row.InProgress,
		FollowUp:        row.FollowUp,
	}
	if row.ExhaustedJSON != "" {
		if err := json.Unmarshal([]byte(row.ExhaustedJSON), &p.Exhausted); err != nil {
			return nil, fmt.Errorf("decode exhausted categories: %w", err)
		}
	}
	return &p, nil
}

func (r *sessionRepo) ClearProgress(ctx context.Context, userID uint, keepFollowUp bool) error {
	if !keepFollowUp {
		err := r.db.WithContext(ctx).Delete(&QuizProgress{}, "user_id = ?", userID).Error
		if err != nil {
			return fmt.Errorf("clear quiz progress: %w", err)
		}
		return nil
	}
	return r.SaveProgress(ctx, userID, Progress{FollowUp: true})
}

func (r *sessionRepo) CreateToken(ctx context.Context, userID uint) (string, error) {
	token := SessionToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&token).Error; err != nil {
		return "", fmt.Errorf("insert session token: %w", err)
	}
	return token.Token, nil
}

func (r *sessionRepo) UserIDByToken(ctx context.Context, token string) (uint, error) {
	var row SessionToken
	err := r.db.WithContext(ctx).First(&row, "token = ?", token).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("resolve session token: %w", err)
	}
	return row.UserID, nil
}

func (r *sessionRepo) DeleteToken(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).Delete(&SessionToken{}, "token = ?", token).Error; err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}
