package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProfileRepo persists synthesized profiles. It is the sole writer of
// Profile rows; only the Current flag is ever mutated after creation.
type ProfileRepo interface {
	// Current returns the user's current profile, or nil if none exists.
	Current(ctx context.Context, userID uint) (*Profile, error)

	// All returns every profile of the user, newest first.
	All(ctx context.Context, userID uint) ([]Profile, error)

	// SaveNewCurrent atomically flips any previously current profile to
	// historical and inserts p as the new current one.
	SaveNewCurrent(ctx context.Context, p *Profile) error

	// HasHistorical reports whether the user has at least one
	// non-current profile (enables evolution comparison).
	HasHistorical(ctx context.Context, userID uint) (bool, error)

	// DemoteCurrent flips the user's current profile to historical
	// without inserting a replacement. Used on quiz restart; a no-op
	// when no profile is current.
	DemoteCurrent(ctx context.Context, userID uint) error
}

type profileRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

func (r *profileRepo) Current(ctx context.Context, userID uint) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND current = ?", userID, true).
		First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load current profile: %w", err)
	}
	return &p, nil
}

func (r *profileRepo) All(ctx context.Context, userID uint) ([]Profile, error) {
	var profiles []Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return profiles, nil
}

func (r *profileRepo) SaveNewCurrent(ctx context.Context, p *Profile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Profile{}).
			Where("user_id = ? AND current = ?", p.UserID, true).
			Update("current", false).Error; err != nil {
			return fmt.Errorf("demote current profile: %w", err)
		}

		p.Current = true
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info("profile saved",
		zap.Uint("user_id", p.UserID),
		zap.Uint("profile_id", p.ID),
		zap.Int("text_chars", len(p.Text)),
	)
	return nil
}

func (r *profileRepo) DemoteCurrent(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Model(&Profile{}).
		Where("user_id = ? AND current = ?", userID, true).
		Update("current", false).Error
	if err != nil {
		return fmt.Errorf("demote current profile: %w", err)
	}
	return nil
}

func (r *profileRepo) HasHistorical(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Profile{}).
		Where("user_id = ? AND current = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count historical profiles: %w", err)
	}
	return count > 0, nil
}
