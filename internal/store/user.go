package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// UserRepo manages registered users.
type UserRepo interface {
	Create(ctx context.Context, u *User) error
	ByEmail(ctx context.Context, email string) (*User, error)
	ByID(ctx context.Context, id uint) (*User, error)
	UpdateInterests(ctx context.Context, id uint, interests string) error
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, u *User) error {
	if u.SignedUpAt.IsZero() {
		u.SignedUpAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) ByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepo) ByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &u, nil
}

func (r *userRepo) UpdateInterests(ctx context.Context, id uint, interests string) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).
		Update("interests", interests)
	if res.Error != nil {
		return fmt.Errorf("update interests: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
