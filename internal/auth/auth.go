package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit
	minUsernameLen = 3
)

var (
	// ErrInvalidCredentials covers both unknown users and wrong
	// passwords, so login errors do not leak which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// HashPassword returns a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidateRegistration checks registration input before any row is
// created. The returned error text is user-facing.
func ValidateRegistration(username, email, password string) error {
	if utf8.RuneCountInString(strings.TrimSpace(username)) < minUsernameLen {
		return fmt.Errorf("le nom d'utilisateur doit faire au moins %d caractères", minUsernameLen)
	}
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return errors.New("adresse email invalide")
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("le mot de passe doit faire au moins %d caractères", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("le mot de passe ne peut pas dépasser %d caractères", maxPasswordLen)
	}
	return nil
}
