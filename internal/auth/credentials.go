package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/support-router/internal/config"
)

// ErrInvalidCredentials is returned for any failed login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword hashes a plaintext password with the given cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyDashboard checks the configured dashboard credential. A missing
// password hash disables dashboard login entirely.
func VerifyDashboard(cfg config.AuthConfig, user, password string) error {
	if cfg.DashboardPasswordHash == "" {
		return ErrInvalidCredentials
	}
	if user != cfg.DashboardUser {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cfg.DashboardPasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
