package ports

import (
	"context"
	"time"

	"github.com/devlog-hq/devlog/internal/core/domain"
)

// RegisterResult is returned after a successful registration. It carries the
// enrollment artifacts the caller needs to finish two-factor setup; no
// session is issued until enrollment is verified.
type RegisterResult struct {
	User            *domain.User
	TOTPSecret      string
	ProvisioningURI string
	QRCodePNG       []byte
}

// LoginResult is the outcome of login phase 1 (password). It grants no
// access by itself; the caller must pass the two-factor challenge next.
type LoginResult struct {
	UserID      int64
	Requires2FA bool
}

// Session is a freshly issued credential.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService orchestrates the registration and login flows.
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*RegisterResult, error)
	VerifyEnrollment(ctx context.Context, userID int64, code string) (*Session, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	VerifyLogin(ctx context.Context, userID int64, code string) (*Session, error)
	Whoami(ctx context.Context, userID int64) (*domain.User, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	ChangeUsername(ctx context.Context, userID int64, username string) error
	ChangePassword(ctx context.Context, userID int64, currentPassword, code, newPassword string) error
	DeleteAccount(ctx context.Context, userID int64, jti string, expiresAt time.Time) error
}
