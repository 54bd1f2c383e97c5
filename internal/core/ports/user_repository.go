package ports

import (
	"context"
	"time"

	"github.com/devlog-hq/devlog/internal/core/domain"
)

// UserRepository defines the interface for credential persistence.
// Create must surface uniqueness-constraint violations as
// domain.ErrUserExists so the race between check and insert is resolved at
// the store level.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdateUsername(ctx context.Context, id int64, username string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// Delete removes the user; owned projects and log entries are removed by
	// the store's cascade rules.
	Delete(ctx context.Context, id int64) error
}
