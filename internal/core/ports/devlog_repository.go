package ports

import (
	"context"

	"github.com/devlog-hq/devlog/internal/core/domain"
)

// ProjectRepository persists projects. Every method except Create is
// owner-scoped: rows belonging to other users are indistinguishable from
// rows that do not exist (domain.ErrProjectNotFound for both).
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Project, error)
	FindByID(ctx context.Context, ownerID, projectID int64) (*domain.Project, error)
	Update(ctx context.Context, ownerID int64, project *domain.Project) error
	Delete(ctx context.Context, ownerID, projectID int64) error
}

// LogRepository persists log entries, scoped to both owner and project.
// Create verifies project ownership and inserts in one transaction.
type LogRepository interface {
	Create(ctx context.Context, entry *domain.LogEntry) (*domain.LogEntry, error)
	List(ctx context.Context, ownerID, projectID int64, filter domain.LogFilter) ([]domain.LogEntry, error)
	FindByID(ctx context.Context, ownerID, projectID, logID int64) (*domain.LogEntry, error)
	Update(ctx context.Context, ownerID, projectID, logID int64, update domain.LogUpdate) error
	Delete(ctx context.Context, ownerID, projectID, logID int64) error
}
