package ports

import (
	"context"
	"time"

	"github.com/devlog-hq/devlog/internal/core/domain"
)

// CreateProjectInput carries the data needed to create a project.
type CreateProjectInput struct {
	Name          string
	RepositoryURL string
	Description   string
}

// AddLogInput carries the data needed to record a log entry.
type AddLogInput struct {
	StartTime         time.Time
	EndTime           time.Time
	TimeWorkedMinutes int
	DeveloperNotes    string
	RelatedCommits    []string
}

// DevlogService defines the owner-scoped use cases for projects and log
// entries. Every operation acts on behalf of ownerID; resources owned by
// other users behave as if they did not exist.
type DevlogService interface {
	CreateProject(ctx context.Context, ownerID int64, input CreateProjectInput) (*domain.Project, error)
	ListProjects(ctx context.Context, ownerID int64) ([]domain.Project, error)
	GetProject(ctx context.Context, ownerID, projectID int64) (*domain.Project, error)
	UpdateProject(ctx context.Context, ownerID, projectID int64, input CreateProjectInput) (*domain.Project, error)
	DeleteProject(ctx context.Context, ownerID, projectID int64) error

	AddLog(ctx context.Context, ownerID, projectID int64, input AddLogInput) (*domain.LogEntry, error)
	ListLogs(ctx context.Context, ownerID, projectID int64, filter domain.LogFilter) ([]domain.LogEntry, error)
	GetLog(ctx context.Context, ownerID, projectID, logID int64) (*domain.LogEntry, error)
	UpdateLog(ctx context.Context, ownerID, projectID, logID int64, update domain.LogUpdate) (*domain.LogEntry, error)
	DeleteLog(ctx context.Context, ownerID, projectID, logID int64) error
}
