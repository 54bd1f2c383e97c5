package service

import (
	"context"

	"github.com/devlog-hq/devlog/internal/core/domain"
	"github.com/devlog-hq/devlog/internal/core/ports"
)

// DevlogService implements the owner-scoped project and log-entry use cases.
// Ownership checks live in the repositories; this layer adds input
// validation and keeps handlers free of persistence details.
type DevlogService struct {
	projects ports.ProjectRepository
	logs     ports.LogRepository
}

func NewDevlogService(projects ports.ProjectRepository, logs ports.LogRepository) *DevlogService {
	return &DevlogService{projects: projects, logs: logs}
}

func (s *DevlogService) CreateProject(ctx context.Context, ownerID int64, input ports.CreateProjectInput) (*domain.Project, error) {
	if input.Name == "" {
		return nil, domain.ErrValidation
	}
	return s.projects.Create(ctx, &domain.Project{
		Name:          input.Name,
		RepositoryURL: input.RepositoryURL,
		Description:   input.Description,
		CreatedBy:     ownerID,
	})
}

func (s *DevlogService) ListProjects(ctx context.Context, ownerID int64) ([]domain.Project, error) {
	return s.projects.ListByOwner(ctx, ownerID)
}

func (s *DevlogService) GetProject(ctx context.Context, ownerID, projectID int64) (*domain.Project, error) {
	return s.projects.FindByID(ctx, ownerID, projectID)
}

func (s *DevlogService) UpdateProject(ctx context.Context, ownerID, projectID int64, input ports.CreateProjectInput) (*domain.Project, error) {
	if input.Name == "" {
		return nil, domain.ErrValidation
	}
	project := &domain.Project{
		ID:            projectID,
		Name:          input.Name,
		RepositoryURL: input.RepositoryURL,
		Description:   input.Description,
	}
	if err := s.projects.Update(ctx, ownerID, project); err != nil {
		return nil, err
	}
	return s.projects.FindByID(ctx, ownerID, projectID)
}

func (s *DevlogService) DeleteProject(ctx context.Context, ownerID, projectID int64) error {
	return s.projects.Delete(ctx, ownerID, projectID)
}

func (s *DevlogService) AddLog(ctx context.Context, ownerID, projectID int64, input ports.AddLogInput) (*domain.LogEntry, error) {
	if input.StartTime.IsZero() || input.EndTime.IsZero() || input.DeveloperNotes == "" || input.TimeWorkedMinutes <= 0 {
		return nil, domain.ErrValidation
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, domain.ErrValidation
	}

	return s.logs.Create(ctx, &domain.LogEntry{
		UserID:            ownerID,
		ProjectID:         projectID,
		StartTime:         input.StartTime,
		EndTime:           input.EndTime,
		TimeWorkedMinutes: input.TimeWorkedMinutes,
		DeveloperNotes:    input.DeveloperNotes,
		RelatedCommits:    input.RelatedCommits,
	})
}

func (s *DevlogService) ListLogs(ctx context.Context, ownerID, projectID int64, filter domain.LogFilter) ([]domain.LogEntry, error) {
	// Listing logs of a project the caller does not own must 404, even when
	// the filter would match nothing.
	if _, err := s.projects.FindByID(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	return s.logs.List(ctx, ownerID, projectID, filter)
}

func (s *DevlogService) GetLog(ctx context.Context, ownerID, projectID, logID int64) (*domain.LogEntry, error) {
	return s.logs.FindByID(ctx, ownerID, projectID, logID)
}

func (s *DevlogService) UpdateLog(ctx context.Context, ownerID, projectID, logID int64, update domain.LogUpdate) (*domain.LogEntry, error) {
	if update.Empty() {
		return nil, domain.ErrValidation
	}
	if update.StartTime != nil && update.EndTime != nil && !update.EndTime.After(*update.StartTime) {
		return nil, domain.ErrValidation
	}
	if err := s.logs.Update(ctx, ownerID, projectID, logID, update); err != nil {
		return nil, err
	}
	return s.logs.FindByID(ctx, ownerID, projectID, logID)
}

func (s *DevlogService) DeleteLog(ctx context.Context, ownerID, projectID, logID int64) error {
	return s.logs.Delete(ctx, ownerID, projectID, logID)
}
