package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/devlog-hq/devlog/internal/core/domain"
	"github.com/devlog-hq/devlog/internal/core/ports"
)

type stubProjectRepo struct {
	projects map[int64]*domain.Project
	nextID   int64
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{projects: make(map[int64]*domain.Project), nextID: 1}
}

func (r *stubProjectRepo) Create(_ context.Context, project *domain.Project) (*domain.Project, error) {
	copy := *project
	copy.ID = r.nextID
	copy.CreatedAt = time.Now().UTC()
	r.nextID++
	stored := copy
	r.projects[copy.ID] = &stored
	return &copy, nil
}

func (r *stubProjectRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.Project, error) {
	out := []domain.Project{}
	for _, p := range r.projects {
		if p.CreatedBy == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, ownerID, projectID int64) (*domain.Project, error) {
	p, ok := r.projects[projectID]
	if !ok || p.CreatedBy != ownerID {
		return nil, domain.ErrProjectNotFound
	}
	copy := *p
	return &copy, nil
}

func (r *stubProjectRepo) Update(_ context.Context, ownerID int64, project *domain.Project) error {
	p, ok := r.projects[project.ID]
	if !ok || p.CreatedBy != ownerID {
		return domain.ErrProjectNotFound
	}
	p.Name = project.Name
	p.RepositoryURL = project.RepositoryURL
	p.Description = project.Description
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, ownerID, projectID int64) error {
	p, ok := r.projects[projectID]
	if !ok || p.CreatedBy != ownerID {
		return domain.ErrProjectNotFound
	}
	delete(r.projects, projectID)
	return nil
}

type stubLogRepo struct {
	projects *stubProjectRepo
	logs     map[int64]*domain.LogEntry
	nextID   int64
}

func newStubLogRepo(projects *stubProjectRepo) *stubLogRepo {
	return &stubLogRepo{projects: projects, logs: make(map[int64]*domain.LogEntry), nextID: 1}
}

func (r *stubLogRepo) Create(ctx context.Context, entry *domain.LogEntry) (*domain.LogEntry, error) {
	if _, err := r.projects.FindByID(ctx, entry.UserID, entry.ProjectID); err != nil {
		return nil, err
	}
	copy := *entry
	copy.ID = r.nextID
	copy.LoggedAt = time.Now().UTC()
	r.nextID++
	stored := copy
	r.logs[copy.ID] = &stored
	return &copy, nil
}

func (r *stubLogRepo) List(_ context.Context, ownerID, projectID int64, filter domain.LogFilter) ([]domain.LogEntry, error) {
	out := []domain.LogEntry{}
	for _, l := range r.logs {
		if l.UserID != ownerID || l.ProjectID != projectID {
			continue
		}
		if filter.TimeWorkedMin != nil && l.TimeWorkedMinutes < *filter.TimeWorkedMin {
			continue
		}
		if filter.TimeWorkedMax != nil && l.TimeWorkedMinutes > *filter.TimeWorkedMax {
			continue
		}
		if filter.NotesContains != "" && !strings.Contains(strings.ToLower(l.DeveloperNotes), strings.ToLower(filter.NotesContains)) {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubLogRepo) FindByID(_ context.Context, ownerID, projectID, logID int64) (*domain.LogEntry, error) {
	l, ok := r.logs[logID]
	if !ok || l.UserID != ownerID || l.ProjectID != projectID {
		return nil, domain.ErrLogNotFound
	}
	copy := *l
	return &copy, nil
}

func (r *stubLogRepo) Update(_ context.Context, ownerID, projectID, logID int64, update domain.LogUpdate) error {
	l, ok := r.logs[logID]
	if !ok || l.UserID != ownerID || l.ProjectID != projectID {
		return domain.ErrLogNotFound
	}
	if update.StartTime != nil {
		l.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		l.EndTime = *update.EndTime
	}
	if update.TimeWorkedMinutes != nil {
		l.TimeWorkedMinutes = *update.TimeWorkedMinutes
	}
	if update.DeveloperNotes != nil {
		l.DeveloperNotes = *update.DeveloperNotes
	}
	if update.RelatedCommits != nil {
		l.RelatedCommits = *update.RelatedCommits
	}
	return nil
}

func (r *stubLogRepo) Delete(_ context.Context, ownerID, projectID, logID int64) error {
	l, ok := r.logs[logID]
	if !ok || l.UserID != ownerID || l.ProjectID != projectID {
		return domain.ErrLogNotFound
	}
	delete(r.logs, logID)
	return nil
}

func newDevlogService() (*DevlogService, *stubProjectRepo) {
	projects := newStubProjectRepo()
	return NewDevlogService(projects, newStubLogRepo(projects)), projects
}

func sampleLogInput() ports.AddLogInput {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return ports.AddLogInput{
		StartTime:         start,
		EndTime:           start.Add(90 * time.Minute),
		TimeWorkedMinutes: 90,
		DeveloperNotes:    "implemented the session refresh path",
		RelatedCommits:    []string{"a1b2c3d"},
	}
}

func TestDevlogService_ProjectLifecycle(t *testing.T) {
	svc, _ := newDevlogService()
	ctx := context.Background()
	const owner = int64(1)

	created, err := svc.CreateProject(ctx, owner, ports.CreateProjectInput{
		Name:          "devlog",
		RepositoryURL: "https://github.com/devlog-hq/devlog",
		Description:   "time tracking",
	})
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	if created.ID == 0 || created.CreatedBy != owner {
		t.Fatalf("unexpected project: %+v", created)
	}

	list, err := svc.ListProjects(ctx, owner)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one project, got %d (err %v)", len(list), err)
	}

	updated, err := svc.UpdateProject(ctx, owner, created.ID, ports.CreateProjectInput{Name: "devlog-api"})
	if err != nil {
		t.Fatalf("update project failed: %v", err)
	}
	if updated.Name != "devlog-api" {
		t.Fatalf("expected renamed project, got %+v", updated)
	}

	if err := svc.DeleteProject(ctx, owner, created.ID); err != nil {
		t.Fatalf("delete project failed: %v", err)
	}
	if _, err := svc.GetProject(ctx, owner, created.ID); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound after delete, got %v", err)
	}
}

func TestDevlogService_CreateProject_Validation(t *testing.T) {
	svc, _ := newDevlogService()

	if _, err := svc.CreateProject(context.Background(), 1, ports.CreateProjectInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// A project owned by someone else must behave exactly like a project that
// does not exist.
func TestDevlogService_ProjectOwnership(t *testing.T) {
	svc, _ := newDevlogService()
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, 1, ports.CreateProjectInput{Name: "mine"})
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}

	if _, err := svc.GetProject(ctx, 2, created.ID); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound for other owner, got %v", err)
	}
	if _, err := svc.UpdateProject(ctx, 2, created.ID, ports.CreateProjectInput{Name: "stolen"}); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound on update, got %v", err)
	}
	if err := svc.DeleteProject(ctx, 2, created.ID); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound on delete, got %v", err)
	}
	if _, err := svc.ListLogs(ctx, 2, created.ID, domain.LogFilter{}); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound on log listing, got %v", err)
	}
}

func TestDevlogService_LogLifecycle(t *testing.T) {
	svc, _ := newDevlogService()
	ctx := context.Background()
	const owner = int64(1)

	project, err := svc.CreateProject(ctx, owner, ports.CreateProjectInput{Name: "devlog"})
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}

	entry, err := svc.AddLog(ctx, owner, project.ID, sampleLogInput())
	if err != nil {
		t.Fatalf("add log failed: %v", err)
	}
	if entry.ID == 0 || entry.LoggedAt.IsZero() {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	logs, err := svc.ListLogs(ctx, owner, project.ID, domain.LogFilter{})
	if err != nil || len(logs) != 1 {
		t.Fatalf("expected one log, got %d (err %v)", len(logs), err)
	}

	notes := "rewrote the proxy timeout handling"
	updated, err := svc.UpdateLog(ctx, owner, project.ID, entry.ID, domain.LogUpdate{DeveloperNotes: &notes})
	if err != nil {
		t.Fatalf("update log failed: %v", err)
	}
	if updated.DeveloperNotes != notes {
		t.Fatalf("expected updated notes, got %q", updated.DeveloperNotes)
	}

	if err := svc.DeleteLog(ctx, owner, project.ID, entry.ID); err != nil {
		t.Fatalf("delete log failed: %v", err)
	}
	if _, err := svc.GetLog(ctx, owner, project.ID, entry.ID); !errors.Is(err, domain.ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound after delete, got %v", err)
	}
}

func TestDevlogService_AddLog_Validation(t *testing.T) {
	svc, _ := newDevlogService()
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, 1, ports.CreateProjectInput{Name: "devlog"})
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}

	input := sampleLogInput()
	input.EndTime = input.StartTime.Add(-time.Minute)
	if _, err := svc.AddLog(ctx, 1, project.ID, input); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for end before start, got %v", err)
	}

	input = sampleLogInput()
	input.DeveloperNotes = ""
	if _, err := svc.AddLog(ctx, 1, project.ID, input); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing notes, got %v", err)
	}

	// Target project owned by another user: indistinguishable from missing.
	if _, err := svc.AddLog(ctx, 2, project.ID, sampleLogInput()); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestDevlogService_UpdateLog_Validation(t *testing.T) {
	svc, _ := newDevlogService()
	ctx := context.Background()

	project, _ := svc.CreateProject(ctx, 1, ports.CreateProjectInput{Name: "devlog"})
	entry, err := svc.AddLog(ctx, 1, project.ID, sampleLogInput())
	if err != nil {
		t.Fatalf("add log failed: %v", err)
	}

	if _, err := svc.UpdateLog(ctx, 1, project.ID, entry.ID, domain.LogUpdate{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty update, got %v", err)
	}

	start := entry.StartTime
	end := start.Add(-time.Hour)
	update := domain.LogUpdate{StartTime: &start, EndTime: &end}
	if _, err := svc.UpdateLog(ctx, 1, project.ID, entry.ID, update); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for inverted interval, got %v", err)
	}
}

func TestDevlogService_ListLogs_Filtered(t *testing.T) {
	svc, _ := newDevlogService()
	ctx := context.Background()
	const owner = int64(1)

	project, _ := svc.CreateProject(ctx, owner, ports.CreateProjectInput{Name: "devlog"})

	short := sampleLogInput()
	short.TimeWorkedMinutes = 30
	short.DeveloperNotes = "quick bugfix"
	long := sampleLogInput()
	long.TimeWorkedMinutes = 240
	long.DeveloperNotes = "refactored the storage layer"

	if _, err := svc.AddLog(ctx, owner, project.ID, short); err != nil {
		t.Fatalf("add log failed: %v", err)
	}
	if _, err := svc.AddLog(ctx, owner, project.ID, long); err != nil {
		t.Fatalf("add log failed: %v", err)
	}

	min := 60
	logs, err := svc.ListLogs(ctx, owner, project.ID, domain.LogFilter{TimeWorkedMin: &min})
	if err != nil {
		t.Fatalf("list logs failed: %v", err)
	}
	if len(logs) != 1 || logs[0].TimeWorkedMinutes != 240 {
		t.Fatalf("expected only the long entry, got %+v", logs)
	}

	logs, err = svc.ListLogs(ctx, owner, project.ID, domain.LogFilter{NotesContains: "storage"})
	if err != nil {
		t.Fatalf("list logs failed: %v", err)
	}
	if len(logs) != 1 || logs[0].DeveloperNotes != long.DeveloperNotes {
		t.Fatalf("expected notes filter to match one entry, got %+v", logs)
	}
}
