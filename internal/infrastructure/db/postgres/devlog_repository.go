package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/devlog-hq/devlog/internal/core/domain"
)

// ProjectRepository implements ports.ProjectRepository on PostgreSQL. All
// reads and mutations carry an owner predicate, so a project belonging to a
// different user is reported as not found.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	query := `
		INSERT INTO projects (project_name, repository_url, description, created_by)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
		RETURNING project_id, created_at`

	created := *project
	err := r.db.QueryRowContext(ctx, query,
		project.Name, project.RepositoryURL, project.Description, project.CreatedBy,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	return &created, nil
}

const projectColumns = `project_id, project_name, COALESCE(repository_url, ''), COALESCE(description, ''), created_by, created_at`

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE created_by = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.RepositoryURL, &p.Description, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) FindByID(ctx context.Context, ownerID, projectID int64) (*domain.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE project_id = $1 AND created_by = $2`

	p := &domain.Project{}
	err := r.db.QueryRowContext(ctx, query, projectID, ownerID).Scan(
		&p.ID, &p.Name, &p.RepositoryURL, &p.Description, &p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, ownerID int64, project *domain.Project) error {
	query := `
		UPDATE projects
		SET project_name = $3, repository_url = NULLIF($4, ''), description = NULLIF($5, '')
		WHERE project_id = $1 AND created_by = $2`

	res, err := r.db.ExecContext(ctx, query,
		project.ID, ownerID, project.Name, project.RepositoryURL, project.Description)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return noneToNotFound(res, domain.ErrProjectNotFound)
}

// Delete removes the project; its log entries follow via ON DELETE CASCADE.
func (r *ProjectRepository) Delete(ctx context.Context, ownerID, projectID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE project_id = $1 AND created_by = $2`, projectID, ownerID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return noneToNotFound(res, domain.ErrProjectNotFound)
}

// LogRepository implements ports.LogRepository on PostgreSQL.
type LogRepository struct {
	db *sql.DB
}

func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Create verifies that the target project exists and belongs to the caller,
// then inserts the entry, both inside one transaction so a concurrent
// project deletion cannot leave an orphaned row.
func (r *LogRepository) Create(ctx context.Context, entry *domain.LogEntry) (*domain.LogEntry, error) {
	created := *entry
	err := withTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		var owner int64
		err := tx.QueryRowContext(ctx,
			`SELECT created_by FROM projects WHERE project_id = $1 AND created_by = $2`,
			entry.ProjectID, entry.UserID,
		).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProjectNotFound
		}
		if err != nil {
			return fmt.Errorf("check project: %w", err)
		}

		commits, err := commitsJSON(entry.RelatedCommits)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO log_entries (user_id, project_id, start_time, end_time, time_worked_minutes, developer_notes, related_commits)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING log_id, log_timestamp`

		err = tx.QueryRowContext(ctx, query,
			entry.UserID, entry.ProjectID, entry.StartTime, entry.EndTime,
			entry.TimeWorkedMinutes, entry.DeveloperNotes, commits,
		).Scan(&created.ID, &created.LoggedAt)
		if err != nil {
			return fmt.Errorf("insert log entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

const logSelect = `
	SELECT l.log_id, l.user_id, u.username, l.project_id, p.project_name,
	       COALESCE(p.repository_url, ''), l.start_time, l.end_time, l.log_timestamp,
	       l.time_worked_minutes, l.developer_notes, l.related_commits
	FROM log_entries l
	JOIN users u ON l.user_id = u.user_id
	JOIN projects p ON l.project_id = p.project_id`

func (r *LogRepository) List(ctx context.Context, ownerID, projectID int64, filter domain.LogFilter) ([]domain.LogEntry, error) {
	conditions := []string{"l.user_id = $1", "l.project_id = $2"}
	args := []any{ownerID, projectID}
	conditions, args = applyFilter(conditions, args, filter)

	query := logSelect + "\n\tWHERE " + strings.Join(conditions, " AND ") +
		"\n\tORDER BY l.log_timestamp DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.LogEntry{}
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (r *LogRepository) FindByID(ctx context.Context, ownerID, projectID, logID int64) (*domain.LogEntry, error) {
	query := logSelect + "\n\tWHERE l.log_id = $1 AND l.user_id = $2 AND l.project_id = $3"

	rows, err := r.db.QueryContext(ctx, query, logID, ownerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("find log entry: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("find log entry: %w", err)
		}
		return nil, domain.ErrLogNotFound
	}
	return scanLog(rows)
}

func (r *LogRepository) Update(ctx context.Context, ownerID, projectID, logID int64, update domain.LogUpdate) error {
	if update.Empty() {
		return domain.ErrLogNotFound
	}

	set := []string{}
	args := []any{logID, ownerID, projectID}
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.StartTime != nil {
		add("start_time", *update.StartTime)
	}
	if update.EndTime != nil {
		add("end_time", *update.EndTime)
	}
	if update.TimeWorkedMinutes != nil {
		add("time_worked_minutes", *update.TimeWorkedMinutes)
	}
	if update.DeveloperNotes != nil {
		add("developer_notes", *update.DeveloperNotes)
	}
	if update.RelatedCommits != nil {
		commits, err := commitsJSON(*update.RelatedCommits)
		if err != nil {
			return err
		}
		add("related_commits", commits)
	}

	query := `UPDATE log_entries SET ` + strings.Join(set, ", ") +
		` WHERE log_id = $1 AND user_id = $2 AND project_id = $3`

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update log entry: %w", err)
	}
	return noneToNotFound(res, domain.ErrLogNotFound)
}

func (r *LogRepository) Delete(ctx context.Context, ownerID, projectID, logID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM log_entries WHERE log_id = $1 AND user_id = $2 AND project_id = $3`,
		logID, ownerID, projectID)
	if err != nil {
		return fmt.Errorf("delete log entry: %w", err)
	}
	return noneToNotFound(res, domain.ErrLogNotFound)
}

// applyFilter appends one condition per populated filter field, numbering
// placeholders after the ones already present.
func applyFilter(conditions []string, args []any, f domain.LogFilter) ([]string, []any) {
	add := func(expr string, value any) {
		args = append(args, value)
		conditions = append(conditions, expr+" $"+strconv.Itoa(len(args)))
	}

	if f.StartTimeGT != nil {
		add("l.start_time >", *f.StartTimeGT)
	}
	if f.StartTimeGTE != nil {
		add("l.start_time >=", *f.StartTimeGTE)
	}
	if f.StartTimeLT != nil {
		add("l.start_time <", *f.StartTimeLT)
	}
	if f.StartTimeLTE != nil {
		add("l.start_time <=", *f.StartTimeLTE)
	}
	if f.EndTimeGT != nil {
		add("l.end_time >", *f.EndTimeGT)
	}
	if f.EndTimeGTE != nil {
		add("l.end_time >=", *f.EndTimeGTE)
	}
	if f.EndTimeLT != nil {
		add("l.end_time <", *f.EndTimeLT)
	}
	if f.EndTimeLTE != nil {
		add("l.end_time <=", *f.EndTimeLTE)
	}
	if f.TimeWorkedMin != nil {
		add("l.time_worked_minutes >=", *f.TimeWorkedMin)
	}
	if f.TimeWorkedMax != nil {
		add("l.time_worked_minutes <=", *f.TimeWorkedMax)
	}
	if f.LoggedAfter != nil {
		add("l.log_timestamp >=", *f.LoggedAfter)
	}
	if f.LoggedBefore != nil {
		add("l.log_timestamp <=", *f.LoggedBefore)
	}
	if f.NotesContains != "" {
		add("l.developer_notes ILIKE", "%"+f.NotesContains+"%")
	}
	if f.Username != "" {
		add("u.username =", f.Username)
	}

	return conditions, args
}

func scanLog(rows *sql.Rows) (*domain.LogEntry, error) {
	entry := &domain.LogEntry{}
	var commits []byte
	err := rows.Scan(
		&entry.ID, &entry.UserID, &entry.Username, &entry.ProjectID, &entry.ProjectName,
		&entry.RepositoryURL, &entry.StartTime, &entry.EndTime, &entry.LoggedAt,
		&entry.TimeWorkedMinutes, &entry.DeveloperNotes, &commits,
	)
	if err != nil {
		return nil, fmt.Errorf("scan log entry: %w", err)
	}
	if len(commits) > 0 {
		if err := json.Unmarshal(commits, &entry.RelatedCommits); err != nil {
			return nil, fmt.Errorf("scan log entry: related_commits: %w", err)
		}
	}
	return entry, nil
}

// commitsJSON renders the commit list as JSONB input; nil stays NULL.
func commitsJSON(commits []string) (any, error) {
	if commits == nil {
		return nil, nil
	}
	b, err := json.Marshal(commits)
	if err != nil {
		return nil, fmt.Errorf("encode related_commits: %w", err)
	}
	return b, nil
}

func noneToNotFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
