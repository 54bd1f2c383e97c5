package handler

import "time"

// --- Request / Response types ---
//
// Response-only types owned by the transport layer, intentionally separate
// from ports/domain types so the JSON contract is not coupled to internal
// service changes.

type projectRequest struct {
	Name          string `json:"project_name"   validate:"required"`
	RepositoryURL string `json:"repository_url" validate:"omitempty,url"`
	Description   string `json:"description"`
}

type projectResponse struct {
	ProjectID     int64     `json:"project_id"`
	Name          string    `json:"project_name"`
	RepositoryURL string    `json:"repository_url,omitempty"`
	Description   string    `json:"description,omitempty"`
	CreatedBy     int64     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

type createLogRequest struct {
	StartTime         time.Time `json:"start_time"          validate:"required"`
	EndTime           time.Time `json:"end_time"            validate:"required"`
	TimeWorkedMinutes int       `json:"time_worked_minutes" validate:"required,gt=0"`
	DeveloperNotes    string    `json:"developer_notes"     validate:"required"`
	RelatedCommits    []string  `json:"related_commits"`
}

// updateLogRequest is a partial update; absent fields keep their stored
// value, which is why every field is a pointer.
type updateLogRequest struct {
	StartTime         *time.Time `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	TimeWorkedMinutes *int       `json:"time_worked_minutes" validate:"omitempty,gt=0"`
	DeveloperNotes    *string    `json:"developer_notes"`
	RelatedCommits    *[]string  `json:"related_commits"`
}

type logResponse struct {
	LogID             int64     `json:"log_id"`
	UserID            int64     `json:"user_id"`
	Username          string    `json:"username,omitempty"`
	ProjectID         int64     `json:"project_id"`
	ProjectName       string    `json:"project_name,omitempty"`
	RepositoryURL     string    `json:"repository_url,omitempty"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	LogTimestamp      time.Time `json:"log_timestamp"`
	TimeWorkedMinutes int       `json:"time_worked_minutes"`
	DeveloperNotes    string    `json:"developer_notes"`
	RelatedCommits    []string  `json:"related_commits,omitempty"`
}
