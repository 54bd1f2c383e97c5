package domain

import "time"

// Project groups devlog entries. Every project is owned by exactly one user;
// deleting a project cascades to its log entries at the store level.
type Project struct {
	ID            int64     `json:"project_id"`
	Name          string    `json:"project_name"`
	RepositoryURL string    `json:"repository_url,omitempty"`
	Description   string    `json:"description,omitempty"`
	CreatedBy     int64     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}
