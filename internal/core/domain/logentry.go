package domain

import "time"

// LogEntry is a single devlog record: a span of work on one project.
// Username, ProjectName and RepositoryURL are denormalised join columns
// populated by list/get queries.
type LogEntry struct {
	ID                int64     `json:"log_id"`
	UserID            int64     `json:"user_id"`
	ProjectID         int64     `json:"project_id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	LoggedAt          time.Time `json:"log_timestamp"`
	TimeWorkedMinutes int       `json:"time_worked_minutes"`
	DeveloperNotes    string    `json:"developer_notes"`
	RelatedCommits    []string  `json:"related_commits,omitempty"`
	Username          string    `json:"username,omitempty"`
	ProjectName       string    `json:"project_name,omitempty"`
	RepositoryURL     string    `json:"repository_url,omitempty"`
}

// LogFilter narrows a log-entry listing. Nil fields are ignored.
type LogFilter struct {
	StartTimeGT  *time.Time
	StartTimeGTE *time.Time
	StartTimeLT  *time.Time
	StartTimeLTE *time.Time

	EndTimeGT  *time.Time
	EndTimeGTE *time.Time
	EndTimeLT  *time.Time
	EndTimeLTE *time.Time

	TimeWorkedMin *int
	TimeWorkedMax *int

	LoggedAfter  *time.Time
	LoggedBefore *time.Time

	NotesContains string
	Username      string
}

// LogUpdate is a partial update; nil fields keep their stored value.
type LogUpdate struct {
	StartTime         *time.Time
	EndTime           *time.Time
	TimeWorkedMinutes *int
	DeveloperNotes    *string
	RelatedCommits    *[]string
}

// Empty reports whether the update would change nothing.
func (u LogUpdate) Empty() bool {
	return u.StartTime == nil && u.EndTime == nil && u.TimeWorkedMinutes == nil &&
		u.DeveloperNotes == nil && u.RelatedCommits == nil
}
