package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devlog-hq/devlog/internal/core/domain"
	"github.com/devlog-hq/devlog/internal/core/ports"
)

// LogHandler handles log-entry CRUD, scoped to the authenticated owner and
// the project in the path.
type LogHandler struct {
	service ports.DevlogService
}

func NewLogHandler(service ports.DevlogService) *LogHandler {
	return &LogHandler{service: service}
}

func toLogResponse(l *domain.LogEntry) logResponse {
	return logResponse{
		LogID:             l.ID,
		UserID:            l.UserID,
		Username:          l.Username,
		ProjectID:         l.ProjectID,
		ProjectName:       l.ProjectName,
		RepositoryURL:     l.RepositoryURL,
		StartTime:         l.StartTime,
		EndTime:           l.EndTime,
		LogTimestamp:      l.LoggedAt,
		TimeWorkedMinutes: l.TimeWorkedMinutes,
		DeveloperNotes:    l.DeveloperNotes,
		RelatedCommits:    l.RelatedCommits,
	}
}

// List returns the project's log entries, optionally narrowed by query
// parameters: start_time_gt/gte/lt/lte, end_time_gt/gte/lt/lte,
// time_worked_min/max, log_timestamp_after/before, notes_contains, username.
//
// @Summary      List log entries
// @Tags         logs
// @Produce      json
// @Param        project_id      path      int     true   "Project id"
// @Param        notes_contains  query     string  false  "Substring match on developer notes"
// @Param        username        query     string  false  "Exact match on the author's username"
// @Success      200             {array}   logResponse
// @Failure      400             {object}  errorResponse
// @Failure      401             {object}  errorResponse
// @Failure      404             {object}  errorResponse
// @Router       /{project_id}/logs [get]
func (h *LogHandler) List(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "project_id")
	if err != nil {
		return err
	}

	filter, err := parseLogFilter(c)
	if err != nil {
		return err
	}

	logs, err := h.service.ListLogs(c.Request().Context(), userID, projectID, filter)
	if err != nil {
		return err
	}

	out := make([]logResponse, 0, len(logs))
	for i := range logs {
		out = append(out, toLogResponse(&logs[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Create records a new log entry for the project.
//
// @Summary      Add log entry
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        project_id  path      int               true  "Project id"
// @Param        body        body      createLogRequest  true  "Log entry"
// @Success      201         {object}  logResponse
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /{project_id}/logs [post]
func (h *LogHandler) Create(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "project_id")
	if err != nil {
		return err
	}

	var req createLogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry, err := h.service.AddLog(c.Request().Context(), userID, projectID, ports.AddLogInput{
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		TimeWorkedMinutes: req.TimeWorkedMinutes,
		DeveloperNotes:    req.DeveloperNotes,
		RelatedCommits:    req.RelatedCommits,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toLogResponse(entry))
}

// Get returns one log entry. Fetching an entry through the wrong project id
// is a 404, the same as an entry that does not exist.
//
// @Summary      Get log entry
// @Tags         logs
// @Produce      json
// @Param        project_id  path      int  true  "Project id"
// @Param        log_id      path      int  true  "Log entry id"
// @Success      200         {object}  logResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /{project_id}/logs/{log_id} [get]
func (h *LogHandler) Get(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "project_id")
	if err != nil {
		return err
	}
	logID, err := pathID(c, "log_id")
	if err != nil {
		return err
	}

	entry, err := h.service.GetLog(c.Request().Context(), userID, projectID, logID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLogResponse(entry))
}

// Update applies a partial update to a log entry.
//
// @Summary      Update log entry
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        project_id  path      int               true  "Project id"
// @Param        log_id      path      int               true  "Log entry id"
// @Param        body        body      updateLogRequest  true  "Fields to change"
// @Success      200         {object}  logResponse
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /{project_id}/logs/{log_id} [put]
func (h *LogHandler) Update(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "project_id")
	if err != nil {
		return err
	}
	logID, err := pathID(c, "log_id")
	if err != nil {
		return err
	}

	var req updateLogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry, err := h.service.UpdateLog(c.Request().Context(), userID, projectID, logID, domain.LogUpdate{
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		TimeWorkedMinutes: req.TimeWorkedMinutes,
		DeveloperNotes:    req.DeveloperNotes,
		RelatedCommits:    req.RelatedCommits,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLogResponse(entry))
}

// Delete removes a log entry.
//
// @Summary      Delete log entry
// @Tags         logs
// @Produce      json
// @Param        project_id  path      int  true  "Project id"
// @Param        log_id      path      int  true  "Log entry id"
// @Success      200         {object}  messageResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /{project_id}/logs/{log_id} [delete]
func (h *LogHandler) Delete(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "project_id")
	if err != nil {
		return err
	}
	logID, err := pathID(c, "log_id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteLog(c.Request().Context(), userID, projectID, logID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "log entry deleted"})
}

// parseLogFilter reads the supported query parameters into a domain filter.
// A malformed value is a validation error, not a silently ignored one.
func parseLogFilter(c echo.Context) (domain.LogFilter, error) {
	var filter domain.LogFilter
	var err error

	timeParam := func(name string, dst **time.Time) {
		if err != nil {
			return
		}
		raw := c.QueryParam(name)
		if raw == "" {
			return
		}
		t, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			err = fmt.Errorf("%w: %s must be an RFC 3339 timestamp", domain.ErrValidation, name)
			return
		}
		*dst = &t
	}

	intParam := func(name string, dst **int) {
		if err != nil {
			return
		}
		raw := c.QueryParam(name)
		if raw == "" {
			return
		}
		n, parseErr := strconv.Atoi(raw)
		if parseErr != nil {
			err = fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, name)
			return
		}
		*dst = &n
	}

	timeParam("start_time_gt", &filter.StartTimeGT)
	timeParam("start_time_gte", &filter.StartTimeGTE)
	timeParam("start_time_lt", &filter.StartTimeLT)
	timeParam("start_time_lte", &filter.StartTimeLTE)
	timeParam("end_time_gt", &filter.EndTimeGT)
	timeParam("end_time_gte", &filter.EndTimeGTE)
	timeParam("end_time_lt", &filter.EndTimeLT)
	timeParam("end_time_lte", &filter.EndTimeLTE)
	intParam("time_worked_min", &filter.TimeWorkedMin)
	intParam("time_worked_max", &filter.TimeWorkedMax)
	timeParam("log_timestamp_after", &filter.LoggedAfter)
	timeParam("log_timestamp_before", &filter.LoggedBefore)
	filter.NotesContains = c.QueryParam("notes_contains")
	filter.Username = c.QueryParam("username")

	return filter, err
}
