package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/devlog-hq/devlog/internal/core/domain"
	"github.com/devlog-hq/devlog/internal/core/ports"
)

// ProjectHandler handles owner-scoped project CRUD.
type ProjectHandler struct {
	service ports.DevlogService
}

func NewProjectHandler(service ports.DevlogService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ProjectID:     p.ID,
		Name:          p.Name,
		RepositoryURL: p.RepositoryURL,
		Description:   p.Description,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
	}
}

// pathID parses a numeric path parameter. Non-numeric values map to 404, the
// same answer as an id that does not exist.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}

// List returns the caller's projects, newest first.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Success      200  {array}   projectResponse
// @Failure      401  {object}  errorResponse
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	projects, err := h.service.ListProjects(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	out := make([]projectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, toProjectResponse(&projects[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Create registers a new project owned by the caller.
//
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body      projectRequest  true  "Project details"
// @Success      201   {object}  projectResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.service.CreateProject(c.Request().Context(), userID, ports.CreateProjectInput{
		Name:          req.Name,
		RepositoryURL: req.RepositoryURL,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProjectResponse(project))
}

// Get returns one project by id.
//
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        project_id  path      int  true  "Project id"
// @Success      200         {object}  projectResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /projects/{project_id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "project_id")
	if err != nil {
		return err
	}

	project, err := h.service.GetProject(c.Request().Context(), userID, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// Update replaces a project's mutable fields.
//
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        project_id  path      int             true  "Project id"
// @Param        body        body      projectRequest  true  "Project details"
// @Success      200         {object}  projectResponse
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /projects/{project_id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "project_id")
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.service.UpdateProject(c.Request().Context(), userID, projectID, ports.CreateProjectInput{
		Name:          req.Name,
		RepositoryURL: req.RepositoryURL,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// Delete removes a project and all its log entries.
//
// @Summary      Delete project
// @Tags         projects
// @Produce      json
// @Param        project_id  path      int  true  "Project id"
// @Success      200         {object}  messageResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /projects/{project_id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "project_id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteProject(c.Request().Context(), userID, projectID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "project deleted"})
}
