package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/board"
	"github.com/adanyl0v/go-taskboard/internal/models"
)

func (h *handlerImpl) HandleGetProjects(c *gin.Context) {
	projects := h.board.Projects()

	response := make([]projectResponse, len(projects))
	for i, project := range projects {
		response[i] = newProjectResponse(project)
	}
	c.JSON(http.StatusOK, response)
}

type createProjectRequest struct {
	Name        string     `json:"name" binding:"required,max=255"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Progress    *int       `json:"progress"`
	DueAt       *time.Time `json:"due_at"`
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	var req createProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.board.AddProject(board.AddProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Status:      models.ProjectStatus(req.Status),
		Progress:    req.Progress,
		DueAt:       req.DueAt,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create project")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("project_id", project.ID).
		Msg("created project")
	c.JSON(http.StatusCreated, newProjectResponse(project))
}

type updateProjectRequest struct {
	Name         *string    `json:"name,omitempty" binding:"omitempty,max=255"`
	Description  *string    `json:"description,omitempty"`
	Status       *string    `json:"status,omitempty"`
	Progress     *int       `json:"progress,omitempty"`
	AutoProgress bool       `json:"auto_progress"`
	DueAt        *time.Time `json:"due_at,omitempty"`
}

func (h *handlerImpl) HandleUpdateProject(c *gin.Context) {
	projectID := c.Param("id")

	var req updateProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := board.UpdateProjectParams{
		Name:         req.Name,
		Description:  req.Description,
		Progress:     req.Progress,
		AutoProgress: req.AutoProgress,
		DueAt:        req.DueAt,
	}
	if req.Status != nil {
		status := models.ProjectStatus(*req.Status)
		params.Status = &status
	}

	project, err := h.board.UpdateProject(projectID, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to update project")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("project_id", project.ID).
		Msg("updated project")
	c.JSON(http.StatusOK, newProjectResponse(project))
}

func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	projectID := c.Param("id")

	err := h.board.DeleteProject(projectID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to delete project")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("project_id", projectID).
		Msg("deleted project")
	c.Status(http.StatusNoContent)
}
