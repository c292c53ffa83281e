package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/board"
	"github.com/adanyl0v/go-taskboard/internal/models"
)

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	var tasks []*models.Task
	if query := c.Query("q"); query != "" {
		tasks = h.board.Search(query)
		h.logger.Debug().
			Str("query", query).
			Int("count", len(tasks)).
			Msg("searched tasks")
	} else {
		tasks = h.board.Tasks()
	}

	c.JSON(http.StatusOK, newTaskResponses(tasks, h.board.Now()))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.board.Task(taskID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to get task")
		abort(c, newErrorFromDomain(err))
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task, h.board.Now()))
}

type createTaskRequest struct {
	Title          string     `json:"title" binding:"required,max=255"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	Category       string     `json:"category"`
	ProjectID      string     `json:"project_id"`
	PersonID       string     `json:"person_id"`
	Tags           []string   `json:"tags"`
	EstimatedHours *float64   `json:"estimated_hours"`
	DueAt          *time.Time `json:"due_at"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.board.AddTask(board.AddTaskParams{
		Title:          req.Title,
		Description:    req.Description,
		Status:         models.Status(req.Status),
		Priority:       models.Priority(req.Priority),
		Category:       req.Category,
		ProjectID:      req.ProjectID,
		PersonID:       req.PersonID,
		Tags:           req.Tags,
		EstimatedHours: req.EstimatedHours,
		DueAt:          req.DueAt,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Msg("created task")
	c.JSON(http.StatusCreated, newTaskResponse(task, h.board.Now()))
}

type updateTaskRequest struct {
	Title          *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description    *string    `json:"description,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	ProjectID      *string    `json:"project_id,omitempty"`
	Tags           *[]string  `json:"tags,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	DueAt          *time.Time `json:"due_at,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := board.UpdateTaskParams{
		Title:          req.Title,
		Description:    req.Description,
		ProjectID:      req.ProjectID,
		Tags:           req.Tags,
		EstimatedHours: req.EstimatedHours,
		DueAt:          req.DueAt,
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		params.Priority = &priority
	}

	task, err := h.board.UpdateTask(taskID, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to update task")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
	c.JSON(http.StatusOK, newTaskResponse(task, h.board.Now()))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	err := h.board.DeleteTask(taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("task_id", taskID).
		Msg("deleted task")
	c.Status(http.StatusNoContent)
}

type assignTaskRequest struct {
	Bucket   string `json:"bucket" binding:"required"`
	Category string `json:"category"`
	PersonID string `json:"person_id"`
}

func (h *handlerImpl) HandleAssignTask(c *gin.Context) {
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	var req assignTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.board.Assign(taskID, models.Status(req.Bucket), req.Category, req.PersonID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Str("bucket", req.Bucket).
			Msg("failed to assign task")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("assigned task")
	c.JSON(http.StatusOK, newTaskResponse(task, h.board.Now()))
}

type setTaskStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	PersonID string `json:"person_id"`
}

func (h *handlerImpl) HandleSetTaskStatus(c *gin.Context) {
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	var req setTaskStatusRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.board.Transition(taskID, models.Status(req.Status), req.PersonID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Str("status", req.Status).
			Msg("failed to set task status")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("updated task status")
	c.JSON(http.StatusOK, newTaskResponse(task, h.board.Now()))
}

func (h *handlerImpl) taskIDParam(c *gin.Context) (string, bool) {
	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg(errNoTaskID.Error())
		abort(c, newBadRequestError(errNoTaskID.Error()))
		return "", false
	}
	return taskID, true
}
