package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

func (h *handlerImpl) HandleStartTimer(c *gin.Context) {
	h.handleTimer(c, "started timer", h.board.StartTimer)
}

func (h *handlerImpl) HandleStopTimer(c *gin.Context) {
	h.handleTimer(c, "stopped timer", h.board.StopTimer)
}

func (h *handlerImpl) HandleToggleTimer(c *gin.Context) {
	h.handleTimer(c, "toggled timer", h.board.ToggleTimer)
}

func (h *handlerImpl) handleTimer(
	c *gin.Context,
	msg string,
	fn func(taskID string) (*models.Task, error),
) {
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	task, err := fn(taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to update timer")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Bool("tracking", task.ActiveEntry() >= 0).
		Msg(msg)
	c.JSON(http.StatusOK, newTaskResponse(task, h.board.Now()))
}
