package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/board"
	"github.com/adanyl0v/go-taskboard/internal/models"
)

type registerDropZoneRequest struct {
	ID   string      `json:"id" binding:"required"`
	Rect *board.Rect `json:"rect"`
}

func (h *handlerImpl) HandleRegisterDropZone(c *gin.Context) {
	var req registerDropZoneRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	target := h.board.RegisterDropZone(req.ID, req.Rect)
	h.logger.Debug().
		Str("zone", req.ID).
		Stringer("kind", target.Kind).
		Msg("registered drop zone")
	c.JSON(http.StatusOK, newDropTargetResponse(&target))
}

func (h *handlerImpl) HandleUnregisterDropZone(c *gin.Context) {
	zoneID := c.Param("id")
	h.board.UnregisterDropZone(zoneID)
	c.Status(http.StatusNoContent)
}

type startDragRequest struct {
	TaskID string `json:"task_id" binding:"required"`
}

func (h *handlerImpl) HandleStartDrag(c *gin.Context) {
	var req startDragRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	session, err := h.board.StartDrag(req.TaskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", req.TaskID).
			Msg("failed to start drag")
		abort(c, newErrorFromDomain(err))
		return
	}

	c.JSON(http.StatusOK, newDragStateResponse(session))
}

// dragOverRequest either names the hovered zone or carries the dragged
// card's rectangle for collision detection. An empty zone id without a
// rectangle clears the hover target.
type dragOverRequest struct {
	ZoneID string      `json:"zone_id"`
	Rect   *board.Rect `json:"rect"`
}

func (h *handlerImpl) HandleDragOver(c *gin.Context) {
	var req dragOverRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	var session models.DragSession
	if req.Rect != nil {
		session, err = h.board.DragMove(*req.Rect)
	} else {
		session, err = h.board.DragOver(req.ZoneID)
	}
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update drag")
		abort(c, newErrorFromDomain(err))
		return
	}

	c.JSON(http.StatusOK, newDragStateResponse(session))
}

type dropResponse struct {
	Applied bool                `json:"applied"`
	Target  *dropTargetResponse `json:"target,omitempty"`
	Task    *taskResponse       `json:"task,omitempty"`
}

func (h *handlerImpl) HandleEndDrag(c *gin.Context) {
	result, err := h.board.EndDrag()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to end drag")
		abort(c, newErrorFromDomain(err))
		return
	}

	response := dropResponse{
		Applied: result.Applied,
		Target:  newDropTargetResponse(result.Target),
	}
	if result.Task != nil {
		task := newTaskResponse(result.Task, h.board.Now())
		response.Task = &task
	}

	h.logger.Info().
		Bool("applied", result.Applied).
		Msg("ended drag")
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleCancelDrag(c *gin.Context) {
	h.board.CancelDrag()
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleGetDrag(c *gin.Context) {
	session, ok := h.board.DragState()
	if !ok {
		c.JSON(http.StatusOK, dragStateResponse{})
		return
	}
	c.JSON(http.StatusOK, newDragStateResponse(session))
}
