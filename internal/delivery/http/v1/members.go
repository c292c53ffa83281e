package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

func (h *handlerImpl) HandleGetMemberRecord(c *gin.Context) {
	name := c.Param("name")

	record, err := h.members.GetRecord(c, name)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to get member record")
		abort(c, newErrorFromDomain(err))
		return
	}

	c.JSON(http.StatusOK, record)
}

type appendGoalRequest struct {
	Title   string     `json:"title" binding:"required,max=255"`
	Details string     `json:"details"`
	DueAt   *time.Time `json:"due_at"`
}

func (h *handlerImpl) HandleAppendGoal(c *gin.Context) {
	name, ok := h.memberName(c)
	if !ok {
		return
	}

	var req appendGoalRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	record, err := h.members.AppendGoal(c, name, models.Goal{
		Title:   req.Title,
		Details: req.Details,
		DueAt:   req.DueAt,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to append goal")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("name", name).
		Int("goals", len(record.Goals)).
		Msg("appended goal")
	c.JSON(http.StatusCreated, record)
}

type appendNoteRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *handlerImpl) HandleAppendNote(c *gin.Context) {
	name, ok := h.memberName(c)
	if !ok {
		return
	}

	var req appendNoteRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	record, err := h.members.AppendNote(c, name, models.Note{Body: req.Body})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to append note")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("name", name).
		Int("notes", len(record.Notes)).
		Msg("appended note")
	c.JSON(http.StatusCreated, record)
}

// memberName resolves the path name to a person on the board so records are
// only written for existing team members, under the person's own spelling.
func (h *handlerImpl) memberName(c *gin.Context) (string, bool) {
	name := c.Param("name")

	person, err := h.board.PersonByName(name)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("name", name).
			Msg("no team member with this name")
		abort(c, newErrorFromDomain(err))
		return "", false
	}
	return person.Name, true
}
