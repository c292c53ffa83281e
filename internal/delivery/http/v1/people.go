package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/board"
)

func (h *handlerImpl) HandleGetPeople(c *gin.Context) {
	people := h.board.People()

	response := make([]personResponse, len(people))
	for i, person := range people {
		response[i] = newPersonResponse(person)
	}
	c.JSON(http.StatusOK, response)
}

type createPersonRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	Color      string `json:"color"`
	Email      string `json:"email" binding:"omitempty,email,max=255"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

func (h *handlerImpl) HandleCreatePerson(c *gin.Context) {
	var req createPersonRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	person, err := h.board.AddPerson(board.AddPersonParams{
		Name:       req.Name,
		Color:      req.Color,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create person")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("person_id", person.ID).
		Msg("created person")
	c.JSON(http.StatusCreated, newPersonResponse(person))
}

func (h *handlerImpl) HandleDeletePerson(c *gin.Context) {
	personID := c.Param("id")

	err := h.board.DeletePerson(personID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("person_id", personID).
			Msg("failed to delete person")
		abort(c, newErrorFromDomain(err))
		return
	}

	h.logger.Info().
		Str("person_id", personID).
		Msg("deleted person")
	c.Status(http.StatusNoContent)
}
