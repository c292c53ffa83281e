package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

type viewsResponse struct {
	Default string        `json:"default"`
	Views   []models.View `json:"views"`
}

func (h *handlerImpl) HandleGetViews(c *gin.Context) {
	views := h.board.Views()
	c.JSON(http.StatusOK, viewsResponse{
		Default: views.Default,
		Views:   views.Views,
	})
}

func (h *handlerImpl) HandleGetView(c *gin.Context) {
	viewName := c.Param("view")

	groups, err := h.board.Snapshot(viewName)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("view", viewName).
			Msg("failed to group board")
		abort(c, newErrorFromDomain(err))
		return
	}

	c.JSON(http.StatusOK, newColumnGroupResponses(groups, h.board.People(), h.board.Now()))
}

type addColumnRequest struct {
	ID            string   `json:"id" binding:"required"`
	Title         string   `json:"title" binding:"required,max=255"`
	Color         string   `json:"color"`
	HasCategories bool     `json:"has_categories"`
	HasPeople     bool     `json:"has_people"`
	Categories    []string `json:"categories"`
}

func (h *handlerImpl) HandleAddColumn(c *gin.Context) {
	viewName := c.Param("view")

	var req addColumnRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	column, err := h.board.AddColumn(viewName, models.Column{
		ID:            models.Status(req.ID),
		Title:         req.Title,
		Color:         req.Color,
		HasCategories: req.HasCategories,
		HasPeople:     req.HasPeople,
		Categories:    req.Categories,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("view", viewName).
			Msg("failed to add column")
		abort(c, newErrorFromDomain(err))
		return
	}

	c.JSON(http.StatusCreated, column)
}
