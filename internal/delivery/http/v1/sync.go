package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type syncFailureResponse struct {
	Op       string    `json:"op"`
	ID       string    `json:"id"`
	Attempts int       `json:"attempts"`
	Error    string    `json:"error"`
	At       time.Time `json:"at"`
}

type syncFailuresResponse struct {
	Pending  int                   `json:"pending"`
	Failures []syncFailureResponse `json:"failures"`
}

func (h *handlerImpl) HandleGetSyncFailures(c *gin.Context) {
	failures := h.sync.Failures()

	response := syncFailuresResponse{
		Pending:  h.sync.Pending(),
		Failures: make([]syncFailureResponse, len(failures)),
	}
	for i, f := range failures {
		response.Failures[i] = syncFailureResponse{
			Op:       string(f.Job.Op),
			ID:       f.Job.ID,
			Attempts: f.Attempts,
			Error:    f.Err.Error(),
			At:       f.At,
		}
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleClearSyncFailures(c *gin.Context) {
	h.sync.ClearFailures()
	h.logger.Info().Msg("cleared sync failures")
	c.Status(http.StatusNoContent)
}
