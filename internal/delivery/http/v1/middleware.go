package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	secret := c.GetHeader(h.authHeader)

	err := h.auth.Authorize(secret)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("path", c.FullPath()).
			Msg("rejected request")
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	c.Next()
}
