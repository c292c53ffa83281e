package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/board"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errNoTaskID           = errors.New("no task id provided")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// newErrorFromDomain maps board and service errors to API errors. Anything
// unrecognized is an internal error and its message is not exposed.
func newErrorFromDomain(err error) apiError {
	var (
		validationErr board.ValidationError
		transitionErr board.InvalidTransitionError
		notFoundErr   board.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		return newBadRequestError(validationErr.Error())
	case errors.As(err, &transitionErr):
		return newConflictError(transitionErr.Error())
	case errors.As(err, &notFoundErr):
		return newNotFoundError(notFoundErr.Error())
	case errors.Is(err, board.ErrDragInProgress),
		errors.Is(err, board.ErrNoDrag):
		return newConflictError(err.Error())
	case errors.Is(err, services.ErrMemberNotFound):
		return newNotFoundError(err.Error())
	case errors.Is(err, services.ErrInvalidMemberEntry):
		return newBadRequestError(err.Error())
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}
