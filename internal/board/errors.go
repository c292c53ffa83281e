package board

import (
	"errors"
	"fmt"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

var (
	ErrDragInProgress = errors.New("drag already in progress")
	ErrNoDrag         = errors.New("no drag in progress")
)

// ValidationError reports an empty or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports a status change whose preconditions are
// not met, such as delegating without a person.
type InvalidTransitionError struct {
	TaskID string
	From   models.Status
	To     models.Status
	Reason string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("task %s cannot move from %s to %s: %s", e.TaskID, e.From, e.To, e.Reason)
}

// NotFoundError reports a reference to a task, project or person that is
// not on the board.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func taskNotFound(id string) error {
	return NotFoundError{Kind: "task", ID: id}
}
