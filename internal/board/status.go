package board

import (
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

// transition moves t to status `to` and applies the side effects of leaving
// the old status and entering the new one. Any status may move to any
// other. It leaves t untouched when it returns an error.
//
// Completing a task stops its running timer so no time keeps accruing
// against finished work.
func transition(t *models.Task, to models.Status, personID string, now time.Time) error {
	if to == models.StatusDelegated && personID == "" {
		return InvalidTransitionError{
			TaskID: t.ID,
			From:   t.Status,
			To:     to,
			Reason: "a person is required",
		}
	}

	from := t.Status
	if from == to {
		if to == models.StatusDelegated && t.PersonID != personID {
			t.PersonID = personID
			t.UpdatedAt = now
		}
		return nil
	}

	if from == models.StatusCompleted {
		t.CompletedAt = nil
	}
	if from == models.StatusDelegated {
		t.PersonID = ""
	}

	switch to {
	case models.StatusCompleted:
		completedAt := now
		t.CompletedAt = &completedAt
		stopTimer(t, now)
	case models.StatusDelegated:
		t.PersonID = personID
	}

	t.Status = to
	t.UpdatedAt = now
	return nil
}
