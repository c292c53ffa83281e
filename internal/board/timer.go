package board

import (
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/persist"
)

// startTimer opens a new time entry unless one is already running.
func startTimer(t *models.Task, now time.Time) bool {
	if t.ActiveEntry() >= 0 {
		return false
	}

	id := 1
	if n := len(t.TimeEntries); n > 0 {
		id = t.TimeEntries[n-1].ID + 1
	}
	t.TimeEntries = append(t.TimeEntries, models.TimeEntry{
		ID:       id,
		Start:    now,
		IsActive: true,
	})
	t.UpdatedAt = now
	return true
}

// stopTimer closes the running time entry, if any.
func stopTimer(t *models.Task, now time.Time) bool {
	i := t.ActiveEntry()
	if i < 0 {
		return false
	}

	end := now
	if end.Before(t.TimeEntries[i].Start) {
		end = t.TimeEntries[i].Start
	}
	t.TimeEntries[i].End = &end
	t.TimeEntries[i].IsActive = false
	t.UpdatedAt = now
	return true
}

// StartTimer starts tracking time on a task. It does nothing when the task
// already has a running timer.
func (b *Board) StartTimer(taskID string) (*models.Task, error) {
	return b.updateTimer(taskID, "started timer", func(t *models.Task, now time.Time) bool {
		return startTimer(t, now)
	})
}

// StopTimer stops the task's running timer. It does nothing when no timer
// is running.
func (b *Board) StopTimer(taskID string) (*models.Task, error) {
	return b.updateTimer(taskID, "stopped timer", stopTimer)
}

// ToggleTimer starts the timer when none is running and stops it otherwise.
func (b *Board) ToggleTimer(taskID string) (*models.Task, error) {
	return b.updateTimer(taskID, "toggled timer", func(t *models.Task, now time.Time) bool {
		if t.ActiveEntry() >= 0 {
			return stopTimer(t, now)
		}
		return startTimer(t, now)
	})
}

// ActualHours returns the tracked hours of a task, including the running
// entry up to now.
func (b *Board) ActualHours(taskID string) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[taskID]
	if !ok {
		return 0, taskNotFound(taskID)
	}
	return t.ActualHours(b.now()), nil
}

func (b *Board) updateTimer(taskID, msg string, fn func(*models.Task, time.Time) bool) (*models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[taskID]
	if !ok {
		b.logger.Warn().
			Str("task_id", taskID).
			Msg("task not found")
		return nil, taskNotFound(taskID)
	}

	if !fn(t, b.now()) {
		b.logger.Debug().
			Str("task_id", taskID).
			Msg("timer unchanged")
		return t.Clone(), nil
	}

	b.publish(persist.Job{Op: persist.OpSaveTask, ID: t.ID, Task: t.Clone()})
	b.logger.Info().
		Str("task_id", taskID).
		Int("entries", len(t.TimeEntries)).
		Msg(msg)
	return t.Clone(), nil
}
