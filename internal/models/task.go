package models

import "time"

type Status string

const (
	StatusUncategorized Status = "uncategorized"
	StatusToday         Status = "today"
	StatusThisWeek      Status = "thisWeek"
	StatusDelegated     Status = "delegated"
	StatusLater         Status = "later"
	StatusCompleted     Status = "completed"
)

// IsCanonicalStatus reports whether s is one of the statuses shared by every view.
func IsCanonicalStatus(s Status) bool {
	switch s {
	case StatusUncategorized, StatusToday, StatusThisWeek,
		StatusDelegated, StatusLater, StatusCompleted:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// TimeEntry is one start/stop interval of a task's time log.
type TimeEntry struct {
	ID       int        `json:"id"`
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end,omitempty"`
	IsActive bool       `json:"is_active"`
}

type Task struct {
	ID             string
	Title          string
	Description    string
	Status         Status
	Priority       Priority
	Category       string
	ProjectID      string
	PersonID       string
	Tags           []string
	TimeEntries    []TimeEntry
	EstimatedHours *float64
	CompletedAt    *time.Time
	DueAt          *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone returns a deep copy so callers never share slices or pointers
// with the board's own state.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.TimeEntries != nil {
		c.TimeEntries = make([]TimeEntry, len(t.TimeEntries))
		for i, e := range t.TimeEntries {
			c.TimeEntries[i] = e
			if e.End != nil {
				end := *e.End
				c.TimeEntries[i].End = &end
			}
		}
	}
	c.EstimatedHours = cloneFloat(t.EstimatedHours)
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.DueAt = cloneTime(t.DueAt)
	return &c
}

// ActiveEntry returns the index of the running time entry or -1.
func (t *Task) ActiveEntry() int {
	for i := range t.TimeEntries {
		if t.TimeEntries[i].IsActive {
			return i
		}
	}
	return -1
}

// ActualDuration sums closed entries plus the elapsed part of the active one.
func (t *Task) ActualDuration(now time.Time) time.Duration {
	var total time.Duration
	for _, e := range t.TimeEntries {
		switch {
		case e.IsActive:
			if now.After(e.Start) {
				total += now.Sub(e.Start)
			}
		case e.End != nil:
			total += e.End.Sub(e.Start)
		}
	}
	return total
}

func (t *Task) ActualHours(now time.Time) float64 {
	return t.ActualDuration(now).Hours()
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
