package models

import "time"

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

func IsValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	default:
		return false
	}
}

type Project struct {
	ID          string
	Name        string
	Description string
	Status      ProjectStatus

	// Progress is a percentage in [0, 100]. When ManualProgress is false it
	// is recomputed from the project's tasks on read.
	Progress       int
	ManualProgress bool

	CreatedAt time.Time
	DueAt     *time.Time
}

func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	c.DueAt = cloneTime(p.DueAt)
	return &c
}
