package board

import (
	"slices"
	"strings"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/persist"
)

type AddProjectParams struct {
	Name        string
	Description string
	Status      models.ProjectStatus
	Progress    *int
	DueAt       *time.Time
}

type UpdateProjectParams struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus

	// Progress pins the progress to a manual value. AutoProgress switches
	// back to progress derived from tasks and wins over Progress.
	Progress     *int
	AutoProgress bool
	DueAt        *time.Time
}

func (b *Board) AddProject(params AddProjectParams) (*models.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if params.Status == "" {
		params.Status = models.ProjectActive
	}
	if !models.IsValidProjectStatus(params.Status) {
		return nil, ValidationError{Field: "status", Reason: "unknown project status " + string(params.Status)}
	}
	err := checkProgress(params.Progress)
	if err != nil {
		return nil, err
	}

	id, err := b.newID()
	if err != nil {
		b.logger.Error().
			Err(err).
			Msg("failed to generate project id")
		return nil, err
	}

	p := &models.Project{
		ID:          id,
		Name:        name,
		Description: params.Description,
		Status:      params.Status,
		CreatedAt:   b.now(),
	}
	if params.Progress != nil {
		p.Progress = *params.Progress
		p.ManualProgress = true
	}
	if params.DueAt != nil {
		due := *params.DueAt
		p.DueAt = &due
	}

	b.projects[p.ID] = p
	b.publish(persist.Job{Op: persist.OpSaveProject, ID: p.ID, Project: p.Clone()})
	b.logger.Info().
		Str("project_id", p.ID).
		Msg("created project")
	return b.projectView(p), nil
}

func (b *Board) UpdateProject(projectID string, params UpdateProjectParams) (*models.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.projects[projectID]
	if !ok {
		return nil, NotFoundError{Kind: "project", ID: projectID}
	}

	next := p.Clone()
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, ValidationError{Field: "name", Reason: "must not be empty"}
		}
		next.Name = name
	}
	if params.Description != nil {
		next.Description = *params.Description
	}
	if params.Status != nil {
		if !models.IsValidProjectStatus(*params.Status) {
			return nil, ValidationError{Field: "status", Reason: "unknown project status " + string(*params.Status)}
		}
		next.Status = *params.Status
	}
	switch {
	case params.AutoProgress:
		next.ManualProgress = false
		next.Progress = 0
	case params.Progress != nil:
		err := checkProgress(params.Progress)
		if err != nil {
			return nil, err
		}
		next.Progress = *params.Progress
		next.ManualProgress = true
	}
	if params.DueAt != nil {
		due := *params.DueAt
		next.DueAt = &due
	}

	*p = *next
	b.publish(persist.Job{Op: persist.OpSaveProject, ID: p.ID, Project: p.Clone()})
	b.logger.Info().
		Str("project_id", p.ID).
		Msg("updated project")
	return b.projectView(p), nil
}

// DeleteProject removes a project. Its tasks keep their project id.
func (b *Board) DeleteProject(projectID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.projects[projectID]; !ok {
		return NotFoundError{Kind: "project", ID: projectID}
	}

	delete(b.projects, projectID)
	b.publish(persist.Job{Op: persist.OpDeleteProject, ID: projectID})
	b.logger.Info().
		Str("project_id", projectID).
		Msg("deleted project")
	return nil
}

func (b *Board) Project(projectID string) (*models.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.projects[projectID]
	if !ok {
		return nil, NotFoundError{Kind: "project", ID: projectID}
	}
	return b.projectView(p), nil
}

func (b *Board) Projects() []*models.Project {
	b.mu.Lock()
	defer b.mu.Unlock()

	projects := make([]*models.Project, 0, len(b.projects))
	for _, p := range b.projects {
		projects = append(projects, b.projectView(p))
	}
	slices.SortFunc(projects, func(x, y *models.Project) int {
		if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(x.ID, y.ID)
	})
	return projects
}

// projectView copies p and fills in derived progress: the share of the
// project's tasks that are completed.
func (b *Board) projectView(p *models.Project) *models.Project {
	c := p.Clone()
	if c.ManualProgress {
		return c
	}

	var total, done int
	for _, t := range b.tasks {
		if t.ProjectID != p.ID {
			continue
		}
		total++
		if t.Status == models.StatusCompleted {
			done++
		}
	}
	if total > 0 {
		c.Progress = done * 100 / total
	}
	return c
}

func checkProgress(progress *int) error {
	if progress != nil && (*progress < 0 || *progress > 100) {
		return ValidationError{Field: "progress", Reason: "must be between 0 and 100"}
	}
	return nil
}
