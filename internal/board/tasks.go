package board

import (
	"slices"
	"strings"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/persist"
)

type AddTaskParams struct {
	Title          string
	Description    string
	Status         models.Status
	Priority       models.Priority
	Category       string
	ProjectID      string
	PersonID       string
	Tags           []string
	EstimatedHours *float64
	DueAt          *time.Time
}

// UpdateTaskParams holds the editable fields of a task. Nil fields are left
// as they are.
type UpdateTaskParams struct {
	Title          *string
	Description    *string
	Priority       *models.Priority
	ProjectID      *string
	Tags           *[]string
	EstimatedHours *float64
	DueAt          *time.Time
}

// AddTask creates a task and places it in the bucket given by Status,
// Category and PersonID. Status defaults to uncategorized and Priority to
// medium.
func (b *Board) AddTask(params AddTaskParams) (*models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if params.Priority == "" {
		params.Priority = models.PriorityMedium
	}
	if !models.IsValidPriority(params.Priority) {
		return nil, ValidationError{Field: "priority", Reason: "unknown priority " + string(params.Priority)}
	}
	if params.Status == "" {
		params.Status = models.StatusUncategorized
	}
	col, ok := b.column(params.Status)
	if !ok {
		return nil, ValidationError{Field: "status", Reason: "unknown column " + string(params.Status)}
	}
	err := b.checkEstimate(params.EstimatedHours)
	if err != nil {
		return nil, err
	}
	if params.ProjectID != "" {
		if _, ok = b.projects[params.ProjectID]; !ok {
			return nil, NotFoundError{Kind: "project", ID: params.ProjectID}
		}
	}
	if params.PersonID != "" && col.HasPeople {
		if _, ok = b.people[params.PersonID]; !ok {
			return nil, NotFoundError{Kind: "person", ID: params.PersonID}
		}
	}

	id, err := b.newID()
	if err != nil {
		b.logger.Error().
			Err(err).
			Msg("failed to generate task id")
		return nil, err
	}

	now := b.now()
	if params.EstimatedHours != nil {
		estimate := *params.EstimatedHours
		params.EstimatedHours = &estimate
	}
	if params.DueAt != nil {
		due := *params.DueAt
		params.DueAt = &due
	}
	t := &models.Task{
		ID:             id,
		Title:          title,
		Description:    params.Description,
		Status:         models.StatusUncategorized,
		Priority:       params.Priority,
		ProjectID:      params.ProjectID,
		Tags:           slices.Clone(params.Tags),
		EstimatedHours: params.EstimatedHours,
		DueAt:          params.DueAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err = assign(t, col, params.Category, params.PersonID, now)
	if err != nil {
		b.logger.Error().
			Err(err).
			Msg("failed to place new task")
		return nil, err
	}

	b.tasks[t.ID] = t
	b.publish(persist.Job{Op: persist.OpSaveTask, ID: t.ID, Task: t.Clone()})
	b.logger.Info().
		Str("task_id", t.ID).
		Str("status", string(t.Status)).
		Msg("created task")
	return t.Clone(), nil
}

// UpdateTask edits the descriptive fields of a task. Placement, status and
// timers have their own operations.
func (b *Board) UpdateTask(taskID string, params UpdateTaskParams) (*models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[taskID]
	if !ok {
		return nil, taskNotFound(taskID)
	}

	next := t.Clone()
	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, ValidationError{Field: "title", Reason: "must not be empty"}
		}
		next.Title = title
	}
	if params.Description != nil {
		next.Description = *params.Description
	}
	if params.Priority != nil {
		if !models.IsValidPriority(*params.Priority) {
			return nil, ValidationError{Field: "priority", Reason: "unknown priority " + string(*params.Priority)}
		}
		next.Priority = *params.Priority
	}
	if params.ProjectID != nil && *params.ProjectID != next.ProjectID {
		if *params.ProjectID != "" {
			if _, ok = b.projects[*params.ProjectID]; !ok {
				return nil, NotFoundError{Kind: "project", ID: *params.ProjectID}
			}
		}
		next.ProjectID = *params.ProjectID
	}
	if params.Tags != nil {
		next.Tags = slices.Clone(*params.Tags)
	}
	if params.EstimatedHours != nil {
		err := b.checkEstimate(params.EstimatedHours)
		if err != nil {
			return nil, err
		}
		estimate := *params.EstimatedHours
		next.EstimatedHours = &estimate
	}
	if params.DueAt != nil {
		due := *params.DueAt
		next.DueAt = &due
	}

	next.UpdatedAt = b.now()
	*t = *next
	b.publish(persist.Job{Op: persist.OpSaveTask, ID: t.ID, Task: t.Clone()})
	b.logger.Info().
		Str("task_id", t.ID).
		Msg("updated task")
	return t.Clone(), nil
}

func (b *Board) checkEstimate(hours *float64) error {
	if hours != nil && *hours < 0 {
		return ValidationError{Field: "estimated_hours", Reason: "must not be negative"}
	}
	return nil
}

// DeleteTask removes a task for good.
func (b *Board) DeleteTask(taskID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.tasks[taskID]; !ok {
		b.logger.Warn().
			Str("task_id", taskID).
			Msg("task not found")
		return taskNotFound(taskID)
	}

	delete(b.tasks, taskID)
	if b.session != nil && b.session.TaskID == taskID {
		b.session = nil
	}
	b.publish(persist.Job{Op: persist.OpDeleteTask, ID: taskID})
	b.logger.Info().
		Str("task_id", taskID).
		Msg("deleted task")
	return nil
}

func (b *Board) Task(taskID string) (*models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[taskID]
	if !ok {
		return nil, taskNotFound(taskID)
	}
	return t.Clone(), nil
}

// Tasks returns copies of all tasks, oldest first.
func (b *Board) Tasks() []*models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.sortedTasks(nil)
}

// Search returns the tasks whose title, description or tags contain query,
// ignoring case. An empty query matches every task.
func (b *Board) Search(query string) []*models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return b.sortedTasks(nil)
	}
	return b.sortedTasks(func(t *models.Task) bool {
		if strings.Contains(strings.ToLower(t.Title), query) ||
			strings.Contains(strings.ToLower(t.Description), query) {
			return true
		}
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				return true
			}
		}
		return false
	})
}

func (b *Board) sortedTasks(keep func(*models.Task) bool) []*models.Task {
	tasks := make([]*models.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		if keep == nil || keep(t) {
			tasks = append(tasks, t.Clone())
		}
	}
	slices.SortFunc(tasks, compareTasks)
	return tasks
}

func compareTasks(a, b *models.Task) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
