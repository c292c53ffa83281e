package v1

import (
	"time"

	"github.com/adanyl0v/go-taskboard/internal/board"
	"github.com/adanyl0v/go-taskboard/internal/models"
)

type taskResponse struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Status         string             `json:"status"`
	Priority       string             `json:"priority"`
	Category       string             `json:"category,omitempty"`
	ProjectID      string             `json:"project_id,omitempty"`
	PersonID       string             `json:"person_id,omitempty"`
	Tags           []string           `json:"tags"`
	TimeEntries    []models.TimeEntry `json:"time_entries"`
	Tracking       bool               `json:"tracking"`
	ActualHours    float64            `json:"actual_hours"`
	EstimatedHours *float64           `json:"estimated_hours,omitempty"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	DueAt          *time.Time         `json:"due_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func newTaskResponse(task *models.Task, now time.Time) taskResponse {
	resp := taskResponse{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         string(task.Status),
		Priority:       string(task.Priority),
		Category:       task.Category,
		ProjectID:      task.ProjectID,
		PersonID:       task.PersonID,
		Tags:           task.Tags,
		TimeEntries:    task.TimeEntries,
		Tracking:       task.ActiveEntry() >= 0,
		ActualHours:    task.ActualHours(now),
		EstimatedHours: task.EstimatedHours,
		CompletedAt:    task.CompletedAt,
		DueAt:          task.DueAt,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if resp.TimeEntries == nil {
		resp.TimeEntries = []models.TimeEntry{}
	}
	return resp
}

func newTaskResponses(tasks []*models.Task, now time.Time) []taskResponse {
	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task, now)
	}
	return response
}

type projectResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Progress       int        `json:"progress"`
	ManualProgress bool       `json:"manual_progress"`
	CreatedAt      time.Time  `json:"created_at"`
	DueAt          *time.Time `json:"due_at,omitempty"`
}

func newProjectResponse(project *models.Project) projectResponse {
	return projectResponse{
		ID:             project.ID,
		Name:           project.Name,
		Description:    project.Description,
		Status:         string(project.Status),
		Progress:       project.Progress,
		ManualProgress: project.ManualProgress,
		CreatedAt:      project.CreatedAt,
		DueAt:          project.DueAt,
	}
}

type personResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role,omitempty"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func newPersonResponse(person *models.Person) personResponse {
	return personResponse{
		ID:         person.ID,
		Name:       person.Name,
		Color:      person.Color,
		Email:      person.Email,
		Role:       person.Role,
		Department: person.Department,
		CreatedAt:  person.CreatedAt,
	}
}

type dropTargetResponse struct {
	Kind   string `json:"kind"`
	ID     string `json:"id,omitempty"`
	Column string `json:"column,omitempty"`
	Raw    string `json:"raw"`
}

func newDropTargetResponse(target *models.DropTarget) *dropTargetResponse {
	if target == nil {
		return nil
	}
	return &dropTargetResponse{
		Kind:   target.Kind.String(),
		ID:     target.ID,
		Column: string(target.Column),
		Raw:    target.Raw,
	}
}

type dragStateResponse struct {
	Active    bool                `json:"active"`
	TaskID    string              `json:"task_id,omitempty"`
	Hover     *dropTargetResponse `json:"hover,omitempty"`
	StartedAt *time.Time          `json:"started_at,omitempty"`
}

func newDragStateResponse(session models.DragSession) dragStateResponse {
	startedAt := session.StartedAt
	return dragStateResponse{
		Active:    true,
		TaskID:    session.TaskID,
		Hover:     newDropTargetResponse(session.Hover),
		StartedAt: &startedAt,
	}
}

type subBucketResponse struct {
	Key   string         `json:"key"`
	Label string         `json:"label"`
	Tasks []taskResponse `json:"tasks"`
}

type columnGroupResponse struct {
	Column  models.Column       `json:"column"`
	Tasks   []taskResponse      `json:"tasks"`
	Buckets []subBucketResponse `json:"buckets,omitempty"`
}

// newColumnGroupResponses labels person lanes with the person's name.
func newColumnGroupResponses(
	groups []board.ColumnGroup,
	people []*models.Person,
	now time.Time,
) []columnGroupResponse {
	names := make(map[string]string, len(people))
	for _, p := range people {
		names[p.ID] = p.Name
	}

	response := make([]columnGroupResponse, len(groups))
	for i, g := range groups {
		response[i] = columnGroupResponse{
			Column: g.Column,
			Tasks:  newTaskResponses(g.Tasks, now),
		}
		for _, sb := range g.Buckets {
			label := sb.Key
			if g.Column.HasPeople {
				if name, ok := names[sb.Key]; ok {
					label = name
				}
			}
			response[i].Buckets = append(response[i].Buckets, subBucketResponse{
				Key:   sb.Key,
				Label: label,
				Tasks: newTaskResponses(sb.Tasks, now),
			})
		}
	}
	return response
}
