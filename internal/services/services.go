package services

import (
	"context"
	"errors"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/persist"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrPersonNotFound      = errors.New("person not found")
	ErrPersonAlreadyExists = errors.New("person already exists")
	ErrColumnAlreadyExists = errors.New("column with this title already exists")
	ErrMemberNotFound      = errors.New("member record not found")
	ErrInvalidMemberEntry  = errors.New("invalid member record entry")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrAuthNotConfigured   = errors.New("shared secret is not configured")
)

type TaskService interface {
	// ListTasks returns every stored task with its tags and time entries
	// decoded.
	ListTasks(ctx context.Context) ([]*models.Task, error)

	// SaveTask inserts the task or overwrites the stored row with the
	// same ID.
	SaveTask(ctx context.Context, task *models.Task) error

	// DeleteTask returns ErrTaskNotFound if no row has the given ID.
	DeleteTask(ctx context.Context, id string) error
}

type ProjectService interface {
	ListProjects(ctx context.Context) ([]*models.Project, error)
	SaveProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id string) error
}

type PersonService interface {
	ListPeople(ctx context.Context) ([]*models.Person, error)

	// SavePerson returns ErrPersonAlreadyExists if another person
	// already uses the name.
	SavePerson(ctx context.Context, person *models.Person) error
	DeletePerson(ctx context.Context, id string) error
}

type ColumnService interface {
	ListColumns(ctx context.Context) ([]persist.ColumnRecord, error)

	// SaveColumn returns ErrColumnAlreadyExists if another column of the
	// view already has the title.
	SaveColumn(ctx context.Context, view string, column models.Column) error
}

type MemberRecordService interface {
	// GetRecord fetches the extended record of the member with the given
	// name, decoding every blob field. It returns ErrMemberNotFound if the
	// member has no record yet.
	GetRecord(ctx context.Context, name string) (*models.MemberRecord, error)

	// AppendGoal reads the whole record, appends the goal in memory and
	// writes the whole record back. Two concurrent appends for the same
	// member can lose one of the goals.
	AppendGoal(ctx context.Context, name string, goal models.Goal) (*models.MemberRecord, error)

	// AppendNote works like AppendGoal for notes.
	AppendNote(ctx context.Context, name string, note models.Note) (*models.MemberRecord, error)
}

type AuthService interface {
	// Authorize compares the presented secret with the configured one.
	// It returns ErrAuthNotConfigured if no secret is configured and
	// ErrUnauthorized on mismatch.
	Authorize(secret string) error
}
