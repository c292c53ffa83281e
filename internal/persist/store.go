// Package persist pushes board changes to the remote store in the
// background. Local changes are never rolled back; failed saves are retried
// and, once retries run out, reported as warnings.
package persist

import (
	"context"
	"fmt"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

type Op string

const (
	OpSaveTask      Op = "save_task"
	OpDeleteTask    Op = "delete_task"
	OpSaveProject   Op = "save_project"
	OpDeleteProject Op = "delete_project"
	OpSavePerson    Op = "save_person"
	OpDeletePerson  Op = "delete_person"
	OpSaveColumn    Op = "save_column"
)

// Job is one change to write. Exactly one payload field matching Op is set;
// delete jobs carry only ID.
type Job struct {
	Op      Op
	ID      string
	Task    *models.Task
	Project *models.Project
	Person  *models.Person
	View    string
	Column  *models.Column
}

type ColumnRecord struct {
	View   string
	Column models.Column
}

// Snapshot is everything the board needs at start-up.
type Snapshot struct {
	Tasks    []*models.Task
	Projects []*models.Project
	People   []*models.Person
	Columns  []ColumnRecord
}

type Store interface {
	ListTasks(ctx context.Context) ([]*models.Task, error)
	SaveTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error

	ListProjects(ctx context.Context) ([]*models.Project, error)
	SaveProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id string) error

	ListPeople(ctx context.Context) ([]*models.Person, error)
	SavePerson(ctx context.Context, person *models.Person) error
	DeletePerson(ctx context.Context, id string) error

	ListColumns(ctx context.Context) ([]ColumnRecord, error)
	SaveColumn(ctx context.Context, view string, column models.Column) error
}

// PersistenceError reports a change that could not be written to the store.
type PersistenceError struct {
	Op       Op
	ID       string
	Attempts int
	Err      error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s after %d attempt(s): %v", e.Op, e.ID, e.Attempts, e.Err)
}

func (e PersistenceError) Unwrap() error {
	return e.Err
}

// Load reads every collection the board is built from.
func Load(ctx context.Context, store Store) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)

	snap.Tasks, err = store.ListTasks(ctx)
	if err != nil {
		return Snapshot{}, PersistenceError{Op: "list_tasks", Attempts: 1, Err: err}
	}
	snap.Projects, err = store.ListProjects(ctx)
	if err != nil {
		return Snapshot{}, PersistenceError{Op: "list_projects", Attempts: 1, Err: err}
	}
	snap.People, err = store.ListPeople(ctx)
	if err != nil {
		return Snapshot{}, PersistenceError{Op: "list_people", Attempts: 1, Err: err}
	}
	snap.Columns, err = store.ListColumns(ctx)
	if err != nil {
		return Snapshot{}, PersistenceError{Op: "list_columns", Attempts: 1, Err: err}
	}
	return snap, nil
}

func apply(ctx context.Context, store Store, job Job) error {
	switch job.Op {
	case OpSaveTask:
		return store.SaveTask(ctx, job.Task)
	case OpDeleteTask:
		return store.DeleteTask(ctx, job.ID)
	case OpSaveProject:
		return store.SaveProject(ctx, job.Project)
	case OpDeleteProject:
		return store.DeleteProject(ctx, job.ID)
	case OpSavePerson:
		return store.SavePerson(ctx, job.Person)
	case OpDeletePerson:
		return store.DeletePerson(ctx, job.ID)
	case OpSaveColumn:
		return store.SaveColumn(ctx, job.View, *job.Column)
	default:
		return fmt.Errorf("unknown op %q", job.Op)
	}
}
