package services

import (
	"context"
	"errors"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/persist"
)

var _ persist.Store = (*Store)(nil)

// Store exposes the postgres services as one persist.Store. Deleting a row
// that is already gone counts as success so a retried delete settles.
type Store struct {
	tasks    TaskService
	projects ProjectService
	people   PersonService
	columns  ColumnService
}

func NewStore(
	taskService TaskService,
	projectService ProjectService,
	personService PersonService,
	columnService ColumnService,
) *Store {
	return &Store{
		tasks:    taskService,
		projects: projectService,
		people:   personService,
		columns:  columnService,
	}
}

func (s *Store) ListTasks(ctx context.Context) ([]*models.Task, error) {
	return s.tasks.ListTasks(ctx)
}

func (s *Store) SaveTask(ctx context.Context, task *models.Task) error {
	return s.tasks.SaveTask(ctx, task)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return ignoreNotFound(s.tasks.DeleteTask(ctx, id), ErrTaskNotFound)
}

func (s *Store) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return s.projects.ListProjects(ctx)
}

func (s *Store) SaveProject(ctx context.Context, project *models.Project) error {
	return s.projects.SaveProject(ctx, project)
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return ignoreNotFound(s.projects.DeleteProject(ctx, id), ErrProjectNotFound)
}

func (s *Store) ListPeople(ctx context.Context) ([]*models.Person, error) {
	return s.people.ListPeople(ctx)
}

func (s *Store) SavePerson(ctx context.Context, person *models.Person) error {
	return s.people.SavePerson(ctx, person)
}

func (s *Store) DeletePerson(ctx context.Context, id string) error {
	return ignoreNotFound(s.people.DeletePerson(ctx, id), ErrPersonNotFound)
}

func (s *Store) ListColumns(ctx context.Context) ([]persist.ColumnRecord, error) {
	return s.columns.ListColumns(ctx)
}

func (s *Store) SaveColumn(ctx context.Context, view string, column models.Column) error {
	return s.columns.SaveColumn(ctx, view, column)
}

func ignoreNotFound(err, notFound error) error {
	if errors.Is(err, notFound) {
		return nil
	}
	return err
}
