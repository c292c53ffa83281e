package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*models.Task, error) {
	const selectTasksQuery = `
SELECT id,
       title,
       description,
       status,
       priority,
       category,
       project_id,
       person_id,
       tags,
       time_entries,
       estimated_hours,
       completed_at,
       due_at,
       created_at,
       updated_at
FROM tasks
ORDER BY created_at
`
	rows, err := s.pgPool.Query(ctx, selectTasksQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var (
			task        models.Task
			status      string
			priority    string
			tags        string
			timeEntries string
		)
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&status,
			&priority,
			&task.Category,
			&task.ProjectID,
			&task.PersonID,
			&tags,
			&timeEntries,
			&task.EstimatedHours,
			&task.CompletedAt,
			&task.DueAt,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		task.Status = models.Status(status)
		task.Priority = models.Priority(priority)

		task.Tags, err = models.DecodeTags(tags)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("task_id", task.ID).
				Msg("failed to decode tags")
			return nil, err
		}

		task.TimeEntries, err = decodeTimeEntries(timeEntries)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("task_id", task.ID).
				Msg("failed to decode time entries")
			return nil, err
		}
		tasks = append(tasks, &task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Info().
		Int("count", len(tasks)).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) SaveTask(ctx context.Context, task *models.Task) error {
	tags, err := models.EncodeTags(task.Tags)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to encode tags")
		return err
	}

	timeEntries, err := encodeTimeEntries(task.TimeEntries)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to encode time entries")
		return err
	}

	const upsertTaskQuery = `
INSERT INTO tasks (id,
                   title,
                   description,
                   status,
                   priority,
                   category,
                   project_id,
                   person_id,
                   tags,
                   time_entries,
                   estimated_hours,
                   completed_at,
                   due_at,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (id) DO UPDATE
SET title = EXCLUDED.title,
    description = EXCLUDED.description,
    status = EXCLUDED.status,
    priority = EXCLUDED.priority,
    category = EXCLUDED.category,
    project_id = EXCLUDED.project_id,
    person_id = EXCLUDED.person_id,
    tags = EXCLUDED.tags,
    time_entries = EXCLUDED.time_entries,
    estimated_hours = EXCLUDED.estimated_hours,
    completed_at = EXCLUDED.completed_at,
    due_at = EXCLUDED.due_at,
    updated_at = EXCLUDED.updated_at
`
	_, err = s.pgPool.Exec(
		ctx,
		upsertTaskQuery,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.Category,
		task.ProjectID,
		task.PersonID,
		tags,
		timeEntries,
		task.EstimatedHours,
		task.CompletedAt,
		task.DueAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to upsert task")
		return err
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("saved task")
	return nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		id,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("task_id", id).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Debug().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

// storedTimeEntry keeps the wire format of the time_entries column
// independent of the model's JSON tags.
type storedTimeEntry struct {
	ID     int        `json:"id"`
	Start  time.Time  `json:"start"`
	End    *time.Time `json:"end,omitempty"`
	Active bool       `json:"active"`
}

func encodeTimeEntries(entries []models.TimeEntry) (string, error) {
	stored := make([]storedTimeEntry, len(entries))
	for i, e := range entries {
		stored[i] = storedTimeEntry{
			ID:     e.ID,
			Start:  e.Start,
			End:    e.End,
			Active: e.IsActive,
		}
	}

	b, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("failed to marshal time entries: %w", err)
	}
	return string(b), nil
}

func decodeTimeEntries(raw string) ([]models.TimeEntry, error) {
	if raw == "" {
		return nil, nil
	}

	var stored []storedTimeEntry
	err := json.Unmarshal([]byte(raw), &stored)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal time entries: %w", err)
	}
	if len(stored) == 0 {
		return nil, nil
	}

	entries := make([]models.TimeEntry, len(stored))
	for i, e := range stored {
		entries[i] = models.TimeEntry{
			ID:       e.ID,
			Start:    e.Start,
			End:      e.End,
			IsActive: e.Active,
		}
	}
	return entries, nil
}
