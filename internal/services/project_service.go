package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

type projectServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewProjectService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) ProjectService {
	return &projectServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *projectServiceImpl) ListProjects(ctx context.Context) ([]*models.Project, error) {
	const selectProjectsQuery = `
SELECT id,
       name,
       description,
       status,
       progress,
       manual_progress,
       created_at,
       due_at
FROM projects
ORDER BY created_at
`
	rows, err := s.pgPool.Query(ctx, selectProjectsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select projects")
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var (
			project models.Project
			status  string
		)
		err = rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&status,
			&project.Progress,
			&project.ManualProgress,
			&project.CreatedAt,
			&project.DueAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan project")
			return nil, err
		}
		project.Status = models.ProjectStatus(status)
		projects = append(projects, &project)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Info().
		Int("count", len(projects)).
		Msg("selected projects")
	return projects, nil
}

func (s *projectServiceImpl) SaveProject(ctx context.Context, project *models.Project) error {
	const upsertProjectQuery = `
INSERT INTO projects (id,
                      name,
                      description,
                      status,
                      progress,
                      manual_progress,
                      created_at,
                      due_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    status = EXCLUDED.status,
    progress = EXCLUDED.progress,
    manual_progress = EXCLUDED.manual_progress,
    due_at = EXCLUDED.due_at
`
	_, err := s.pgPool.Exec(
		ctx,
		upsertProjectQuery,
		project.ID,
		project.Name,
		project.Description,
		string(project.Status),
		project.Progress,
		project.ManualProgress,
		project.CreatedAt,
		project.DueAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", project.ID).
			Msg("failed to upsert project")
		return err
	}

	s.logger.Debug().
		Str("project_id", project.ID).
		Msg("saved project")
	return nil
}

// DeleteProject leaves tasks that reference the project untouched.
func (s *projectServiceImpl) DeleteProject(ctx context.Context, id string) error {
	const deleteProjectQuery = `
DELETE FROM projects
WHERE id = $1
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteProjectQuery,
		id,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", id).
			Msg("failed to delete project")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("project_id", id).
			Msg("project not found")
		return ErrProjectNotFound
	}

	s.logger.Debug().
		Str("project_id", id).
		Msg("deleted project")
	return nil
}
