package services

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

type personServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewPersonService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) PersonService {
	return &personServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *personServiceImpl) ListPeople(ctx context.Context) ([]*models.Person, error) {
	const selectPeopleQuery = `
SELECT id,
       name,
       color,
       email,
       role,
       department,
       created_at
FROM people
ORDER BY name
`
	rows, err := s.pgPool.Query(ctx, selectPeopleQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select people")
		return nil, err
	}
	defer rows.Close()

	var people []*models.Person
	for rows.Next() {
		var person models.Person
		err = rows.Scan(
			&person.ID,
			&person.Name,
			&person.Color,
			&person.Email,
			&person.Role,
			&person.Department,
			&person.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan person")
			return nil, err
		}
		people = append(people, &person)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Info().
		Int("count", len(people)).
		Msg("selected people")
	return people, nil
}

func (s *personServiceImpl) SavePerson(ctx context.Context, person *models.Person) error {
	const upsertPersonQuery = `
INSERT INTO people (id,
                    name,
                    color,
                    email,
                    role,
                    department,
                    created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    color = EXCLUDED.color,
    email = EXCLUDED.email,
    role = EXCLUDED.role,
    department = EXCLUDED.department
`
	_, err := s.pgPool.Exec(
		ctx,
		upsertPersonQuery,
		person.ID,
		person.Name,
		person.Color,
		person.Email,
		person.Role,
		person.Department,
		person.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.UniqueViolation {
				s.logger.Error().
					Str("name", person.Name).
					Msg("person with this name already exists")
				return ErrPersonAlreadyExists
			}
		}

		s.logger.Error().
			Err(err).
			Str("person_id", person.ID).
			Msg("failed to upsert person")
		return err
	}

	s.logger.Debug().
		Str("person_id", person.ID).
		Msg("saved person")
	return nil
}

func (s *personServiceImpl) DeletePerson(ctx context.Context, id string) error {
	const deletePersonQuery = `
DELETE FROM people
WHERE id = $1
`
	tag, err := s.pgPool.Exec(
		ctx,
		deletePersonQuery,
		id,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("person_id", id).
			Msg("failed to delete person")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("person_id", id).
			Msg("person not found")
		return ErrPersonNotFound
	}

	s.logger.Debug().
		Str("person_id", id).
		Msg("deleted person")
	return nil
}
