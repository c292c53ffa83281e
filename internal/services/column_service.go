package services

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/persist"
)

type columnServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewColumnService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) ColumnService {
	return &columnServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *columnServiceImpl) ListColumns(ctx context.Context) ([]persist.ColumnRecord, error) {
	const selectColumnsQuery = `
SELECT view_name,
       id,
       title,
       color,
       has_categories,
       has_people,
       categories
FROM columns
ORDER BY view_name, position
`
	rows, err := s.pgPool.Query(ctx, selectColumnsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select columns")
		return nil, err
	}
	defer rows.Close()

	var records []persist.ColumnRecord
	for rows.Next() {
		var (
			record     persist.ColumnRecord
			id         string
			categories string
		)
		err = rows.Scan(
			&record.View,
			&id,
			&record.Column.Title,
			&record.Column.Color,
			&record.Column.HasCategories,
			&record.Column.HasPeople,
			&categories,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan column")
			return nil, err
		}
		record.Column.ID = models.Status(id)

		// Categories share the tag encoding.
		record.Column.Categories, err = models.DecodeTags(categories)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("view", record.View).
				Str("column_id", id).
				Msg("failed to decode categories")
			return nil, err
		}
		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Info().
		Int("count", len(records)).
		Msg("selected columns")
	return records, nil
}

func (s *columnServiceImpl) SaveColumn(ctx context.Context, view string, column models.Column) error {
	categories, err := models.EncodeTags(column.Categories)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("view", view).
			Str("column_id", string(column.ID)).
			Msg("failed to encode categories")
		return err
	}

	const upsertColumnQuery = `
INSERT INTO columns (view_name,
                     id,
                     title,
                     color,
                     has_categories,
                     has_people,
                     categories,
                     position)
VALUES ($1, $2, $3, $4, $5, $6, $7,
        (SELECT COALESCE(MAX(position), 0) + 1 FROM columns WHERE view_name = $1))
ON CONFLICT (view_name, id) DO UPDATE
SET title = EXCLUDED.title,
    color = EXCLUDED.color,
    has_categories = EXCLUDED.has_categories,
    has_people = EXCLUDED.has_people,
    categories = EXCLUDED.categories
`
	_, err = s.pgPool.Exec(
		ctx,
		upsertColumnQuery,
		view,
		string(column.ID),
		column.Title,
		column.Color,
		column.HasCategories,
		column.HasPeople,
		categories,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.UniqueViolation {
				s.logger.Error().
					Str("view", view).
					Str("title", column.Title).
					Msg("column with this title already exists")
				return ErrColumnAlreadyExists
			}
		}

		s.logger.Error().
			Err(err).
			Str("view", view).
			Str("column_id", string(column.ID)).
			Msg("failed to upsert column")
		return err
	}

	s.logger.Debug().
		Str("view", view).
		Str("column_id", string(column.ID)).
		Msg("saved column")
	return nil
}
