package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

type memberRecordServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	now    func() time.Time
}

func NewMemberRecordService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) MemberRecordService {
	return &memberRecordServiceImpl{
		logger: logger,
		pgPool: pgPool,
		now:    time.Now,
	}
}

// memberBlobs holds the encoded columns of a member_records row in the
// order they are selected and written.
type memberBlobs struct {
	Goals               string
	Notes               string
	OneOnOnes           string
	MoraleCheckIns      string
	PerformanceCheckIns string
	ReviewCycles        string
	ClientDetails       string
	RedFlags            string
}

func (s *memberRecordServiceImpl) GetRecord(ctx context.Context, name string) (*models.MemberRecord, error) {
	name = strings.TrimSpace(name)

	const selectRecordQuery = `
SELECT name,
       goals,
       notes,
       one_on_ones,
       morale_check_ins,
       performance_check_ins,
       review_cycles,
       client_details,
       red_flags,
       updated_at
FROM member_records
WHERE name = $1
`
	var (
		record models.MemberRecord
		blobs  memberBlobs
	)
	err := s.pgPool.QueryRow(
		ctx,
		selectRecordQuery,
		name,
	).Scan(
		&record.Name,
		&blobs.Goals,
		&blobs.Notes,
		&blobs.OneOnOnes,
		&blobs.MoraleCheckIns,
		&blobs.PerformanceCheckIns,
		&blobs.ReviewCycles,
		&blobs.ClientDetails,
		&blobs.RedFlags,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("name", name).
				Msg("member record not found")
			return nil, ErrMemberNotFound
		}

		s.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to select member record")
		return nil, err
	}

	err = blobs.decode(&record)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to decode member record")
		return nil, err
	}

	s.logger.Debug().
		Str("name", name).
		Msg("selected member record")
	return &record, nil
}

func (s *memberRecordServiceImpl) AppendGoal(ctx context.Context, name string, goal models.Goal) (*models.MemberRecord, error) {
	if strings.TrimSpace(goal.Title) == "" {
		return nil, fmt.Errorf("%w: goal title is empty", ErrInvalidMemberEntry)
	}

	now := s.now()
	if goal.ID == "" {
		goalUUID, err := uuid.NewV7()
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to generate goal uuid")
			return nil, err
		}
		goal.ID = goalUUID.String()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}

	return s.modify(ctx, name, func(record *models.MemberRecord) {
		record.Goals = append(record.Goals, goal)
	})
}

func (s *memberRecordServiceImpl) AppendNote(ctx context.Context, name string, note models.Note) (*models.MemberRecord, error) {
	if strings.TrimSpace(note.Body) == "" {
		return nil, fmt.Errorf("%w: note body is empty", ErrInvalidMemberEntry)
	}

	now := s.now()
	if note.ID == "" {
		noteUUID, err := uuid.NewV7()
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to generate note uuid")
			return nil, err
		}
		note.ID = noteUUID.String()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}

	return s.modify(ctx, name, func(record *models.MemberRecord) {
		record.Notes = append(record.Notes, note)
	})
}

// modify reads the whole record, applies fn and writes the whole record
// back. A member without a record gets a fresh one.
func (s *memberRecordServiceImpl) modify(
	ctx context.Context,
	name string,
	fn func(record *models.MemberRecord),
) (*models.MemberRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: member name is empty", ErrInvalidMemberEntry)
	}

	record, err := s.GetRecord(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrMemberNotFound) {
			return nil, err
		}
		record = &models.MemberRecord{Name: name}
	}

	fn(record)
	record.UpdatedAt = s.now()

	var blobs memberBlobs
	err = blobs.encode(record)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to encode member record")
		return nil, err
	}

	const upsertRecordQuery = `
INSERT INTO member_records (name,
                            goals,
                            notes,
                            one_on_ones,
                            morale_check_ins,
                            performance_check_ins,
                            review_cycles,
                            client_details,
                            red_flags,
                            updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (name) DO UPDATE
SET goals = EXCLUDED.goals,
    notes = EXCLUDED.notes,
    one_on_ones = EXCLUDED.one_on_ones,
    morale_check_ins = EXCLUDED.morale_check_ins,
    performance_check_ins = EXCLUDED.performance_check_ins,
    review_cycles = EXCLUDED.review_cycles,
    client_details = EXCLUDED.client_details,
    red_flags = EXCLUDED.red_flags,
    updated_at = EXCLUDED.updated_at
`
	_, err = s.pgPool.Exec(
		ctx,
		upsertRecordQuery,
		record.Name,
		blobs.Goals,
		blobs.Notes,
		blobs.OneOnOnes,
		blobs.MoraleCheckIns,
		blobs.PerformanceCheckIns,
		blobs.ReviewCycles,
		blobs.ClientDetails,
		blobs.RedFlags,
		record.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("name", name).
			Msg("failed to upsert member record")
		return nil, err
	}

	s.logger.Info().
		Str("name", name).
		Msg("updated member record")
	return record, nil
}

func (b *memberBlobs) decode(record *models.MemberRecord) error {
	fields := []struct {
		name string
		raw  string
		dst  any
	}{
		{"goals", b.Goals, &record.Goals},
		{"notes", b.Notes, &record.Notes},
		{"one_on_ones", b.OneOnOnes, &record.OneOnOnes},
		{"morale_check_ins", b.MoraleCheckIns, &record.MoraleCheckIns},
		{"performance_check_ins", b.PerformanceCheckIns, &record.PerformanceCheckIns},
		{"review_cycles", b.ReviewCycles, &record.ReviewCycles},
		{"client_details", b.ClientDetails, &record.ClientDetails},
		{"red_flags", b.RedFlags, &record.RedFlags},
	}
	for _, f := range fields {
		err := decodeBlob(f.raw, f.dst)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

func (b *memberBlobs) encode(record *models.MemberRecord) error {
	fields := []struct {
		name string
		src  any
		dst  *string
	}{
		{"goals", record.Goals, &b.Goals},
		{"notes", record.Notes, &b.Notes},
		{"one_on_ones", record.OneOnOnes, &b.OneOnOnes},
		{"morale_check_ins", record.MoraleCheckIns, &b.MoraleCheckIns},
		{"performance_check_ins", record.PerformanceCheckIns, &b.PerformanceCheckIns},
		{"review_cycles", record.ReviewCycles, &b.ReviewCycles},
		{"client_details", record.ClientDetails, &b.ClientDetails},
		{"red_flags", record.RedFlags, &b.RedFlags},
	}
	for _, f := range fields {
		raw, err := encodeBlob(f.src)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = raw
	}
	return nil
}

// decodeBlob leaves dst untouched for empty or null blobs.
func decodeBlob(raw string, dst any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	err := json.Unmarshal([]byte(raw), dst)
	if err != nil {
		return fmt.Errorf("failed to unmarshal blob: %w", err)
	}
	return nil
}

func encodeBlob(src any) (string, error) {
	b, err := json.Marshal(src)
	if err != nil {
		return "", fmt.Errorf("failed to marshal blob: %w", err)
	}
	return string(b), nil
}
