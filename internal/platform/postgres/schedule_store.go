package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/store"
)

// PostgresScheduleStore implements the store.ScheduleStore interface
// using a PostgreSQL database as the storage backend.
type PostgresScheduleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresScheduleStore creates a new PostgreSQL implementation of the
// ScheduleStore interface. If logger is nil, a default logger is used.
func NewPostgresScheduleStore(db store.DBTX, logger *slog.Logger) *PostgresScheduleStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresScheduleStore{
		db:     db,
		logger: logger.With(slog.String("component", "schedule_store")),
	}
}

// Ensure PostgresScheduleStore implements store.ScheduleStore
var _ store.ScheduleStore = (*PostgresScheduleStore)(nil)

// WithTx implements store.ScheduleStore.WithTx
func (s *PostgresScheduleStore) WithTx(tx *sql.Tx) store.ScheduleStore {
	return &PostgresScheduleStore{db: tx, logger: s.logger}
}

const scheduleColumns = `s.id, s.card_id, s.direction, s.easiness, s.interval_days,
	s.repetition_count, s.last_grade, s.last_seen_at, s.version, s.created_at, s.updated_at`

// Create implements store.ScheduleStore.Create
func (s *PostgresScheduleStore) Create(ctx context.Context, schedule *domain.Schedule) error {
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO schedules
			(id, card_id, direction, easiness, interval_days, repetition_count,
			 last_grade, last_seen_at, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		schedule.ID,
		schedule.CardID,
		schedule.Direction,
		schedule.Easiness,
		schedule.Interval,
		schedule.RepetitionCount,
		gradeParam(schedule.LastGrade),
		timeParam(schedule.LastSeenAt),
		schedule.Version,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetForUser implements store.ScheduleStore.GetForUser
func (s *PostgresScheduleStore) GetForUser(
	ctx context.Context,
	userID, scheduleID uuid.UUID,
) (*domain.Schedule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+scheduleColumns+`
		FROM schedules s
		JOIN cards c ON c.id = s.card_id
		JOIN decks d ON d.id = c.deck_id
		JOIN topics t ON t.id = d.topic_id
		WHERE s.id = $1 AND t.user_id = $2`,
		scheduleID, userID,
	)

	schedule, err := scanSchedule(row)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrScheduleNotFound
		}
		return nil, MapError(err)
	}

	return schedule, nil
}

// UpdateVersioned implements store.ScheduleStore.UpdateVersioned
//
// The WHERE clause on the version column is the compare-and-swap that the
// whole optimistic-concurrency contract rests on: of two writers holding
// the same expected version, exactly one matches and the other observes
// zero affected rows.
func (s *PostgresScheduleStore) UpdateVersioned(
	ctx context.Context,
	schedule *domain.Schedule,
	expectedVersion int64,
) error {
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE schedules
		SET easiness = $1,
		    interval_days = $2,
		    repetition_count = $3,
		    last_grade = $4,
		    last_seen_at = $5,
		    version = $6,
		    updated_at = $7
		WHERE id = $8 AND version = $9`,
		schedule.Easiness,
		schedule.Interval,
		schedule.RepetitionCount,
		gradeParam(schedule.LastGrade),
		timeParam(schedule.LastSeenAt),
		schedule.Version,
		schedule.UpdatedAt,
		schedule.ID,
		expectedVersion,
	)
	if err != nil {
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Distinguish a stale version from a vanished row.
		var current int64
		err := s.db.QueryRowContext(ctx,
			`SELECT version FROM schedules WHERE id = $1`, schedule.ID,
		).Scan(&current)
		if err != nil {
			if store.IsNotFoundError(MapError(err)) {
				return store.ErrScheduleNotFound
			}
			return MapError(err)
		}
		return fmt.Errorf("%w: expected version %d, found %d",
			store.ErrVersionConflict, expectedVersion, current)
	}

	return nil
}

// Reset implements store.ScheduleStore.Reset
func (s *PostgresScheduleStore) Reset(
	ctx context.Context,
	scheduleID uuid.UUID,
	now time.Time,
) (*domain.Schedule, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE schedules
		SET easiness = $1,
		    interval_days = $2,
		    repetition_count = 0,
		    last_grade = NULL,
		    last_seen_at = NULL,
		    version = version + 1,
		    updated_at = $3
		WHERE id = $4
		RETURNING id, card_id, direction, easiness, interval_days,
			repetition_count, last_grade, last_seen_at, version, created_at, updated_at`,
		domain.InitialEasiness,
		domain.InitialInterval,
		now,
		scheduleID,
	)

	schedule, err := scanSchedule(row)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrScheduleNotFound
		}
		return nil, MapError(err)
	}

	return schedule, nil
}

// ListCandidates implements store.ScheduleStore.ListCandidates
func (s *PostgresScheduleStore) ListCandidates(
	ctx context.Context,
	scope store.StudyScope,
	priority domain.Priority,
) ([]*store.Candidate, error) {
	query, args := buildCandidateQuery(scope, &priority)
	return s.queryCandidates(ctx, query, args)
}

// ListForScope implements store.ScheduleStore.ListForScope
func (s *PostgresScheduleStore) ListForScope(
	ctx context.Context,
	scope store.StudyScope,
) ([]*store.Candidate, error) {
	query, args := buildCandidateQuery(scope, nil)
	return s.queryCandidates(ctx, query, args)
}

// CreateMissingReverse implements store.ScheduleStore.CreateMissingReverse
func (s *PostgresScheduleStore) CreateMissingReverse(
	ctx context.Context,
	deckID uuid.UUID,
) (int, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO schedules
			(id, card_id, direction, easiness, interval_days, repetition_count,
			 last_grade, last_seen_at, version, created_at, updated_at)
		SELECT gen_random_uuid(), c.id, $1, $2, $3, 0, NULL, NULL, 0, $4, $4
		FROM cards c
		WHERE c.deck_id = $5
		  AND NOT EXISTS (
			SELECT 1 FROM schedules s
			WHERE s.card_id = c.id AND s.direction = $1
		  )`,
		domain.DirectionReverse,
		domain.InitialEasiness,
		domain.InitialInterval,
		now,
		deckID,
	)
	if err != nil {
		return 0, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// buildCandidateQuery assembles the schedule/card/deck join for a scope.
// The direction condition is the dormant-reverse exclusion: reverse
// schedules only qualify while their deck is currently bidirectional.
func buildCandidateQuery(scope store.StudyScope, priority *domain.Priority) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT ` + scheduleColumns + `,
			c.id, c.deck_id, c.front, c.back, c.note, c.priority, c.tags,
			c.created_at, c.updated_at,
			d.id, d.topic_id, d.name, d.bidirectional, d.front_label, d.back_label,
			d.created_at, d.updated_at
		FROM schedules s
		JOIN cards c ON c.id = s.card_id
		JOIN decks d ON d.id = c.deck_id
		JOIN topics t ON t.id = d.topic_id
		WHERE t.user_id = $1
		  AND (s.direction = 'forward' OR d.bidirectional)`)

	args := []any{scope.UserID}

	if priority != nil {
		args = append(args, *priority)
		fmt.Fprintf(&sb, " AND c.priority = $%d", len(args))
	}

	if scope.TopicID != uuid.Nil {
		args = append(args, scope.TopicID)
		fmt.Fprintf(&sb, " AND t.id = $%d", len(args))
	}

	if len(scope.DeckIDs) > 0 {
		placeholders := make([]string, 0, len(scope.DeckIDs))
		for _, deckID := range scope.DeckIDs {
			args = append(args, deckID)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		fmt.Fprintf(&sb, " AND d.id IN (%s)", strings.Join(placeholders, ", "))
	}

	return sb.String(), args
}

func (s *PostgresScheduleStore) queryCandidates(
	ctx context.Context,
	query string,
	args []any,
) ([]*store.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	var candidates []*store.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, MapError(err)
		}
		candidates = append(candidates, candidate)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return candidates, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*domain.Schedule, error) {
	var (
		schedule   domain.Schedule
		lastGrade  sql.NullString
		lastSeenAt sql.NullTime
	)

	err := row.Scan(
		&schedule.ID,
		&schedule.CardID,
		&schedule.Direction,
		&schedule.Easiness,
		&schedule.Interval,
		&schedule.RepetitionCount,
		&lastGrade,
		&lastSeenAt,
		&schedule.Version,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	applyNullables(&schedule, lastGrade, lastSeenAt)
	return &schedule, nil
}

func scanCandidate(rows *sql.Rows) (*store.Candidate, error) {
	var (
		schedule   domain.Schedule
		card       domain.Card
		deck       domain.Deck
		lastGrade  sql.NullString
		lastSeenAt sql.NullTime
		note       sql.NullString
		tags       []byte
	)

	err := rows.Scan(
		&schedule.ID,
		&schedule.CardID,
		&schedule.Direction,
		&schedule.Easiness,
		&schedule.Interval,
		&schedule.RepetitionCount,
		&lastGrade,
		&lastSeenAt,
		&schedule.Version,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&note,
		&card.Priority,
		&tags,
		&card.CreatedAt,
		&card.UpdatedAt,
		&deck.ID,
		&deck.TopicID,
		&deck.Name,
		&deck.Bidirectional,
		&deck.FrontLabel,
		&deck.BackLabel,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	applyNullables(&schedule, lastGrade, lastSeenAt)
	card.Note = note.String
	if len(tags) > 0 {
		if err := unmarshalTags(tags, &card.Tags); err != nil {
			return nil, err
		}
	}

	return &store.Candidate{Schedule: &schedule, Card: &card, Deck: &deck}, nil
}

func applyNullables(schedule *domain.Schedule, lastGrade sql.NullString, lastSeenAt sql.NullTime) {
	if lastGrade.Valid {
		grade := domain.Grade(lastGrade.String)
		schedule.LastGrade = &grade
	}
	if lastSeenAt.Valid {
		seen := lastSeenAt.Time
		schedule.LastSeenAt = &seen
	}
}

func gradeParam(grade *domain.Grade) any {
	if grade == nil {
		return nil
	}
	return string(*grade)
}

func timeParam(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
