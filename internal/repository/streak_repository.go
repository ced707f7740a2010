package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicsprep/civicsprep-backend/internal/model"
)

// ErrStreakTableMissing signals that the study_streaks migration has not
// been applied. Callers treat this as a soft condition and fall back to
// zero-valued defaults.
var ErrStreakTableMissing = errors.New("study_streaks table missing")

// pgUndefinedTable is the Postgres error code for a missing relation.
const pgUndefinedTable = "42P01"

// StreakRepository handles study streak data access.
type StreakRepository struct {
	pool *pgxpool.Pool
}

// NewStreakRepository creates a new StreakRepository.
func NewStreakRepository(pool *pgxpool.Pool) *StreakRepository {
	return &StreakRepository{pool: pool}
}

// Get retrieves the streak row for a user. Returns pgx.ErrNoRows if no
// record exists yet and ErrStreakTableMissing if the table is absent.
func (r *StreakRepository) Get(ctx context.Context, userID uuid.UUID) (*model.StudyStreak, error) {
	var s model.StudyStreak
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, current_streak, longest_streak, last_study_date
		 FROM study_streaks WHERE user_id = $1`, userID,
	).Scan(&s.UserID, &s.CurrentStreak, &s.LongestStreak, &s.LastStudyDate)
	if err != nil {
		return nil, mapStreakErr(err)
	}
	return &s, nil
}

// Upsert writes the streak row for a user, creating it if absent.
func (r *StreakRepository) Upsert(ctx context.Context, s *model.StudyStreak) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO study_streaks (user_id, current_streak, longest_streak, last_study_date)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET current_streak = EXCLUDED.current_streak,
		     longest_streak = EXCLUDED.longest_streak,
		     last_study_date = EXCLUDED.last_study_date`,
		s.UserID, s.CurrentStreak, s.LongestStreak, s.LastStudyDate,
	)
	return mapStreakErr(err)
}

// ListStaleBefore retrieves user IDs whose last recorded study day is
// strictly before the given day. Used by the daily reminder sweep.
func (r *StreakRepository) ListStaleBefore(ctx context.Context, day time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM study_streaks WHERE last_study_date < $1`, day,
	)
	if err != nil {
		return nil, mapStreakErr(err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func mapStreakErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return ErrStreakTableMissing
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return pgx.ErrNoRows
	}
	return err
}
