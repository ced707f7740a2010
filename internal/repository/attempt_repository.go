package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicsprep/civicsprep-backend/internal/model"
)

// AttemptRepository handles attempt data access. Attempts are append-only.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Create inserts one attempt.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (user_id, question_id, mode, correct, user_answer, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		a.UserID, a.QuestionID, a.Mode, a.Correct, a.UserAnswer, a.CreatedAt,
	).Scan(&a.ID)
}

// ListByUser retrieves the most recent attempts for a user, newest first.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, question_id, mode, correct, user_answer, created_at
		 FROM attempts
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

// ListByUserAndMode retrieves the most recent attempts for one mode.
func (r *AttemptRepository) ListByUserAndMode(ctx context.Context, userID uuid.UUID, mode model.AttemptMode, limit int) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, question_id, mode, correct, user_answer, created_at
		 FROM attempts
		 WHERE user_id = $1 AND mode = $2
		 ORDER BY created_at DESC
		 LIMIT $3`, userID, mode, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

// ListByUserSince retrieves attempts created at or after the cutoff,
// oldest first.
func (r *AttemptRepository) ListByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, question_id, mode, correct, user_answer, created_at
		 FROM attempts
		 WHERE user_id = $1 AND created_at >= $2
		 ORDER BY created_at ASC`, userID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

// CountByUser returns the total and correct attempt counts for a user.
func (r *AttemptRepository) CountByUser(ctx context.Context, userID uuid.UUID) (total, correct int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE correct)
		 FROM attempts
		 WHERE user_id = $1`, userID,
	).Scan(&total, &correct)
	return total, correct, err
}

// CategoryAttempt pairs an attempt outcome with its question's category.
type CategoryAttempt struct {
	Correct  bool
	Category *string
}

// ListWithCategory retrieves attempt outcomes joined to the question
// category, bounded to a recent sample.
func (r *AttemptRepository) ListWithCategory(ctx context.Context, userID uuid.UUID, limit int) ([]CategoryAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.correct, q.category
		 FROM attempts a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.user_id = $1
		 ORDER BY a.created_at DESC
		 LIMIT $2`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryAttempt
	for rows.Next() {
		var ca CategoryAttempt
		if err := rows.Scan(&ca.Correct, &ca.Category); err != nil {
			return nil, err
		}
		out = append(out, ca)
	}
	return out, rows.Err()
}

func scanAttempts(rows pgx.Rows) ([]model.Attempt, error) {
	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuestionID, &a.Mode, &a.Correct, &a.UserAnswer, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
