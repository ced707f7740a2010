package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicsprep/civicsprep-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListPracticePool retrieves a bounded pool of questions eligible for
// multiple-choice practice: active, matching domain and bank version,
// excluding dynamic and flashcards-only items.
func (r *QuestionRepository) ListPracticePool(ctx context.Context, domain string, bank model.BankVersion, limit int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, domain, prompt, choices, correct_answer, difficulty, category, tags,
		        bank_version, active, is_dynamic, pool_flashcards_only
		 FROM questions
		 WHERE domain = $1
		   AND active = TRUE
		   AND bank_version = $2
		   AND is_dynamic = FALSE
		   AND pool_flashcards_only = FALSE
		 LIMIT $3`, domain, bank, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Domain, &q.Prompt, &q.Choices, &q.CorrectAnswer, &q.Difficulty,
			&q.Category, &q.Tags, &q.BankVersion, &q.Active, &q.IsDynamic, &q.PoolFlashcardsOnly); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (domain, prompt, choices, correct_answer, difficulty, category, tags,
		                        bank_version, active, is_dynamic, pool_flashcards_only)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		q.Domain, q.Prompt, q.Choices, q.CorrectAnswer, q.Difficulty, q.Category, q.Tags,
		q.BankVersion, q.Active, q.IsDynamic, q.PoolFlashcardsOnly,
	).Scan(&q.ID)
}
