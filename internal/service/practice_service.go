package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"github.com/civicsprep/civicsprep-backend/internal/config"
	"github.com/civicsprep/civicsprep-backend/internal/model"
	"github.com/civicsprep/civicsprep-backend/internal/repository"
)

// ErrEmptyPool signals that no eligible questions exist after filtering.
// This is the one fetch failure surfaced to the client as a hard error.
var ErrEmptyPool = errors.New("no eligible practice questions found")

// DefaultQuestionCount is the number of questions per practice session.
const DefaultQuestionCount = 10

// Filler distractors synthesized when a question's stored choices are
// absent or too small. A data-quality fallback, not a feature: the
// selection never fails on malformed choices and always produces a
// gradable question.
var fillerOptions = []string{"None of the above", "All of the above", "Not applicable"}

// questionLister is the slice of QuestionRepository the selection needs.
type questionLister interface {
	ListPracticePool(ctx context.Context, domain string, bank model.BankVersion, limit int) ([]model.Question, error)
}

// PracticeService selects and shapes questions for practice sessions.
type PracticeService struct {
	questionRepo questionLister
	domain       string
	bankVersion  model.BankVersion
	poolSize     int
}

// NewPracticeService creates a new PracticeService.
func NewPracticeService(questionRepo *repository.QuestionRepository, cfg *config.Config) *PracticeService {
	return &PracticeService{
		questionRepo: questionRepo,
		domain:       "civics",
		bankVersion:  model.BankVersion(cfg.BankVersion),
		poolSize:     cfg.PracticePoolSize,
	}
}

// SelectQuestions fetches a bounded pool of eligible questions, randomly
// samples count of them without replacement and shuffles each question's
// options. The shuffle is fresh per call; two fetches are not expected
// to agree on option order.
func (s *PracticeService) SelectQuestions(ctx context.Context, count int) ([]model.PracticeQuestion, error) {
	if count <= 0 {
		count = DefaultQuestionCount
	}

	pool, err := s.questionRepo.ListPracticePool(ctx, s.domain, s.bankVersion, s.poolSize)
	if err != nil {
		return nil, fmt.Errorf("fetch question pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if count > len(pool) {
		count = len(pool)
	}

	practice := make([]model.PracticeQuestion, 0, count)
	for _, q := range pool[:count] {
		practice = append(practice, buildPracticeQuestion(q))
	}
	return practice, nil
}

// buildPracticeQuestion shapes one stored question into its self-contained
// presentation form: decoded choices, guaranteed correct answer, shuffled
// option order with the correct index recorded.
func buildPracticeQuestion(q model.Question) model.PracticeQuestion {
	options := decodeChoices(q.Choices)

	if len(options) == 0 {
		options = []string{q.CorrectAnswer}
	}
	if len(options) < 2 {
		options = append(options, fillerOptions...)
	}

	hasCorrect := false
	for _, opt := range options {
		if opt == q.CorrectAnswer {
			hasCorrect = true
			break
		}
	}
	if !hasCorrect {
		options = append(options, q.CorrectAnswer)
	}

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i, opt := range options {
		if opt == q.CorrectAnswer {
			correctIndex = i
			break
		}
	}

	return model.PracticeQuestion{
		ID:           q.ID,
		Text:         q.Prompt,
		Options:      options,
		CorrectIndex: correctIndex,
	}
}

// decodeChoices extracts option strings from the JSONB choices column,
// which may hold an array of strings or a keyed object.
func decodeChoices(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		out := make([]string, 0, len(obj))
		for _, v := range obj {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}

	return nil
}
