package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsprep/civicsprep-backend/internal/model"
)

type fakeQuestionRepo struct {
	pool []model.Question
	err  error
}

func (f *fakeQuestionRepo) ListPracticePool(ctx context.Context, domain string, bank model.BankVersion, limit int) ([]model.Question, error) {
	return f.pool, f.err
}

func newPoolQuestion(prompt, correct string, choices []string) model.Question {
	raw, _ := json.Marshal(choices)
	return model.Question{
		ID:            uuid.New(),
		Domain:        "civics",
		Prompt:        prompt,
		Choices:       raw,
		CorrectAnswer: correct,
		BankVersion:   model.BankVersion2025,
		Active:        true,
	}
}

func newPracticeService(repo questionLister) *PracticeService {
	return &PracticeService{
		questionRepo: repo,
		domain:       "civics",
		bankVersion:  model.BankVersion2025,
		poolSize:     100,
	}
}

func TestSelectQuestionsCountAndValidity(t *testing.T) {
	var pool []model.Question
	for i := 0; i < 25; i++ {
		pool = append(pool, newPoolQuestion("prompt", "right", []string{"right", "wrong a", "wrong b", "wrong c"}))
	}
	svc := newPracticeService(&fakeQuestionRepo{pool: pool})

	questions, err := svc.SelectQuestions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, questions, 10)

	for _, q := range questions {
		require.True(t, q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options))
		assert.Equal(t, "right", q.Options[q.CorrectIndex])
		assert.Len(t, q.Options, 4)
	}
}

func TestSelectQuestionsDefaultsCount(t *testing.T) {
	var pool []model.Question
	for i := 0; i < 30; i++ {
		pool = append(pool, newPoolQuestion("prompt", "right", []string{"right", "wrong"}))
	}
	svc := newPracticeService(&fakeQuestionRepo{pool: pool})

	questions, err := svc.SelectQuestions(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, questions, DefaultQuestionCount)
}

func TestSelectQuestionsClampsToPoolSize(t *testing.T) {
	pool := []model.Question{
		newPoolQuestion("a", "right", []string{"right", "wrong"}),
		newPoolQuestion("b", "right", []string{"right", "wrong"}),
	}
	svc := newPracticeService(&fakeQuestionRepo{pool: pool})

	questions, err := svc.SelectQuestions(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestSelectQuestionsEmptyPool(t *testing.T) {
	svc := newPracticeService(&fakeQuestionRepo{})

	_, err := svc.SelectQuestions(context.Background(), 10)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestBuildPracticeQuestionFillerDistractors(t *testing.T) {
	q := newPoolQuestion("prompt", "only answer", nil)
	q.Choices = nil

	pq := buildPracticeQuestion(q)
	// Correct answer plus synthesized distractors, always gradable.
	require.GreaterOrEqual(t, len(pq.Options), 2)
	assert.Equal(t, "only answer", pq.Options[pq.CorrectIndex])
	assert.Contains(t, pq.Options, "None of the above")
}

func TestBuildPracticeQuestionAppendsMissingCorrect(t *testing.T) {
	q := newPoolQuestion("prompt", "the right one", []string{"wrong a", "wrong b", "wrong c"})

	pq := buildPracticeQuestion(q)
	assert.Equal(t, "the right one", pq.Options[pq.CorrectIndex])
	assert.Len(t, pq.Options, 4)
}

func TestBuildPracticeQuestionObjectChoices(t *testing.T) {
	q := newPoolQuestion("prompt", "b", nil)
	q.Choices = json.RawMessage(`{"1": "a", "2": "b", "3": "c", "4": 7}`)

	pq := buildPracticeQuestion(q)
	// Non-string values are dropped; the three string choices survive.
	assert.Len(t, pq.Options, 3)
	assert.Equal(t, "b", pq.Options[pq.CorrectIndex])
}

func TestSelectQuestionsSelfContained(t *testing.T) {
	pool := []model.Question{newPoolQuestion("Who vetoes bills?", "the President", []string{"the President", "the Senate", "the Supreme Court"})}
	svc := newPracticeService(&fakeQuestionRepo{pool: pool})

	questions, err := svc.SelectQuestions(context.Background(), 1)
	require.NoError(t, err)
	q := questions[0]
	assert.Equal(t, "Who vetoes bills?", q.Text)
	assert.ElementsMatch(t, []string{"the President", "the Senate", "the Supreme Court"}, q.Options)
	assert.Equal(t, "the President", q.Options[q.CorrectIndex])
}
