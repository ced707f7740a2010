package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsprep/civicsprep-backend/internal/model"
)

func sampleQuestions(n int) []model.PracticeQuestion {
	qs := make([]model.PracticeQuestion, n)
	for i := range qs {
		qs[i] = model.PracticeQuestion{
			ID:           uuid.New(),
			Text:         "prompt",
			Options:      []string{"a", "b", "c"},
			CorrectIndex: 1,
		}
	}
	return qs
}

func TestSessionStoreSaveAndHasActive(t *testing.T) {
	store := NewSessionStore()
	assert.False(t, store.HasActive("u1"))

	store.Save("u1", sampleQuestions(3), 1, []bool{true}, 1)
	assert.True(t, store.HasActive("u1"))
	assert.False(t, store.HasActive("u2"))
}

func TestSessionStoreClear(t *testing.T) {
	store := NewSessionStore()
	store.Save("u1", sampleQuestions(3), 1, []bool{true}, 1)

	store.Clear("u1")
	assert.False(t, store.HasActive("u1"))
	assert.Nil(t, store.Get("u1"))
}

func TestSessionStoreResumeRestoresExactSnapshot(t *testing.T) {
	store := NewSessionStore()
	questions := sampleQuestions(5)
	answers := []bool{true, false, true}

	store.Save("u1", questions, 3, answers, 2)

	got := store.Get("u1")
	require.NotNil(t, got)
	assert.Equal(t, questions, got.Questions)
	assert.Equal(t, 3, got.CurrentIndex)
	assert.Equal(t, answers, got.Answers)
	assert.Equal(t, 2, got.CorrectCount)
	assert.False(t, got.StartedAt.IsZero())
}

func TestSessionStoreLastWriteWins(t *testing.T) {
	store := NewSessionStore()
	store.Save("u1", sampleQuestions(5), 1, []bool{true}, 1)

	later := sampleQuestions(5)
	store.Save("u1", later, 4, []bool{true, true, false, true}, 3)

	got := store.Get("u1")
	require.NotNil(t, got)
	assert.Equal(t, later, got.Questions)
	assert.Equal(t, 4, got.CurrentIndex)
	assert.Equal(t, 3, got.CorrectCount)
}

func TestSessionStoreIsolatedPerUser(t *testing.T) {
	store := NewSessionStore()
	store.Save("u1", sampleQuestions(2), 0, nil, 0)
	store.Save("u2", sampleQuestions(4), 2, []bool{false, true}, 1)

	assert.Len(t, store.Get("u1").Questions, 2)
	assert.Len(t, store.Get("u2").Questions, 4)

	store.Clear("u1")
	assert.False(t, store.HasActive("u1"))
	assert.True(t, store.HasActive("u2"))
}
