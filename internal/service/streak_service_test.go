package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsprep/civicsprep-backend/internal/model"
	"github.com/civicsprep/civicsprep-backend/internal/repository"
)

type fakeStreakRepo struct {
	streak  *model.StudyStreak
	getErr  error
	saveErr error
	saved   *model.StudyStreak
}

func (f *fakeStreakRepo) Get(ctx context.Context, userID uuid.UUID) (*model.StudyStreak, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.streak, nil
}

func (f *fakeStreakRepo) Upsert(ctx context.Context, s *model.StudyStreak) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = s
	return nil
}

func newStreakService(repo streakStore, now time.Time) *StreakService {
	return &StreakService{
		streakRepo: repo,
		log:        zerolog.Nop(),
		now:        func() time.Time { return now },
	}
}

func day(offset int) time.Time {
	base := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.Local)
	return base.AddDate(0, 0, offset)
}

func TestUpdateStreakFirstActivity(t *testing.T) {
	repo := &fakeStreakRepo{getErr: pgx.ErrNoRows}
	svc := newStreakService(repo, day(0).Add(14*time.Hour))

	require.NoError(t, svc.UpdateStreak(context.Background(), uuid.New()))
	require.NotNil(t, repo.saved)
	assert.Equal(t, 1, repo.saved.CurrentStreak)
	assert.Equal(t, 1, repo.saved.LongestStreak)
	assert.True(t, repo.saved.LastStudyDate.Equal(day(0)))
}

func TestUpdateStreakAlreadyCountedToday(t *testing.T) {
	last := day(0)
	repo := &fakeStreakRepo{streak: &model.StudyStreak{CurrentStreak: 3, LongestStreak: 5, LastStudyDate: &last}}
	svc := newStreakService(repo, day(0).Add(20*time.Hour))

	require.NoError(t, svc.UpdateStreak(context.Background(), uuid.New()))
	assert.Nil(t, repo.saved, "no write expected when already counted today")
}

func TestUpdateStreakConsecutiveDay(t *testing.T) {
	last := day(-1)
	repo := &fakeStreakRepo{streak: &model.StudyStreak{CurrentStreak: 3, LongestStreak: 3, LastStudyDate: &last}}
	svc := newStreakService(repo, day(0).Add(9*time.Hour))

	require.NoError(t, svc.UpdateStreak(context.Background(), uuid.New()))
	require.NotNil(t, repo.saved)
	assert.Equal(t, 4, repo.saved.CurrentStreak)
	assert.Equal(t, 4, repo.saved.LongestStreak)
	assert.True(t, repo.saved.LastStudyDate.Equal(day(0)))
}

func TestUpdateStreakConsecutiveDayKeepsLongerRecord(t *testing.T) {
	last := day(-1)
	repo := &fakeStreakRepo{streak: &model.StudyStreak{CurrentStreak: 2, LongestStreak: 9, LastStudyDate: &last}}
	svc := newStreakService(repo, day(0))

	require.NoError(t, svc.UpdateStreak(context.Background(), uuid.New()))
	assert.Equal(t, 3, repo.saved.CurrentStreak)
	assert.Equal(t, 9, repo.saved.LongestStreak)
}

func TestUpdateStreakGapResets(t *testing.T) {
	last := day(-3)
	repo := &fakeStreakRepo{streak: &model.StudyStreak{CurrentStreak: 5, LongestStreak: 5, LastStudyDate: &last}}
	svc := newStreakService(repo, day(0))

	require.NoError(t, svc.UpdateStreak(context.Background(), uuid.New()))
	require.NotNil(t, repo.saved)
	assert.Equal(t, 1, repo.saved.CurrentStreak)
	assert.Equal(t, 5, repo.saved.LongestStreak)
}

func TestUpdateStreakTableMissingIsSoft(t *testing.T) {
	repo := &fakeStreakRepo{getErr: repository.ErrStreakTableMissing}
	svc := newStreakService(repo, day(0))

	assert.NoError(t, svc.UpdateStreak(context.Background(), uuid.New()))
}

func TestGetCurrentStreakDefaults(t *testing.T) {
	for name, repoErr := range map[string]error{
		"no record":     pgx.ErrNoRows,
		"table missing": repository.ErrStreakTableMissing,
	} {
		t.Run(name, func(t *testing.T) {
			svc := newStreakService(&fakeStreakRepo{getErr: repoErr}, day(0))
			got := svc.GetCurrentStreak(context.Background(), uuid.New())
			require.NotNil(t, got)
			assert.Zero(t, got.CurrentStreak)
			assert.Zero(t, got.LongestStreak)
			assert.Nil(t, got.LastStudyDate)
		})
	}
}

func TestHasPracticedToday(t *testing.T) {
	today := day(0)
	yesterday := day(-1)

	tests := []struct {
		name string
		last *time.Time
		want bool
	}{
		{"practiced today", &today, true},
		{"practiced yesterday", &yesterday, false},
		{"never practiced", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeStreakRepo{streak: &model.StudyStreak{CurrentStreak: 1, LongestStreak: 1, LastStudyDate: tt.last}}
			svc := newStreakService(repo, day(0).Add(18*time.Hour))
			assert.Equal(t, tt.want, svc.HasPracticedToday(context.Background(), uuid.New()))
		})
	}
}
