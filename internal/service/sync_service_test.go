package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsprep/civicsprep-backend/internal/model"
)

type fakeAttemptRepo struct {
	mu       sync.Mutex
	attempts []model.Attempt
	// failFor holds question IDs whose writes should fail.
	failFor map[uuid.UUID]bool
	failAll bool
	// createHook, when set, runs before each write, outside the lock.
	createHook func(a *model.Attempt)
}

func (f *fakeAttemptRepo) Create(ctx context.Context, a *model.Attempt) error {
	if f.createHook != nil {
		f.createHook(a)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll || f.failFor[a.QuestionID] {
		return errors.New("write failed")
	}
	a.ID = uuid.New()
	f.attempts = append(f.attempts, *a)
	return nil
}

func (f *fakeAttemptRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attempts)
}

type fakePendingQueue struct {
	mu      sync.Mutex
	items   map[string][]model.PendingAttempt
	loadErr error
}

func newFakePendingQueue() *fakePendingQueue {
	return &fakePendingQueue{items: make(map[string][]model.PendingAttempt)}
}

func (f *fakePendingQueue) Load(ctx context.Context, userID string) ([]model.PendingAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]model.PendingAttempt(nil), f.items[userID]...), nil
}

func (f *fakePendingQueue) Append(ctx context.Context, userID string, attempt model.PendingAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[userID] = append(f.items[userID], attempt)
	return nil
}

func (f *fakePendingQueue) Replace(ctx context.Context, userID string, pending []model.PendingAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(pending) == 0 {
		delete(f.items, userID)
		return nil
	}
	f.items[userID] = pending
	return nil
}

func (f *fakePendingQueue) Count(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items[userID]), nil
}

type fakeStreakUpdater struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeStreakUpdater) UpdateStreak(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeStreakUpdater) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeLastSessionCache struct {
	mu     sync.Mutex
	result *model.PracticeSessionResult
}

func (f *fakeLastSessionCache) Get(ctx context.Context, userID string) (*model.PracticeSessionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, nil
}

func (f *fakeLastSessionCache) Set(ctx context.Context, userID string, result *model.PracticeSessionResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = result
	return nil
}

func newTestSyncService(repo *fakeAttemptRepo, queue *fakePendingQueue, streaks *fakeStreakUpdater) *SyncService {
	return &SyncService{
		attemptRepo: repo,
		queue:       queue,
		streaks:     streaks,
		lastSession: &fakeLastSessionCache{},
		log:         zerolog.Nop(),
		now:         time.Now,
	}
}

func TestRecordAttemptSuccess(t *testing.T) {
	repo := &fakeAttemptRepo{}
	queue := newFakePendingQueue()
	streaks := &fakeStreakUpdater{}
	svc := newTestSyncService(repo, queue, streaks)

	userID, qid := uuid.New(), uuid.New()
	result := svc.RecordAttempt(context.Background(), userID, qid, true, "the President", "")

	assert.True(t, result.Success)
	assert.False(t, result.Queued)
	require.Equal(t, 1, repo.count())
	assert.Equal(t, model.AttemptModeMCQ, repo.attempts[0].Mode, "empty mode defaults to mcq")
	assert.Equal(t, 1, streaks.callCount())

	n, _ := queue.Count(context.Background(), userID.String())
	assert.Zero(t, n)
}

func TestRecordAttemptFailureQueuesExactlyOnce(t *testing.T) {
	repo := &fakeAttemptRepo{failAll: true}
	queue := newFakePendingQueue()
	streaks := &fakeStreakUpdater{}
	svc := newTestSyncService(repo, queue, streaks)

	userID, qid := uuid.New(), uuid.New()
	result := svc.RecordAttempt(context.Background(), userID, qid, false, "wrong", model.AttemptModeMCQ)

	assert.False(t, result.Success)
	assert.True(t, result.Queued)
	assert.NotEmpty(t, result.Err)

	pending, _ := queue.Load(context.Background(), userID.String())
	require.Len(t, pending, 1)
	assert.Equal(t, qid, pending[0].QuestionID)
	assert.Equal(t, "wrong", pending[0].UserAnswer)
	assert.Zero(t, streaks.callCount(), "streak must not advance on failed writes")
}

func TestRecordAttemptStreakFailureSwallowed(t *testing.T) {
	repo := &fakeAttemptRepo{}
	streaks := &fakeStreakUpdater{err: errors.New("streak table busy")}
	svc := newTestSyncService(repo, newFakePendingQueue(), streaks)

	result := svc.RecordAttempt(context.Background(), uuid.New(), uuid.New(), true, "x", model.AttemptModeMCQ)
	assert.True(t, result.Success, "streak failure must not fail attempt recording")
}

func TestRecordSessionAllSynced(t *testing.T) {
	repo := &fakeAttemptRepo{}
	svc := newTestSyncService(repo, newFakePendingQueue(), &fakeStreakUpdater{})

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	result := svc.RecordSession(context.Background(), uuid.New(), ids,
		[]bool{true, false, true}, []string{"a", "b", "c"})

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Synced)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 3, repo.count())
}

func TestRecordSessionPartialFailure(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	repo := &fakeAttemptRepo{failFor: map[uuid.UUID]bool{ids[1]: true, ids[3]: true}}
	queue := newFakePendingQueue()
	svc := newTestSyncService(repo, queue, &fakeStreakUpdater{})

	userID := uuid.New()
	result := svc.RecordSession(context.Background(), userID, ids,
		[]bool{true, true, true, true}, []string{"a", "b", "c", "d"})

	assert.True(t, result.Success, "partial success still reports success")
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, result.Errors, 2)

	pending, _ := queue.Load(context.Background(), userID.String())
	assert.Len(t, pending, 2, "each failed attempt queued exactly once")
}

func TestRecordSessionCachesLastResult(t *testing.T) {
	cache := &fakeLastSessionCache{}
	svc := newTestSyncService(&fakeAttemptRepo{}, newFakePendingQueue(), &fakeStreakUpdater{})
	svc.lastSession = cache

	ids := make([]uuid.UUID, 10)
	answers := make([]bool, 10)
	texts := make([]string, 10)
	for i := range ids {
		ids[i] = uuid.New()
		answers[i] = i < 6 // 6 of 10 correct
	}

	svc.RecordSession(context.Background(), uuid.New(), ids, answers, texts)

	require.NotNil(t, cache.result)
	assert.Equal(t, 6, cache.result.Score)
	assert.Equal(t, 10, cache.result.Total)
	assert.Equal(t, 60, cache.result.Percentage)
}

func TestRecordSessionPerfectScore(t *testing.T) {
	cache := &fakeLastSessionCache{}
	svc := newTestSyncService(&fakeAttemptRepo{}, newFakePendingQueue(), &fakeStreakUpdater{})
	svc.lastSession = cache

	ids := make([]uuid.UUID, 10)
	answers := make([]bool, 10)
	for i := range ids {
		ids[i] = uuid.New()
		answers[i] = true
	}

	result := svc.RecordSession(context.Background(), uuid.New(), ids, answers, make([]string, 10))

	assert.Equal(t, 10, result.Synced)
	assert.Equal(t, 10, cache.result.Score)
	assert.Equal(t, 100, cache.result.Percentage)
}

func TestRetryPendingEmptyQueueNoOps(t *testing.T) {
	streaks := &fakeStreakUpdater{}
	svc := newTestSyncService(&fakeAttemptRepo{}, newFakePendingQueue(), streaks)

	result, err := svc.RetryPending(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, result.Synced)
	assert.Zero(t, result.Failed)
	assert.Zero(t, streaks.callCount())
}

func TestRetryPendingDrainsSuccesses(t *testing.T) {
	userID := uuid.New()
	queue := newFakePendingQueue()
	stuck := uuid.New()
	for _, qid := range []uuid.UUID{uuid.New(), stuck, uuid.New(), uuid.New(), stuck} {
		_ = queue.Append(context.Background(), userID.String(), model.PendingAttempt{
			QuestionID: qid, Correct: true, UserAnswer: "a", Mode: model.AttemptModeMCQ,
		})
	}
	repo := &fakeAttemptRepo{failFor: map[uuid.UUID]bool{stuck: true}}
	streaks := &fakeStreakUpdater{}
	svc := newTestSyncService(repo, queue, streaks)

	result, err := svc.RetryPending(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Synced)
	assert.Equal(t, 2, result.Failed)

	pending, _ := queue.Load(context.Background(), userID.String())
	require.Len(t, pending, 2, "queue keeps exactly the failed entries")
	for _, p := range pending {
		assert.Equal(t, stuck, p.QuestionID)
	}
	assert.Equal(t, 1, streaks.callCount(), "one streak update per retry pass with syncs")
}

func TestRetryPendingAllSyncedClearsQueue(t *testing.T) {
	userID := uuid.New()
	queue := newFakePendingQueue()
	for i := 0; i < 4; i++ {
		_ = queue.Append(context.Background(), userID.String(), model.PendingAttempt{
			QuestionID: uuid.New(), Correct: i%2 == 0, Mode: model.AttemptModeMCQ,
		})
	}
	svc := newTestSyncService(&fakeAttemptRepo{}, queue, &fakeStreakUpdater{})

	result, err := svc.RetryPending(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Synced)
	assert.Zero(t, result.Failed)

	n, _ := queue.Count(context.Background(), userID.String())
	assert.Zero(t, n)
}

func TestRetryPendingAllFailKeepsQueueIntact(t *testing.T) {
	userID := uuid.New()
	queue := newFakePendingQueue()
	for i := 0; i < 3; i++ {
		_ = queue.Append(context.Background(), userID.String(), model.PendingAttempt{QuestionID: uuid.New()})
	}
	streaks := &fakeStreakUpdater{}
	svc := newTestSyncService(&fakeAttemptRepo{failAll: true}, queue, streaks)

	result, err := svc.RetryPending(context.Background(), userID)
	require.NoError(t, err)
	assert.Zero(t, result.Synced)
	assert.Equal(t, 3, result.Failed)

	n, _ := queue.Count(context.Background(), userID.String())
	assert.Equal(t, 3, n, "failed entries are never dropped")
	assert.Zero(t, streaks.callCount())
}

func TestRetryPendingKeepsAttemptQueuedMidPass(t *testing.T) {
	userID := uuid.New()
	retried, fresh := uuid.New(), uuid.New()

	queue := newFakePendingQueue()
	_ = queue.Append(context.Background(), userID.String(), model.PendingAttempt{
		QuestionID: retried, Correct: true, UserAnswer: "a", Mode: model.AttemptModeMCQ,
	})

	inFlight := make(chan struct{})
	release := make(chan struct{})
	repo := &fakeAttemptRepo{failFor: map[uuid.UUID]bool{fresh: true}}
	repo.createHook = func(a *model.Attempt) {
		if a.QuestionID == retried {
			close(inFlight)
			<-release
		}
	}
	svc := newTestSyncService(repo, queue, &fakeStreakUpdater{})

	done := make(chan RetryResult)
	go func() {
		result, err := svc.RetryPending(context.Background(), userID)
		assert.NoError(t, err)
		done <- result
	}()

	// A failed write lands in the queue while the retry pass is mid-flight.
	<-inFlight
	svc.RecordAttempt(context.Background(), userID, fresh, false, "b", model.AttemptModeMCQ)
	n, _ := queue.Count(context.Background(), userID.String())
	assert.Equal(t, 2, n)

	close(release)
	result := <-done
	assert.Equal(t, 1, result.Synced)
	assert.Zero(t, result.Failed)

	pending, _ := queue.Load(context.Background(), userID.String())
	require.Len(t, pending, 1, "attempt queued during the pass must survive it")
	assert.Equal(t, fresh, pending[0].QuestionID)
}

func TestPendingCount(t *testing.T) {
	userID := uuid.New()
	queue := newFakePendingQueue()
	_ = queue.Append(context.Background(), userID.String(), model.PendingAttempt{QuestionID: uuid.New()})
	_ = queue.Append(context.Background(), userID.String(), model.PendingAttempt{QuestionID: uuid.New()})
	svc := newTestSyncService(&fakeAttemptRepo{}, queue, &fakeStreakUpdater{})

	n, err := svc.PendingCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
