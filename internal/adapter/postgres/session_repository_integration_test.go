package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/focustoday/focuspulse/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredSession(t *testing.T, repo *SessionRepo, userID string, appOpenAt time.Time) *domain.Session {
	t.Helper()

	session := &domain.Session{
		SessionID: uuid.New(),
		UserID:    userID,
		AppOpenAt: appOpenAt,
	}
	require.NoError(t, repo.Create(context.Background(), session))
	return session
}

func TestSessionCreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSessionRepo(pool)
	ctx := context.Background()

	opened := time.Now().UTC().Truncate(time.Microsecond)
	created := newStoredSession(t, repo, "user-1", opened)

	got, err := repo.GetBySessionID(ctx, created.SessionID)

	require.NoError(t, err)
	assert.Equal(t, created.SessionID, got.SessionID)
	assert.Equal(t, "user-1", got.UserID)
	assert.True(t, opened.Equal(got.AppOpenAt))
	assert.Nil(t, got.FirstActionAt)
	assert.Nil(t, got.AppCloseAt)
	assert.False(t, got.IsHighRiskExit)
}

func TestSessionGet_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSessionRepo(pool)

	got, err := repo.GetBySessionID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Nil(t, got)
}

func TestUpdateFirstAction(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSessionRepo(pool)
	ctx := context.Background()

	opened := time.Now().UTC().Truncate(time.Microsecond)
	session := newStoredSession(t, repo, "user-1", opened)

	actionAt := opened.Add(42 * time.Second)
	err := repo.UpdateFirstAction(ctx, session.SessionID, actionAt, 42_000, domain.ActionGoalCreate)
	require.NoError(t, err)

	got, err := repo.GetBySessionID(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got.FirstActionAt)
	assert.True(t, actionAt.Equal(*got.FirstActionAt))
	require.NotNil(t, got.LastActionAt)
	assert.True(t, actionAt.Equal(*got.LastActionAt))
	require.NotNil(t, got.ReentryLatencyMs)
	assert.Equal(t, int64(42_000), *got.ReentryLatencyMs)
	require.NotNil(t, got.ActionType)
	assert.Equal(t, domain.ActionGoalCreate, *got.ActionType)
}

func TestUpdateFirstAction_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSessionRepo(pool)

	err := repo.UpdateFirstAction(context.Background(), uuid.New(), time.Now(), 0, domain.ActionOther)

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestUpdateLastAction_KeepsFirstAction(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSessionRepo(pool)
	ctx := context.Background()

	opened := time.Now().UTC().Truncate(time.Microsecond)
	session := newStoredSession(t, repo, "user-1", opened)

	first := opened.Add(10 * time.Second)
	require.NoError(t, repo.UpdateFirstAction(ctx, session.SessionID, first, 10_000, domain.ActionGoalCreate))

	second := opened.Add(90 * time.Second)
	require.NoError(t, repo.UpdateLastAction(ctx, session.SessionID, second, domain.ActionCheck))

	got, err := repo.GetBySessionID(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got.FirstActionAt)
	assert.True(t, first.Equal(*got.FirstActionAt))
	require.NotNil(t, got.LastActionAt)
	assert.True(t, second.Equal(*got.LastActionAt))
	require.NotNil(t, got.ReentryLatencyMs)
	assert.Equal(t, int64(10_000), *got.ReentryLatencyMs)
	require.NotNil(t, got.ActionType)
	assert.Equal(t, domain.ActionCheck, *got.ActionType)
}

func TestCloseSession(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSessionRepo(pool)
	ctx := context.Background()

	opened := time.Now().UTC().Truncate(time.Microsecond)
	session := newStoredSession(t, repo, "user-1", opened)

	closeAt := opened.Add(45 * time.Second)
	err := repo.CloseSession(ctx, session.SessionID, closeAt, 45_000, true)
	require.NoError(t, err)

	got, err := repo.GetBySessionID(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got.AppCloseAt)
	assert.True(t, closeAt.Equal(*got.AppCloseAt))
	require.NotNil(t, got.PreExitInactionMs)
	assert.Equal(t, int64(45_000), *got.PreExitInactionMs)
	assert.True(t, got.IsHighRiskExit)
}

func TestCloseSession_OverwritesOnReclose(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSessionRepo(pool)
	ctx := context.Background()

	opened := time.Now().UTC().Truncate(time.Microsecond)
	session := newStoredSession(t, repo, "user-1", opened)

	require.NoError(t, repo.CloseSession(ctx, session.SessionID, opened.Add(30*time.Second), 30_000, true))
	require.NoError(t, repo.CloseSession(ctx, session.SessionID, opened.Add(90*time.Second), 5_000, false))

	got, err := repo.GetBySessionID(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got.PreExitInactionMs)
	assert.Equal(t, int64(5_000), *got.PreExitInactionMs)
	assert.False(t, got.IsHighRiskExit)
}

func TestListByUserAndDate(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSessionRepo(pool)
	ctx := context.Background()

	today := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	yesterday := today.Add(-24 * time.Hour)

	first := newStoredSession(t, repo, "user-1", today)
	second := newStoredSession(t, repo, "user-1", today.Add(2*time.Hour))
	newStoredSession(t, repo, "user-1", yesterday)
	newStoredSession(t, repo, "user-2", today)

	sessions, err := repo.ListByUserAndDate(ctx, "user-1", "2025-07-01")

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// Most recent open first
	assert.Equal(t, second.SessionID, sessions[0].SessionID)
	assert.Equal(t, first.SessionID, sessions[1].SessionID)
}

func TestListHighRiskExits(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSessionRepo(pool)
	ctx := context.Background()

	opened := time.Now().UTC().Truncate(time.Microsecond)

	risky := newStoredSession(t, repo, "user-1", opened)
	require.NoError(t, repo.CloseSession(ctx, risky.SessionID, opened.Add(40*time.Second), 40_000, true))

	safe := newStoredSession(t, repo, "user-2", opened)
	require.NoError(t, repo.CloseSession(ctx, safe.SessionID, opened.Add(5*time.Minute), 2_000, false))

	// Still open, must not appear even if flagged
	newStoredSession(t, repo, "user-3", opened)

	sessions, err := repo.ListHighRiskExits(ctx, 10)

	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, risky.SessionID, sessions[0].SessionID)
}

func TestListHighRiskExits_RespectsLimit(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSessionRepo(pool)
	ctx := context.Background()

	opened := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 5; i++ {
		s := newStoredSession(t, repo, "user-1", opened)
		require.NoError(t, repo.CloseSession(ctx, s.SessionID, opened.Add(time.Duration(i+1)*time.Minute), 60_000, true))
	}

	sessions, err := repo.ListHighRiskExits(ctx, 3)

	require.NoError(t, err)
	assert.Len(t, sessions, 3)
}
