package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/focustoday/focuspulse/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// sessionColumns must match the scan order in scanSession.
const sessionColumns = `session_id, user_id, app_open_at, first_action_at, last_action_at,
	reentry_latency_ms, action_type, app_close_at, pre_exit_inaction_ms, is_high_risk_exit,
	created_at, updated_at`

// SessionRepo implements domain.SessionRepository backed by PostgreSQL.
type SessionRepo struct {
	pool *pgxpool.Pool
}

// NewSessionRepo creates a SessionRepo from the shared connection pool.
func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var (
		s          domain.Session
		actionType *string
	)
	err := row.Scan(
		&s.SessionID, &s.UserID, &s.AppOpenAt, &s.FirstActionAt, &s.LastActionAt,
		&s.ReentryLatencyMs, &actionType, &s.AppCloseAt, &s.PreExitInactionMs, &s.IsHighRiskExit,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if actionType != nil {
		at := domain.ActionType(*actionType)
		s.ActionType = &at
	}
	return &s, nil
}

func (r *SessionRepo) Create(ctx context.Context, session *domain.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO session_log (session_id, user_id, app_open_at, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`, session.SessionID, session.UserID, session.AppOpenAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *SessionRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	session, err := scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM session_log WHERE session_id = $1`, sessionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (r *SessionRepo) UpdateFirstAction(ctx context.Context, sessionID uuid.UUID, firstActionAt time.Time, reentryLatencyMs int64, actionType domain.ActionType) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE session_log
		SET first_action_at = $1, last_action_at = $1, reentry_latency_ms = $2, action_type = $3, updated_at = NOW()
		WHERE session_id = $4
	`, firstActionAt, reentryLatencyMs, actionType.String(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to update first action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepo) UpdateLastAction(ctx context.Context, sessionID uuid.UUID, lastActionAt time.Time, actionType domain.ActionType) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE session_log
		SET last_action_at = $1, action_type = $2, updated_at = NOW()
		WHERE session_id = $3
	`, lastActionAt, actionType.String(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to update last action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepo) CloseSession(ctx context.Context, sessionID uuid.UUID, appCloseAt time.Time, preExitInactionMs int64, isHighRiskExit bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE session_log
		SET app_close_at = $1, pre_exit_inaction_ms = $2, is_high_risk_exit = $3, updated_at = NOW()
		WHERE session_id = $4
	`, appCloseAt, preExitInactionMs, isHighRiskExit, sessionID)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// ListByUserAndDate returns the user's sessions whose app_open_at falls on
// the given UTC calendar date (YYYY-MM-DD), most recent open first.
func (r *SessionRepo) ListByUserAndDate(ctx context.Context, userID string, date string) ([]domain.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM session_log
		WHERE user_id = $1 AND date(app_open_at AT TIME ZONE 'UTC') = $2::date
		ORDER BY app_open_at DESC
	`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *SessionRepo) ListHighRiskExits(ctx context.Context, limit int) ([]domain.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM session_log
		WHERE is_high_risk_exit AND app_close_at IS NOT NULL
		ORDER BY app_close_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list high-risk exits: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func collectSessions(rows pgx.Rows) ([]domain.Session, error) {
	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return sessions, nil
}
