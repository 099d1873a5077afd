package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/focustoday/focuspulse/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// InterventionRepo implements domain.InterventionRepository backed by
// PostgreSQL. The partial unique index on (session_id) WHERE
// first_action_after_trigger_at IS NULL makes Create the serialization point
// for concurrent triggers.
type InterventionRepo struct {
	pool *pgxpool.Pool
}

// NewInterventionRepo creates an InterventionRepo from the shared pool.
func NewInterventionRepo(pool *pgxpool.Pool) *InterventionRepo {
	return &InterventionRepo{pool: pool}
}

func (r *InterventionRepo) Create(ctx context.Context, log *domain.InterventionLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO intervention_log (log_id, user_id, session_id, experiment_group, triggered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`, log.LogID, log.UserID, log.SessionID, log.ExperimentGroup.String(), log.TriggeredAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return domain.ErrInterventionExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert intervention log: %w", err)
	}
	return nil
}

func (r *InterventionRepo) FindLatestBySession(ctx context.Context, sessionID uuid.UUID) (*domain.InterventionLog, error) {
	var (
		log   domain.InterventionLog
		group string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT log_id, user_id, session_id, experiment_group, triggered_at, first_action_after_trigger_at
		FROM intervention_log
		WHERE session_id = $1
		ORDER BY triggered_at DESC
		LIMIT 1
	`, sessionID).Scan(
		&log.LogID, &log.UserID, &log.SessionID, &group, &log.TriggeredAt, &log.FirstActionAfterTriggerAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInterventionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find intervention log: %w", err)
	}

	log.ExperimentGroup = domain.Group(group)
	return &log, nil
}

func (r *InterventionRepo) UpdateFirstActionAfterTrigger(ctx context.Context, logID uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE intervention_log
		SET first_action_after_trigger_at = $1, updated_at = NOW()
		WHERE log_id = $2 AND first_action_after_trigger_at IS NULL
	`, at, logID)
	if err != nil {
		return fmt.Errorf("failed to update intervention log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInterventionNotFound
	}
	return nil
}
