package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InterventionLog records one intervention trigger for a session. All rows
// are retained; the latest by triggered_at is authoritative. A log without
// first_action_after_trigger_at is "active".
type InterventionLog struct {
	LogID           uuid.UUID `json:"log_id"`
	UserID          string    `json:"user_id"`
	SessionID       uuid.UUID `json:"session_id"`
	ExperimentGroup Group     `json:"experiment_group"`
	TriggeredAt     time.Time `json:"triggered_at"`

	FirstActionAfterTriggerAt *time.Time `json:"first_action_after_trigger_at"`
}

// InterventionResult is the outcome of an inaction check.
//
// A missing session yields a zero-group result with FocusInput false, which
// callers must distinguish from a successful no-trigger decision.
type InterventionResult struct {
	Triggered       bool       `json:"triggered"`
	ExperimentGroup Group      `json:"experiment_group,omitempty"`
	LogID           *uuid.UUID `json:"log_id,omitempty"`
	FocusInput      bool       `json:"focus_input"`
}

// InterventionRepository is the durable store for intervention logs.
//
// Create must enforce at most one active log per session and return
// ErrInterventionExists on violation.
type InterventionRepository interface {
	Create(ctx context.Context, log *InterventionLog) error
	FindLatestBySession(ctx context.Context, sessionID uuid.UUID) (*InterventionLog, error)
	UpdateFirstActionAfterTrigger(ctx context.Context, logID uuid.UUID, at time.Time) error
}
