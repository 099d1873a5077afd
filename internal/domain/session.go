package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActionType is the closed set of user actions a session records.
type ActionType string

const (
	ActionGoalCreate ActionType = "goal_create"
	ActionCheck      ActionType = "check"
	ActionOther      ActionType = "other"
)

func (a ActionType) String() string { return string(a) }

// Valid reports whether a is one of the known action types.
func (a ActionType) Valid() bool {
	switch a {
	case ActionGoalCreate, ActionCheck, ActionOther:
		return true
	}
	return false
}

// Session is one continuous app usage span from open to close.
//
// first_action_at is set exactly once; reentry latency is frozen with it.
// last_action_at moves with every action. Close fields are set by exit
// analysis.
type Session struct {
	SessionID uuid.UUID `json:"session_id"`
	UserID    string    `json:"user_id"`
	AppOpenAt time.Time `json:"app_open_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FirstActionAt    *time.Time  `json:"first_action_at"`
	LastActionAt     *time.Time  `json:"last_action_at"`
	ReentryLatencyMs *int64      `json:"reentry_latency_ms"`
	ActionType       *ActionType `json:"action_type"`

	AppCloseAt        *time.Time `json:"app_close_at"`
	PreExitInactionMs *int64     `json:"pre_exit_inaction_ms"`
	IsHighRiskExit    bool       `json:"is_high_risk_exit"`
}

// Closed reports whether the session has recorded an app close.
func (s *Session) Closed() bool { return s.AppCloseAt != nil }

// ActionResult is returned by recording an action against a session.
type ActionResult struct {
	SessionID        uuid.UUID  `json:"session_id"`
	IsFirstAction    bool       `json:"is_first_action"`
	ActionType       ActionType `json:"action_type"`
	FirstActionAt    *time.Time `json:"first_action_at,omitempty"`
	LastActionAt     *time.Time `json:"last_action_at,omitempty"`
	ReentryLatencyMs *int64     `json:"reentry_latency_ms,omitempty"`
}

// ActionTimestamp returns the timestamp of the recorded action, whether it
// was the first or a subsequent one.
func (r *ActionResult) ActionTimestamp() time.Time {
	if r.IsFirstAction && r.FirstActionAt != nil {
		return *r.FirstActionAt
	}
	if r.LastActionAt != nil {
		return *r.LastActionAt
	}
	return time.Time{}
}

// ExitResult carries the classification computed when a session closes.
type ExitResult struct {
	SessionID         uuid.UUID `json:"session_id"`
	AppCloseAt        time.Time `json:"app_close_at"`
	PreExitInactionMs int64     `json:"pre_exit_inaction_ms"`
	IsEarlyExit       bool      `json:"is_early_exit"`
	IsHighRiskExit    bool      `json:"is_high_risk_exit"`
}

// SessionRepository is the durable store for session lifecycle state.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*Session, error)
	UpdateFirstAction(ctx context.Context, sessionID uuid.UUID, firstActionAt time.Time, reentryLatencyMs int64, actionType ActionType) error
	UpdateLastAction(ctx context.Context, sessionID uuid.UUID, lastActionAt time.Time, actionType ActionType) error
	CloseSession(ctx context.Context, sessionID uuid.UUID, appCloseAt time.Time, preExitInactionMs int64, isHighRiskExit bool) error
	ListByUserAndDate(ctx context.Context, userID string, date string) ([]Session, error)
	ListHighRiskExits(ctx context.Context, limit int) ([]Session, error)
}
