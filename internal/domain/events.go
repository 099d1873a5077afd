package domain

import "context"

// Session event kinds.
const (
	EventAppOpen     = "app_open"
	EventFirstAction = "first_action"
	EventAppClose    = "app_close"
)

// Intervention event kinds.
const (
	EventTriggered               = "triggered"
	EventFirstActionAfterTrigger = "first_action_after_trigger"
)

// EventPublisher is the fire-and-forget telemetry sink. Implementations must
// never fail the calling operation; publish errors are swallowed and counted.
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, kind string, payload SessionEvent)
	PublishInterventionEvent(ctx context.Context, kind string, payload InterventionEvent)
}

// SessionEvent mirrors the session_log row shape at emission time.
type SessionEvent struct {
	Event             string      `json:"event"`
	SessionID         string      `json:"session_id"`
	UserID            string      `json:"user_id"`
	AppOpenAt         string      `json:"app_open_at,omitempty"`
	FirstActionAt     string      `json:"first_action_at,omitempty"`
	LastActionAt      string      `json:"last_action_at,omitempty"`
	AppCloseAt        string      `json:"app_close_at,omitempty"`
	ReentryLatencyMs  *int64      `json:"reentry_latency_ms"`
	PreExitInactionMs *int64      `json:"pre_exit_inaction_ms,omitempty"`
	ActionType        *ActionType `json:"action_type"`
	IsHighRiskExit    *bool       `json:"is_high_risk_exit,omitempty"`
	SessionEnded      bool        `json:"session_ended"`
}

// InterventionEvent mirrors the intervention_log row shape at emission time.
type InterventionEvent struct {
	Event                     string `json:"event"`
	LogID                     string `json:"log_id"`
	SessionID                 string `json:"session_id"`
	UserID                    string `json:"user_id"`
	ExperimentGroup           Group  `json:"experiment_group"`
	TriggeredAt               string `json:"triggered_at"`
	FirstActionAfterTriggerAt string `json:"first_action_after_trigger_at,omitempty"`
}
