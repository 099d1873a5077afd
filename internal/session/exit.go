package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/focustoday/focuspulse/internal/domain"
	"github.com/focustoday/focuspulse/internal/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Default classification thresholds; overridable through config.
const (
	DefaultEarlyExitThreshold = 60 * time.Second
	DefaultHighRiskInactionMs = 30_000
)

// Analyzer computes exit-time classifications from a closed session's
// timestamps.
type Analyzer struct {
	store  domain.SessionRepository
	events domain.EventPublisher
	clock  clockwork.Clock

	earlyExitThresholdMs int64
	highRiskInactionMs   int64
}

// NewAnalyzer creates an exit analyzer with the given thresholds.
func NewAnalyzer(store domain.SessionRepository, events domain.EventPublisher, clock clockwork.Clock, earlyExitThreshold time.Duration, highRiskInactionMs int64) *Analyzer {
	return &Analyzer{
		store:                store,
		events:               events,
		clock:                clock,
		earlyExitThresholdMs: earlyExitThreshold.Milliseconds(),
		highRiskInactionMs:   highRiskInactionMs,
	}
}

// Close closes a session and classifies the exit.
//
// appCloseAt overrides the close time when the client reports it; nil means
// now. Inaction is measured from the last action, or from app open when the
// session never saw one — a session without any action is high-risk
// regardless of duration. Closing an already-closed session recomputes from
// current stored state and overwrites.
func (a *Analyzer) Close(ctx context.Context, sessionID uuid.UUID, appCloseAt *time.Time) (*domain.ExitResult, error) {
	session, err := a.store.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	closeTime := a.clock.Now()
	if appCloseAt != nil {
		closeTime = *appCloseAt
	}

	inactionRef := session.AppOpenAt
	if session.LastActionAt != nil {
		inactionRef = *session.LastActionAt
	}

	preExitInactionMs := max(int64(0), closeTime.Sub(inactionRef).Milliseconds())
	sessionDurationMs := closeTime.Sub(session.AppOpenAt).Milliseconds()
	isEarlyExit := sessionDurationMs <= a.earlyExitThresholdMs
	isHighRiskExit := session.FirstActionAt == nil || preExitInactionMs >= a.highRiskInactionMs

	if err := a.store.CloseSession(ctx, sessionID, closeTime, preExitInactionMs, isHighRiskExit); err != nil {
		return nil, fmt.Errorf("failed to close session: %w", err)
	}

	metrics.SessionsClosedTotal.WithLabelValues(boolLabel(isEarlyExit), boolLabel(isHighRiskExit)).Inc()
	metrics.PreExitInactionSeconds.Observe(float64(preExitInactionMs) / 1000)

	highRisk := isHighRiskExit
	a.events.PublishSessionEvent(ctx, domain.EventAppClose, domain.SessionEvent{
		Event:             domain.EventAppClose,
		SessionID:         sessionID.String(),
		UserID:            session.UserID,
		AppOpenAt:         formatTime(session.AppOpenAt),
		FirstActionAt:     formatTimePtr(session.FirstActionAt),
		LastActionAt:      formatTimePtr(session.LastActionAt),
		AppCloseAt:        formatTime(closeTime),
		ReentryLatencyMs:  session.ReentryLatencyMs,
		PreExitInactionMs: &preExitInactionMs,
		ActionType:        session.ActionType,
		IsHighRiskExit:    &highRisk,
		SessionEnded:      true,
	})

	slog.Info("Session closed",
		"session_id", sessionID.String(),
		"user_id", session.UserID,
		"pre_exit_inaction_ms", preExitInactionMs,
		"early_exit", isEarlyExit,
		"high_risk_exit", isHighRiskExit)

	return &domain.ExitResult{
		SessionID:         sessionID,
		AppCloseAt:        closeTime,
		PreExitInactionMs: preExitInactionMs,
		IsEarlyExit:       isEarlyExit,
		IsHighRiskExit:    isHighRiskExit,
	}, nil
}

// HighRiskExits returns the most recently closed high-risk sessions, bounded
// by limit.
func (a *Analyzer) HighRiskExits(ctx context.Context, limit int) ([]domain.Session, error) {
	return a.store.ListHighRiskExits(ctx, limit)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
