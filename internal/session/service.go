// Package session implements the session lifecycle state machine and the
// exit-time analysis that runs when a session closes.
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

// Scope values for session listing. Only ScopeToday is implemented; the
// config layer rejects anything else at startup.
const (
	ScopeToday = "today"
	ScopeWeek  = "week"
	ScopeAll   = "all"
)

// Service tracks a session's timestamps and derived fields across
// open/action events.
type Service struct {
	store  domain.SessionRepository
	events domain.EventPublisher
	clock  clockwork.Clock
	scope  string
}

// NewService creates the lifecycle service. scope selects the listing window
// (only "today" is supported).
func NewService(store domain.SessionRepository, events domain.EventPublisher, clock clockwork.Clock, scope string) *Service {
	return &Service{
		store:  store,
		events: events,
		clock:  clock,
		scope:  scope,
	}
}

// Start creates a new session in the open state with app_open_at = now.
func (s *Service) Start(ctx context.Context, userID string) (*domain.Session, error) {
	session := &domain.Session{
		SessionID: uuid.New(),
		UserID:    userID,
		AppOpenAt: s.clock.Now(),
	}

	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	metrics.SessionsOpenedTotal.Inc()
	s.events.PublishSessionEvent(ctx, domain.EventAppOpen, domain.SessionEvent{
		Event:        domain.EventAppOpen,
		SessionID:    session.SessionID.String(),
		UserID:       userID,
		AppOpenAt:    formatTime(session.AppOpenAt),
		SessionEnded: false,
	})

	slog.Info("Session started", "session_id", session.SessionID.String(), "user_id", userID)
	return session, nil
}

// RecordAction records a user action against a session.
//
// The first qualifying action freezes first_action_at and the re-entry
// latency; every action (including the first) moves last_action_at and
// action_type. A closed session still accepts late actions — they mutate
// last_action_at only, never the close fields.
func (s *Service) RecordAction(ctx context.Context, sessionID uuid.UUID, actionType domain.ActionType) (*domain.ActionResult, error) {
	session, err := s.store.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	if session.FirstActionAt == nil {
		// Clock skew can put now before app_open_at; latency never goes negative.
		latencyMs := max(int64(0), now.Sub(session.AppOpenAt).Milliseconds())

		if err := s.store.UpdateFirstAction(ctx, sessionID, now, latencyMs, actionType); err != nil {
			return nil, fmt.Errorf("failed to record first action: %w", err)
		}

		metrics.SessionActionsTotal.WithLabelValues(actionType.String(), "true").Inc()
		metrics.ReentryLatencySeconds.Observe(float64(latencyMs) / 1000)

		s.events.PublishSessionEvent(ctx, domain.EventFirstAction, domain.SessionEvent{
			Event:            domain.EventFirstAction,
			SessionID:        sessionID.String(),
			UserID:           session.UserID,
			AppOpenAt:        formatTime(session.AppOpenAt),
			FirstActionAt:    formatTime(now),
			ReentryLatencyMs: &latencyMs,
			ActionType:       &actionType,
			SessionEnded:     false,
		})

		return &domain.ActionResult{
			SessionID:        sessionID,
			IsFirstAction:    true,
			ActionType:       actionType,
			FirstActionAt:    &now,
			LastActionAt:     &now,
			ReentryLatencyMs: &latencyMs,
		}, nil
	}

	if err := s.store.UpdateLastAction(ctx, sessionID, now, actionType); err != nil {
		return nil, fmt.Errorf("failed to record action: %w", err)
	}

	metrics.SessionActionsTotal.WithLabelValues(actionType.String(), "false").Inc()

	return &domain.ActionResult{
		SessionID:     sessionID,
		IsFirstAction: false,
		ActionType:    actionType,
		LastActionAt:  &now,
	}, nil
}

// ListForUser returns the user's sessions within the configured display
// scope, most recent open first. Scope "today" restricts to sessions whose
// app_open_at falls on the current UTC calendar date.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Session, error) {
	return s.store.ListByUserAndDate(ctx, userID, s.ScopeDate())
}

// ScopeDate returns the UTC calendar date (YYYY-MM-DD) used by the current
// display scope.
func (s *Service) ScopeDate() string {
	return s.clock.Now().UTC().Format("2006-01-02")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
