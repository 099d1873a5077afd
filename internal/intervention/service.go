// Package intervention detects sustained inaction and fires the nudge for
// the experimental cohort, at most once per idle episode.
package intervention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/focustoday/focuspulse/internal/domain"
	"github.com/focustoday/focuspulse/internal/experiment"
	"github.com/focustoday/focuspulse/internal/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// DefaultInactionTrigger is the idle time after which the nudge fires.
const DefaultInactionTrigger = 30 * time.Second

// Service decides when (and for whom) an intervention fires and records it
// idempotently.
//
// The check-then-create sequence is guarded twice: a singleflight group
// keyed by session id collapses concurrent evaluations in-process, and the
// store enforces at most one active log per session, so a lost race surfaces
// as ErrInterventionExists rather than a duplicate row.
type Service struct {
	sessions      domain.SessionRepository
	logs          domain.InterventionRepository
	events        domain.EventPublisher
	clock         clockwork.Clock
	triggerGroup  singleflight.Group
	inactionAfter time.Duration
}

// NewService creates the intervention service. inactionAfter is the idle
// threshold before a trigger fires.
func NewService(sessions domain.SessionRepository, logs domain.InterventionRepository, events domain.EventPublisher, clock clockwork.Clock, inactionAfter time.Duration) *Service {
	return &Service{
		sessions:      sessions,
		logs:          logs,
		events:        events,
		clock:         clock,
		inactionAfter: inactionAfter,
	}
}

// InactionElapsed returns how long the session has been idle: since the last
// action when one exists (falling back to the first action), otherwise since
// app open.
func (s *Service) InactionElapsed(session *domain.Session) time.Duration {
	from := session.AppOpenAt
	if session.FirstActionAt != nil {
		from = *session.FirstActionAt
		if session.LastActionAt != nil {
			from = *session.LastActionAt
		}
	}
	return s.clock.Now().Sub(from)
}

// CheckAndTrigger evaluates a session for sustained inaction and fires the
// nudge when all gates pass. The experiment group is reported even when
// nothing triggers; a missing session yields an empty group.
func (s *Service) CheckAndTrigger(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error) {
	v, err, _ := s.triggerGroup.Do(sessionID.String(), func() (any, error) {
		return s.checkAndTrigger(ctx, userID, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.InterventionResult), nil
}

func (s *Service) checkAndTrigger(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error) {
	session, err := s.sessions.GetBySessionID(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		metrics.InterventionChecksTotal.WithLabelValues("no_session").Inc()
		return &domain.InterventionResult{Triggered: false, FocusInput: false}, nil
	}
	if err != nil {
		metrics.InterventionChecksTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	group := experiment.Assign(userID)

	if s.InactionElapsed(session) < s.inactionAfter {
		metrics.InterventionChecksTotal.WithLabelValues("under_threshold").Inc()
		return &domain.InterventionResult{Triggered: false, ExperimentGroup: group, FocusInput: false}, nil
	}

	// Already nudged this session: the client should still focus the input,
	// but the trigger metric must not double-count.
	existing, err := s.logs.FindLatestBySession(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrInterventionNotFound) {
		metrics.InterventionChecksTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if existing != nil {
		metrics.InterventionChecksTotal.WithLabelValues("already_triggered").Inc()
		return &domain.InterventionResult{
			Triggered:       false,
			ExperimentGroup: group,
			LogID:           &existing.LogID,
			FocusInput:      true,
		}, nil
	}

	if group != domain.GroupExperimental {
		metrics.InterventionChecksTotal.WithLabelValues("control").Inc()
		return &domain.InterventionResult{Triggered: false, ExperimentGroup: group, FocusInput: false}, nil
	}

	log := &domain.InterventionLog{
		LogID:           uuid.New(),
		UserID:          userID,
		SessionID:       sessionID,
		ExperimentGroup: group,
		TriggeredAt:     s.clock.Now(),
	}

	if err := s.logs.Create(ctx, log); err != nil {
		if errors.Is(err, domain.ErrInterventionExists) {
			// Lost a cross-instance race; answer as "already triggered".
			return s.answerExisting(ctx, sessionID, group)
		}
		metrics.InterventionChecksTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to create intervention log: %w", err)
	}

	metrics.InterventionChecksTotal.WithLabelValues("triggered").Inc()
	metrics.InterventionsTriggeredTotal.Inc()

	s.events.PublishInterventionEvent(ctx, domain.EventTriggered, domain.InterventionEvent{
		Event:           domain.EventTriggered,
		LogID:           log.LogID.String(),
		SessionID:       sessionID.String(),
		UserID:          userID,
		ExperimentGroup: group,
		TriggeredAt:     log.TriggeredAt.UTC().Format(time.RFC3339Nano),
	})

	slog.Info("Intervention triggered",
		"session_id", sessionID.String(),
		"user_id", userID,
		"log_id", log.LogID.String())

	return &domain.InterventionResult{
		Triggered:       true,
		ExperimentGroup: group,
		LogID:           &log.LogID,
		FocusInput:      true,
	}, nil
}

func (s *Service) answerExisting(ctx context.Context, sessionID uuid.UUID, group domain.Group) (*domain.InterventionResult, error) {
	existing, err := s.logs.FindLatestBySession(ctx, sessionID)
	if err != nil {
		metrics.InterventionChecksTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.InterventionChecksTotal.WithLabelValues("already_triggered").Inc()
	return &domain.InterventionResult{
		Triggered:       false,
		ExperimentGroup: group,
		LogID:           &existing.LogID,
		FocusInput:      true,
	}, nil
}

// State is the poll-endpoint wrapper. It shares CheckAndTrigger's semantics,
// side effects included: every state check can create a log.
func (s *Service) State(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error) {
	return s.CheckAndTrigger(ctx, userID, sessionID)
}

// RecordFirstActionAfterTrigger fills first_action_after_trigger_at on the
// session's latest log, exactly once. Returns (nil, nil) when no log exists
// or the field is already set.
func (s *Service) RecordFirstActionAfterTrigger(ctx context.Context, sessionID uuid.UUID, actionAt time.Time) (*domain.InterventionLog, error) {
	log, err := s.logs.FindLatestBySession(ctx, sessionID)
	if errors.Is(err, domain.ErrInterventionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if log.FirstActionAfterTriggerAt != nil {
		return nil, nil
	}

	if err := s.logs.UpdateFirstActionAfterTrigger(ctx, log.LogID, actionAt); err != nil {
		// Another request filled it between the read and the write.
		if errors.Is(err, domain.ErrInterventionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to record first action after trigger: %w", err)
	}

	metrics.InterventionResponseSeconds.Observe(actionAt.Sub(log.TriggeredAt).Seconds())

	s.events.PublishInterventionEvent(ctx, domain.EventFirstActionAfterTrigger, domain.InterventionEvent{
		Event:                     domain.EventFirstActionAfterTrigger,
		LogID:                     log.LogID.String(),
		SessionID:                 sessionID.String(),
		UserID:                    log.UserID,
		ExperimentGroup:           log.ExperimentGroup,
		TriggeredAt:               log.TriggeredAt.UTC().Format(time.RFC3339Nano),
		FirstActionAfterTriggerAt: actionAt.UTC().Format(time.RFC3339Nano),
	})

	log.FirstActionAfterTriggerAt = &actionAt
	return log, nil
}
