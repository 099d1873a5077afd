// Package app is the application layer — the only component that references
// multiple domain services. It orchestrates all use cases the HTTP layer
// exposes.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/focustoday/focuspulse/internal/domain"
	"github.com/google/uuid"
)

type lifecycleService interface {
	Start(ctx context.Context, userID string) (*domain.Session, error)
	RecordAction(ctx context.Context, sessionID uuid.UUID, actionType domain.ActionType) (*domain.ActionResult, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Session, error)
	ScopeDate() string
}

type exitAnalyzer interface {
	Close(ctx context.Context, sessionID uuid.UUID, appCloseAt *time.Time) (*domain.ExitResult, error)
	HighRiskExits(ctx context.Context, limit int) ([]domain.Session, error)
}

type interventionService interface {
	CheckAndTrigger(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error)
	State(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error)
	RecordFirstActionAfterTrigger(ctx context.Context, sessionID uuid.UUID, actionAt time.Time) (*domain.InterventionLog, error)
}

// Service wires the lifecycle, exit analysis, and intervention components.
type Service struct {
	lifecycle     lifecycleService
	exits         exitAnalyzer
	interventions interventionService
}

// NewService creates the application layer service.
func NewService(lifecycle lifecycleService, exits exitAnalyzer, interventions interventionService) *Service {
	return &Service{
		lifecycle:     lifecycle,
		exits:         exits,
		interventions: interventions,
	}
}

// OpenSession starts a new session for the user.
func (s *Service) OpenSession(ctx context.Context, userID string) (*domain.Session, error) {
	return s.lifecycle.Start(ctx, userID)
}

// RecordAction records an action and, when an intervention trigger is
// pending for the session, captures the time-to-respond on whichever action
// follows it. The intervention update is best-effort: a failure there must
// not fail the recorded action.
func (s *Service) RecordAction(ctx context.Context, sessionID uuid.UUID, actionType domain.ActionType) (*domain.ActionResult, error) {
	result, err := s.lifecycle.RecordAction(ctx, sessionID, actionType)
	if err != nil {
		return nil, err
	}

	if _, err := s.interventions.RecordFirstActionAfterTrigger(ctx, sessionID, result.ActionTimestamp()); err != nil {
		slog.Error("Failed to update intervention log after action",
			"session_id", sessionID.String(),
			"error", err)
	}

	return result, nil
}

// CloseSession closes a session and classifies the exit.
func (s *Service) CloseSession(ctx context.Context, sessionID uuid.UUID, appCloseAt *time.Time) (*domain.ExitResult, error) {
	return s.exits.Close(ctx, sessionID, appCloseAt)
}

// ListSessions lists the user's sessions within the display scope.
func (s *Service) ListSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	return s.lifecycle.ListForUser(ctx, userID)
}

// ScopeDate returns the display-scope date string.
func (s *Service) ScopeDate() string {
	return s.lifecycle.ScopeDate()
}

// ListHighRiskExits returns recent high-risk-flagged closed sessions.
func (s *Service) ListHighRiskExits(ctx context.Context, limit int) ([]domain.Session, error) {
	return s.exits.HighRiskExits(ctx, limit)
}

// CheckInaction runs the explicit inaction check (client timer expiry).
func (s *Service) CheckInaction(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error) {
	return s.interventions.CheckAndTrigger(ctx, userID, sessionID)
}

// InterventionState answers the poll endpoint. It shares CheckInaction's
// side effects: polling can create a log.
func (s *Service) InterventionState(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error) {
	return s.interventions.State(ctx, userID, sessionID)
}
