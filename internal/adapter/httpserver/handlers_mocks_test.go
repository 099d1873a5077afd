package httpserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/focustoday/focuspulse/internal/domain"
	"github.com/focustoday/focuspulse/internal/platform/config"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// --- Mock implementations ---

type mockAppService struct {
	openSessionFn       func(ctx context.Context, userID string) (*domain.Session, error)
	recordActionFn      func(ctx context.Context, sessionID uuid.UUID, actionType domain.ActionType) (*domain.ActionResult, error)
	closeSessionFn      func(ctx context.Context, sessionID uuid.UUID, appCloseAt *time.Time) (*domain.ExitResult, error)
	listSessionsFn      func(ctx context.Context, userID string) ([]domain.Session, error)
	scopeDateFn         func() string
	listHighRiskFn      func(ctx context.Context, limit int) ([]domain.Session, error)
	checkInactionFn     func(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error)
	interventionStateFn func(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error)
}

func (m *mockAppService) OpenSession(ctx context.Context, userID string) (*domain.Session, error) {
	if m.openSessionFn != nil {
		return m.openSessionFn(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) RecordAction(ctx context.Context, sessionID uuid.UUID, actionType domain.ActionType) (*domain.ActionResult, error) {
	if m.recordActionFn != nil {
		return m.recordActionFn(ctx, sessionID, actionType)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) CloseSession(ctx context.Context, sessionID uuid.UUID, appCloseAt *time.Time) (*domain.ExitResult, error) {
	if m.closeSessionFn != nil {
		return m.closeSessionFn(ctx, sessionID, appCloseAt)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) ListSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	if m.listSessionsFn != nil {
		return m.listSessionsFn(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) ScopeDate() string {
	if m.scopeDateFn != nil {
		return m.scopeDateFn()
	}
	return "2025-01-01"
}

func (m *mockAppService) ListHighRiskExits(ctx context.Context, limit int) ([]domain.Session, error) {
	if m.listHighRiskFn != nil {
		return m.listHighRiskFn(ctx, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) CheckInaction(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error) {
	if m.checkInactionFn != nil {
		return m.checkInactionFn(ctx, userID, sessionID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) InterventionState(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error) {
	if m.interventionStateFn != nil {
		return m.interventionStateFn(ctx, userID, sessionID)
	}
	return nil, errors.New("not implemented")
}

// --- Test helpers ---

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	e := echo.New()

	srv := &Server{
		echo: e,
		config: &config.Config{
			Port:              "8080",
			TaskDisplayScope:  config.ScopeToday,
			HighRiskExitLimit: 100,
		},
		app:       app,
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}
