// Package httpserver exposes the session and intervention APIs over HTTP.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/focustoday/focuspulse/internal/domain"
	"github.com/focustoday/focuspulse/internal/platform/config"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type appService interface {
	OpenSession(ctx context.Context, userID string) (*domain.Session, error)
	RecordAction(ctx context.Context, sessionID uuid.UUID, actionType domain.ActionType) (*domain.ActionResult, error)
	CloseSession(ctx context.Context, sessionID uuid.UUID, appCloseAt *time.Time) (*domain.ExitResult, error)
	ListSessions(ctx context.Context, userID string) ([]domain.Session, error)
	ScopeDate() string
	ListHighRiskExits(ctx context.Context, limit int) ([]domain.Session, error)
	CheckInaction(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error)
	InterventionState(ctx context.Context, userID string, sessionID uuid.UUID) (*domain.InterventionResult, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app appService

	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, app appService, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
