package httpserver

import (
	"fmt"
	"net/http"

	apperrors "github.com/focustoday/focuspulse/internal/platform/errors"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (s *Server) registerInterventionRoutes() {
	s.echo.POST("/api/intervention/check", s.handleInterventionCheck)
	s.echo.GET("/api/intervention/state", s.handleInterventionStateGet)
	s.echo.POST("/api/intervention/state", s.handleInterventionStatePost)
}

type interventionRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

func (r *interventionRequest) validate() (uuid.UUID, error) {
	if r.UserID == "" {
		return uuid.Nil, apperrors.ValidationError("user_id is required")
	}
	if r.SessionID == "" {
		return uuid.Nil, apperrors.ValidationError("session_id is required")
	}
	sessionID, err := uuid.Parse(r.SessionID)
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid session_id").WithField("session_id", r.SessionID)
	}
	return sessionID, nil
}

// handleInterventionCheck runs the inaction check after a client-side idle
// timer expires.
func (s *Server) handleInterventionCheck(c echo.Context) error {
	var req interventionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	sessionID, err := req.validate()
	if err != nil {
		return err
	}

	result, err := s.app.CheckInaction(c.Request().Context(), req.UserID, sessionID)
	if err != nil {
		return apperrors.InternalError("failed to check inaction", err).WithField("session_id", sessionID.String())
	}

	if err := c.JSON(http.StatusOK, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleInterventionStateGet(c echo.Context) error {
	req := interventionRequest{
		UserID:    c.QueryParam("user_id"),
		SessionID: c.QueryParam("session_id"),
	}
	return s.interventionState(c, req)
}

func (s *Server) handleInterventionStatePost(c echo.Context) error {
	var req interventionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	return s.interventionState(c, req)
}

func (s *Server) interventionState(c echo.Context, req interventionRequest) error {
	sessionID, err := req.validate()
	if err != nil {
		return err
	}

	result, err := s.app.InterventionState(c.Request().Context(), req.UserID, sessionID)
	if err != nil {
		return apperrors.InternalError("failed to get intervention state", err).WithField("session_id", sessionID.String())
	}

	if err := c.JSON(http.StatusOK, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
