package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/focustoday/focuspulse/internal/domain"
	apperrors "github.com/focustoday/focuspulse/internal/platform/errors"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (s *Server) registerSessionRoutes() {
	s.echo.POST("/api/session/app-open", s.handleAppOpen)
	s.echo.POST("/api/session/action", s.handleAction)
	s.echo.POST("/api/session/app-close", s.handleAppClose)
	s.echo.GET("/api/session/user/:user_id", s.handleListSessions)
	s.echo.GET("/api/session/high-risk", s.handleHighRiskExits)
}

type appOpenRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleAppOpen(c echo.Context) error {
	var req appOpenRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.UserID == "" {
		return apperrors.ValidationError("user_id is required")
	}

	session, err := s.app.OpenSession(c.Request().Context(), req.UserID)
	if err != nil {
		return apperrors.InternalError("failed to open session", err).WithField("user_id", req.UserID)
	}

	if err := c.JSON(http.StatusCreated, session); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type actionRequest struct {
	SessionID  string `json:"session_id"`
	ActionType string `json:"action_type"`
}

func (s *Server) handleAction(c echo.Context) error {
	var req actionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return apperrors.ValidationError("invalid session_id").WithField("session_id", req.SessionID)
	}

	// Missing action type defaults to "other", matching clients that only
	// report activity without classifying it.
	actionType := domain.ActionOther
	if req.ActionType != "" {
		actionType = domain.ActionType(req.ActionType)
		if !actionType.Valid() {
			return apperrors.ValidationError("invalid action_type").WithField("action_type", req.ActionType)
		}
	}

	result, err := s.app.RecordAction(c.Request().Context(), sessionID, actionType)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return apperrors.NotFoundError("session not found").WithField("session_id", sessionID.String())
	}
	if err != nil {
		return apperrors.InternalError("failed to record action", err).WithField("session_id", sessionID.String())
	}

	if err := c.JSON(http.StatusOK, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type appCloseRequest struct {
	SessionID  string `json:"session_id"`
	AppCloseAt string `json:"app_close_at"`
}

func (s *Server) handleAppClose(c echo.Context) error {
	var req appCloseRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return apperrors.ValidationError("invalid session_id").WithField("session_id", req.SessionID)
	}

	var appCloseAt *time.Time
	if req.AppCloseAt != "" {
		t, err := time.Parse(time.RFC3339Nano, req.AppCloseAt)
		if err != nil {
			return apperrors.ValidationError("invalid app_close_at, expected RFC 3339 timestamp").
				WithField("app_close_at", req.AppCloseAt)
		}
		appCloseAt = &t
	}

	result, err := s.app.CloseSession(c.Request().Context(), sessionID, appCloseAt)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return apperrors.NotFoundError("session not found").WithField("session_id", sessionID.String())
	}
	if err != nil {
		return apperrors.InternalError("failed to close session", err).WithField("session_id", sessionID.String())
	}

	if err := c.JSON(http.StatusOK, result); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type sessionListResponse struct {
	UserID   string           `json:"user_id"`
	Scope    string           `json:"scope"`
	Date     string           `json:"date"`
	Sessions []domain.Session `json:"sessions"`
}

func (s *Server) handleListSessions(c echo.Context) error {
	userID := c.Param("user_id")
	if userID == "" {
		return apperrors.ValidationError("user_id is required")
	}

	sessions, err := s.app.ListSessions(c.Request().Context(), userID)
	if err != nil {
		return apperrors.InternalError("failed to list sessions", err).WithField("user_id", userID)
	}

	response := sessionListResponse{
		UserID:   userID,
		Scope:    s.config.TaskDisplayScope,
		Date:     s.app.ScopeDate(),
		Sessions: sessions,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleHighRiskExits(c echo.Context) error {
	limit := s.config.HighRiskExitLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apperrors.ValidationError("limit must be a positive integer").WithField("limit", raw)
		}
		if parsed < limit {
			limit = parsed
		}
	}

	sessions, err := s.app.ListHighRiskExits(c.Request().Context(), limit)
	if err != nil {
		return apperrors.InternalError("failed to list high-risk exits", err)
	}

	response := map[string]any{
		"limit":    limit,
		"sessions": sessions,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
