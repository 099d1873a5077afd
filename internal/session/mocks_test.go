package session

import (
	"context"
	"errors"
	"time"

	"github.com/focustoday/focuspulse/internal/domain"
	"github.com/google/uuid"
)

type mockSessionRepo struct {
	createFn            func(ctx context.Context, session *domain.Session) error
	getBySessionIDFn    func(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	updateFirstActionFn func(ctx context.Context, sessionID uuid.UUID, firstActionAt time.Time, reentryLatencyMs int64, actionType domain.ActionType) error
	updateLastActionFn  func(ctx context.Context, sessionID uuid.UUID, lastActionAt time.Time, actionType domain.ActionType) error
	closeSessionFn      func(ctx context.Context, sessionID uuid.UUID, appCloseAt time.Time, preExitInactionMs int64, isHighRiskExit bool) error
	listByUserAndDateFn func(ctx context.Context, userID string, date string) ([]domain.Session, error)
	listHighRiskFn      func(ctx context.Context, limit int) ([]domain.Session, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	if m.getBySessionIDFn != nil {
		return m.getBySessionIDFn(ctx, sessionID)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *mockSessionRepo) UpdateFirstAction(ctx context.Context, sessionID uuid.UUID, firstActionAt time.Time, reentryLatencyMs int64, actionType domain.ActionType) error {
	if m.updateFirstActionFn != nil {
		return m.updateFirstActionFn(ctx, sessionID, firstActionAt, reentryLatencyMs, actionType)
	}
	return nil
}

func (m *mockSessionRepo) UpdateLastAction(ctx context.Context, sessionID uuid.UUID, lastActionAt time.Time, actionType domain.ActionType) error {
	if m.updateLastActionFn != nil {
		return m.updateLastActionFn(ctx, sessionID, lastActionAt, actionType)
	}
	return nil
}

func (m *mockSessionRepo) CloseSession(ctx context.Context, sessionID uuid.UUID, appCloseAt time.Time, preExitInactionMs int64, isHighRiskExit bool) error {
	if m.closeSessionFn != nil {
		return m.closeSessionFn(ctx, sessionID, appCloseAt, preExitInactionMs, isHighRiskExit)
	}
	return nil
}

func (m *mockSessionRepo) ListByUserAndDate(ctx context.Context, userID string, date string) ([]domain.Session, error) {
	if m.listByUserAndDateFn != nil {
		return m.listByUserAndDateFn(ctx, userID, date)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSessionRepo) ListHighRiskExits(ctx context.Context, limit int) ([]domain.Session, error) {
	if m.listHighRiskFn != nil {
		return m.listHighRiskFn(ctx, limit)
	}
	return nil, errors.New("not implemented")
}

type publishedSessionEvent struct {
	kind    string
	payload domain.SessionEvent
}

type mockEventPublisher struct {
	sessionEvents      []publishedSessionEvent
	interventionEvents []domain.InterventionEvent
}

func (m *mockEventPublisher) PublishSessionEvent(_ context.Context, kind string, payload domain.SessionEvent) {
	m.sessionEvents = append(m.sessionEvents, publishedSessionEvent{kind: kind, payload: payload})
}

func (m *mockEventPublisher) PublishInterventionEvent(_ context.Context, _ string, payload domain.InterventionEvent) {
	m.interventionEvents = append(m.interventionEvents, payload)
}
