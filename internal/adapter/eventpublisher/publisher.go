// Package eventpublisher implements domain.EventPublisher by composing
// structured log emission with Redis pub/sub fan-out. Both paths are
// fire-and-forget: the core never blocks or fails on telemetry.
package eventpublisher

import (
	"context"
	"log/slog"

	"github.com/focustoday/focuspulse/internal/adapter/redis"
	"github.com/focustoday/focuspulse/internal/domain"
	"github.com/focustoday/focuspulse/internal/metrics"
)

// EventPublisher fans session and intervention events out to slog and Redis.
type EventPublisher struct {
	sink *redis.EventSink
}

// New creates an EventPublisher. sink may be nil to log only.
func New(sink *redis.EventSink) *EventPublisher {
	return &EventPublisher{sink: sink}
}

func (p *EventPublisher) PublishSessionEvent(ctx context.Context, kind string, payload domain.SessionEvent) {
	slog.InfoContext(ctx, "session_event",
		"event", kind,
		"session_id", payload.SessionID,
		"user_id", payload.UserID,
		"reentry_latency_ms", payload.ReentryLatencyMs,
		"action_type", payload.ActionType,
		"session_ended", payload.SessionEnded)

	if p.sink == nil {
		return
	}
	if err := p.sink.PublishSession(ctx, payload); err != nil {
		metrics.EventPublishFailuresTotal.WithLabelValues(redis.SessionEventsChannel).Inc()
		slog.Warn("Failed to publish session event", "event", kind, "error", err)
	}
}

func (p *EventPublisher) PublishInterventionEvent(ctx context.Context, kind string, payload domain.InterventionEvent) {
	slog.InfoContext(ctx, "intervention_event",
		"event", kind,
		"session_id", payload.SessionID,
		"user_id", payload.UserID,
		"experiment_group", payload.ExperimentGroup,
		"log_id", payload.LogID)

	if p.sink == nil {
		return
	}
	if err := p.sink.PublishIntervention(ctx, payload); err != nil {
		metrics.EventPublishFailuresTotal.WithLabelValues(redis.InterventionEventsChannel).Inc()
		slog.Warn("Failed to publish intervention event", "event", kind, "error", err)
	}
}
