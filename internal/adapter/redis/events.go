package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Pub/sub channels for downstream analytics consumers.
const (
	SessionEventsChannel      = "focuspulse:session_events"
	InterventionEventsChannel = "focuspulse:intervention_events"
)

// EventSink publishes telemetry events to Redis pub/sub.
type EventSink struct {
	client *redis.Client
}

// NewEventSink creates an EventSink over the shared client.
func NewEventSink(client *redis.Client) *EventSink {
	return &EventSink{client: client}
}

// PublishSession publishes a session event payload.
func (s *EventSink) PublishSession(ctx context.Context, payload any) error {
	return s.publish(ctx, SessionEventsChannel, payload)
}

// PublishIntervention publishes an intervention event payload.
func (s *EventSink) PublishIntervention(ctx context.Context, payload any) error {
	return s.publish(ctx, InterventionEventsChannel, payload)
}

func (s *EventSink) publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := s.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}
