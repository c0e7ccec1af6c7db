package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sajilotrack/sajilotrack-be/internal/event"
)

// publishEvent wraps the payload in an event envelope and pushes it onto the
// bus with the event type as routing key. Failures are logged, never
// propagated: the mutation already committed.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *slog.Logger, occurredAt time.Time, eventType, jobID string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event payload",
			slog.String("event_type", eventType),
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}

	msg, err := json.Marshal(event.Envelope{
		EventID:    uuid.New().String(),
		JobID:      jobID,
		Type:       eventType,
		OccurredAt: occurredAt,
		Payload:    body,
	})
	if err != nil {
		logger.Error("Failed to marshal event envelope",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := publisher.Publish(ctx, eventType, msg); err != nil {
		logger.Warn("Failed to publish job event",
			slog.String("event_type", eventType),
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}
}
