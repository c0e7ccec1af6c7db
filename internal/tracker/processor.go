package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sajilotrack/sajilotrack-be/internal/tracker/domain"
)

// processEvent records one event in the audit trail. Duplicate event ids are
// reported as ErrDuplicateEvent so the pool drops the redelivery.
func (t *Tracker) processEvent(ctx context.Context, msg *domain.EventMessage) error {
	env := msg.Envelope

	t.logger.Debug("Processing event",
		slog.String("event_id", env.EventID),
		slog.String("job_id", env.JobID),
		slog.String("type", env.Type),
	)

	ev := &domain.JobEvent{
		EventID:    env.EventID,
		JobID:      env.JobID,
		Type:       env.Type,
		Payload:    string(env.Payload),
		OccurredAt: env.OccurredAt,
		RecordedAt: time.Now().UTC(),
	}

	if err := t.store.RecordEvent(ctx, ev); err != nil {
		if errors.Is(err, domain.ErrDuplicateEvent) {
			t.logger.Warn("Duplicate event, dropping",
				slog.String("event_id", env.EventID),
			)
			return fmt.Errorf("event %s: %w", env.EventID, domain.ErrDuplicateEvent)
		}
		// Store hiccup; let the broker redeliver.
		return domain.NewRetryableError(fmt.Errorf("failed to record event %s: %w", env.EventID, err))
	}

	t.logger.Info("Event recorded",
		slog.String("event_id", env.EventID),
		slog.String("job_id", env.JobID),
		slog.String("type", env.Type),
	)

	return nil
}
