package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sajilotrack/sajilotrack-be/internal/tracker/domain"
)

// spawnPool spawns N goroutines based on concurrency configuration
func (t *Tracker) spawnPool(ctx context.Context) {
	t.logger.Info("Spawning tracker pool",
		slog.Int("concurrency", t.concurrency),
		slog.String("tracker_id", t.trackerID),
	)

	for i := 0; i < t.concurrency; i++ {
		t.wg.Add(1)
		go t.poolLoop(ctx, i)
	}
}

// poolLoop is the main processing loop for each pool goroutine
func (t *Tracker) poolLoop(ctx context.Context, num int) {
	defer t.wg.Done()

	name := fmt.Sprintf("%s-%d", t.trackerID, num)
	t.logger.Info("Tracker goroutine started",
		slog.String("name", name),
	)

	for {
		select {
		case <-t.stopChan:
			t.logger.Info("Tracker goroutine stopping - stopChan closed",
				slog.String("name", name),
			)
			return

		case <-ctx.Done():
			t.logger.Info("Tracker goroutine stopping - context canceled",
				slog.String("name", name),
			)
			return

		case msg, ok := <-t.eventsChan:
			if !ok {
				return
			}

			err := t.processEvent(ctx, msg)

			channel := t.rabbitClient.GetChannel()
			if channel == nil {
				t.logger.Error("Failed to get RabbitMQ channel for ACK/NACK",
					slog.String("name", name),
					slog.String("event_id", msg.Envelope.EventID),
				)
				continue
			}

			if err != nil && !t.shouldAck(err) {
				requeue := t.shouldRequeue(err)
				t.logger.Error("Event processing failed",
					slog.String("name", name),
					slog.String("event_id", msg.Envelope.EventID),
					slog.Bool("requeue", requeue),
					slog.String("error", err.Error()),
				)

				if nackErr := channel.Nack(msg.DeliveryTag, false, requeue); nackErr != nil {
					t.logger.Error("Failed to NACK message",
						slog.String("event_id", msg.Envelope.EventID),
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			if ackErr := channel.Ack(msg.DeliveryTag, false); ackErr != nil {
				t.logger.Error("Failed to ACK message",
					slog.String("event_id", msg.Envelope.EventID),
					slog.String("error", ackErr.Error()),
				)
			}
		}
	}
}

// shouldAck reports whether the delivery is settled. A duplicate event is
// already recorded, so its redelivery is acked like a success rather than
// dead-lettered.
func (t *Tracker) shouldAck(err error) bool {
	return err == nil || errors.Is(err, domain.ErrDuplicateEvent)
}

// shouldRequeue classifies processing errors. Only transient store errors are
// worth another delivery.
func (t *Tracker) shouldRequeue(err error) bool {
	if errors.Is(err, domain.ErrDuplicateEvent) {
		return false
	}

	if errors.Is(err, domain.ErrInvalidEvent) {
		return false
	}

	var retryableErr *domain.RetryableError
	return errors.As(err, &retryableErr)
}
