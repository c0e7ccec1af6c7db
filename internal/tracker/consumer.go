package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sajilotrack/sajilotrack-be/internal/event"
	"github.com/sajilotrack/sajilotrack-be/internal/tracker/domain"
)

// setupConsumer sets up the RabbitMQ consumer with QoS and returns the
// delivery channel
func (t *Tracker) setupConsumer() (<-chan amqp.Delivery, error) {
	channel := t.rabbitClient.GetChannel()
	if channel == nil {
		return nil, fmt.Errorf("rabbitmq channel is nil")
	}

	// Per-consumer prefetch; keeps one slow insert from starving the pool.
	if err := channel.Qos(t.prefetchCount, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	t.logger.Info("RabbitMQ QoS configured",
		slog.Int("prefetch_count", t.prefetchCount),
	)

	deliveries, err := t.rabbitClient.Consume(t.trackerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	return deliveries, nil
}

// startDispatcher decodes deliveries into event messages and feeds the pool
func (t *Tracker) startDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		t.logger.Info("Event dispatcher started",
			slog.String("tracker_id", t.trackerID),
		)

		for {
			select {
			case <-ctx.Done():
				t.logger.Info("Event dispatcher stopped - context canceled")
				return

			case delivery, ok := <-deliveries:
				if !ok {
					t.logger.Warn("RabbitMQ delivery channel closed")
					return
				}

				t.dispatch(ctx, delivery)
			}
		}
	}()
}

func (t *Tracker) dispatch(ctx context.Context, delivery amqp.Delivery) {
	var env event.Envelope
	if err := json.Unmarshal(delivery.Body, &env); err != nil {
		t.logger.Error("Failed to parse event JSON",
			slog.String("error", err.Error()),
			slog.String("body", string(delivery.Body)),
		)
		// Malformed messages are dropped, never requeued.
		t.nack(delivery, false)
		return
	}

	if env.EventID == "" || env.JobID == "" || !event.IsValidType(env.Type) {
		t.logger.Error("Invalid event envelope",
			slog.String("event_id", env.EventID),
			slog.String("job_id", env.JobID),
			slog.String("type", env.Type),
		)
		t.nack(delivery, false)
		return
	}

	msg := &domain.EventMessage{
		Envelope:    env,
		DeliveryTag: delivery.DeliveryTag,
	}

	select {
	case t.eventsChan <- msg:
		t.logger.Debug("Event dispatched to pool",
			slog.String("event_id", env.EventID),
			slog.Uint64("delivery_tag", delivery.DeliveryTag),
		)
	case <-ctx.Done():
		t.logger.Info("Dispatcher stopped while dispatching event")
		// Requeue so another consumer can pick it up.
		t.nack(delivery, true)
	}
}

func (t *Tracker) nack(delivery amqp.Delivery, requeue bool) {
	if err := delivery.Nack(false, requeue); err != nil {
		t.logger.Error("Failed to NACK message",
			slog.Uint64("delivery_tag", delivery.DeliveryTag),
			slog.String("error", err.Error()),
		)
	}
}
