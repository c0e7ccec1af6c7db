package domain

import (
	"time"

	"github.com/sajilotrack/sajilotrack-be/internal/event"
)

// EventMessage pairs a decoded event envelope with its AMQP delivery tag so
// the pool can ack or nack after processing.
type EventMessage struct {
	Envelope    event.Envelope
	DeliveryTag uint64
}

// JobEvent is one audit-trail document in the job_events collection.
type JobEvent struct {
	EventID    string    `bson:"event_id"`
	JobID      string    `bson:"job_id"`
	Type       string    `bson:"type"`
	Payload    string    `bson:"payload,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at"`
}
