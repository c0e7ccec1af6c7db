// Package event defines the envelope published to RabbitMQ on every job
// mutation and consumed by the tracker service.
package event

import (
	"encoding/json"
	"time"
)

const (
	TypeJobCreated      = "job.created"
	TypeStatusChanged   = "job.status_changed"
	TypeLocationUpdated = "job.location_updated"
)

// Envelope wraps one job event. EventID makes redelivery idempotent on the
// consumer side; Type doubles as the routing key.
type Envelope struct {
	EventID    string          `json:"event_id"`
	JobID      string          `json:"job_id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// IsValidType reports whether t is a known event type.
func IsValidType(t string) bool {
	switch t {
	case TypeJobCreated, TypeStatusChanged, TypeLocationUpdated:
		return true
	}
	return false
}
