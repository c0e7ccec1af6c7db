package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sajilotrack/sajilotrack-be/internal/tracker/domain"
)

// Storage appends job events to the job_events collection.
type Storage struct {
	col    *mongo.Collection
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *mongo.Database, logger *slog.Logger) *Storage {
	return &Storage{
		col:    db.Collection("job_events"),
		logger: logger,
	}
}

// EnsureIndexes creates the unique event_id index that makes redelivery
// idempotent, plus the per-job read index.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "job_id", Value: 1}, {Key: "occurred_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create job_events indexes: %w", err)
	}
	return nil
}

// RecordEvent inserts one audit document. A duplicate event_id returns
// ErrDuplicateEvent.
func (s *Storage) RecordEvent(ctx context.Context, ev *domain.JobEvent) error {
	_, err := s.col.InsertOne(ctx, ev)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEvent
		}
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}
