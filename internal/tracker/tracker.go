// Package tracker consumes job events from RabbitMQ and persists them as the
// job audit trail.
package tracker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/sajilotrack/sajilotrack-be/internal/tracker/domain"
	"github.com/sajilotrack/sajilotrack-be/shared/rabbitmq"
)

// EventStore is the persistence surface the tracker needs.
type EventStore interface {
	RecordEvent(ctx context.Context, ev *domain.JobEvent) error
}

// Config holds tracker configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	Store         EventStore
	Concurrency   int
	PrefetchCount int
}

// Tracker consumes the job-event queue with a bounded worker pool.
type Tracker struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	store         EventStore
	concurrency   int
	prefetchCount int
	trackerID     string
	eventsChan    chan *domain.EventMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// New creates a new tracker instance
func New(cfg *Config) *Tracker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Tracker{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		store:         cfg.Store,
		concurrency:   concurrency,
		prefetchCount: cfg.PrefetchCount,
		trackerID:     "tracker-" + uuid.New().String(),
		eventsChan:    make(chan *domain.EventMessage, concurrency),
		stopChan:      make(chan struct{}),
	}
}

// Start consumes events until the context is canceled.
func (t *Tracker) Start(ctx context.Context) error {
	t.logger.Info("Starting tracker",
		slog.String("tracker_id", t.trackerID),
		slog.Int("concurrency", t.concurrency),
	)

	deliveries, err := t.setupConsumer()
	if err != nil {
		return err
	}

	t.spawnPool(ctx)
	t.startDispatcher(ctx, deliveries)

	<-ctx.Done()
	t.logger.Info("Tracker context canceled, stopping...")

	return nil
}

// Stop gracefully stops the tracker pool
func (t *Tracker) Stop() {
	t.logger.Info("Stopping tracker...")
	close(t.stopChan)
	t.wg.Wait()
	t.logger.Info("Tracker stopped")
}
