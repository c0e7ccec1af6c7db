package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sajilotrack/sajilotrack-be/internal/api/domain"
	"github.com/sajilotrack/sajilotrack-be/internal/api/dto"
	"github.com/sajilotrack/sajilotrack-be/internal/api/model"
	"github.com/sajilotrack/sajilotrack-be/internal/event"
)

// CoordinateService handles the high-frequency live-position path. It is
// deliberately independent of the status path: a driver device reporting its
// position never touches job status.
type CoordinateService struct {
	store     JobStore
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewCoordinateService(store JobStore, publisher EventPublisher, logger *slog.Logger) *CoordinateService {
	return &CoordinateService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// UpdateCurrent overwrites the job's live position wholesale. Last writer
// wins; no geofence check on this path.
func (s *CoordinateService) UpdateCurrent(ctx context.Context, jobID string, req dto.GeoPointRequest) (*model.Job, error) {
	lat, latOK := req.Latitude.Float()
	lng, lngOK := req.Longitude.Float()
	if !latOK || !lngOK {
		return nil, domain.ErrInvalidCoordinate
	}

	now := s.now().UTC()
	point := model.GeoPoint{Latitude: lat, Longitude: lng, RecordedAt: now}

	job, err := s.store.UpdateCurrent(ctx, jobID, point, now)
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, now, event.TypeLocationUpdated, job.JobID, point)
	return job, nil
}

// Current returns the latest live position, which is nil before the first
// update.
func (s *CoordinateService) Current(ctx context.Context, jobID string) (*model.GeoPoint, error) {
	job, err := s.store.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return job.Current, nil
}

// StaticCoordinates is the immutable pickup/dropoff pair.
type StaticCoordinates struct {
	Pickup  model.ContactPoint `json:"pickup"`
	Dropoff model.ContactPoint `json:"dropoff"`
}

func (s *CoordinateService) Static(ctx context.Context, jobID string) (*StaticCoordinates, error) {
	job, err := s.store.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &StaticCoordinates{Pickup: job.Pickup, Dropoff: job.Dropoff}, nil
}

// AllCoordinates combines the three coordinate fields for customer tracking
// links; served without authentication.
type AllCoordinates struct {
	Pickup  model.ContactPoint `json:"pickup"`
	Dropoff model.ContactPoint `json:"dropoff"`
	Current *model.GeoPoint    `json:"current,omitempty"`
}

func (s *CoordinateService) All(ctx context.Context, jobID string) (*AllCoordinates, error) {
	job, err := s.store.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &AllCoordinates{Pickup: job.Pickup, Dropoff: job.Dropoff, Current: job.Current}, nil
}
