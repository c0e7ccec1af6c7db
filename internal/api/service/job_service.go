package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sajilotrack/sajilotrack-be/internal/api/domain"
	"github.com/sajilotrack/sajilotrack-be/internal/api/dto"
	"github.com/sajilotrack/sajilotrack-be/internal/api/geofence"
	"github.com/sajilotrack/sajilotrack-be/internal/api/model"
	"github.com/sajilotrack/sajilotrack-be/internal/api/storage"
	"github.com/sajilotrack/sajilotrack-be/internal/api/userdir"
	"github.com/sajilotrack/sajilotrack-be/internal/event"
)

// JobStore is the persistence surface the services need from the jobs
// collection.
type JobStore interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, jobID string) (*model.Job, error)
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.Job, error)
	ListJobsForDriver(ctx context.Context, driverID string) ([]model.Job, error)
	UpdateStatus(ctx context.Context, jobID, status string, now time.Time) (*model.Job, error)
	UpdateCurrent(ctx context.Context, jobID string, point model.GeoPoint, now time.Time) (*model.Job, error)
	GetSummary(ctx context.Context, startOfDay time.Time) (*storage.Summary, error)
}

// UserDirectory resolves driver identities against the accounts database.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// EventPublisher pushes job events onto the bus. Publishing is best-effort:
// a failed publish never fails the mutation that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// JobService enforces job creation and status-transition invariants.
type JobService struct {
	store     JobStore
	directory UserDirectory
	publisher EventPublisher
	region    geofence.Region
	logger    *slog.Logger
	now       func() time.Time
}

func NewJobService(store JobStore, directory UserDirectory, publisher EventPublisher, region geofence.Region, logger *slog.Logger) *JobService {
	return &JobService{
		store:     store,
		directory: directory,
		publisher: publisher,
		region:    region,
		logger:    logger,
		now:       time.Now,
	}
}

// Create validates the driver and the geofence, then persists a new job.
// Status defaults to pending when unset.
func (s *JobService) Create(ctx context.Context, req *dto.CreateJobRequest) (*model.Job, error) {
	if _, err := uuid.Parse(req.DriverInfo.ID); err != nil {
		return nil, domain.ErrInvalidDriverID
	}

	driver, err := s.directory.FindByID(ctx, req.DriverInfo.ID)
	if err != nil {
		if errors.Is(err, userdir.ErrUserNotFound) {
			return nil, domain.ErrNotADriver
		}
		return nil, fmt.Errorf("failed to resolve driver: %w", err)
	}
	if driver.Role != domain.RoleDriver {
		return nil, domain.ErrNotADriver
	}

	pickup, ok := s.contactPoint(req.Pickup)
	if !ok {
		return nil, domain.ErrOutOfRegion
	}
	dropoff, ok := s.contactPoint(req.Dropoff)
	if !ok {
		return nil, domain.ErrOutOfRegion
	}

	status := req.Status
	if status == "" {
		status = domain.JobStatusPending
	}
	if !domain.IsValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	now := s.now().UTC()
	job := &model.Job{
		JobID: uuid.New().String(),
		Driver: model.DriverRef{
			DriverID: driver.ID,
			Name:     driver.Name,
			Phone:    driver.Phone,
		},
		Pickup:  pickup,
		Dropoff: dropoff,
		Status:  status,
		Note:    req.Note,
		AddOns: model.AddOns{
			FragileItems: req.AddOns.FragileItems,
			HeavyItem:    req.AddOns.HeavyItem,
		},
		IsUrgent:  req.IsUrgent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// An initial live position is optional; when present it is geofenced the
	// same way as pickup and dropoff.
	if req.Current != nil {
		lat, latOK := req.Current.Latitude.Float()
		lng, lngOK := req.Current.Longitude.Float()
		if !latOK || !lngOK || !s.region.Contains(lat, lng) {
			return nil, domain.ErrOutOfRegion
		}
		job.Current = &model.GeoPoint{Latitude: lat, Longitude: lng, RecordedAt: now}
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	s.publish(ctx, event.TypeJobCreated, job.JobID, job)
	return job, nil
}

func (s *JobService) contactPoint(req dto.ContactPointRequest) (model.ContactPoint, bool) {
	lat, latOK := req.Latitude.Float()
	lng, lngOK := req.Longitude.Float()
	if !latOK || !lngOK || !s.region.Contains(lat, lng) {
		return model.ContactPoint{}, false
	}
	return model.ContactPoint{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Latitude:  lat,
		Longitude: lng,
	}, true
}

// UpdateStatus sets a job's status. Any member of the status enum is allowed
// from any current status; only membership is checked.
func (s *JobService) UpdateStatus(ctx context.Context, jobID, status string) (*model.Job, error) {
	if !domain.IsValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	job, err := s.store.UpdateStatus(ctx, jobID, status, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.TypeStatusChanged, job.JobID, map[string]string{"status": status})
	return job, nil
}

func (s *JobService) Get(ctx context.Context, jobID string) (*model.Job, error) {
	return s.store.GetJobByID(ctx, jobID)
}

func (s *JobService) List(ctx context.Context, status, search string) ([]model.Job, error) {
	return s.store.ListJobs(ctx, storage.JobFilter{Status: status, Search: search})
}

func (s *JobService) ListForDriver(ctx context.Context, driverID string) ([]model.Job, error) {
	return s.store.ListJobsForDriver(ctx, driverID)
}

// Summary returns the dashboard counts. Delivered-today is bounded by the
// server-local midnight.
func (s *JobService) Summary(ctx context.Context) (*storage.Summary, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.store.GetSummary(ctx, startOfDay)
}

func (s *JobService) publish(ctx context.Context, eventType, jobID string, payload any) {
	publishEvent(ctx, s.publisher, s.logger, s.now().UTC(), eventType, jobID, payload)
}
