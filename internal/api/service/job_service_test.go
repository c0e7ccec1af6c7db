package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajilotrack/sajilotrack-be/internal/api/domain"
	"github.com/sajilotrack/sajilotrack-be/internal/api/dto"
	"github.com/sajilotrack/sajilotrack-be/internal/api/geofence"
	"github.com/sajilotrack/sajilotrack-be/internal/api/model"
	"github.com/sajilotrack/sajilotrack-be/internal/api/storage"
	"github.com/sajilotrack/sajilotrack-be/internal/event"
)

const (
	driverID = "6f1c2a4e-9b3d-4f5a-8c7e-1d2b3a4c5e6f"
	adminID  = "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"
)

func newTestEnv() (*JobService, *fakeStore, *fakePublisher) {
	store := newFakeStore()
	directory := &fakeDirectory{users: map[string]model.User{
		driverID: {ID: driverID, Name: "Ramesh Thapa", Phone: "+977-9841000000", Role: domain.RoleDriver},
		adminID:  {ID: adminID, Name: "Dispatch Admin", Phone: "+977-9841999999", Role: domain.RoleAdmin},
	}}
	publisher := &fakePublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewJobService(store, directory, publisher, geofence.Nepal, logger)
	return svc, store, publisher
}

func validCreateRequest() *dto.CreateJobRequest {
	return &dto.CreateJobRequest{
		DriverInfo: dto.DriverInfoRequest{ID: driverID},
		Pickup: dto.ContactPointRequest{
			Name:      "Asan Depot",
			Phone:     "+977-9841111111",
			Latitude:  dto.NewCoordinate("27.7172"),
			Longitude: dto.NewCoordinate("85.3240"),
		},
		Dropoff: dto.ContactPointRequest{
			Name:      "Patan Office",
			Phone:     "+977-9841222222",
			Latitude:  dto.NewCoordinate("27.6766"),
			Longitude: dto.NewCoordinate("85.3188"),
		},
	}
}

func TestJobService_Create(t *testing.T) {
	t.Run("defaults to pending and publishes job.created", func(t *testing.T) {
		svc, store, publisher := newTestEnv()

		job, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)
		require.NotNil(t, job)

		assert.NotEmpty(t, job.JobID)
		assert.Equal(t, domain.JobStatusPending, job.Status)
		assert.Equal(t, driverID, job.Driver.DriverID)
		assert.Equal(t, "Ramesh Thapa", job.Driver.Name)
		assert.InDelta(t, 27.7172, job.Pickup.Latitude, 1e-9)
		assert.InDelta(t, 85.3188, job.Dropoff.Longitude, 1e-9)
		assert.Nil(t, job.Current)
		assert.False(t, job.CreatedAt.IsZero())
		assert.Equal(t, job.CreatedAt, job.UpdatedAt)

		// Round-trip through the store returns the same job.
		stored, err := store.GetJobByID(context.Background(), job.JobID)
		require.NoError(t, err)
		assert.Equal(t, job.Pickup, stored.Pickup)
		assert.Equal(t, job.Dropoff, stored.Dropoff)
		assert.Equal(t, job.Driver, stored.Driver)
		assert.Equal(t, job.Status, stored.Status)

		events := publisher.published()
		require.Len(t, events, 1)
		assert.Equal(t, event.TypeJobCreated, events[0].routingKey)

		var env event.Envelope
		require.NoError(t, json.Unmarshal(events[0].body, &env))
		assert.Equal(t, event.TypeJobCreated, env.Type)
		assert.Equal(t, job.JobID, env.JobID)
		assert.NotEmpty(t, env.EventID)
	})

	t.Run("malformed driver id", func(t *testing.T) {
		svc, _, _ := newTestEnv()

		req := validCreateRequest()
		req.DriverInfo.ID = "not-a-uuid"

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrInvalidDriverID)
	})

	t.Run("unknown driver", func(t *testing.T) {
		svc, _, _ := newTestEnv()

		req := validCreateRequest()
		req.DriverInfo.ID = "11111111-2222-3333-4444-555555555555"

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrNotADriver)
	})

	t.Run("admin user cannot be assigned as driver", func(t *testing.T) {
		svc, _, _ := newTestEnv()

		req := validCreateRequest()
		req.DriverInfo.ID = adminID

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrNotADriver)
	})

	t.Run("out-of-region pickup is rejected and not persisted", func(t *testing.T) {
		svc, store, _ := newTestEnv()

		req := validCreateRequest()
		req.Pickup.Latitude = dto.NewCoordinate("40.0")
		req.Pickup.Longitude = dto.NewCoordinate("100.0")

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrOutOfRegion)

		jobs, err := store.ListJobs(context.Background(), storage.JobFilter{})
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})

	t.Run("out-of-region dropoff is rejected", func(t *testing.T) {
		svc, _, _ := newTestEnv()

		req := validCreateRequest()
		req.Dropoff.Latitude = dto.NewCoordinate("10.0")

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrOutOfRegion)
	})

	t.Run("non-numeric coordinates are out of region", func(t *testing.T) {
		svc, _, _ := newTestEnv()

		req := validCreateRequest()
		req.Pickup.Latitude = dto.NewCoordinate("north")

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrOutOfRegion)
	})

	t.Run("initial current position is geofenced", func(t *testing.T) {
		svc, _, _ := newTestEnv()

		req := validCreateRequest()
		req.Current = &dto.GeoPointRequest{
			Latitude:  dto.NewCoordinate("45.0"),
			Longitude: dto.NewCoordinate("85.0"),
		}

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrOutOfRegion)
	})

	t.Run("initial current position inside region is stored", func(t *testing.T) {
		svc, _, _ := newTestEnv()

		req := validCreateRequest()
		req.Current = &dto.GeoPointRequest{
			Latitude:  dto.NewCoordinate("27.70"),
			Longitude: dto.NewCoordinate("85.32"),
		}

		job, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, job.Current)
		assert.InDelta(t, 27.70, job.Current.Latitude, 1e-9)
	})

	t.Run("explicit status outside the enum", func(t *testing.T) {
		svc, _, _ := newTestEnv()

		req := validCreateRequest()
		req.Status = "teleported"

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("publish failure does not fail the create", func(t *testing.T) {
		svc, _, publisher := newTestEnv()
		publisher.err = assert.AnError

		job, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)
		assert.NotNil(t, job)
	})
}

func TestJobService_UpdateStatus(t *testing.T) {
	t.Run("bogus status always fails", func(t *testing.T) {
		svc, _, _ := newTestEnv()

		job, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)

		_, err = svc.UpdateStatus(context.Background(), job.JobID, "bogus")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("unknown job id", func(t *testing.T) {
		svc, _, _ := newTestEnv()

		_, err := svc.UpdateStatus(context.Background(), "missing-job", domain.JobStatusInTransit)
		assert.ErrorIs(t, err, domain.ErrJobNotFound)
	})

	t.Run("any enum member is reachable from any state", func(t *testing.T) {
		svc, _, publisher := newTestEnv()

		job, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)

		for _, status := range []string{
			domain.JobStatusDelivered,
			// Backward transitions are allowed by policy.
			domain.JobStatusPending,
			domain.JobStatusInTransit,
			domain.JobStatusDelayed,
			domain.JobStatusCancelled,
		} {
			updated, err := svc.UpdateStatus(context.Background(), job.JobID, status)
			require.NoError(t, err)
			assert.Equal(t, status, updated.Status)
		}

		// create + 5 status changes
		assert.Len(t, publisher.published(), 6)
	})

	t.Run("bumps updated_at", func(t *testing.T) {
		svc, _, _ := newTestEnv()

		base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return base }

		job, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)

		svc.now = func() time.Time { return base.Add(time.Hour) }
		updated, err := svc.UpdateStatus(context.Background(), job.JobID, domain.JobStatusInTransit)
		require.NoError(t, err)

		assert.Equal(t, base, updated.CreatedAt)
		assert.Equal(t, base.Add(time.Hour), updated.UpdatedAt)
	})
}

func TestJobService_ListAndSummary(t *testing.T) {
	svc, _, _ := newTestEnv()

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	seed := []struct {
		pickupName string
		status     string
		urgent     bool
	}{
		{"Asan Depot", domain.JobStatusPending, false},
		{"Thamel Hub", domain.JobStatusPending, true},
		{"Bhaktapur Yard", domain.JobStatusInTransit, false},
		{"Patan Yard", domain.JobStatusDelivered, true},
	}

	for i, s := range seed {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }

		req := validCreateRequest()
		req.Pickup.Name = s.pickupName
		req.IsUrgent = s.urgent
		job, err := svc.Create(context.Background(), req)
		require.NoError(t, err)

		if s.status != domain.JobStatusPending {
			_, err = svc.UpdateStatus(context.Background(), job.JobID, s.status)
			require.NoError(t, err)
		}
	}

	t.Run("status filter returns only exact matches, newest first", func(t *testing.T) {
		jobs, err := svc.List(context.Background(), domain.JobStatusPending, "")
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, "Thamel Hub", jobs[0].Pickup.Name)
		assert.Equal(t, "Asan Depot", jobs[1].Pickup.Name)
		for _, job := range jobs {
			assert.Equal(t, domain.JobStatusPending, job.Status)
		}
	})

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		jobs, err := svc.List(context.Background(), "", "YARD")
		require.NoError(t, err)
		assert.Len(t, jobs, 2)
	})

	t.Run("summary agrees with filtered lists", func(t *testing.T) {
		summary, err := svc.Summary(context.Background())
		require.NoError(t, err)

		pending, err := svc.List(context.Background(), domain.JobStatusPending, "")
		require.NoError(t, err)
		inTransit, err := svc.List(context.Background(), domain.JobStatusInTransit, "")
		require.NoError(t, err)

		assert.EqualValues(t, len(pending), summary.Pending)
		assert.EqualValues(t, len(inTransit), summary.InTransit)
		assert.EqualValues(t, 2, summary.Urgent)
	})

	t.Run("delivered today excludes earlier days", func(t *testing.T) {
		svc, _, _ := newTestEnv()
		base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

		// Delivered yesterday: updated_at lands before today's midnight.
		svc.now = func() time.Time { return base.Add(-24 * time.Hour) }
		yesterday, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)
		_, err = svc.UpdateStatus(context.Background(), yesterday.JobID, domain.JobStatusDelivered)
		require.NoError(t, err)

		// Delivered this morning.
		svc.now = func() time.Time { return base }
		today, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)
		_, err = svc.UpdateStatus(context.Background(), today.JobID, domain.JobStatusDelivered)
		require.NoError(t, err)

		summary, err := svc.Summary(context.Background())
		require.NoError(t, err)
		assert.EqualValues(t, 1, summary.DeliveredToday)

		// Both jobs are delivered; the daily count is the stricter cut.
		delivered, err := svc.List(context.Background(), domain.JobStatusDelivered, "")
		require.NoError(t, err)
		assert.Len(t, delivered, 2)
	})

	t.Run("jobs for driver", func(t *testing.T) {
		jobs, err := svc.ListForDriver(context.Background(), driverID)
		require.NoError(t, err)
		assert.Len(t, jobs, 4)

		none, err := svc.ListForDriver(context.Background(), "someone-else")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
