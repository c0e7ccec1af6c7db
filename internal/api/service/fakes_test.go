package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sajilotrack/sajilotrack-be/internal/api/domain"
	"github.com/sajilotrack/sajilotrack-be/internal/api/model"
	"github.com/sajilotrack/sajilotrack-be/internal/api/storage"
	"github.com/sajilotrack/sajilotrack-be/internal/api/userdir"
)

// fakeStore is an in-memory JobStore mirroring the Mongo adapter's contract.
type fakeStore struct {
	mu        sync.Mutex
	jobs      map[string]model.Job
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{jobs: map[string]model.Job{}}
}

func (s *fakeStore) CreateJob(_ context.Context, job *model.Job) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = *job
	return nil
}

func (s *fakeStore) GetJobByID(_ context.Context, jobID string) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &job, nil
}

func (s *fakeStore) ListJobs(_ context.Context, filter storage.JobFilter) ([]model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Job{}
	needle := strings.ToLower(filter.Search)
	for _, job := range s.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !matchesSearch(job, needle) {
			continue
		}
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func matchesSearch(job model.Job, needle string) bool {
	for _, field := range []string{job.Driver.Name, job.Driver.Phone, job.Pickup.Name, job.Dropoff.Name} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (s *fakeStore) ListJobsForDriver(_ context.Context, driverID string) ([]model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Job{}
	for _, job := range s.jobs {
		if job.Driver.DriverID == driverID {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, jobID, status string, now time.Time) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	job.Status = status
	job.UpdatedAt = now
	s.jobs[jobID] = job
	return &job, nil
}

func (s *fakeStore) UpdateCurrent(_ context.Context, jobID string, point model.GeoPoint, now time.Time) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	job.Current = &point
	job.UpdatedAt = now
	s.jobs[jobID] = job
	return &job, nil
}

func (s *fakeStore) GetSummary(_ context.Context, startOfDay time.Time) (*storage.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := &storage.Summary{}
	for _, job := range s.jobs {
		switch job.Status {
		case domain.JobStatusInTransit:
			summary.InTransit++
		case domain.JobStatusPending:
			summary.Pending++
		}
		if job.IsUrgent {
			summary.Urgent++
		}
		if job.Status == domain.JobStatusDelivered && !job.UpdatedAt.Before(startOfDay) {
			summary.DeliveredToday++
		}
	}
	return summary, nil
}

// fakeDirectory is an in-memory UserDirectory.
type fakeDirectory struct {
	users map[string]model.User
}

func (d *fakeDirectory) FindByID(_ context.Context, id string) (*model.User, error) {
	user, ok := d.users[id]
	if !ok {
		return nil, userdir.ErrUserNotFound
	}
	return &user, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

type publishedEvent struct {
	routingKey string
	body       []byte
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, body []byte) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{routingKey: routingKey, body: body})
	return nil
}

func (p *fakePublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent{}, p.events...)
}
