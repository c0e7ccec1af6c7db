package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sajilotrack/sajilotrack-be/internal/api/domain"
	"github.com/sajilotrack/sajilotrack-be/internal/api/model"
)

// Storage persists jobs in the MongoDB jobs collection.
type Storage struct {
	col *mongo.Collection
}

func NewStorage(db *mongo.Database) *Storage {
	return &Storage{col: db.Collection("jobs")}
}

// EnsureIndexes creates the unique job_id index plus the read-path indexes.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "driver.driver_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create job indexes: %w", err)
	}
	return nil
}

func (s *Storage) CreateJob(ctx context.Context, job *model.Job) error {
	if _, err := s.col.InsertOne(ctx, job); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (s *Storage) GetJobByID(ctx context.Context, jobID string) (*model.Job, error) {
	var job model.Job
	err := s.col.FindOne(ctx, bson.M{"job_id": jobID}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// JobFilter narrows ListJobs. Status is an exact match; Search is a
// case-insensitive substring OR-ed over the job's text fields.
type JobFilter struct {
	Status string
	Search string
}

func (s *Storage) ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	query := bson.M{}

	if filter.Status != "" {
		query["status"] = filter.Status
	}

	if filter.Search != "" {
		// QuoteMeta keeps special regex characters in the search term literal.
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"driver.name": pattern},
			bson.M{"driver.phone": pattern},
			bson.M{"pickup.name": pattern},
			bson.M{"dropoff.name": pattern},
		}
	}

	return s.findJobs(ctx, query)
}

func (s *Storage) ListJobsForDriver(ctx context.Context, driverID string) ([]model.Job, error) {
	return s.findJobs(ctx, bson.M{"driver.driver_id": driverID})
}

func (s *Storage) findJobs(ctx context.Context, query bson.M) ([]model.Job, error) {
	cur, err := s.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer cur.Close(ctx)

	jobs := []model.Job{}
	for cur.Next(ctx) {
		var job model.Job
		if err := cur.Decode(&job); err != nil {
			return nil, fmt.Errorf("failed to decode job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// UpdateStatus sets the job's status and bumps updated_at, returning the
// updated document.
func (s *Storage) UpdateStatus(ctx context.Context, jobID, status string, now time.Time) (*model.Job, error) {
	return s.findOneAndSet(ctx, jobID, bson.M{
		"status":     status,
		"updated_at": now,
	})
}

// UpdateCurrent overwrites the live-position snapshot wholesale and bumps
// updated_at, returning the updated document.
func (s *Storage) UpdateCurrent(ctx context.Context, jobID string, point model.GeoPoint, now time.Time) (*model.Job, error) {
	return s.findOneAndSet(ctx, jobID, bson.M{
		"current":    point,
		"updated_at": now,
	})
}

func (s *Storage) findOneAndSet(ctx context.Context, jobID string, set bson.M) (*model.Job, error) {
	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"job_id": jobID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	var job model.Job
	if err := res.Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to decode updated job: %w", err)
	}
	return &job, nil
}

// Summary holds the dashboard counts.
type Summary struct {
	InTransit      int64
	Pending        int64
	Urgent         int64
	DeliveredToday int64
}

// GetSummary computes the four dashboard counts. startOfDay is the local
// midnight boundary for the delivered-today count.
func (s *Storage) GetSummary(ctx context.Context, startOfDay time.Time) (*Summary, error) {
	summary := &Summary{}
	counts := []struct {
		dest  *int64
		query bson.M
	}{
		{&summary.InTransit, bson.M{"status": domain.JobStatusInTransit}},
		{&summary.Pending, bson.M{"status": domain.JobStatusPending}},
		{&summary.Urgent, bson.M{"is_urgent": true}},
		{&summary.DeliveredToday, bson.M{
			"status":     domain.JobStatusDelivered,
			"updated_at": bson.M{"$gte": startOfDay},
		}},
	}

	for _, c := range counts {
		n, err := s.col.CountDocuments(ctx, c.query)
		if err != nil {
			return nil, fmt.Errorf("failed to count jobs: %w", err)
		}
		*c.dest = n
	}
	return summary, nil
}
