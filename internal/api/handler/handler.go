package handler

import (
	"log/slog"

	"github.com/sajilotrack/sajilotrack-be/internal/api/service"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger      *slog.Logger
	Jobs        *service.JobService
	Coordinates *service.CoordinateService
}

// JobHandler handles job lifecycle HTTP requests
type JobHandler struct {
	logger *slog.Logger
	jobs   *service.JobService
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		jobs:   deps.Jobs,
	}
}

// CoordinateHandler handles live-position HTTP requests
type CoordinateHandler struct {
	logger      *slog.Logger
	coordinates *service.CoordinateService
}

// NewCoordinateHandler creates a new CoordinateHandler instance
func NewCoordinateHandler(deps *Dependencies) *CoordinateHandler {
	return &CoordinateHandler{
		logger:      deps.Logger,
		coordinates: deps.Coordinates,
	}
}
