package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sajilotrack/sajilotrack-be/internal/api/dto"
)

// CreateJob handles POST /api/v1/jobs
// Creates a new delivery job after driver and geofence validation
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.Info("Job created",
		slog.String("job_id", job.JobID),
		slog.String("driver_id", job.Driver.DriverID),
		slog.String("status", job.Status),
	)

	respond(c, http.StatusCreated, "job created", "job", job)
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")
	if jobID == "" {
		respondError(c, http.StatusBadRequest, "job_id is required")
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), jobID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "job found", "job", job)
}

// ListJobs handles GET /api/v1/jobs
// Supports exact status filtering and case-insensitive text search
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	jobs, err := h.jobs.List(c.Request.Context(), req.Status, req.Search)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "jobs listed", "jobs", jobs)
}

// ListJobsForDriver handles GET /api/v1/drivers/:driver_id/jobs
func (h *JobHandler) ListJobsForDriver(c *gin.Context) {
	driverID := c.Param("driver_id")
	if driverID == "" {
		respondError(c, http.StatusBadRequest, "driver_id is required")
		return
	}

	jobs, err := h.jobs.ListForDriver(c.Request.Context(), driverID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "jobs listed", "jobs", jobs)
}

// UpdateStatus handles PATCH /api/v1/jobs/:job_id/status
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "status is required")
		return
	}

	job, err := h.jobs.UpdateStatus(c.Request.Context(), jobID, req.Status)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.Info("Job status updated",
		slog.String("job_id", job.JobID),
		slog.String("status", job.Status),
	)

	respond(c, http.StatusOK, "status updated", "job", job)
}

// GetSummary handles GET /api/v1/summary
func (h *JobHandler) GetSummary(c *gin.Context) {
	summary, err := h.jobs.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "summary computed", "summary", dto.SummaryDTO{
		InTransit:      summary.InTransit,
		Pending:        summary.Pending,
		Urgent:         summary.Urgent,
		DeliveredToday: summary.DeliveredToday,
	})
}
