package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sajilotrack/sajilotrack-be/internal/api/dto"
)

// UpdateCoordinate handles PATCH /api/v1/coordinates/:job_id
// High-frequency live-position updates from driver devices
func (h *CoordinateHandler) UpdateCoordinate(c *gin.Context) {
	jobID := c.Param("job_id")

	var req dto.UpdateCoordinateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "current_coords is required")
		return
	}

	job, err := h.coordinates.UpdateCurrent(c.Request.Context(), jobID, req.CurrentCoords)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.Debug("Live coordinate updated",
		slog.String("job_id", job.JobID),
	)

	respond(c, http.StatusOK, "coordinate updated", "job", job)
}

// GetLiveCoordinate handles GET /api/v1/coordinates/:job_id/live
func (h *CoordinateHandler) GetLiveCoordinate(c *gin.Context) {
	point, err := h.coordinates.Current(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	// point is nil until the first update; the envelope still reports success.
	respond(c, http.StatusOK, "live coordinate", "coordinate", point)
}

// GetStaticCoordinates handles GET /api/v1/coordinates/:job_id/static
func (h *CoordinateHandler) GetStaticCoordinates(c *gin.Context) {
	coords, err := h.coordinates.Static(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "static coordinates", "coordinate", coords)
}

// GetAllCoordinates handles GET /api/v1/coordinates/:job_id
// Public endpoint for customer tracking links; no identity required
func (h *CoordinateHandler) GetAllCoordinates(c *gin.Context) {
	coords, err := h.coordinates.All(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "all coordinates", "coordinate", coords)
}
