package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sajilotrack/sajilotrack-be/internal/api/domain"
)

// respond writes the canonical success envelope. payloadKey names the payload
// field (job, jobs, coordinate, summary).
func respond(c *gin.Context, status int, message, payloadKey string, payload any) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if payloadKey != "" {
		body[payloadKey] = payload
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondServiceError maps domain errors onto HTTP status codes. Anything
// unrecognized is a store failure: logged in full, reported generically.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidDriverID),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidCoordinate),
		errors.Is(err, domain.ErrOutOfRegion):
		respondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrNotADriver):
		respondError(c, http.StatusNotFound, err.Error())

	default:
		logger.Error("Unexpected store error",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "something went wrong, please try again")
	}
}
