package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sajilotrack/sajilotrack-be/internal/api/domain"
	"github.com/sajilotrack/sajilotrack-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())
	r.Use(IdentityMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "sajilotrack-api",
		})
	})

	jobHandler := handler.NewJobHandler(deps)
	coordHandler := handler.NewCoordinateHandler(deps)

	v1 := r.Group("/api/v1")
	{
		// Dashboard summary, any authenticated caller
		v1.GET("/summary", RequireRole(domain.RoleAdmin, domain.RoleDriver), jobHandler.GetSummary)

		jobs := v1.Group("/jobs")
		{
			// Dispatchers create jobs and drive status changes
			jobs.POST("", RequireRole(domain.RoleAdmin), jobHandler.CreateJob)
			jobs.PATCH("/:job_id/status", RequireRole(domain.RoleAdmin), jobHandler.UpdateStatus)

			jobs.GET("", RequireRole(domain.RoleAdmin, domain.RoleDriver), jobHandler.ListJobs)
			jobs.GET("/:job_id", RequireRole(domain.RoleAdmin, domain.RoleDriver), jobHandler.GetJob)
		}

		// Jobs assigned to one driver, consumed by the driver app job board
		v1.GET("/drivers/:driver_id/jobs", jobHandler.ListJobsForDriver)

		coords := v1.Group("/coordinates")
		{
			// Driver devices report their position here
			coords.PATCH("/:job_id", RequireRole(domain.RoleDriver), coordHandler.UpdateCoordinate)

			coords.GET("/:job_id/live", RequireRole(domain.RoleAdmin, domain.RoleDriver), coordHandler.GetLiveCoordinate)
			coords.GET("/:job_id/static", RequireRole(domain.RoleAdmin, domain.RoleDriver), coordHandler.GetStaticCoordinates)

			// Public projection for customer tracking links
			coords.GET("/:job_id", coordHandler.GetAllCoordinates)
		}
	}

	return r
}
