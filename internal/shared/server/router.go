package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"archreview-backend/internal/reviews"
	"archreview-backend/internal/services/health"
	"archreview-backend/internal/shared/config"
	"archreview-backend/internal/shared/metrics"
	"archreview-backend/internal/shared/server/middleware"
	"archreview-backend/internal/shared/server/respond"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, reviewSvc *reviews.Service, healthSvc *health.Service) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: "DEFAULT",
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/reviews" {
					return "REVIEW"
				}
				return "DEFAULT"
			},
			Rules: map[string]middleware.RateLimitRule{
				"REVIEW": {Rate: 0.5, Burst: 3},
			},
		}),
	)

	reviewHandler := reviews.NewHandler(reviewSvc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	api.GET("/metrics", metrics.Handler())
	reviewHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
