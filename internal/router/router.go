package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vatcart/internal/handler"
	"vatcart/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
// A nil limiter leaves the API unthrottled.
func Setup(
	log *zap.Logger,
	corsOrigins []string,
	limiter *middleware.RateLimiter,
	quoteH *handler.QuoteHandler,
	taxH *handler.TaxHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	if limiter != nil {
		v1.Use(limiter.Middleware())
	}

	// Stateless cart computation
	v1.POST("/carts/total", quoteH.Total)

	// Stored quotes
	quotes := v1.Group("/quotes")
	quotes.POST("", quoteH.Create)
	quotes.GET("", quoteH.List)
	quotes.GET("/:id", quoteH.GetByID)
	quotes.DELETE("/:id", quoteH.Delete)
	quotes.GET("/:id/export", quoteH.Export)

	// Reference data
	taxRef := v1.Group("/tax")
	taxRef.GET("/categories", taxH.Categories)
	taxRef.GET("/units", taxH.Units)
	taxRef.GET("/rules", taxH.Rules)

	return r
}
