package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mobilitylab/taxi-insights/internal/handler"
	"github.com/mobilitylab/taxi-insights/internal/middleware"
)

// Handlers bundles the wired HTTP handlers for router setup.
type Handlers struct {
	Analytics *handler.AnalyticsHandler
	Query     *handler.QueryHandler
	Chat      *handler.ChatHandler
}

// SetupRouter builds the gin engine with all routes registered.
func SetupRouter(h Handlers, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Taxi Insights API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		analytics := api.Group("/analytics")
		{
			analytics.GET("/summary", h.Analytics.GetSummary)
			analytics.GET("/hourly-demand", h.Analytics.GetHourlyDemand)
			analytics.GET("/revenue-trends", h.Analytics.GetRevenueTrends)
			analytics.GET("/top-zones", h.Analytics.GetTopZones)
			analytics.GET("/hotspots", h.Analytics.GetHotspots)
		}

		api.POST("/query", h.Query.RunQuery)

		api.POST("/chat", h.Chat.Ask)
		api.GET("/chat/:session_id/history", h.Chat.GetHistory)
		api.GET("/assistant/status", h.Chat.GetStatus)
	}

	return r
}
