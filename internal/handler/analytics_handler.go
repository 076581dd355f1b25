package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mobilitylab/taxi-insights/internal/service"
	"github.com/mobilitylab/taxi-insights/pkg/response"
)

// AnalyticsHandler handles HTTP requests for the canned analytic views.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GetSummary handles GET /api/v1/analytics/summary
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get summary: "+err.Error())
		return
	}
	response.Success(c, summary)
}

// GetHourlyDemand handles GET /api/v1/analytics/hourly-demand
func (h *AnalyticsHandler) GetHourlyDemand(c *gin.Context) {
	demand, err := h.service.HourlyDemand()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get hourly demand: "+err.Error())
		return
	}
	response.Success(c, demand)
}

// GetRevenueTrends handles GET /api/v1/analytics/revenue-trends
func (h *AnalyticsHandler) GetRevenueTrends(c *gin.Context) {
	trends, err := h.service.RevenueTrends()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get revenue trends: "+err.Error())
		return
	}
	response.Success(c, trends)
}

// GetTopZones handles GET /api/v1/analytics/top-zones?limit=10
func (h *AnalyticsHandler) GetTopZones(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		response.BadRequest(c, "Invalid limit")
		return
	}

	zones, err := h.service.TopPickupZones(limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get top zones: "+err.Error())
		return
	}
	response.Success(c, zones)
}

// GetHotspots handles GET /api/v1/analytics/hotspots
func (h *AnalyticsHandler) GetHotspots(c *gin.Context) {
	hotspots, err := h.service.RevenueHotspots()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get hotspots: "+err.Error())
		return
	}
	response.Success(c, hotspots)
}
