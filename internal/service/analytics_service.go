package service

import (
	"github.com/mobilitylab/taxi-insights/internal/models"
	"github.com/mobilitylab/taxi-insights/internal/repository"
)

// AnalyticsService handles business logic for the canned analytic views.
type AnalyticsService struct {
	repo *repository.TripRepository
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(repo *repository.TripRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Summary returns the headline dashboard metrics.
func (s *AnalyticsService) Summary() (*models.Summary, error) {
	return s.repo.Summary()
}

// HourlyDemand returns trip volume per pickup hour.
func (s *AnalyticsService) HourlyDemand() ([]models.HourlyDemand, error) {
	return s.repo.HourlyDemand()
}

// RevenueTrends returns daily revenue totals.
func (s *AnalyticsService) RevenueTrends() ([]models.DailyRevenue, error) {
	return s.repo.RevenueTrends()
}

// TopPickupZones returns the busiest pickup cells.
func (s *AnalyticsService) TopPickupZones(limit int) ([]models.PickupZone, error) {
	if limit < 1 {
		limit = 10
	}
	return s.repo.TopPickupZones(limit)
}

// RevenueHotspots returns the highest-revenue pickup cells.
func (s *AnalyticsService) RevenueHotspots() ([]models.RevenueHotspot, error) {
	return s.repo.RevenueHotspots()
}

// RunQuery executes an ad-hoc read-intent SQL statement.
func (s *AnalyticsService) RunQuery(query string) (*models.QueryResult, error) {
	return s.repo.RunQuery(query)
}
