package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mobilitylab/taxi-insights/internal/models"
)

// KPIReport summarizes the core business metrics of a cleaned trip table.
type KPIReport struct {
	TotalRevenue    float64
	MonthlyRevenue  map[int]float64
	AvgDistance     float64
	AvgFare         float64
	TipPercentage   float64
	PeakHour        int
	PeakHourTrips   int64
	RevenuePerMile  float64
	PeakSharePct    float64
	OffPeakSharePct float64
}

// BuildKPIReport computes the KPI set over the in-memory trip table.
func BuildKPIReport(trips []models.Trip) KPIReport {
	r := KPIReport{MonthlyRevenue: make(map[int]float64)}
	if len(trips) == 0 {
		return r
	}

	var totalFare, totalTips, totalDistance float64
	hourCounts := make(map[int]int64)
	var peakSlot int64

	for _, t := range trips {
		r.TotalRevenue += t.TotalAmount
		r.MonthlyRevenue[t.PickupMonth] += t.TotalAmount
		totalFare += t.FareAmount
		totalTips += t.TipAmount
		totalDistance += t.TripDistance
		hourCounts[t.PickupHour]++
		if isPeakHour(t.PickupHour) {
			peakSlot++
		}
	}

	n := float64(len(trips))
	r.AvgDistance = totalDistance / n
	r.AvgFare = totalFare / n
	if totalFare > 0 {
		r.TipPercentage = totalTips / totalFare * 100
	}
	if totalDistance > 0 {
		r.RevenuePerMile = r.TotalRevenue / totalDistance
	}

	for hour, count := range hourCounts {
		if count > r.PeakHourTrips || (count == r.PeakHourTrips && hour < r.PeakHour) {
			r.PeakHour = hour
			r.PeakHourTrips = count
		}
	}

	r.PeakSharePct = float64(peakSlot) / n * 100
	r.OffPeakSharePct = 100 - r.PeakSharePct
	return r
}

// isPeakHour marks the morning and evening rush windows.
func isPeakHour(hour int) bool {
	return (hour >= 7 && hour <= 10) || (hour >= 17 && hour <= 20)
}

// Render formats the report as the plain-text deliverable.
func (r KPIReport) Render() string {
	var b strings.Builder
	b.WriteString("CORE KPI REPORT\n")
	b.WriteString("===============\n\n")

	fmt.Fprintf(&b, "1. Total Revenue: $%.2f\n", r.TotalRevenue)
	b.WriteString("   Monthly Revenue:\n")
	months := make([]int, 0, len(r.MonthlyRevenue))
	for m := range r.MonthlyRevenue {
		months = append(months, m)
	}
	sort.Ints(months)
	for _, m := range months {
		fmt.Fprintf(&b, "   - Month %d: $%.2f\n", m, r.MonthlyRevenue[m])
	}

	fmt.Fprintf(&b, "\n2. Average Trip Distance: %.2f miles\n", r.AvgDistance)
	fmt.Fprintf(&b, "\n3. Average Fare per Trip: $%.2f\n", r.AvgFare)
	fmt.Fprintf(&b, "\n4. Tip Percentage (of Fare): %.2f%%\n", r.TipPercentage)
	fmt.Fprintf(&b, "\n5. Peak Demand: Hour %d with %d trips\n", r.PeakHour, r.PeakHourTrips)
	fmt.Fprintf(&b, "\n6. Revenue per Mile: $%.2f\n", r.RevenuePerMile)
	b.WriteString("\n7. Peak vs Off-Peak Utilization:\n")
	fmt.Fprintf(&b, "   - Peak: %.1f%% of trips\n", r.PeakSharePct)
	fmt.Fprintf(&b, "   - Off-Peak: %.1f%% of trips\n", r.OffPeakSharePct)

	return b.String()
}
