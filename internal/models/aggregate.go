package models

// QueryResult is a generic tabular result of an ad-hoc SQL query.
type QueryResult struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// HourlyDemand is trip volume and mean distance for one pickup hour.
type HourlyDemand struct {
	PickupHour  int     `json:"pickup_hour"`
	TripCount   int64   `json:"trip_count"`
	AvgDistance float64 `json:"avg_distance"`
}

// DailyRevenue is summed revenue and mean fare for one day of month.
type DailyRevenue struct {
	PickupDay    int     `json:"pickup_day"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgFare      float64 `json:"avg_fare"`
}

// PickupZone is a rounded coordinate cell ranked by trip count.
type PickupZone struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	TripCount  int64   `json:"trip_count"`
	AvgRevenue float64 `json:"avg_revenue"`
}

// RevenueHotspot is a rounded coordinate cell ranked by summed revenue.
type RevenueHotspot struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Revenue float64 `json:"revenue"`
	Trips   int64   `json:"trips"`
}

// Summary holds the headline dashboard metrics.
type Summary struct {
	TotalTrips   int64   `json:"total_trips"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgFare      float64 `json:"avg_fare"`
	AvgDistance  float64 `json:"avg_distance"`
}
