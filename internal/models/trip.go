package models

import "time"

// Trip represents one taxi trip record as loaded from the source CSV,
// plus the derived calendar and duration features.
type Trip struct {
	// Raw fields
	VendorID         int       `json:"vendor_id" db:"VendorID"`
	PickupDatetime   time.Time `json:"tpep_pickup_datetime" db:"tpep_pickup_datetime"`
	DropoffDatetime  time.Time `json:"tpep_dropoff_datetime" db:"tpep_dropoff_datetime"`
	PassengerCount   int       `json:"passenger_count" db:"passenger_count"`
	TripDistance     float64   `json:"trip_distance" db:"trip_distance"`
	RatecodeID       int       `json:"ratecode_id" db:"RatecodeID"`
	PickupLongitude  float64   `json:"pickup_longitude" db:"pickup_longitude"`
	PickupLatitude   float64   `json:"pickup_latitude" db:"pickup_latitude"`
	DropoffLongitude float64   `json:"dropoff_longitude" db:"dropoff_longitude"`
	DropoffLatitude  float64   `json:"dropoff_latitude" db:"dropoff_latitude"`
	PaymentType      int       `json:"payment_type" db:"payment_type"`

	// Fare components
	FareAmount           float64 `json:"fare_amount" db:"fare_amount"`
	Extra                float64 `json:"extra" db:"extra"`
	MTATax               float64 `json:"mta_tax" db:"mta_tax"`
	TipAmount            float64 `json:"tip_amount" db:"tip_amount"`
	TollsAmount          float64 `json:"tolls_amount" db:"tolls_amount"`
	ImprovementSurcharge float64 `json:"improvement_surcharge" db:"improvement_surcharge"`
	TotalAmount          float64 `json:"total_amount" db:"total_amount"`

	// Derived features, populated by the pipeline
	PickupHour      int     `json:"pickup_hour" db:"pickup_hour"`
	PickupDay       int     `json:"pickup_day" db:"pickup_day"`
	PickupMonth     int     `json:"pickup_month" db:"pickup_month"`
	PickupWeekday   string  `json:"pickup_weekday" db:"pickup_weekday"`
	TripDurationMin float64 `json:"trip_duration_min" db:"trip_duration_min"`
}

// NYC bounding box used by the cleaning step. Trips with either endpoint
// outside these bounds are discarded.
const (
	MinLatitude  = 40.5
	MaxLatitude  = 40.95
	MinLongitude = -74.25
	MaxLongitude = -73.7
)

// Trip duration sanity bounds in minutes. Durations at or outside these
// bounds indicate clock skew or swapped timestamps in the source data.
const (
	MinTripDurationMin = 0.0
	MaxTripDurationMin = 600.0
)
