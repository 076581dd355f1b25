package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mobilitylab/taxi-insights/internal/database"
	"github.com/mobilitylab/taxi-insights/internal/models"
)

// timestampLayout is how datetime columns are stored in the trips table.
const timestampLayout = "2006-01-02 15:04:05"

const createTripsTable = `CREATE TABLE trips (
	VendorID INTEGER,
	tpep_pickup_datetime TEXT,
	tpep_dropoff_datetime TEXT,
	passenger_count INTEGER,
	trip_distance REAL,
	RatecodeID INTEGER,
	pickup_longitude REAL,
	pickup_latitude REAL,
	dropoff_longitude REAL,
	dropoff_latitude REAL,
	payment_type INTEGER,
	fare_amount REAL,
	extra REAL,
	mta_tax REAL,
	tip_amount REAL,
	tolls_amount REAL,
	improvement_surcharge REAL,
	total_amount REAL,
	pickup_hour INTEGER,
	pickup_day INTEGER,
	pickup_month INTEGER,
	pickup_weekday TEXT,
	trip_duration_min REAL
)`

const insertTrip = `INSERT INTO trips VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

// TripRepository handles database operations for the trips table.
type TripRepository struct {
	db  *sql.DB
	log *zap.Logger
}

// NewTripRepository creates a new trip repository.
func NewTripRepository(db *sql.DB, log *zap.Logger) *TripRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &TripRepository{db: db, log: log}
}

// Ingest replaces the trips table with the given records. The drop, create,
// and bulk insert run inside one transaction, so readers on this connection
// never observe a partially written table.
func (r *TripRepository) Ingest(trips []models.Trip) error {
	r.log.Info("writing data to table 'trips'", zap.Int("rows", len(trips)))

	err := database.TransactionOn(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DROP TABLE IF EXISTS trips"); err != nil {
			return fmt.Errorf("failed to drop trips table: %w", err)
		}
		if _, err := tx.Exec(createTripsTable); err != nil {
			return fmt.Errorf("failed to create trips table: %w", err)
		}

		stmt, err := tx.Prepare(insertTrip)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range trips {
			_, err := stmt.Exec(
				t.VendorID,
				t.PickupDatetime.Format(timestampLayout),
				t.DropoffDatetime.Format(timestampLayout),
				t.PassengerCount,
				t.TripDistance,
				t.RatecodeID,
				t.PickupLongitude,
				t.PickupLatitude,
				t.DropoffLongitude,
				t.DropoffLatitude,
				t.PaymentType,
				t.FareAmount,
				t.Extra,
				t.MTATax,
				t.TipAmount,
				t.TollsAmount,
				t.ImprovementSurcharge,
				t.TotalAmount,
				t.PickupHour,
				t.PickupDay,
				t.PickupMonth,
				t.PickupWeekday,
				t.TripDurationMin,
			)
			if err != nil {
				return fmt.Errorf("failed to insert trip: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info("data successfully written to trips table")
	return nil
}

// RunQuery executes a read-intent SQL statement and returns the result as a
// generic table. Failures are wrapped in QueryError with the driver message
// intact; malformed SQL is never corrected or retried.
func (r *TripRepository) RunQuery(query string, args ...interface{}) (*models.QueryResult, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Error("query execution failed", zap.String("sql", query), zap.Error(err))
		return nil, &QueryError{SQL: query, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}

	result := &models.QueryResult{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &QueryError{SQL: query, Err: err}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}

	return result, nil
}

// HourlyDemand returns trip count and mean distance per pickup hour,
// ordered by hour ascending.
func (r *TripRepository) HourlyDemand() ([]models.HourlyDemand, error) {
	query := `SELECT pickup_hour, COUNT(*) as trip_count, AVG(trip_distance) as avg_distance
		FROM trips
		GROUP BY pickup_hour
		ORDER BY pickup_hour`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}
	defer rows.Close()

	var result []models.HourlyDemand
	for rows.Next() {
		var h models.HourlyDemand
		if err := rows.Scan(&h.PickupHour, &h.TripCount, &h.AvgDistance); err != nil {
			return nil, fmt.Errorf("failed to scan hourly demand: %w", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

// RevenueTrends returns summed revenue and mean fare per day of month,
// ordered by day ascending.
func (r *TripRepository) RevenueTrends() ([]models.DailyRevenue, error) {
	query := `SELECT pickup_day, SUM(total_amount) as total_revenue, AVG(fare_amount) as avg_fare
		FROM trips
		GROUP BY pickup_day
		ORDER BY pickup_day`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}
	defer rows.Close()

	var result []models.DailyRevenue
	for rows.Next() {
		var d models.DailyRevenue
		if err := rows.Scan(&d.PickupDay, &d.TotalRevenue, &d.AvgFare); err != nil {
			return nil, fmt.Errorf("failed to scan revenue trend: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// TopPickupZones returns the busiest pickup cells, grouping coordinates
// rounded to 3 decimal places and ordering by trip count descending.
func (r *TripRepository) TopPickupZones(limit int) ([]models.PickupZone, error) {
	query := `SELECT
		ROUND(pickup_latitude, 3) as lat,
		ROUND(pickup_longitude, 3) as lon,
		COUNT(*) as trip_count,
		AVG(total_amount) as avg_revenue
	FROM trips
	GROUP BY 1, 2
	ORDER BY trip_count DESC
	LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}
	defer rows.Close()

	var result []models.PickupZone
	for rows.Next() {
		var z models.PickupZone
		if err := rows.Scan(&z.Lat, &z.Lon, &z.TripCount, &z.AvgRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan pickup zone: %w", err)
		}
		result = append(result, z)
	}
	return result, rows.Err()
}

// RevenueHotspots returns the highest-revenue pickup cells within the core
// city window, keeping only cells with more than 5 trips and capping the
// result at 200 cells.
func (r *TripRepository) RevenueHotspots() ([]models.RevenueHotspot, error) {
	query := `SELECT
		ROUND(pickup_latitude, 3) as lat,
		ROUND(pickup_longitude, 3) as lon,
		SUM(total_amount) as revenue,
		COUNT(*) as trips
	FROM trips
	WHERE pickup_longitude BETWEEN -74.05 AND -73.75
	AND pickup_latitude BETWEEN 40.6 AND 40.85
	GROUP BY 1, 2
	HAVING COUNT(*) > 5
	ORDER BY revenue DESC
	LIMIT 200`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}
	defer rows.Close()

	var result []models.RevenueHotspot
	for rows.Next() {
		var h models.RevenueHotspot
		if err := rows.Scan(&h.Lat, &h.Lon, &h.Revenue, &h.Trips); err != nil {
			return nil, fmt.Errorf("failed to scan revenue hotspot: %w", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

// Summary returns the headline metrics for the dashboard.
func (r *TripRepository) Summary() (*models.Summary, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(total_amount), 0),
		COALESCE(AVG(fare_amount), 0), COALESCE(AVG(trip_distance), 0)
		FROM trips`

	var s models.Summary
	err := r.db.QueryRow(query).Scan(&s.TotalTrips, &s.TotalRevenue, &s.AvgFare, &s.AvgDistance)
	if err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}
	return &s, nil
}
