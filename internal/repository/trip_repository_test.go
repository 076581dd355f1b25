package repository

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mobilitylab/taxi-insights/internal/models"
)

func newTestRepo(t *testing.T) *TripRepository {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTripRepository(db, nil)
}

// makeTrip builds a trip with the given pickup hour and distance and
// sensible defaults everywhere else.
func makeTrip(hour int, distance float64) models.Trip {
	pickup := time.Date(2016, 1, 15, hour, 0, 0, 0, time.UTC)
	return models.Trip{
		VendorID:         1,
		PickupDatetime:   pickup,
		DropoffDatetime:  pickup.Add(12 * time.Minute),
		PassengerCount:   1,
		TripDistance:     distance,
		RatecodeID:       1,
		PickupLongitude:  -73.98,
		PickupLatitude:   40.75,
		DropoffLongitude: -73.97,
		DropoffLatitude:  40.76,
		PaymentType:      1,
		FareAmount:       10,
		TipAmount:        2,
		TotalAmount:      12.8,
		PickupHour:       hour,
		PickupDay:        15,
		PickupMonth:      1,
		PickupWeekday:    "Friday",
		TripDurationMin:  12,
	}
}

func TestIngest_CountMatchesInput(t *testing.T) {
	repo := newTestRepo(t)
	trips := []models.Trip{makeTrip(8, 2.5), makeTrip(9, 1.0), makeTrip(17, 4.2)}
	require.NoError(t, repo.Ingest(trips))

	result, err := repo.RunQuery("SELECT COUNT(*) FROM trips")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.EqualValues(t, int64(3), result.Rows[0][0])
}

func TestIngest_ReplacesExistingTable(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Ingest([]models.Trip{makeTrip(8, 2.5), makeTrip(9, 1.0)}))
	require.NoError(t, repo.Ingest([]models.Trip{makeTrip(10, 3.0)}))

	result, err := repo.RunQuery("SELECT COUNT(*) FROM trips")
	require.NoError(t, err)
	assert.EqualValues(t, int64(1), result.Rows[0][0])
}

func TestIngest_EmptyTableIsValid(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Ingest(nil))

	result, err := repo.RunQuery("SELECT COUNT(*) FROM trips")
	require.NoError(t, err)
	assert.EqualValues(t, int64(0), result.Rows[0][0])
}

func TestHourlyDemand_GroupsAndOrders(t *testing.T) {
	repo := newTestRepo(t)
	trips := []models.Trip{makeTrip(8, 2.0), makeTrip(8, 4.0), makeTrip(17, 1.5)}
	require.NoError(t, repo.Ingest(trips))

	demand, err := repo.HourlyDemand()
	require.NoError(t, err)
	require.Len(t, demand, 2)

	assert.Equal(t, 8, demand[0].PickupHour)
	assert.EqualValues(t, 2, demand[0].TripCount)
	assert.InDelta(t, 3.0, demand[0].AvgDistance, 1e-9)

	assert.Equal(t, 17, demand[1].PickupHour)
	assert.EqualValues(t, 1, demand[1].TripCount)
	assert.InDelta(t, 1.5, demand[1].AvgDistance, 1e-9)

	var total int64
	for _, h := range demand {
		assert.GreaterOrEqual(t, h.PickupHour, 0)
		assert.LessOrEqual(t, h.PickupHour, 23)
		total += h.TripCount
	}
	assert.EqualValues(t, len(trips), total)
}

func TestRevenueTrends_OrdersByDay(t *testing.T) {
	repo := newTestRepo(t)
	a := makeTrip(8, 2.0)
	a.PickupDay = 2
	a.TotalAmount = 20
	a.FareAmount = 15
	b := makeTrip(9, 2.0)
	b.PickupDay = 1
	b.TotalAmount = 10
	b.FareAmount = 8
	require.NoError(t, repo.Ingest([]models.Trip{a, b}))

	trends, err := repo.RevenueTrends()
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, 1, trends[0].PickupDay)
	assert.InDelta(t, 10, trends[0].TotalRevenue, 1e-9)
	assert.InDelta(t, 8, trends[0].AvgFare, 1e-9)
	assert.Equal(t, 2, trends[1].PickupDay)
}

func TestTopPickupZones_RanksByCount(t *testing.T) {
	repo := newTestRepo(t)
	var trips []models.Trip
	for i := 0; i < 3; i++ {
		tr := makeTrip(8, 2.0)
		tr.PickupLatitude = 40.75
		tr.PickupLongitude = -73.98
		trips = append(trips, tr)
	}
	lone := makeTrip(9, 2.0)
	lone.PickupLatitude = 40.7
	lone.PickupLongitude = -74.0
	trips = append(trips, lone)
	require.NoError(t, repo.Ingest(trips))

	zones, err := repo.TopPickupZones(10)
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.EqualValues(t, 3, zones[0].TripCount)
	assert.InDelta(t, 40.75, zones[0].Lat, 1e-9)

	limited, err := repo.TopPickupZones(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRevenueHotspots_FiltersSmallCells(t *testing.T) {
	repo := newTestRepo(t)
	var trips []models.Trip
	// Six trips in one cell inside the core window, one elsewhere.
	for i := 0; i < 6; i++ {
		tr := makeTrip(8, 2.0)
		tr.TotalAmount = 10
		trips = append(trips, tr)
	}
	lone := makeTrip(9, 2.0)
	lone.PickupLatitude = 40.7
	lone.PickupLongitude = -74.0
	trips = append(trips, lone)
	require.NoError(t, repo.Ingest(trips))

	hotspots, err := repo.RevenueHotspots()
	require.NoError(t, err)
	require.Len(t, hotspots, 1)
	assert.EqualValues(t, 6, hotspots[0].Trips)
	assert.InDelta(t, 60, hotspots[0].Revenue, 1e-9)
}

func TestRunQuery_SurfacesDriverError(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Ingest([]models.Trip{makeTrip(8, 2.0)}))

	_, err := repo.RunQuery("SELECT nope FROM trips")
	require.Error(t, err)

	var qerr *QueryError
	require.ErrorAs(t, err, &qerr)
	assert.NotEmpty(t, qerr.Error())
	assert.Equal(t, "SELECT nope FROM trips", qerr.SQL)
}

func TestSummary(t *testing.T) {
	repo := newTestRepo(t)
	a := makeTrip(8, 2.0)
	a.TotalAmount = 10
	a.FareAmount = 8
	b := makeTrip(9, 4.0)
	b.TotalAmount = 20
	b.FareAmount = 16
	require.NoError(t, repo.Ingest([]models.Trip{a, b}))

	s, err := repo.Summary()
	require.NoError(t, err)
	assert.EqualValues(t, 2, s.TotalTrips)
	assert.InDelta(t, 30, s.TotalRevenue, 1e-9)
	assert.InDelta(t, 12, s.AvgFare, 1e-9)
	assert.InDelta(t, 3, s.AvgDistance, 1e-9)
}
