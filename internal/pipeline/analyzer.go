package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/golang/geo/s2"
	"go.uber.org/zap"

	"github.com/mobilitylab/taxi-insights/internal/models"
)

// timestampLayout matches the tpep_* columns of the yellow-taxi exports.
const timestampLayout = "2006-01-02 15:04:05"

// requiredColumns must all be present in the CSV header.
var requiredColumns = []string{
	"VendorID",
	"tpep_pickup_datetime",
	"tpep_dropoff_datetime",
	"passenger_count",
	"trip_distance",
	"RatecodeID",
	"pickup_longitude",
	"pickup_latitude",
	"dropoff_longitude",
	"dropoff_latitude",
	"payment_type",
	"fare_amount",
	"extra",
	"mta_tax",
	"tip_amount",
	"tolls_amount",
	"improvement_surcharge",
	"total_amount",
}

// nycBounds is the fixed cleaning bounding box around NYC.
var nycBounds = s2.RectFromLatLng(s2.LatLngFromDegrees(models.MinLatitude, models.MinLongitude)).
	AddPoint(s2.LatLngFromDegrees(models.MaxLatitude, models.MaxLongitude))

// Analyzer handles loading, cleaning, and feature engineering of taxi trip
// data. Methods mutate the analyzer's in-memory table in place; Clean and
// DeriveFeatures are idempotent since their filters are monotone predicates.
type Analyzer struct {
	filePath string
	log      *zap.Logger
	data     []models.Trip
}

// NewAnalyzer creates an analyzer for the given source file.
func NewAnalyzer(filePath string, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{filePath: filePath, log: log}
}

// Data returns the current in-memory table.
func (a *Analyzer) Data() []models.Trip {
	return a.data
}

// Load reads the source CSV into memory. maxRows caps the number of data
// rows read when positive. Timestamp columns are parsed into time.Time.
func (a *Analyzer) Load(maxRows int) ([]models.Trip, error) {
	a.log.Info("loading data", zap.String("path", a.filePath))

	f, err := os.Open(a.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, a.filePath)
		}
		return nil, fmt.Errorf("failed to open %s: %w", a.filePath, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", ErrParse, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", ErrParse, name)
		}
	}

	var trips []models.Trip
	line := 1
	for {
		if maxRows > 0 && len(trips) >= maxRows {
			break
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, line+1, err)
		}
		line++

		trip, err := parseRecord(record, cols, line)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	a.data = trips
	a.log.Info("data loaded", zap.Int("rows", len(trips)))
	return trips, nil
}

func parseRecord(record []string, cols map[string]int, line int) (models.Trip, error) {
	var t models.Trip
	var err error

	get := func(name string) string { return record[cols[name]] }

	if t.PickupDatetime, err = time.Parse(timestampLayout, get("tpep_pickup_datetime")); err != nil {
		return t, fmt.Errorf("%w: line %d: bad pickup timestamp %q", ErrParse, line, get("tpep_pickup_datetime"))
	}
	if t.DropoffDatetime, err = time.Parse(timestampLayout, get("tpep_dropoff_datetime")); err != nil {
		return t, fmt.Errorf("%w: line %d: bad dropoff timestamp %q", ErrParse, line, get("tpep_dropoff_datetime"))
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"VendorID", &t.VendorID},
		{"passenger_count", &t.PassengerCount},
		{"RatecodeID", &t.RatecodeID},
		{"payment_type", &t.PaymentType},
	}
	for _, c := range ints {
		if *c.dst, err = strconv.Atoi(get(c.name)); err != nil {
			return t, fmt.Errorf("%w: line %d: column %s: %v", ErrParse, line, c.name, err)
		}
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"trip_distance", &t.TripDistance},
		{"pickup_longitude", &t.PickupLongitude},
		{"pickup_latitude", &t.PickupLatitude},
		{"dropoff_longitude", &t.DropoffLongitude},
		{"dropoff_latitude", &t.DropoffLatitude},
		{"fare_amount", &t.FareAmount},
		{"extra", &t.Extra},
		{"mta_tax", &t.MTATax},
		{"tip_amount", &t.TipAmount},
		{"tolls_amount", &t.TollsAmount},
		{"improvement_surcharge", &t.ImprovementSurcharge},
		{"total_amount", &t.TotalAmount},
	}
	for _, c := range floats {
		if *c.dst, err = strconv.ParseFloat(get(c.name), 64); err != nil {
			return t, fmt.Errorf("%w: line %d: column %s: %v", ErrParse, line, c.name, err)
		}
	}

	return t, nil
}

// Clean discards trips whose pickup or dropoff coordinates fall outside the
// NYC bounding box. Returns the number of rows removed. An empty result is
// a valid outcome.
func (a *Analyzer) Clean() int {
	initial := len(a.data)

	kept := a.data[:0]
	for _, t := range a.data {
		if inBounds(t.PickupLatitude, t.PickupLongitude) && inBounds(t.DropoffLatitude, t.DropoffLongitude) {
			kept = append(kept, t)
		}
	}
	a.data = kept

	removed := initial - len(a.data)
	a.log.Info("data cleaning complete",
		zap.Int("removed", removed),
		zap.Int("remaining", len(a.data)))
	if len(a.data) == 0 {
		a.log.Info("no rows remain after cleaning")
	}
	return removed
}

// DeriveFeatures computes the calendar and duration features for every row,
// then discards rows with a trip duration outside (0, 600) minutes. The
// duration filter runs only after all derived columns are computed.
func (a *Analyzer) DeriveFeatures() int {
	initial := len(a.data)

	for i := range a.data {
		t := &a.data[i]
		t.PickupHour = t.PickupDatetime.Hour()
		t.PickupDay = t.PickupDatetime.Day()
		t.PickupMonth = int(t.PickupDatetime.Month())
		t.PickupWeekday = t.PickupDatetime.Weekday().String()
		t.TripDurationMin = t.DropoffDatetime.Sub(t.PickupDatetime).Minutes()
	}

	kept := a.data[:0]
	for _, t := range a.data {
		if t.TripDurationMin > models.MinTripDurationMin && t.TripDurationMin < models.MaxTripDurationMin {
			kept = append(kept, t)
		}
	}
	a.data = kept

	removed := initial - len(a.data)
	a.log.Info("feature engineering complete", zap.Int("removed", removed))
	return removed
}

func inBounds(lat, lon float64) bool {
	return nycBounds.ContainsLatLng(s2.LatLngFromDegrees(lat, lon))
}
