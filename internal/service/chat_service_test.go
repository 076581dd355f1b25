package service

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mobilitylab/taxi-insights/internal/assistant"
	"github.com/mobilitylab/taxi-insights/internal/config"
	"github.com/mobilitylab/taxi-insights/internal/models"
	"github.com/mobilitylab/taxi-insights/internal/repository"
)

func newChatFixture(t *testing.T) *ChatService {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewTripRepository(db, nil)
	require.NoError(t, repo.Ingest(testTrips()))

	// No credentials: the assistant runs in deterministic mock mode.
	ai := assistant.New(config.Credentials{}, zap.NewNop())
	return NewChatService(ai, repo, zap.NewNop())
}

func testTrips() []models.Trip {
	pickup := time.Date(2016, 1, 15, 8, 0, 0, 0, time.UTC)
	base := models.Trip{
		VendorID:         1,
		PickupDatetime:   pickup,
		DropoffDatetime:  pickup.Add(12 * time.Minute),
		PassengerCount:   1,
		TripDistance:     2.5,
		RatecodeID:       1,
		PickupLongitude:  -73.98,
		PickupLatitude:   40.75,
		DropoffLongitude: -73.97,
		DropoffLatitude:  40.76,
		PaymentType:      1,
		FareAmount:       10,
		TotalAmount:      12.8,
		PickupHour:       8,
		PickupDay:        15,
		PickupMonth:      1,
		PickupWeekday:    "Friday",
		TripDurationMin:  12,
	}
	other := base
	other.PickupHour = 17
	other.FareAmount = 20
	return []models.Trip{base, base, other}
}

func TestAsk_RunsGeneratedSQL(t *testing.T) {
	svc := newChatFixture(t)

	answer := svc.Ask("", "What's the average fare?")
	require.NotNil(t, answer)
	assert.Equal(t, "SELECT AVG(fare_amount) as avg_fare FROM trips", answer.SQL)
	require.NotNil(t, answer.Result)
	require.Len(t, answer.Result.Rows, 1)
	assert.Contains(t, answer.Answer, "Fare Insight")
	assert.NotEmpty(t, answer.SessionID)
}

func TestAsk_RecordsConversationTurns(t *testing.T) {
	svc := newChatFixture(t)

	session := svc.NewSession()
	svc.Ask(session, "What's the average fare?")
	svc.Ask(session, "How is revenue doing?")

	turns := svc.History(session)
	require.Len(t, turns, 4)
	assert.Equal(t, models.RoleUser, turns[0].Role)
	assert.Equal(t, "What's the average fare?", turns[0].Content)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
	assert.Equal(t, models.RoleUser, turns[2].Role)
	assert.Equal(t, "How is revenue doing?", turns[2].Content)
}

func TestAsk_HistoryIsPerSession(t *testing.T) {
	svc := newChatFixture(t)

	a := svc.Ask("", "count the trips").SessionID
	b := svc.Ask("", "count the trips").SessionID
	assert.NotEqual(t, a, b)
	assert.Len(t, svc.History(a), 2)
	assert.Len(t, svc.History(b), 2)
	assert.Empty(t, svc.History("unknown"))
}

func TestAsk_DefaultQueryStillAnswers(t *testing.T) {
	svc := newChatFixture(t)

	answer := svc.Ask("", "hello there")
	assert.Equal(t, "SELECT * FROM trips LIMIT 10", answer.SQL)
	require.NotNil(t, answer.Result)
	assert.Len(t, answer.Result.Rows, 3)
	assert.NotEmpty(t, answer.Answer)
}

func TestFormatResult(t *testing.T) {
	res := &models.QueryResult{
		Columns: []string{"a", "b"},
		Rows: [][]interface{}{
			{int64(1), "x"},
			{nil, []byte("y")},
		},
	}
	assert.Equal(t, "a\tb\n1\tx\nNULL\ty\n", formatResult(res))
}
