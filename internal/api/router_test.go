package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mobilitylab/taxi-insights/internal/assistant"
	"github.com/mobilitylab/taxi-insights/internal/config"
	"github.com/mobilitylab/taxi-insights/internal/handler"
	"github.com/mobilitylab/taxi-insights/internal/models"
	"github.com/mobilitylab/taxi-insights/internal/repository"
	"github.com/mobilitylab/taxi-insights/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewTripRepository(db, nil)
	pickup := time.Date(2016, 1, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Ingest([]models.Trip{
		{
			VendorID: 1, PickupDatetime: pickup, DropoffDatetime: pickup.Add(10 * time.Minute),
			PassengerCount: 1, TripDistance: 2, RatecodeID: 1,
			PickupLongitude: -73.98, PickupLatitude: 40.75,
			DropoffLongitude: -73.97, DropoffLatitude: 40.76,
			PaymentType: 1, FareAmount: 10, TotalAmount: 12,
			PickupHour: 8, PickupDay: 15, PickupMonth: 1,
			PickupWeekday: "Friday", TripDurationMin: 10,
		},
	}))

	ai := assistant.New(config.Credentials{}, zap.NewNop())
	analyticsSvc := service.NewAnalyticsService(repo)
	chatSvc := service.NewChatService(ai, repo, zap.NewNop())

	return SetupRouter(Handlers{
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
		Query:     handler.NewQueryHandler(analyticsSvc),
		Chat:      handler.NewChatHandler(chatSvc, ai),
	}, zap.NewNop())
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/api/v1/analytics/summary", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data models.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.Data.TotalTrips)
}

func TestQueryEndpoint_ErrorReportedInline(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/v1/query", `{"sql":"SELECT nope FROM trips"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "nope")

	// The session survives a bad query.
	w = doRequest(t, r, http.MethodGet, "/api/v1/analytics/summary", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatEndpoint_MockAnswer(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodPost, "/api/v1/chat", `{"question":"What's the average fare?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data models.ChatAnswer `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SELECT AVG(fare_amount) as avg_fare FROM trips", resp.Data.SQL)
	assert.Contains(t, resp.Data.Answer, "Fare Insight")

	history := doRequest(t, r, http.MethodGet, "/api/v1/chat/"+resp.Data.SessionID+"/history", "")
	assert.Equal(t, http.StatusOK, history.Code)
	assert.Contains(t, history.Body.String(), "average fare")
}

func TestAssistantStatusEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/api/v1/assistant/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"mock"`)
	assert.Contains(t, w.Body.String(), `"provider":"none"`)
}
