package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chilislots/pkg/config"
	"chilislots/pkg/engine"
	"chilislots/pkg/log"
)

func TestMain(m *testing.M) {
	log.InitNop()
	m.Run()
}

type fakeRunner struct {
	outcome engine.ScrapeOutcome
	last    engine.ScrapeRequest
}

func (f *fakeRunner) Run(ctx context.Context, request engine.ScrapeRequest) engine.ScrapeOutcome {
	f.last = request
	return f.outcome
}

func outcomeWithDays() engine.ScrapeOutcome {
	aggregate := engine.NewAggregate()
	aggregate.Add(engine.DaySlots{DayName: "Tuesday", Date: "Oct 28, 2025", Slots: []string{"9:00", "10:00"}})
	aggregate.Add(engine.DaySlots{DayName: "Wednesday", Date: "Oct 29, 2025", Slots: []string{"11:00"}})
	return engine.ScrapeOutcome{Days: aggregate, Completed: true}
}

const validBody = `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","phone":"+15550100"}`

func TestHealthEndpoint(t *testing.T) {
	server := NewServer(config.Default(), &fakeRunner{})
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, "healthy", payload["status"])
}

func TestPreflightRequest(t *testing.T) {
	server := NewServer(config.Default(), &fakeRunner{})
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodOptions, "/api/slots", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestSlotsRejectsMissingFields(t *testing.T) {
	server := NewServer(config.Default(), &fakeRunner{outcome: outcomeWithDays()})
	recorder := httptest.NewRecorder()
	body := strings.NewReader(`{"first_name":"Ada"}`)
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/slots", body))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "missing required field")
}

func TestSlotsRequiresAPIKeyWhenConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Server.APIKeys = []string{"cp_live_test"}
	server := NewServer(cfg, &fakeRunner{outcome: outcomeWithDays()})

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/slots", strings.NewReader(validBody)))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/slots", strings.NewReader(validBody))
	request.Header.Set("Authorization", "Bearer cp_live_test")
	server.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestSlotsSuccessResponseShape(t *testing.T) {
	runner := &fakeRunner{outcome: outcomeWithDays()}
	server := NewServer(config.Default(), runner)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/slots", strings.NewReader(validBody)))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Ada", runner.last.FirstName)

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			TotalSlots int                        `json:"total_slots"`
			TotalDays  int                        `json:"total_days"`
			Completed  bool                       `json:"completed"`
			Note       string                     `json:"note"`
			Days       map[string]engine.DaySlots `json:"days"`
			Slots      []engine.SlotRef           `json:"slots"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, 3, payload.Data.TotalSlots)
	assert.Equal(t, 2, payload.Data.TotalDays)
	assert.True(t, payload.Data.Completed)
	assert.Contains(t, payload.Data.Note, "2 days")
	require.Contains(t, payload.Data.Days, "Oct 28, 2025")
	assert.Equal(t, []string{"9:00", "10:00"}, payload.Data.Days["Oct 28, 2025"].Slots)
	require.Len(t, payload.Data.Slots, 3)
	assert.Equal(t, config.Default().Scrape.TimezoneLabel, payload.Data.Slots[0].GMT)
}

func TestSlotsEmptyOutcomeStillSucceeds(t *testing.T) {
	runner := &fakeRunner{outcome: engine.ScrapeOutcome{Days: engine.NewAggregate()}}
	server := NewServer(config.Default(), runner)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/slots", strings.NewReader(validBody)))
	require.Equal(t, http.StatusOK, recorder.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, true, payload["success"])
	data := payload["data"].(map[string]any)
	assert.Equal(t, float64(0), data["total_slots"])
	assert.Contains(t, data["note"], "No available booking slots")
}

func TestSlotsMethodNotAllowed(t *testing.T) {
	server := NewServer(config.Default(), &fakeRunner{})
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/slots", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}
