package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlowe-fi/centsible/internal/engine"
	"github.com/marlowe-fi/centsible/internal/model"
	"github.com/marlowe-fi/centsible/internal/storage"
	"github.com/marlowe-fi/centsible/internal/synthesis"
)

func newTestServer(t *testing.T, result *synthesis.Result) (*Server, *storage.SQLiteStorage) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	logger := slog.New(slog.NewTextHandler(logWriter{t}, nil))
	eng := engine.New(store, engine.NewMockSynthesizer(result), &engine.MockSummaryUpdater{}, logger)
	return NewServer(eng, store, logger), store
}

type logWriter struct{ t *testing.T }

func (w logWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestCheckInEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &synthesis.Result{ResponseText: "Noted."})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/users/user-1/checkins",
		model.CheckInRequest{Message: "Paid 200 extra on the card"})

	require.Equal(t, http.StatusOK, rec.Code)

	var result model.CheckInResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.NotEmpty(t, result.CheckInID)
	assert.Equal(t, "Noted.", result.ResponseText)
	assert.Nil(t, result.Plan)
}

func TestCheckInEndpointValidation(t *testing.T) {
	srv, _ := newTestServer(t, &synthesis.Result{ResponseText: "Noted."})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/users/user-1/checkins",
		model.CheckInRequest{Message: "   "})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body["error"], "message")
}

func TestCheckInEndpointBadJSON(t *testing.T) {
	srv, _ := newTestServer(t, &synthesis.Result{ResponseText: "Noted."})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/user-1/checkins",
		bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStateEndpoint(t *testing.T) {
	srv, store := newTestServer(t, &synthesis.Result{ResponseText: "Noted."})

	state, err := store.GetOrCreateFinancialState(context.Background(), "user-1")
	require.NoError(t, err)
	state.MonthlyIncome = 5000
	require.NoError(t, store.SaveFinancialState(context.Background(), state))

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/users/user-1/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.FinancialState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.InDelta(t, 5000, got.MonthlyIncome, 0.001)
}

func TestGetPlanEndpoint(t *testing.T) {
	srv, store := newTestServer(t, &synthesis.Result{ResponseText: "Noted."})
	ctx := context.Background()

	// No plan yet.
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/users/user-1/plan", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, store.SaveCheckIn(ctx, &model.CheckIn{
		ID: "ci-1", UserID: "user-1", Message: "update", CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, store.SavePlan(ctx, &model.FinancialPlan{
		ID:               "plan-1",
		UserID:           "user-1",
		CheckInID:        "ci-1",
		BudgetAllocation: map[string]float64{"essentials": 3000},
		CreatedAt:        time.Now().UTC(),
	}))

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/users/user-1/plan", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.FinancialPlan
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "plan-1", got.ID)
}

func TestEraseEndpoint(t *testing.T) {
	srv, store := newTestServer(t, &synthesis.Result{ResponseText: "Noted."})
	ctx := context.Background()

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/users/user-1/checkins",
		model.CheckInRequest{Message: "update"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/users/user-1/data", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	checkIns, err := store.ListCheckIns(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Empty(t, checkIns)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &synthesis.Result{ResponseText: "Noted."})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}
