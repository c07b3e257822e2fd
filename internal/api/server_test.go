package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airline_sim/internal/game"
	"airline_sim/internal/log"
	"airline_sim/internal/models"
	"airline_sim/internal/store"
)

func newTestServer(t *testing.T, cash int, cfg Config) (http.Handler, *store.Memory) {
	t.Helper()
	st := models.NewCompanyState()
	st.Company.Name = "Test Air"
	st.Cash = cash
	repo := store.NewMemory(st)
	cfg.Log = log.Discard()
	return New(game.New(repo, game.WithLogger(log.Discard())), cfg), repo
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t, 0, Config{})
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestBuyAircraft(t *testing.T) {
	h, repo := newTestServer(t, game.DefaultStartingCash, Config{})
	rec := do(t, h, http.MethodPost, "/fleet/buy", `{"type_code":"C337","name":"Skymaster One"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ac models.Aircraft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ac))
	assert.Equal(t, "C337", ac.TypeCode)
	assert.Equal(t, "Skymaster One", ac.Name)
	assert.Equal(t, 1, repo.Saves())

	rec = do(t, h, http.MethodGet, "/fleet/"+ac.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/company", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cash":4820000`)
}

func TestErrorKinds(t *testing.T) {
	h, repo := newTestServer(t, 100, Config{})

	rec := do(t, h, http.MethodPost, "/fleet/buy", `{"type_code":"X999"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorBody(t, rec)["kind"])

	rec = do(t, h, http.MethodPost, "/fleet/buy", `{"type_code":"C337"}`)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "insufficient_funds", errorBody(t, rec)["kind"])

	rec = do(t, h, http.MethodPost, "/fleet/buy", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", errorBody(t, rec)["kind"])

	rec = do(t, h, http.MethodGet, "/fleet/missing/maintenance", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Zero(t, repo.Saves())
}

func TestBadRequests(t *testing.T) {
	h, _ := newTestServer(t, 0, Config{})

	rec := do(t, h, http.MethodPost, "/fleet/buy", `{"type_code":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", errorBody(t, rec)["kind"])

	rec = do(t, h, http.MethodGet, "/ledger?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec)["error"], "limit")
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t, 0, Config{})
	rec := do(t, h, http.MethodOptions, "/fleet/buy", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRateLimit(t *testing.T) {
	h, _ := newTestServer(t, 0, Config{Rate: 1, Burst: 1})
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", errorBody(t, rec)["kind"])
}

func TestLoanOverLimitOverHTTP(t *testing.T) {
	h, repo := newTestServer(t, 0, Config{})
	rec := do(t, h, http.MethodPost, "/loans", `{"principal":60000000,"interest_rate_apr":0.05,"term_months":12,"bank_name":"Big Bank"}`)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Equal(t, "precondition_failed", errorBody(t, rec)["kind"])
	assert.Zero(t, repo.Saves())
}

func TestReferenceData(t *testing.T) {
	h, _ := newTestServer(t, 0, Config{})

	rec := do(t, h, http.MethodGet, "/services", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "catering")

	rec = do(t, h, http.MethodGet, "/airports/jfk/fuel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, rec.Body.String(), do(t, h, http.MethodGet, "/airports/JFK/fuel", "").Body.String())
}
