package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/budgetwise/budgetwise/internal/config"
	"github.com/budgetwise/budgetwise/pkg/planner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication() *Application {
	cfg := config.Defaults()
	cfg.Budget.Total = 100000
	return NewApplication(cfg)
}

func request(t *testing.T, h http.Handler, method, path, sessionId, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if sessionId != "" {
		req.Header.Set(SessionHeader, sessionId)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSessionMiddleware(t *testing.T) {
	h := newTestApplication().Handler()

	t.Run("should reject malformed session id", func(t *testing.T) {
		rr := request(t, h, "GET", "/api/items", "not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should reject unknown session", func(t *testing.T) {
		rr := request(t, h, "GET", "/api/items", uuid.NewString(), "")

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("should reject requests without session", func(t *testing.T) {
		rr := request(t, h, "GET", "/api/summary", "", "")

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("should allow options without session", func(t *testing.T) {
		rr := request(t, h, "GET", "/api/options", "", "")

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestApplication_PlanningFlow(t *testing.T) {
	h := newTestApplication().Handler()

	// given
	rr := request(t, h, "POST", "/api/session", "", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var sess planner.SessionDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&sess))

	// when
	rr = request(t, h, "POST", "/api/items", sess.Id,
		`{"name":"Transport","cost":"2000","type":"recurring","frequency":"workdays","durationWeeks":"4","category":"transportation"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = request(t, h, "POST", "/api/items", sess.Id,
		`{"name":"Rent","cost":"30000","type":"one-time","category":"rent"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	// then
	rr = request(t, h, "GET", "/api/summary", sess.Id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var summary planner.SummaryDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&summary))
	assert.Equal(t, 70000.0, summary.TotalExpenses)
	assert.Equal(t, 30000.0, summary.RemainingBudget)

	// sessions are isolated
	rr = request(t, h, "POST", "/api/session", "", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var other planner.SessionDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&other))
	rr = request(t, h, "GET", "/api/items", other.Id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	// ended sessions are gone
	rr = request(t, h, "DELETE", "/api/session", sess.Id, "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr = request(t, h, "GET", "/api/items", sess.Id, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
