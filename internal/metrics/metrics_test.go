package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestInstrument_UsesRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/students/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	out := scrape(t, m)
	assert.Contains(t, out, `http_requests_total{method="GET",route="/students/{id}",status="204"} 3`)
	assert.Contains(t, out, "http_in_flight_requests 0")
	assert.NotContains(t, out, `route="/students/a"`)
}

func TestAuthOutcome(t *testing.T) {
	m := New()

	m.AuthOutcome("login", OutcomeFailure)
	m.AuthOutcome("login", OutcomeFailure)
	m.AuthOutcome("refresh", OutcomeSuccess)

	out := scrape(t, m)
	assert.Contains(t, out, `auth_outcomes_total{operation="login",outcome="failure"} 2`)
	assert.Contains(t, out, `auth_outcomes_total{operation="refresh",outcome="success"} 1`)

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.AuthOutcome("login", OutcomeSuccess) })
}
