package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.IncWrite("pokemon", "create")
	m.IncWrite("pokemon", "create")
	m.IncRejection("duplicate_name")
	m.IncCompare()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Writes.WithLabelValues("pokemon", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues("duplicate_name")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BattleCompares))

	// a second instance must not collide with the first
	assert.NotPanics(t, func() { New() })
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncWrite("type", "delete")
		m.IncRejection("validation")
		m.ObserveChain(3)
		m.IncCompare()
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveChain(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "localdex_evolution_chain_length_count 1")
}
