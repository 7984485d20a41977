package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks catalog writes, rejected writes and evolution chain sizes.
type Metrics struct {
	registry *prometheus.Registry

	Writes         *prometheus.CounterVec
	Rejections     *prometheus.CounterVec
	ChainLength    prometheus.Histogram
	BattleCompares prometheus.Counter
}

// New registers every collector on a fresh registry, so several instances can
// coexist (tests create one per service).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Writes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "localdex_catalog_writes_total",
			Help: "Successful catalog writes by entity and operation",
		}, []string{"entity", "op"}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "localdex_catalog_rejections_total",
			Help: "Catalog writes rejected by validation or integrity checks",
		}, []string{"reason"}),
		ChainLength: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "localdex_evolution_chain_length",
			Help:    "Length of resolved evolution chains",
			Buckets: []float64{1, 2, 3, 4, 6, 8},
		}),
		BattleCompares: factory.NewCounter(prometheus.CounterOpts{
			Name: "localdex_battle_comparisons_total",
			Help: "Battle power comparisons served",
		}),
	}
}

func (m *Metrics) IncWrite(entity, op string) {
	if m == nil {
		return
	}
	m.Writes.WithLabelValues(entity, op).Inc()
}

func (m *Metrics) IncRejection(reason string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveChain(length int) {
	if m == nil {
		return
	}
	m.ChainLength.Observe(float64(length))
}

func (m *Metrics) IncCompare() {
	if m == nil {
		return
	}
	m.BattleCompares.Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
