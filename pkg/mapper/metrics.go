package mapper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "oelib"

// Metrics counts identity-map and load activity per mapper. A nil *Metrics
// records nothing.
type Metrics struct {
	identityHits   *prometheus.CounterVec
	identityMisses *prometheus.CounterVec
	loads          *prometheus.CounterVec
	dead           *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		identityHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "identity_map_hits_total",
				Help:      "Total number of Find calls answered from the identity map",
			},
			[]string{"mapper"},
		),
		identityMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "identity_map_misses_total",
				Help:      "Total number of Find calls that created a ghost",
			},
			[]string{"mapper"},
		),
		loads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "record_loads_total",
				Help:      "Total number of ghost loads",
			},
			[]string{"mapper"},
		),
		dead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "record_dead_total",
				Help:      "Total number of records marked dead during a load",
			},
			[]string{"mapper"},
		),
	}
}

func (m *Metrics) hit(mapper string) {
	if m != nil {
		m.identityHits.WithLabelValues(mapper).Inc()
	}
}

func (m *Metrics) miss(mapper string) {
	if m != nil {
		m.identityMisses.WithLabelValues(mapper).Inc()
	}
}

func (m *Metrics) load(mapper string) {
	if m != nil {
		m.loads.WithLabelValues(mapper).Inc()
	}
}

func (m *Metrics) died(mapper string) {
	if m != nil {
		m.dead.WithLabelValues(mapper).Inc()
	}
}
