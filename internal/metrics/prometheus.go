package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	moves         *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
	phaseResults  *prometheus.CounterVec
	maxCoLocation *prometheus.GaugeVec
	optimalBound  prometheus.Gauge
}

// Compile-time assertion that PrometheusCollector implements Collector.
var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: metrics namespace (defaults to "sudscale" if empty)
//
// Metrics are registered lazily on first use.
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "sudscale"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.moves = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "migration",
			Name:      "moves_total",
			Help:      "Total fragments moved by mode and placement tier (optimal,planB,planC,repair).",
		}, []string{"mode", "tier"})

		p.phaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "migration",
			Name:      "duration_seconds",
			Help:      "Duration of migrations in seconds by mode.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~4min
		}, []string{"mode"})

		p.phaseResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "migration",
			Name:      "results_total",
			Help:      "Finished migrations by mode and outcome (optimal,suboptimal).",
		}, []string{"mode", "result"})

		p.maxCoLocation = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "layout",
			Name:      "max_colocation",
			Help:      "Largest co-location count between two active nodes after the latest migration.",
		}, []string{"mode"})

		p.optimalBound = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "layout",
			Name:      "optimal_bound",
			Help:      "Optimal co-location bound of the latest migration target.",
		})

		p.reg.MustRegister(
			p.moves,
			p.phaseDuration,
			p.phaseResults,
			p.maxCoLocation,
			p.optimalBound,
		)
	})
}

// ObserveMove increments the move counter.
func (p *PrometheusCollector) ObserveMove(mode, tier string) {
	p.ensureRegistered()
	p.moves.WithLabelValues(mode, tier).Inc()
}

// ObservePhase records the duration and outcome of a migration.
func (p *PrometheusCollector) ObservePhase(mode string, seconds float64, optimum bool) {
	p.ensureRegistered()
	p.phaseDuration.WithLabelValues(mode).Observe(seconds)
	result := "optimal"
	if !optimum {
		result = "suboptimal"
	}
	p.phaseResults.WithLabelValues(mode, result).Inc()
}

// SetMaxCoLocation sets the largest co-location count gauge.
func (p *PrometheusCollector) SetMaxCoLocation(mode string, value int) {
	p.ensureRegistered()
	p.maxCoLocation.WithLabelValues(mode).Set(float64(value))
}

// SetOptimalBound sets the optimal bound gauge.
func (p *PrometheusCollector) SetOptimalBound(value int) {
	p.ensureRegistered()
	p.optimalBound.Set(float64(value))
}
