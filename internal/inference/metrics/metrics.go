package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for sampling and optimization runs.
type Metrics struct {
	// Draws kept across all chains
	DrawsTotal prometheus.Counter

	// Wall time of a single chain
	ChainDuration prometheus.Histogram

	// Fraction of accepted proposals per chain, recorded after warmup
	AcceptanceRate prometheus.Histogram

	// Iterations an optimizer ran before stopping, by outcome
	OptimizerIterations *prometheus.HistogramVec

	// Terminal operations refused before reaching a collaborator
	RejectedOperations *prometheus.CounterVec
}

// New creates a Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DrawsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "credence_sampler_draws_total",
			Help: "Total number of draws kept across all chains",
		}),

		ChainDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "credence_sampler_chain_duration_seconds",
			Help:    "Duration of a single sampling chain including warmup",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),

		AcceptanceRate: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "credence_sampler_acceptance_rate",
			Help:    "Fraction of accepted proposals per chain after warmup",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),

		OptimizerIterations: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "credence_optimizer_iterations",
			Help:    "Iterations run by the optimizer before stopping",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"outcome"}), // outcome: "converged", "stalled", "max_iterations"

		RejectedOperations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credence_rejected_operations_total",
			Help: "Terminal operations rejected before delegating to a collaborator",
		}, []string{"operation"}),
	}
}

// ObserveChain records one finished chain.
func (m *Metrics) ObserveChain(d time.Duration, draws int, acceptanceRate float64) {
	if m != nil {
		m.ChainDuration.Observe(d.Seconds())
		m.DrawsTotal.Add(float64(draws))
		m.AcceptanceRate.Observe(acceptanceRate)
	}
}

// ObserveOptimizer records how many iterations an optimization took.
func (m *Metrics) ObserveOptimizer(outcome string, iterations int) {
	if m != nil {
		m.OptimizerIterations.WithLabelValues(outcome).Observe(float64(iterations))
	}
}

// IncrementRejected records a refused terminal operation.
func (m *Metrics) IncrementRejected(operation string) {
	if m != nil {
		m.RejectedOperations.WithLabelValues(operation).Inc()
	}
}
