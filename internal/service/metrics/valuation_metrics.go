package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	SimulationCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "optionval",
			Subsystem: "valuation",
			Name:      "simulation_cache_total",
			Help:      "Simulation cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	AnalyticDeviation = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "optionval",
			Subsystem: "valuation",
			Name:      "analytic_deviation",
			Help:      "Absolute deviation of the MC price from the analytic reference",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SimulatedPaths = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "optionval",
			Subsystem: "valuation",
			Name:      "simulated_paths_total",
			Help:      "Total number of Monte Carlo paths generated",
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(SimulationCacheHits, AnalyticDeviation, SimulatedPaths)
	})
}
