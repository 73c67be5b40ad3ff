package utils

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes simulation progress to Prometheus
type Metrics struct {
	registry     *prometheus.Registry
	generations  prometheus.Counter
	population   prometheus.Gauge
	stepDuration prometheus.Histogram
}

// NewMetrics registers the simulation collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gol_generations_total",
			Help: "Total number of generations computed",
		}),
		population: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gol_population",
			Help: "Number of live cells in the current generation",
		}),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gol_step_duration_seconds",
			Help:    "Histogram of time spent computing one generation",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
	m.registry.MustRegister(m.generations, m.population, m.stepDuration)
	return m
}

// ObservePopulation records the live cell count of the displayed generation
func (m *Metrics) ObservePopulation(population int) {
	m.population.Set(float64(population))
}

// ObserveStep records one computed generation
func (m *Metrics) ObserveStep(d time.Duration) {
	m.generations.Inc()
	m.stepDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
