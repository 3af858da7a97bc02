package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "suggester"

// Metrics exposes Prometheus collectors for suggestion traffic and catalog state
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration prometheus.Histogram
	resultsReturned prometheus.Histogram
	catalogEntries  prometheus.Gauge
	catalogReloads  *prometheus.CounterVec
}

// MustNewMetrics constructs and registers the collectors. Tests should pass a
// fresh prometheus.NewRegistry() to avoid duplicate registration panics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suggest_requests_total",
				Help:      "Suggestion requests by outcome.",
			},
			[]string{"status"},
		),
		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "suggest_request_duration_seconds",
				Help:      "Time spent ranking the catalog for one query.",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
		),
		resultsReturned: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "suggest_results_returned",
				Help:      "Number of suggestions returned per request.",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
			},
		),
		catalogEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_entries",
				Help:      "Entries in the live catalog.",
			},
		),
		catalogReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_reloads_total",
				Help:      "Catalog loads by outcome.",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(m.requests, m.requestDuration, m.resultsReturned, m.catalogEntries, m.catalogReloads)
	return m
}

// ObserveSuggest records one suggestion request
func (m *Metrics) ObserveSuggest(status string, elapsed time.Duration, results int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(status).Inc()
	if status == StatusOK {
		m.requestDuration.Observe(elapsed.Seconds())
		m.resultsReturned.Observe(float64(results))
	}
}

// ObserveReload records a catalog load attempt
func (m *Metrics) ObserveReload(err error, entries int) {
	if m == nil {
		return
	}
	if err != nil {
		m.catalogReloads.WithLabelValues(StatusError).Inc()
		return
	}
	m.catalogReloads.WithLabelValues(StatusOK).Inc()
	m.catalogEntries.Set(float64(entries))
}

// Outcome labels
const (
	StatusOK         = "ok"
	StatusBadRequest = "bad_request"
	StatusError      = "error"
)
