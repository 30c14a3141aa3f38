package ingest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records load-cycle counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	rowsParsed         *prometheus.CounterVec
	parseDuration      *prometheus.HistogramVec
	loadFailures       prometheus.Counter
	validationWarnings prometheus.Gauge
}

// NewMetrics creates the load metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rowsParsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wfdash_rows_parsed_total",
				Help: "Total number of CSV rows parsed",
			},
			[]string{"file"}, // file: cases, actions, sites
		),
		parseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wfdash_parse_duration_seconds",
				Help:    "Time taken to parse one CSV file",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"file"},
		),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wfdash_load_failures_total",
			Help: "Total number of parse-fatal load failures",
		}),
		validationWarnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wfdash_validation_warnings",
			Help: "Number of validation warnings in the last loaded dataset",
		}),
	}
	m.registry.MustRegister(m.rowsParsed, m.parseDuration, m.loadFailures, m.validationWarnings)
	return m
}

// Registry exposes the underlying registry for export.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeParse(file string, rows int, d time.Duration) {
	if m == nil {
		return
	}
	m.rowsParsed.WithLabelValues(file).Add(float64(rows))
	m.parseDuration.WithLabelValues(file).Observe(d.Seconds())
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.loadFailures.Inc()
}

func (m *Metrics) observeValidation(warnings int) {
	if m == nil {
		return
	}
	m.validationWarnings.Set(float64(warnings))
}
