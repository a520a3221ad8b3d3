// Package prommetrics exports engine metrics to Prometheus.
package prommetrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/sieve"
)

var _ sieve.MetricsCollector = (*Collector)(nil)

// Collector implements sieve.MetricsCollector on Prometheus vectors.
//
// Example:
//
//	c := prommetrics.New("deals")
//	prometheus.MustRegister(c)
//	eng, _ := sieve.New(query, schema, sieve.WithMetricsCollector(c))
type Collector struct {
	latency    *prometheus.HistogramVec
	rows       *prometheus.CounterVec
	restricts  *prometheus.CounterVec
	candidates prometheus.Histogram
}

// New creates a collector. namespace prefixes every metric name and may be
// empty.
func New(namespace string) *Collector {
	return &Collector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sieve_execute_latency_seconds",
			Help:      "Latency of query executions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"restricted", "status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sieve_rows_total",
			Help:      "Rows evaluated and matched by query executions",
		}, []string{"stage"}),
		restricts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sieve_restrictions_total",
			Help:      "Index restriction attempts",
		}, []string{"restricted"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sieve_restriction_candidates",
			Help:      "Candidate records left by a successful restriction",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.latency.Describe(ch)
	c.rows.Describe(ch)
	c.restricts.Describe(ch)
	c.candidates.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.latency.Collect(ch)
	c.rows.Collect(ch)
	c.restricts.Collect(ch)
	c.candidates.Collect(ch)
}

// RecordExecute implements sieve.MetricsCollector.
func (c *Collector) RecordExecute(scanned, matched int, restricted bool, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.latency.WithLabelValues(strconv.FormatBool(restricted), status).Observe(d.Seconds())
	c.rows.WithLabelValues("scanned").Add(float64(scanned))
	c.rows.WithLabelValues("matched").Add(float64(matched))
}

// RecordRestrict implements sieve.MetricsCollector.
func (c *Collector) RecordRestrict(candidates int, restricted bool) {
	c.restricts.WithLabelValues(strconv.FormatBool(restricted)).Inc()
	if restricted {
		c.candidates.Observe(float64(candidates))
	}
}
