package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector is a Recorder backed by Prometheus collectors on a private registry.
type Collector struct {
	registry      *prometheus.Registry
	fetchAttempts *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	lookups       *prometheus.CounterVec
}

// NewCollector creates and registers the lyrics metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		fetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lyr",
			Name:      "fetch_attempts_total",
			Help:      "Lyrics source attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lyr",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent on a single lyrics source attempt.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lyr",
			Name:      "lookups_total",
			Help:      "Lookups across the configured sources by result.",
		}, []string{"result"}),
	}
	c.registry.MustRegister(
		c.fetchAttempts,
		c.fetchDuration,
		c.lookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the registry for HTTP handlers.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveFetch records one attempt against a single source.
func (c *Collector) ObserveFetch(source string, outcome Outcome, elapsed time.Duration) {
	c.fetchAttempts.WithLabelValues(source, string(outcome)).Inc()
	c.fetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveLookup records the overall result of trying the configured sources.
func (c *Collector) ObserveLookup(found bool) {
	result := "not_found"
	if found {
		result = "found"
	}
	c.lookups.WithLabelValues(result).Inc()
}
