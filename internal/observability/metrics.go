package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the atomizer's Prometheus metrics on its own registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	Runs            *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	SpeciesByKind   *prometheus.CounterVec
	BindingFailures prometheus.Counter
	VotesApplied    prometheus.Counter
	Assumptions     *prometheus.CounterVec

	OracleRequests *prometheus.CounterVec
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Atomization runs by status",
			},
			[]string{"status"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of one atomization run",
				Buckets:   prometheus.DefBuckets,
			},
		),
		SpeciesByKind: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "species_total",
				Help:      "Atomized species by final composition kind",
			},
			[]string{"kind"},
		),
		BindingFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "binding_failures_total",
				Help:      "Complexes left unresolved after voting",
			},
		),
		VotesApplied: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "binding_votes_applied_total",
				Help:      "Winning binding votes that added components",
			},
		),
		Assumptions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assumptions_total",
				Help:      "Assumption log entries by kind",
			},
			[]string{"kind"},
		),
		OracleRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "oracle_requests_total",
				Help:      "Interaction oracle lookups by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "oracle_cache_hits_total",
				Help:      "Oracle answers served from cache",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "oracle_cache_misses_total",
				Help:      "Oracle lookups that missed the cache",
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		c.Runs,
		c.RunDuration,
		c.SpeciesByKind,
		c.BindingFailures,
		c.VotesApplied,
		c.Assumptions,
		c.OracleRequests,
		c.CacheHits,
		c.CacheMisses,
		c.HTTPRequests,
		c.HTTPDuration,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves this collector's registry.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordRun(status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Runs.WithLabelValues(status).Inc()
	c.RunDuration.Observe(elapsed.Seconds())
}

func (c *Collector) RecordSpecies(kind string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.SpeciesByKind.WithLabelValues(kind).Add(float64(n))
}

func (c *Collector) RecordBindingFailures(n int) {
	if c == nil || n == 0 {
		return
	}
	c.BindingFailures.Add(float64(n))
}

func (c *Collector) RecordVotes(n int) {
	if c == nil || n == 0 {
		return
	}
	c.VotesApplied.Add(float64(n))
}

func (c *Collector) RecordAssumptions(kind string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.Assumptions.WithLabelValues(kind).Add(float64(n))
}

func (c *Collector) RecordOracle(operation, outcome string) {
	if c == nil {
		return
	}
	c.OracleRequests.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) RecordCache(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.CacheHits.Inc()
		return
	}
	c.CacheMisses.Inc()
}

func (c *Collector) RecordHTTP(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, http.StatusText(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
