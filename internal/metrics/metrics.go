package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// Metrics holds the service's collectors. A nil *Metrics records nothing.
type Metrics struct {
	requestTotal    *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	driftRuns       *prometheus.CounterVec
	driftDuration   prometheus.Histogram
	lookupFailures  *prometheus.CounterVec
	discardedTotal  *prometheus.CounterVec
	rateLimitedHits *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "release_tracker",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "release_tracker",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		driftRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "release_tracker",
			Subsystem: "drift",
			Name:      "runs_total",
			Help:      "Drift detection runs by outcome",
		}, []string{"outcome"}),
		driftDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "release_tracker",
			Subsystem: "drift",
			Name:      "run_duration_seconds",
			Help:      "Duration of drift detection runs",
			Buckets:   histogramBuckets,
		}),
		lookupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "release_tracker",
			Subsystem: "drift",
			Name:      "lookup_failures_total",
			Help:      "Release store lookups that failed during drift detection",
		}, []string{"application"}),
		discardedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "release_tracker",
			Subsystem: "drift",
			Name:      "discarded_releases_total",
			Help:      "Releases skipped because their version is not a semantic version",
		}, []string{"application"}),
		rateLimitedHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "release_tracker",
			Subsystem: "http",
			Name:      "rate_limit_hits_total",
			Help:      "Number of rate-limited responses",
		}, []string{"route"}),
	}

	collectors := []prometheus.Collector{
		m.requestTotal, m.requestLatency, m.driftRuns, m.driftDuration,
		m.lookupFailures, m.discardedTotal, m.rateLimitedHits,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "route": route, "status": strconv.Itoa(status)}
	m.requestTotal.With(labels).Inc()
	m.requestLatency.With(labels).Observe(duration.Seconds())
}

func (m *Metrics) ObserveRateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimitedHits.WithLabelValues(route).Inc()
}

// ObserveRun implements drift.Observer.
func (m *Metrics) ObserveRun(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.driftRuns.WithLabelValues(outcome).Inc()
	m.driftDuration.Observe(duration.Seconds())
}

// ObserveLookupFailure implements drift.Observer.
func (m *Metrics) ObserveLookupFailure(application string) {
	if m == nil {
		return
	}
	m.lookupFailures.WithLabelValues(application).Inc()
}

// ObserveDiscarded implements drift.Observer.
func (m *Metrics) ObserveDiscarded(application string, count int) {
	if m == nil {
		return
	}
	m.discardedTotal.WithLabelValues(application).Add(float64(count))
}
