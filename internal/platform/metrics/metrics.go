package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the planner's Prometheus collectors.
type Metrics struct {
	plans    *prometheus.CounterVec
	degraded prometheus.Counter
	requests *prometheus.HistogramVec
}

// New registers planner metrics on reg. A nil registerer defaults to the global one.
// Collectors already registered on reg are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ev_plans_total",
		Help: "Planning requests by outcome (stop decision or error code)",
	}, []string{"outcome"})
	degraded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ev_station_provider_degraded_total",
		Help: "Planning requests where the station provider failed and no candidates were used",
	})
	requests := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "status"})

	var err error
	if plans, err = register(reg, plans); err != nil {
		return nil, err
	}
	if degraded, err = register(reg, degraded); err != nil {
		return nil, err
	}
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}

	return &Metrics{plans: plans, degraded: degraded, requests: requests}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPlan counts one planning outcome.
func (m *Metrics) RecordPlan(outcome string) {
	if m == nil {
		return
	}
	m.plans.WithLabelValues(outcome).Inc()
}

// RecordDegraded counts a plan computed without station provider data.
func (m *Metrics) RecordDegraded() {
	if m == nil {
		return
	}
	m.degraded.Inc()
}

// ObserveRequest records HTTP latency.
func (m *Metrics) ObserveRequest(path, method string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Observe(dur.Seconds())
}
