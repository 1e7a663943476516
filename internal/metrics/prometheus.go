// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "alumni"

// Manager owns every collector. All methods are safe on a nil receiver so
// callers that do not care about metrics can pass nil.
type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	matchingRequests *prometheus.CounterVec
	matchingDuration prometheus.Histogram
	matchingPoolSize prometheus.Gauge

	attendance         *prometheus.CounterVec
	conflictRetries    prometheus.Counter
	waitlistPromotions prometheus.Counter
}

type Option func(*Manager)

// WithRegistry registers collectors on r instead of a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{registry: prometheus.NewRegistry()}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.matchingRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "matching",
		Name:      "requests_total",
		Help:      "Mentor matching requests by result.",
	}, []string{"result"})

	m.matchingDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "matching",
		Name:      "duration_seconds",
		Help:      "Time spent loading and ranking the mentor pool.",
		Buckets:   prometheus.DefBuckets,
	})

	m.matchingPoolSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "matching",
		Name:      "pool_size",
		Help:      "Size of the last evaluated candidate pool.",
	})

	m.attendance = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "attendance_total",
		Help:      "Join and cancel outcomes.",
	}, []string{"operation", "outcome"})

	m.conflictRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "conflict_retries_total",
		Help:      "Attendance writes rejected by the version check and retried.",
	})

	m.waitlistPromotions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "waitlist_promotions_total",
		Help:      "Waitlisted users promoted to registrants.",
	})

	return m
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Manager) ObserveMatching(result string, poolSize int, d time.Duration) {
	if m == nil {
		return
	}
	m.matchingRequests.WithLabelValues(result).Inc()
	m.matchingDuration.Observe(d.Seconds())
	if poolSize >= 0 {
		m.matchingPoolSize.Set(float64(poolSize))
	}
}

func (m *Manager) IncAttendance(operation, outcome string) {
	if m == nil {
		return
	}
	m.attendance.WithLabelValues(operation, outcome).Inc()
}

func (m *Manager) IncConflictRetry() {
	if m == nil {
		return
	}
	m.conflictRetries.Inc()
}

func (m *Manager) IncPromotion() {
	if m == nil {
		return
	}
	m.waitlistPromotions.Inc()
}
