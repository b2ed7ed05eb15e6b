package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors of the API. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	StoreFailures *prometheus.CounterVec
	GatewayCalls  *prometheus.CounterVec
	CacheHits     *prometheus.CounterVec
	CacheMisses   *prometheus.CounterVec
	LoginAttempts *prometheus.CounterVec
}

// New creates a Metrics instance registered on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		StoreFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_query_failures_total",
				Help: "Lead store queries that failed and were degraded to an empty result",
			},
			[]string{"operation"},
		),
		GatewayCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_calls_total",
				Help: "Calls to the WhatsApp gateway by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_cache_hits_total",
				Help: "Dashboard reports served from cache",
			},
			[]string{"report"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_cache_misses_total",
				Help: "Dashboard reports computed from the store",
			},
			[]string{"report"},
		),
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware creates an Echo middleware recording request counts and latency per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(c.Request().Method, path, status).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// RecordStoreFailure counts a degraded store query.
func (m *Metrics) RecordStoreFailure(operation string) {
	if m == nil {
		return
	}
	m.StoreFailures.WithLabelValues(operation).Inc()
}

// RecordGatewayCall counts a gateway request.
func (m *Metrics) RecordGatewayCall(endpoint string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.GatewayCalls.WithLabelValues(endpoint, outcome).Inc()
}

// RecordCache counts a report cache lookup.
func (m *Metrics) RecordCache(report string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.WithLabelValues(report).Inc()
		return
	}
	m.CacheMisses.WithLabelValues(report).Inc()
}

// RecordLoginAttempt increments the login attempts counter.
func (m *Metrics) RecordLoginAttempt(success bool) {
	if m == nil {
		return
	}
	status := "failed"
	if success {
		status = "success"
	}
	m.LoginAttempts.WithLabelValues(status).Inc()
}
