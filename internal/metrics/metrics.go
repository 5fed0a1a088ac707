package metrics

import (
	"strconv"
	"time"

	"pastoral-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AuditEntries    *prometheus.CounterVec
	LoginAttempts   *prometheus.CounterVec
}

// New creates and registers all metrics on a private registry, so several
// instances can coexist in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pastoral_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pastoral_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		AuditEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pastoral_audit_entries_total",
			Help: "Audit ledger entries written, by table and action",
		}, []string{"target_table", "action"}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pastoral_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
	}
}

// IncrementAuditEntries counts one committed-or-pending audit write.
func (m *Metrics) IncrementAuditEntries(table, action string) {
	if m == nil {
		return
	}
	m.AuditEntries.WithLabelValues(table, action).Inc()
}

// IncrementLoginAttempts counts a login outcome ("success", "invalid", "throttled", "locked").
func (m *Metrics) IncrementLoginAttempts(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// Middleware records request count and latency keyed by the matched route pattern.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = apperr.Status(apperr.KindOf(err))
			}
		}
		route := c.Route().Path
		m.RequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
