package telemetry

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"storefront/internal/logging"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests served by the storefront",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	backendCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_backend_calls_total",
			Help: "Calls made to the stock management API",
		},
		[]string{"resource", "operation", "status"},
	)

	backendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_backend_call_duration_seconds",
			Help:    "Latency of calls to the stock management API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource", "operation"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_notifications_total",
			Help: "Notifications shown to users, by level",
		},
		[]string{"level"},
	)
)

// Middleware records request count and latency labelled by the route
// pattern, so /products/:id is one series regardless of the id.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				logging.HandleError(c, err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method

			httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// ObserveBackendCall records one call to the backend. status is the HTTP
// status, or 0 when no response was received.
func ObserveBackendCall(resource, operation string, status int, took time.Duration) {
	label := strconv.Itoa(status)
	if status == 0 {
		label = "error"
	}
	backendCallsTotal.WithLabelValues(resource, operation, label).Inc()
	backendCallDuration.WithLabelValues(resource, operation).Observe(took.Seconds())
}

func ObserveNotification(level string) {
	notificationsTotal.WithLabelValues(level).Inc()
}
