package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_admin_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_admin_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	adminOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_admin_operations_total",
			Help: "Total number of admin operations",
		},
		[]string{"operation", "status"},
	)

	backendCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_admin_backend_calls_total",
			Help: "Total number of calls to the storefront backend",
		},
		[]string{"operation", "status"},
	)

	backendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_admin_backend_call_duration_seconds",
			Help:    "Duration of calls to the storefront backend",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		},
		[]string{"operation"},
	)
)

// PrometheusMiddleware 收集 Prometheus 指标
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
	}
}

// RecordAdminOperation 记录管理操作指标
func RecordAdminOperation(operation string, success bool) {
	adminOperations.WithLabelValues(operation, outcome(success)).Inc()
}

func RecordBackendCall(operation string, success bool, elapsed time.Duration) {
	backendCalls.WithLabelValues(operation, outcome(success)).Inc()
	backendCallDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
