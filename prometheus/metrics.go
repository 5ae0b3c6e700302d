package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wellbeing_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wellbeing_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Assessment submissions by family
	AssessmentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellbeing_assessments_total",
			Help: "Total number of submitted assessments",
		},
		[]string{"type"}, // "disc" or "mental_health"
	)

	// Risk record operations
	RiskOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellbeing_risk_operations_total",
			Help: "Total number of psychosocial risk operations",
		},
		[]string{"operation"}, // "create", "list", "transition"
	)

	// Dashboard aggregation requests
	DashboardRequestCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wellbeing_dashboard_requests_total",
			Help: "Total number of dashboard metric aggregations",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellbeing_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellbeing_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "missing_token", "invalid_token", "stale_token", etc.
	)

	DashboardErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellbeing_dashboard_errors_total",
			Help: "Total number of dashboard aggregation errors",
		},
		[]string{"type"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wellbeing_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wellbeing_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)

	// Dashboard aggregation duration
	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wellbeing_aggregation_duration_seconds",
			Help:    "Duration of a full dashboard aggregation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Gauge metrics
var (
	// Active tokens
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wellbeing_active_tokens",
			Help: "Number of currently active authentication tokens",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wellbeing_info",
			Help: "Information about the wellbeing service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(AssessmentCounter)
	prometheus.MustRegister(RiskOperationCounter)
	prometheus.MustRegister(DashboardRequestCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(DashboardErrorCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
	prometheus.MustRegister(AggregationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// TrackAggregation measures the duration of a full dashboard aggregation
func TrackAggregation() func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		AggregationDuration.Observe(time.Since(startTime).Seconds())
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// IncreaseActiveTokens increments the active tokens gauge
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// DecreaseActiveTokens decrements the active tokens gauge
func DecreaseActiveTokens() {
	ActiveTokensGauge.Dec()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordDashboardError records a dashboard aggregation error by type
func RecordDashboardError(errorType string) {
	DashboardErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordAssessment records a submitted assessment by family
func RecordAssessment(assessmentType string) {
	AssessmentCounter.With(prometheus.Labels{"type": assessmentType}).Inc()
}

// RecordRiskOperation records a psychosocial risk operation
func RecordRiskOperation(operation string) {
	RiskOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}
