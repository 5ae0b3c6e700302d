package handler

import (
	"net/http"
	"time"

	"wellbeing-service/prometheus"

	"github.com/labstack/echo/v4"
)

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "wellbeing-service",
		"compliance": echo.Map{
			"gdpr":                   true,
			"professional_oversight": true,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// MetricsHandler exposes the Prometheus scrape endpoint
func MetricsHandler(c echo.Context) error {
	handler := prometheus.GetPrometheusHandler()
	handler.ServeHTTP(c.Response(), c.Request())
	return nil
}
