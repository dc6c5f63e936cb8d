package middleware

import (
	"strconv"
	"time"

	"storefront/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

const unmatchedRoute = "unmatched"

// MetricsMiddleware records the request counter and latency histogram
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Handle observes every request under its route template, so /products/:id
// is one series regardless of the id.
func (m *MetricsMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = unmatchedRoute
		}

		m.metrics.ObserveHTTP(
			c.Request().Method,
			route,
			strconv.Itoa(c.Response().Status),
			time.Since(start).Seconds(),
		)

		return nil
	}
}
