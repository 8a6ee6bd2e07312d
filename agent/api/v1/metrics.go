package v1

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dshare",
		Subsystem: "agent",
		Name:      "http_requests_total",
		Help:      "Total agent HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dshare",
		Subsystem: "agent",
		Name:      "http_request_duration_seconds",
		Help:      "Agent HTTP request duration in seconds. Export changes include the exportfs reload.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration)
}

func MetricsHandler() echo.HandlerFunc {
	h := promhttp.Handler()
	return func(c *echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}

// MetricsMiddleware counts and times requests per route. Scrapes of
// /metrics itself are not recorded.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			if c.Request().URL.Path == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)

			method := c.Request().Method
			route := c.RouteInfo().Path
			if route == "" {
				route = "unmatched"
			}
			code := strconv.Itoa(c.Response().(*echo.Response).Status)

			httpRequestsTotal.WithLabelValues(method, route, code).Inc()
			httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())

			log.Debug().
				Str("method", method).
				Str("route", route).
				Str("code", code).
				Str("client", c.RealIP()).
				Dur("duration", elapsed).
				Msg("agent request")

			return err
		}
	}
}
