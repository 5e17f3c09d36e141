package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chat proxy outcomes
const (
	ChatRelayed     = "relayed"
	ChatUpstreamErr = "upstream_error"
	ChatUnavailable = "unavailable"
	ChatFailed      = "failed"
)

// Signal refresh results
const (
	RefreshOK    = "ok"
	RefreshStale = "stale"
	RefreshError = "error"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cryptem",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cryptem",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cryptem",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	chatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cryptem",
			Name:      "chat_requests_total",
			Help:      "Chat proxy requests by outcome.",
		},
		[]string{"outcome"},
	)

	signalRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cryptem",
			Subsystem: "signals",
			Name:      "refreshes_total",
			Help:      "Signal feed refreshes by result.",
		},
		[]string{"result"},
	)

	signalsCurrent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cryptem",
			Subsystem: "signals",
			Name:      "current",
			Help:      "Number of signals in the last good snapshot.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		chatRequests,
		signalRefreshes,
		signalsCurrent,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency per route template.
// Errors are rendered here so the final status is observed, then passed on
// for outer middleware; the error handler skips committed responses.
func Middleware(skip func(c echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip != nil && skip(c) {
				return next(c)
			}

			start := time.Now()
			httpInFlight.Inc()
			defer httpInFlight.Dec()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method

			httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
			httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// RecordChat counts one chat proxy request.
func RecordChat(outcome string) {
	chatRequests.WithLabelValues(outcome).Inc()
}

// RecordSignalRefresh counts one feed refresh; count is set on success.
func RecordSignalRefresh(result string, count int) {
	signalRefreshes.WithLabelValues(result).Inc()
	if result == RefreshOK {
		signalsCurrent.Set(float64(count))
	}
}
