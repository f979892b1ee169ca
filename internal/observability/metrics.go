package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	latencySeconds        *prometheus.HistogramVec
	errorsTotal           *prometheus.CounterVec
	changefeedConnections prometheus.Gauge
	changefeedEventsTotal *prometheus.CounterVec
	drinkUpdatesTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tally_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		changefeedConnections = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tally_changefeed_connections",
			Help: "Number of websocket change-feed subscribers currently connected.",
		})

		changefeedEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_changefeed_events_total",
			Help: "Total change-feed events published, by collection and event type.",
		}, []string{"collection", "event"})

		drinkUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_drink_updates_total",
			Help: "Total drink counter updates applied, by direction.",
		}, []string{"direction"})

		prometheus.MustRegister(
			requestsTotal,
			latencySeconds,
			errorsTotal,
			changefeedConnections,
			changefeedEventsTotal,
			drinkUpdatesTotal,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// ChangefeedConnections exposes the gauge of live change-feed subscribers.
func ChangefeedConnections() prometheus.Gauge {
	RegisterMetrics()
	return changefeedConnections
}

// ChangefeedEvents exposes the counter of published change-feed events.
func ChangefeedEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return changefeedEventsTotal
}

// DrinkUpdates exposes the counter of applied drink counter updates.
func DrinkUpdates() *prometheus.CounterVec {
	RegisterMetrics()
	return drinkUpdatesTotal
}

// MetricsHandler exposes the Prometheus scrape endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
