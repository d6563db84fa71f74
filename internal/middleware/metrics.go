package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lantern_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CollaborationReviews counts collaboration review decisions by outcome.
	CollaborationReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lantern_collaboration_reviews_total",
		Help: "Total number of collaboration review decisions by outcome",
	}, []string{"outcome"})

	// WebSocketConnections is the gauge of active realtime connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lantern_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketDrops counts messages dropped due to backpressure by reason.
	WebSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lantern_websocket_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})
)

var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the Prometheus HTTP middleware. The instance is shared;
// fiberprometheus registers its collectors globally and may only do so once
// per process.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.New(serviceName)
	})
	return promInstance
}

// RegisterMetrics attaches the Prometheus middleware to the app and exposes
// the scrape endpoint.
func RegisterMetrics(app *fiber.App, prom *fiberprometheus.FiberPrometheus) {
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)
}
