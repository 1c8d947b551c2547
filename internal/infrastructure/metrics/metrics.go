package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WSConnections tracks currently open websocket connections.
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "momo_ws_connections",
		Help: "Number of open websocket connections.",
	})

	// MessagesIngested counts messages accepted by the ingestion pipeline.
	MessagesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "momo_messages_ingested_total",
		Help: "Messages durably persisted.",
	})

	// EventsBroadcast counts realtime events fanned out, by event type.
	EventsBroadcast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momo_events_broadcast_total",
		Help: "Realtime events delivered to connections.",
	}, []string{"type"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "momo_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// GinMiddleware records request latency per route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
