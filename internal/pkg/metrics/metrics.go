// Package metrics defines the Prometheus collectors exported by the lobby
// server and the HTTP middleware that feeds the request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lobbyd_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lobbyd_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lobbyd_active_connections",
			Help: "Currently registered websocket connections",
		},
	)

	OpenRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lobbyd_open_rooms",
			Help: "Rooms currently registered",
		},
	)

	RoomJoins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lobbyd_room_joins_total",
			Help: "Total successful room joins",
		},
	)

	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lobbyd_tokens_issued_total",
			Help: "Total auth tokens issued",
		},
	)

	HeartbeatTerminations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lobbyd_heartbeat_terminations_total",
			Help: "Connections terminated for missing a heartbeat",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lobbyd_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
	)
)
