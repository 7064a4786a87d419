package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_active_connections",
		Help: "Currently open WebSocket connections.",
	})
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_active_rooms",
		Help: "Rooms currently present in the registry.",
	})
	RelayedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "realtime_relayed_messages_total",
		Help: "Point-to-point signaling messages delivered.",
	})
	Broadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "realtime_broadcasts_total",
		Help: "Room-wide events fanned out (roster, chat, join/leave).",
	})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
