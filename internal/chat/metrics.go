package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	connectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "parley_connected_clients",
		Help: "Number of currently connected clients",
	})

	messagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_messages_total",
		Help: "Messages routed, by delivery kind",
	}, []string{"kind"})

	moderationActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_moderation_actions_total",
		Help: "Moderation actions applied, by action",
	}, []string{"action"})

	broadcastDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "parley_broadcast_seconds",
		Help:    "Time to fan one public message out to all recipients",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(connectedClients)
	prometheus.MustRegister(messagesTotal)
	prometheus.MustRegister(moderationActions)
	prometheus.MustRegister(broadcastDuration)
}
