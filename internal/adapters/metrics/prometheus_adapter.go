package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery results recorded by the dispatcher.
const (
	DeliveryDelivered = "delivered"
	DeliveryOffline   = "offline"
	DeliveryFailed    = "failed"
)

var (
	ActiveConnectionsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_active_connections",
			Help: "Number of identities with a registered WebSocket connection.",
		},
	)

	SupersededConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_superseded_connections_total",
			Help: "Registrations that replaced an existing connection for the same identity.",
		},
	)

	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_auth_failures_total",
			Help: "Rejected authentication attempts by transport.",
		},
		[]string{"transport"},
	)

	MessagesReceivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_received_total",
			Help: "Inbound chat frames accepted for processing.",
		},
	)

	MessagesMalformedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_malformed_total",
			Help: "Inbound chat frames rejected as malformed.",
		},
	)

	MessagesPersistedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_persisted_total",
			Help: "Chat messages durably stored.",
		},
	)

	PersistFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_persist_failures_total",
			Help: "Chat messages that could not be stored.",
		},
	)

	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_deliveries_total",
			Help: "Outbound frame delivery attempts by result.",
		},
		[]string{"result"},
	)

	CacheWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_cache_write_failures_total",
			Help: "Recency cache updates that failed.",
		},
	)

	CacheWritesDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_cache_writes_dropped_total",
			Help: "Recency cache updates discarded because the writer queue was full.",
		},
	)

	EventPublishFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_event_publish_failures_total",
			Help: "Chat events that could not be published to NATS.",
		},
	)

	BufferDropsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_outbound_buffer_drops_total",
			Help: "Outbound frames dropped because a connection's buffer was full.",
		},
		[]string{"policy"},
	)
)

// IncrementActiveConnections increments the active connections gauge.
func IncrementActiveConnections() {
	ActiveConnectionsGauge.Inc()
}

// DecrementActiveConnections decrements the active connections gauge.
func DecrementActiveConnections() {
	ActiveConnectionsGauge.Dec()
}

// IncrementDelivery records one delivery attempt with the given result.
func IncrementDelivery(result string) {
	DeliveriesTotal.WithLabelValues(result).Inc()
}

// IncrementAuthFailure records a rejected authentication on "websocket" or "http".
func IncrementAuthFailure(transport string) {
	AuthFailuresTotal.WithLabelValues(transport).Inc()
}

// IncrementBufferDrop records a frame dropped under the given backpressure policy.
func IncrementBufferDrop(policy string) {
	BufferDropsTotal.WithLabelValues(policy).Inc()
}
