package application

import (
	"context"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/metrics"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// Dispatcher delivers outbound frames to connections found in the registry.
type Dispatcher struct {
	logger   domain.Logger
	registry *ConnectionManager
}

// NewDispatcher creates a Dispatcher over the given registry.
func NewDispatcher(logger domain.Logger, registry *ConnectionManager) *Dispatcher {
	return &Dispatcher{logger: logger, registry: registry}
}

// SendTo queues payload on userID's connection. It reports false when the user has no registered
// connection or the write was rejected; neither case is an error for the caller.
func (d *Dispatcher) SendTo(ctx context.Context, userID int64, payload any) bool {
	conn, ok := d.registry.Lookup(userID)
	if !ok {
		metrics.IncrementDelivery(metrics.DeliveryOffline)
		d.logger.Debug(ctx, "Recipient not connected, frame dropped", "recipient_id", userID)
		return false
	}
	return d.write(ctx, conn, payload)
}

// BroadcastAll queues payload on every registered connection and returns how many accepted it.
func (d *Dispatcher) BroadcastAll(ctx context.Context, payload any) int {
	delivered := 0
	for _, conn := range d.registry.Snapshot() {
		if d.write(ctx, conn, payload) {
			delivered++
		}
	}
	d.logger.Info(ctx, "Broadcast dispatched", "delivered", delivered)
	return delivered
}

func (d *Dispatcher) write(ctx context.Context, conn domain.ManagedConnection, payload any) bool {
	if err := conn.WriteJSON(payload); err != nil {
		metrics.IncrementDelivery(metrics.DeliveryFailed)
		d.logger.Warn(ctx, "Failed to queue frame for recipient",
			"recipient_id", conn.UserID(),
			"remote_addr", conn.RemoteAddr(),
			"error", err.Error(),
		)
		return false
	}
	metrics.IncrementDelivery(metrics.DeliveryDelivered)
	return true
}
