package application

import (
	"context"
	"sync"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/metrics"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
	"gitlab.com/timkado/api/alumni-chat-service/pkg/safego"

	"github.com/coder/websocket"
)

// RegisterConnection maps userID to conn, replacing any existing mapping, and returns the replaced
// connection (nil if there was none). The replaced connection keeps running unless
// app.close_superseded_connections is set.
func (cm *ConnectionManager) RegisterConnection(userID int64, conn domain.ManagedConnection) domain.ManagedConnection {
	prevVal, loaded := cm.activeConnections.Swap(userID, conn)
	if !loaded {
		cm.activeCount.Add(1)
		metrics.IncrementActiveConnections()
		cm.logger.Info(conn.Context(), "WebSocket connection registered", "user_id", userID, "remote_addr", conn.RemoteAddr())
		return nil
	}

	prev, _ := prevVal.(domain.ManagedConnection)
	if prev == nil || prev == conn {
		return nil
	}

	metrics.SupersededConnectionsTotal.Inc()
	cm.logger.Warn(conn.Context(), "WebSocket connection superseded an existing one for the same user",
		"user_id", userID,
		"remote_addr", conn.RemoteAddr(),
		"previous_remote_addr", prev.RemoteAddr(),
	)

	if cm.configProvider != nil && cm.configProvider.Get().App.CloseSupersededConnections {
		safego.Execute(conn.Context(), cm.logger, "SupersededConnectionClose", func() {
			if err := prev.Close(websocket.StatusPolicyViolation, "superseded by a newer connection"); err != nil {
				cm.logger.Debug(context.Background(), "Closing superseded connection returned error", "user_id", userID, "error", err.Error())
			}
		})
	}
	return prev
}

// DeregisterConnection removes the mapping for userID only if it still points at conn. It reports
// whether a mapping was removed; removing an absent or superseded identity is a no-op.
func (cm *ConnectionManager) DeregisterConnection(userID int64, conn domain.ManagedConnection) bool {
	if !cm.activeConnections.CompareAndDelete(userID, conn) {
		cm.logger.Debug(conn.Context(), "Deregister skipped, connection not registered or superseded", "user_id", userID)
		return false
	}
	cm.activeCount.Add(-1)
	metrics.DecrementActiveConnections()
	cm.logger.Info(conn.Context(), "WebSocket connection deregistered", "user_id", userID, "remote_addr", conn.RemoteAddr())
	return true
}

// Lookup returns the connection registered for userID.
func (cm *ConnectionManager) Lookup(userID int64) (domain.ManagedConnection, bool) {
	v, ok := cm.activeConnections.Load(userID)
	if !ok {
		return nil, false
	}
	conn, ok := v.(domain.ManagedConnection)
	return conn, ok
}

// ActiveConnections returns the number of registered identities.
func (cm *ConnectionManager) ActiveConnections() int {
	return int(cm.activeCount.Load())
}

// Snapshot returns the currently registered connections. The slice is a copy; connections registered
// after the call are not included.
func (cm *ConnectionManager) Snapshot() []domain.ManagedConnection {
	conns := make([]domain.ManagedConnection, 0, cm.ActiveConnections())
	cm.activeConnections.Range(func(_, value any) bool {
		if conn, ok := value.(domain.ManagedConnection); ok {
			conns = append(conns, conn)
		}
		return true
	})
	return conns
}

// GracefullyCloseAllConnections closes every registered connection concurrently and waits for the
// close handshakes to finish. Handlers deregister themselves as their read loops end.
func (cm *ConnectionManager) GracefullyCloseAllConnections(code websocket.StatusCode, reason string) {
	conns := cm.Snapshot()
	cm.logger.Info(context.Background(), "Closing all WebSocket connections", "count", len(conns), "code", int(code))

	var wg sync.WaitGroup
	for _, conn := range conns {
		wg.Add(1)
		c := conn
		safego.Execute(context.Background(), cm.logger, "GracefulConnectionClose", func() {
			defer wg.Done()
			if err := c.Close(code, reason); err != nil {
				cm.logger.Debug(c.Context(), "Error closing connection during shutdown", "user_id", c.UserID(), "error", err.Error())
			}
		})
	}
	wg.Wait()
}
