package domain

import (
	"context"

	"github.com/coder/websocket"
)

// StatusGoingAway is sent to every live connection when the server shuts down.
const StatusGoingAway websocket.StatusCode = websocket.StatusGoingAway

// ManagedConnection represents one live, authenticated WebSocket session (a connection handle).
// The registry and the dispatcher only ever talk to a connection through this interface.
type ManagedConnection interface {
	// UserID returns the identity that owns this connection.
	UserID() int64

	// Close closes the WebSocket connection with a specified status code and reason.
	Close(statusCode websocket.StatusCode, reason string) error

	// WriteJSON queues a JSON-encoded message on the connection's single outbound channel.
	WriteJSON(v interface{}) error

	// RemoteAddr returns the remote network address string of the client.
	RemoteAddr() string

	// Context returns the context associated with this specific connection.
	Context() context.Context
}
