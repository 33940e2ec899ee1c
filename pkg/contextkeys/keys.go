package contextkeys

// Key is the type of every context key owned by this service, distinct from plain strings to avoid
// collisions with other packages.
type Key string

const (
	// RequestIDKey is the context key for storing and retrieving a request ID.
	RequestIDKey Key = "request_id"

	// UserIDKey carries the authenticated user id (as a decimal string) for log enrichment.
	UserIDKey Key = "user_id"

	// UsernameKey carries the authenticated username for log enrichment.
	UsernameKey Key = "username"

	// ConnectionIDKey identifies a single WebSocket connection across its lifetime.
	ConnectionIDKey Key = "connection_id"

	// AuthUserKey stores the resolved *domain.User for authenticated HTTP requests.
	AuthUserKey Key = "auth_user"
)

// String makes Key satisfy fmt.Stringer to help with debugging/logging of keys themselves.
func (c Key) String() string {
	return string(c)
}
