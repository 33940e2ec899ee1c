package application

import (
	"sync"
	"sync/atomic"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// ConnectionManager is the process-wide session registry: at most one live connection per user id.
// All methods are safe for concurrent use and never hold a lock while writing to a connection.
type ConnectionManager struct {
	logger            domain.Logger
	configProvider    config.Provider
	activeConnections sync.Map // int64 user id -> domain.ManagedConnection
	activeCount       atomic.Int64
}

// NewConnectionManager creates an empty registry.
func NewConnectionManager(logger domain.Logger, configProvider config.Provider) *ConnectionManager {
	return &ConnectionManager{
		logger:         logger,
		configProvider: configProvider,
	}
}
