package websocket

import (
	"context"
	"net/http"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/middleware"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// Router mounts the chat WebSocket endpoint.
type Router struct {
	logger    domain.Logger
	wsHandler http.Handler
}

// NewRouter creates a new WebSocket router.
func NewRouter(logger domain.Logger, wsHandler *Handler) *Router {
	return &Router{
		logger:    logger,
		wsHandler: wsHandler,
	}
}

// RegisterRoutes registers GET /ws/{token} and GET /ws. Authentication happens after the upgrade so
// that a rejected token is reported with a close code rather than an HTTP status.
func (r *Router) RegisterRoutes(ctx context.Context, mux *http.ServeMux) {
	handler := middleware.RequestIDMiddleware(r.wsHandler)
	mux.Handle("GET /ws/{token}", handler)
	mux.Handle("GET /ws", handler)

	r.logger.Info(ctx, "WebSocket endpoint registered", "patterns", []string{"GET /ws/{token}", "GET /ws"})
}
