package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/middleware"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// Authenticator checks credentials and issues access tokens.
type Authenticator interface {
	middleware.TokenVerifier
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	IssueToken(user domain.User) (string, time.Time, error)
}

// ChatQueries serves the read side of conversations.
type ChatQueries interface {
	History(ctx context.Context, userID, peerID int64, skip, limit int) ([]domain.ChatMessage, error)
	Conversations(ctx context.Context, userID int64) ([]domain.User, error)
	Recent(ctx context.Context, userID, peerID int64) ([]domain.CachedChatMessage, error)
}

// Broadcaster delivers a frame to every connected user.
type Broadcaster interface {
	BroadcastAll(ctx context.Context, payload any) int
}

// Handlers holds the REST endpoints of the chat service.
type Handlers struct {
	logger      domain.Logger
	cfgProvider config.Provider
	auth        Authenticator
	chat        ChatQueries
	broadcaster Broadcaster
}

// NewHandlers creates the REST handler set.
func NewHandlers(logger domain.Logger, cfgProvider config.Provider, auth Authenticator, chat ChatQueries, broadcaster Broadcaster) *Handlers {
	return &Handlers{
		logger:      logger,
		cfgProvider: cfgProvider,
		auth:        auth,
		chat:        chat,
		broadcaster: broadcaster,
	}
}

// RegisterRoutes mounts every REST route on mux, each wrapped in the request-id middleware.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	bearer := middleware.BearerAuthMiddleware(h.auth, h.logger)
	apiKey := middleware.APIKeyAuthMiddleware(h.cfgProvider, h.logger)

	mux.Handle("POST /token", middleware.RequestIDMiddleware(http.HandlerFunc(h.Login)))
	mux.Handle("GET /chat/history/{user_id}", middleware.RequestIDMiddleware(bearer(http.HandlerFunc(h.History))))
	mux.Handle("GET /chat/conversations", middleware.RequestIDMiddleware(bearer(http.HandlerFunc(h.Conversations))))
	mux.Handle("GET /chat/recent/{user_id}", middleware.RequestIDMiddleware(bearer(http.HandlerFunc(h.Recent))))
	mux.Handle("POST /admin/broadcast", middleware.RequestIDMiddleware(apiKey(http.HandlerFunc(h.Broadcast))))
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error(r.Context(), "Failed to encode response", "path", r.URL.Path, "error", err.Error())
	}
}
