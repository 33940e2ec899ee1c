package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// BroadcastRequest is the payload for POST /admin/broadcast.
type BroadcastRequest struct {
	Message string `json:"message"`
}

// BroadcastResponse reports how many connections accepted the notice.
type BroadcastResponse struct {
	Delivered int `json:"delivered"`
}

// Broadcast sends a system_notice frame to every connected user.
func (h *Handlers) Broadcast(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn(r.Context(), "Failed to decode /admin/broadcast payload", "error", err.Error())
		domain.NewErrorResponse(domain.ErrCodeBadRequest, "Invalid request payload", err.Error()).WriteJSON(w, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		domain.NewErrorResponse(domain.ErrCodeBadRequest, "Invalid payload", "message is required.").WriteJSON(w, http.StatusBadRequest)
		return
	}

	delivered := h.broadcaster.BroadcastAll(r.Context(), domain.NewSystemNotice(req.Message, time.Now().UTC()))
	h.logger.Info(r.Context(), "System notice broadcast", "delivered", delivered)
	h.writeJSON(w, r, http.StatusOK, BroadcastResponse{Delivered: delivered})
}
