package http

import (
	"errors"
	"net/http"
	"strconv"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/middleware"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// TokenResponse is returned by POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges form-encoded username and password for a bearer token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		domain.NewErrorResponse(domain.ErrCodeBadRequest, "Invalid form body", err.Error()).WriteJSON(w, http.StatusBadRequest)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			domain.NewErrorResponse(domain.ErrCodeInvalidToken, "Incorrect username or password", "").WriteJSON(w, http.StatusUnauthorized)
			return
		}
		h.logger.Error(r.Context(), "Login failed", "error", err.Error())
		domain.NewErrorResponse(domain.ErrCodeInternal, "Login failed", "").WriteJSON(w, http.StatusInternalServerError)
		return
	}

	token, _, err := h.auth.IssueToken(*user)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to issue access token", "user_id", user.ID, "error", err.Error())
		domain.NewErrorResponse(domain.ErrCodeInternal, "Failed to issue token", "").WriteJSON(w, http.StatusInternalServerError)
		return
	}

	h.logger.Info(r.Context(), "User logged in", "user_id", user.ID)
	h.writeJSON(w, r, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// History returns the conversation with {user_id}, oldest first, paged by skip and limit.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.AuthUserFromContext(r.Context())

	peerID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	skip, err := queryInt(r, "skip")
	if err != nil {
		domain.NewErrorResponse(domain.ErrCodeBadRequest, "Invalid skip", err.Error()).WriteJSON(w, http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		domain.NewErrorResponse(domain.ErrCodeBadRequest, "Invalid limit", err.Error()).WriteJSON(w, http.StatusBadRequest)
		return
	}

	msgs, err := h.chat.History(r.Context(), caller.ID, peerID, skip, limit)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to load chat history", "peer_id", peerID, "error", err.Error())
		domain.NewErrorResponse(domain.ErrCodeInternal, "Failed to load chat history", "").WriteJSON(w, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, r, http.StatusOK, msgs)
}

// Conversations lists the users the caller has exchanged messages with.
func (h *Handlers) Conversations(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.AuthUserFromContext(r.Context())

	users, err := h.chat.Conversations(r.Context(), caller.ID)
	if err != nil {
		h.logger.Error(r.Context(), "Failed to load conversations", "error", err.Error())
		domain.NewErrorResponse(domain.ErrCodeInternal, "Failed to load conversations", "").WriteJSON(w, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, r, http.StatusOK, users)
}

// Recent returns the cached most recent messages with {user_id}, oldest first.
func (h *Handlers) Recent(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.AuthUserFromContext(r.Context())

	peerID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	entries, err := h.chat.Recent(r.Context(), caller.ID, peerID)
	if err != nil {
		h.logger.Warn(r.Context(), "Failed to read recency cache", "peer_id", peerID, "error", err.Error())
		domain.NewErrorResponse(domain.ErrCodeInternal, "Recent messages unavailable", "").WriteJSON(w, http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, r, http.StatusOK, entries)
}

func pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil || id <= 0 {
		domain.NewErrorResponse(domain.ErrCodeBadRequest, "Invalid user id", "user_id must be a positive integer.").WriteJSON(w, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.New(name + " must not be negative")
	}
	return v, nil
}
