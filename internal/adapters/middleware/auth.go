package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/metrics"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
	"gitlab.com/timkado/api/alumni-chat-service/pkg/contextkeys"
)

const (
	apiKeyHeaderName = "X-API-Key"
	apiKeyQueryParam = "x-api-key"
)

// TokenVerifier resolves a bearer token to a user.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}

// APIKeyAuthMiddleware guards operator endpoints with auth.admin_api_key, read from the X-API-Key
// header or the x-api-key query parameter.
func APIKeyAuthMiddleware(cfgProvider config.Provider, logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get(apiKeyHeaderName)
			if apiKey == "" {
				apiKey = r.URL.Query().Get(apiKeyQueryParam)
			}

			expected := cfgProvider.Get().Auth.AdminAPIKey
			if expected == "" {
				logger.Error(r.Context(), "API key authentication failed: admin_api_key not configured", "path", r.URL.Path)
				domain.NewErrorResponse(domain.ErrCodeInternal, "Server configuration error", "API authentication cannot be performed.").WriteJSON(w, http.StatusInternalServerError)
				return
			}

			if apiKey == "" {
				logger.Warn(r.Context(), "API key authentication failed: key missing", "path", r.URL.Path)
				domain.NewErrorResponse(domain.ErrCodeInvalidAPIKey, "API key is required", "Provide API key in X-API-Key header or x-api-key query parameter.").WriteJSON(w, http.StatusUnauthorized)
				return
			}

			if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
				logger.Warn(r.Context(), "API key authentication failed: invalid key", "path", r.URL.Path)
				domain.NewErrorResponse(domain.ErrCodeInvalidAPIKey, "Invalid API key", "The provided API key is not valid.").WriteJSON(w, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// BearerAuthMiddleware verifies the bearer token and stores the resolved user in the request context.
func BearerAuthMiddleware(verifier TokenVerifier, logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				domain.NewErrorResponse(domain.ErrCodeInvalidToken, "Not authenticated", "Provide a bearer token in the Authorization header.").WriteJSON(w, http.StatusUnauthorized)
				return
			}

			user, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				metrics.IncrementAuthFailure("http")
				logger.Warn(r.Context(), "Bearer authentication failed", "path", r.URL.Path, "error", err.Error())
				w.Header().Set("WWW-Authenticate", "Bearer")
				domain.NewErrorResponse(domain.ErrCodeInvalidToken, "Could not validate credentials", "").WriteJSON(w, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextkeys.AuthUserKey, user)
			ctx = context.WithValue(ctx, contextkeys.UserIDKey, strconv.FormatInt(user.ID, 10))
			ctx = context.WithValue(ctx, contextkeys.UsernameKey, user.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
