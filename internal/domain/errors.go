package domain

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
)

var (
	// ErrAuthentication covers a missing, invalid or expired token and a subject that resolves to no user.
	ErrAuthentication = errors.New("authentication failed")
	// ErrInvalidCredentials is returned by the username/password login path.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrMalformedPayload is returned when an inbound frame does not have the required shape.
	ErrMalformedPayload = errors.New("malformed chat payload")
	// ErrPersistence wraps a failed durable write of a chat message.
	ErrPersistence = errors.New("chat message persistence failed")
	// ErrUserNotFound is returned by user lookups that match nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrCacheMiss is returned by the recency cache when a conversation has no cached entries.
	ErrCacheMiss = errors.New("conversation not found in cache")
)

// ErrorCode represents a specific error condition.
type ErrorCode string

const (
	ErrCodeInvalidAPIKey ErrorCode = "InvalidAPIKey"       // HTTP 401
	ErrCodeInvalidToken  ErrorCode = "InvalidToken"        // HTTP 401, WS Close 1008
	ErrCodeBadRequest    ErrorCode = "BadRequest"          // HTTP 400, WS Close 1007
	ErrCodeNotFound      ErrorCode = "NotFound"            // HTTP 404
	ErrCodeInternal      ErrorCode = "InternalServerError" // HTTP 500, WS Close 1011
)

// ErrorResponse is the standard error format returned to HTTP clients.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// NewErrorResponse creates a new ErrorResponse struct.
func NewErrorResponse(code ErrorCode, message string, details string) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// WriteJSON sends an ErrorResponse as JSON with the given HTTP status code.
func (er ErrorResponse) WriteJSON(w http.ResponseWriter, httpStatusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	json.NewEncoder(w).Encode(er) // Best effort, error from Encode is not typically handled here.
}

// CloseStatusFor maps a fatal session error to the WebSocket close code sent to the peer.
// Clients only ever see the close code; no error frame precedes it.
func CloseStatusFor(err error) websocket.StatusCode {
	switch {
	case err == nil:
		return websocket.StatusNormalClosure
	case errors.Is(err, ErrAuthentication):
		return websocket.StatusPolicyViolation
	case errors.Is(err, ErrMalformedPayload):
		return websocket.StatusInvalidFramePayloadData
	default:
		return websocket.StatusInternalError
	}
}
