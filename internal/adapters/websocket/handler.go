package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/metrics"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/middleware"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
	"gitlab.com/timkado/api/alumni-chat-service/pkg/contextkeys"
	"gitlab.com/timkado/api/alumni-chat-service/pkg/safego"
)

// errReadIdle ends a session whose peer sent nothing within app.read_idle_timeout_seconds.
var errReadIdle = errors.New("read idle timeout")

// sessionState is the lifecycle position of one chat session.
type sessionState int

const (
	stateConnecting sessionState = iota
	stateAuthenticating
	stateActive
	stateClosing
	stateClosed
)

func (s sessionState) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateAuthenticating:
		return "authenticating"
	case stateActive:
		return "active"
	case stateClosing:
		return "closing"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// SessionRegistry is the part of the connection registry a session needs.
type SessionRegistry interface {
	RegisterConnection(userID int64, conn domain.ManagedConnection) domain.ManagedConnection
	DeregisterConnection(userID int64, conn domain.ManagedConnection) bool
}

// InboundHandler runs the message pipeline for one validated inbound frame.
type InboundHandler interface {
	HandleInbound(ctx context.Context, sender domain.User, in domain.InboundChatMessage) (*domain.OutboundChatMessage, error)
}

// Handler upgrades chat requests and runs one session per connection.
type Handler struct {
	logger         domain.Logger
	configProvider config.Provider
	verifier       middleware.TokenVerifier
	registry       SessionRegistry
	chat           InboundHandler
}

// NewHandler creates a new WebSocket Handler.
func NewHandler(
	logger domain.Logger,
	cfgProvider config.Provider,
	verifier middleware.TokenVerifier,
	registry SessionRegistry,
	chat InboundHandler,
) *Handler {
	return &Handler{
		logger:         logger,
		configProvider: cfgProvider,
		verifier:       verifier,
		registry:       registry,
		chat:           chat,
	}
}

// session tracks the state of one connection for logging.
type session struct {
	logger domain.Logger
	state  sessionState
}

func (s *session) transition(ctx context.Context, to sessionState) {
	s.logger.Debug(ctx, "Chat session state change", "from", s.state.String(), "to", to.String())
	s.state = to
}

// tokenFromRequest reads the access token from the {token} path segment, the token query parameter
// or an Authorization bearer header, in that order.
func tokenFromRequest(r *http.Request) string {
	if token := r.PathValue("token"); token != "" {
		return token
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return middleware.BearerToken(r)
}

// ServeHTTP accepts the upgrade, authenticates the token and runs the read loop until the session
// ends. The handler goroutine owns the session; teardown happens exactly once when it returns.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithValue(r.Context(), contextkeys.ConnectionIDKey, uuid.NewString())
	sess := &session{logger: h.logger, state: stateConnecting}
	appCfg := h.configProvider.Get().App

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: appCfg.AllowedOrigins,
	})
	if err != nil {
		// Accept has already written the HTTP error response.
		h.logger.Warn(ctx, "WebSocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err.Error())
		return
	}

	sess.transition(ctx, stateAuthenticating)
	user, err := h.verifier.VerifyToken(ctx, tokenFromRequest(r))
	if err != nil {
		metrics.IncrementAuthFailure("websocket")
		h.logger.Warn(ctx, "WebSocket authentication failed", "remote_addr", r.RemoteAddr, "error", err.Error())
		sess.transition(ctx, stateClosing)
		if closeErr := c.Close(domain.CloseStatusFor(err), "authentication failed"); closeErr != nil {
			h.logger.Debug(ctx, "Close after failed authentication returned error", "error", closeErr.Error())
		}
		sess.transition(ctx, stateClosed)
		return
	}

	ctx = context.WithValue(ctx, contextkeys.UserIDKey, strconv.FormatInt(user.ID, 10))
	ctx = context.WithValue(ctx, contextkeys.UsernameKey, user.Username)

	conn := NewConnection(ctx, c, user.ID, r.RemoteAddr, h.logger, h.configProvider)
	conn.SetReadLimit(appCfg.ReadLimitBytes)

	h.registry.RegisterConnection(user.ID, conn)
	sess.transition(ctx, stateActive)
	h.logger.Info(ctx, "Chat session established", "remote_addr", conn.RemoteAddr())

	var sessionErr error
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error(ctx, "Panic recovered in chat session",
				"panic_info", fmt.Sprintf("%v", rec),
				"stacktrace", string(debug.Stack()),
			)
			sessionErr = fmt.Errorf("panic in chat session: %v", rec)
		}

		sess.transition(ctx, stateClosing)
		h.registry.DeregisterConnection(user.ID, conn)
		code := closeStatusFor(sessionErr)
		if closeErr := conn.Close(code, closeReasonFor(sessionErr)); closeErr != nil {
			h.logger.Debug(ctx, "Close at session end returned error", "error", closeErr.Error())
		}
		sess.transition(ctx, stateClosed)
		h.logger.Info(ctx, "Chat session ended", "close_code", int(code))
	}()

	if interval := time.Duration(appCfg.PingIntervalSeconds) * time.Second; interval > 0 {
		safego.Execute(conn.Context(), h.logger, "WebSocketPinger-"+strconv.FormatInt(user.ID, 10), func() {
			h.pingLoop(conn, interval)
		})
	}

	sessionErr = h.readLoop(conn, *user, time.Duration(appCfg.ReadIdleTimeoutSeconds)*time.Second)
	if sessionErr != nil {
		h.logger.Warn(ctx, "Chat session ending with error", "error", sessionErr.Error())
	}
}

// readLoop processes inbound frames strictly in arrival order. It returns nil when the peer closes
// or the connection is closed locally, and the fatal error otherwise.
func (h *Handler) readLoop(conn *Connection, user domain.User, idleTimeout time.Duration) error {
	connCtx := conn.Context()
	for {
		readCtx, cancelRead := connCtx, context.CancelFunc(func() {})
		if idleTimeout > 0 {
			readCtx, cancelRead = context.WithTimeout(connCtx, idleTimeout)
		}
		msgType, payload, err := conn.ReadMessage(readCtx)
		idle := errors.Is(readCtx.Err(), context.DeadlineExceeded)
		cancelRead()

		if err != nil {
			switch {
			case idle:
				return errReadIdle
			case websocket.CloseStatus(err) != -1:
				h.logger.Info(connCtx, "WebSocket closed by peer", "status_code", int(websocket.CloseStatus(err)))
			case connCtx.Err() != nil:
				h.logger.Info(connCtx, "WebSocket connection closed locally")
			default:
				h.logger.Info(connCtx, "WebSocket read ended, peer likely disconnected", "error", err.Error())
			}
			return nil
		}

		if msgType != websocket.MessageText {
			metrics.MessagesMalformedTotal.Inc()
			return fmt.Errorf("%w: binary frames are not accepted", domain.ErrMalformedPayload)
		}

		in, err := domain.ParseInboundChatMessage(payload)
		if err != nil {
			metrics.MessagesMalformedTotal.Inc()
			return err
		}

		if _, err := h.chat.HandleInbound(connCtx, user, in); err != nil {
			return err
		}
	}
}

// pingLoop pings the peer until the connection ends. A failed ping closes the connection, which
// ends the read loop.
func (h *Handler) pingLoop(conn *Connection, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.Ping(conn.Context()); err != nil {
				if conn.Context().Err() == nil {
					h.logger.Warn(conn.Context(), "Ping failed, closing connection", "error", err.Error())
					_ = conn.Close(websocket.StatusPolicyViolation, "ping timeout")
				}
				return
			}
		case <-conn.Context().Done():
			return
		}
	}
}

func closeStatusFor(err error) websocket.StatusCode {
	if errors.Is(err, errReadIdle) {
		return websocket.StatusPolicyViolation
	}
	return domain.CloseStatusFor(err)
}

func closeReasonFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errReadIdle):
		return "idle timeout"
	case errors.Is(err, domain.ErrMalformedPayload):
		return "malformed message"
	default:
		return "internal error"
	}
}
