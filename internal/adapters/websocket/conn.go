package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/metrics"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
	"gitlab.com/timkado/api/alumni-chat-service/pkg/safego"
)

const (
	backpressurePolicyDropOldest = "drop_oldest"
	backpressurePolicyBlock      = "block"

	defaultBufferSize   = 100
	defaultWriteTimeout = 10 * time.Second
)

// ErrConnectionClosed is returned by WriteJSON once the connection has started closing.
var ErrConnectionClosed = errors.New("websocket connection closed")

// Connection wraps a websocket.Conn with a single buffered outbound channel drained by one writer
// goroutine, so frames to one recipient are written in the order they were queued.
type Connection struct {
	wsConn        *websocket.Conn
	logger        domain.Logger
	userID        int64
	remoteAddrStr string
	writeTimeout  time.Duration

	connCtx           context.Context
	cancelConnCtxFunc context.CancelFunc

	messageBuffer chan []byte
	dropPolicy    string
	bufferMu      sync.RWMutex // guards bufferClosed and close(messageBuffer)
	bufferClosed  bool
	writerDone    chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// NewConnection wraps an accepted connection owned by userID and starts its writer.
// connCtx should carry the request-scoped values used for logging.
func NewConnection(
	connCtx context.Context,
	wsConn *websocket.Conn,
	userID int64,
	remoteAddr string,
	logger domain.Logger,
	cfgProvider config.Provider,
) *Connection {
	appCfg := cfgProvider.Get().App

	bufferCap := appCfg.WebsocketMessageBufferSize
	if bufferCap <= 0 {
		bufferCap = defaultBufferSize
	}
	dropPol := strings.ToLower(appCfg.WebsocketBackpressureDropPolicy)
	if dropPol != backpressurePolicyDropOldest && dropPol != backpressurePolicyBlock {
		logger.Warn(connCtx, "Invalid websocket_backpressure_drop_policy, defaulting to drop_oldest", "configured_policy", appCfg.WebsocketBackpressureDropPolicy)
		dropPol = backpressurePolicyDropOldest
	}
	writeTimeout := time.Duration(appCfg.WriteTimeoutSeconds) * time.Second
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	ctx, cancel := context.WithCancel(connCtx)
	c := &Connection{
		wsConn:            wsConn,
		logger:            logger,
		userID:            userID,
		remoteAddrStr:     remoteAddr,
		writeTimeout:      writeTimeout,
		connCtx:           ctx,
		cancelConnCtxFunc: cancel,
		messageBuffer:     make(chan []byte, bufferCap),
		dropPolicy:        dropPol,
		writerDone:        make(chan struct{}),
	}

	safego.Execute(c.connCtx, c.logger, fmt.Sprintf("WebSocketWriter-%d", userID), c.runWriter)
	return c
}

// runWriter drains the buffer until it is closed or a write fails. A failed write cancels the
// connection context so the read loop and blocked writers give up.
func (c *Connection) runWriter() {
	defer close(c.writerDone)
	for msgBytes := range c.messageBuffer {
		ctxToWrite, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
		err := c.wsConn.Write(ctxToWrite, websocket.MessageText, msgBytes)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				c.logger.Warn(c.connCtx, "WebSocket write timed out", "write_timeout", c.writeTimeout.String())
			} else {
				c.logger.Info(c.connCtx, "WebSocket write failed, connection likely closing", "error", err.Error())
			}
			c.cancelConnCtxFunc()
			return
		}
	}
}

// UserID returns the identity that owns this connection.
func (c *Connection) UserID() int64 {
	return c.userID
}

// Context returns the context associated with this connection. It is cancelled on Close.
func (c *Connection) Context() context.Context {
	return c.connCtx
}

// RemoteAddr returns the remote network address string of the client.
func (c *Connection) RemoteAddr() string {
	return c.remoteAddrStr
}

// Close stops the writer, sends the close frame and cancels the connection context.
// Only the first call has any effect; later calls return the first result.
func (c *Connection) Close(statusCode websocket.StatusCode, reason string) error {
	c.closeOnce.Do(func() {
		c.logger.Info(c.connCtx, "Closing WebSocket connection", "status_code", int(statusCode), "reason", reason)

		c.bufferMu.Lock()
		c.bufferClosed = true
		close(c.messageBuffer)
		c.bufferMu.Unlock()

		// Let queued frames flush, but never wait longer than one write.
		select {
		case <-c.writerDone:
		case <-time.After(c.writeTimeout):
			c.logger.Warn(c.connCtx, "Writer did not finish before close, dropping pending frames")
		}

		c.closeErr = c.wsConn.Close(statusCode, reason)
		c.cancelConnCtxFunc()
	})
	return c.closeErr
}

// WriteJSON marshals v and queues it on the outbound buffer according to the backpressure policy.
// drop_oldest evicts the oldest queued frame when the buffer is full; block waits for space
// until the connection is cancelled.
func (c *Connection) WriteJSON(v interface{}) error {
	msgBytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	c.bufferMu.RLock()
	defer c.bufferMu.RUnlock()
	if c.bufferClosed {
		return ErrConnectionClosed
	}
	if err := c.connCtx.Err(); err != nil {
		return ErrConnectionClosed
	}

	select {
	case c.messageBuffer <- msgBytes:
		return nil
	default:
	}

	if c.dropPolicy == backpressurePolicyBlock {
		select {
		case c.messageBuffer <- msgBytes:
			return nil
		case <-c.connCtx.Done():
			metrics.IncrementBufferDrop(backpressurePolicyBlock)
			return ErrConnectionClosed
		}
	}

	// Concurrent senders may refill the slot we free, so retry a bounded number of times.
	for attempt := 0; attempt < cap(c.messageBuffer); attempt++ {
		select {
		case <-c.messageBuffer:
			metrics.IncrementBufferDrop(backpressurePolicyDropOldest)
			c.logger.Warn(c.connCtx, "Outbound buffer full, dropped oldest frame", "capacity", cap(c.messageBuffer))
		default:
		}
		select {
		case c.messageBuffer <- msgBytes:
			return nil
		default:
		}
	}
	metrics.IncrementBufferDrop(backpressurePolicyDropOldest)
	return fmt.Errorf("outbound buffer for user %d is full", c.userID)
}

// ReadMessage reads a data message. Control frames are handled by the library.
func (c *Connection) ReadMessage(ctx context.Context) (websocket.MessageType, []byte, error) {
	return c.wsConn.Read(ctx)
}

// Ping sends a ping and waits for the pong, bounded by the write timeout.
// It only returns once a concurrent ReadMessage has consumed the pong.
func (c *Connection) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()
	return c.wsConn.Ping(pingCtx)
}

// SetReadLimit bounds the size of a single inbound message.
func (c *Connection) SetReadLimit(limit int64) {
	if limit > 0 {
		c.wsConn.SetReadLimit(limit)
	}
}
