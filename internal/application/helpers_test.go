package application

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/coder/websocket"
	"go.uber.org/zap/zaptest"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/logger"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// fakeConnection records every frame queued on it.
type fakeConnection struct {
	userID   int64
	addr     string
	ctx      context.Context
	writeErr error

	mu        sync.Mutex
	frames    []any
	closed    bool
	closeCode websocket.StatusCode
}

func newFakeConnection(userID int64) *fakeConnection {
	return &fakeConnection{
		userID: userID,
		addr:   fmt.Sprintf("10.0.0.%d:5000", userID%250),
		ctx:    context.Background(),
	}
}

func (f *fakeConnection) UserID() int64            { return f.userID }
func (f *fakeConnection) RemoteAddr() string       { return f.addr }
func (f *fakeConnection) Context() context.Context { return f.ctx }

func (f *fakeConnection) WriteJSON(v interface{}) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, v)
	return nil
}

func (f *fakeConnection) Close(code websocket.StatusCode, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.closeCode = code
	return nil
}

func (f *fakeConnection) Frames() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]any, len(f.frames))
	copy(out, f.frames)
	return out
}

func (f *fakeConnection) IsClosed() (bool, websocket.StatusCode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed, f.closeCode
}

var _ domain.ManagedConnection = (*fakeConnection)(nil)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Auth.SecretKey = "test-secret"
	cfg.App.CacheTimeoutMs = 200
	cfg.App.PersistTimeoutSeconds = 1
	return cfg
}

func testLogger(t *testing.T) domain.Logger {
	return logger.NewFromZap(zaptest.NewLogger(t))
}
