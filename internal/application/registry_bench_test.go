package application

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/logger"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// discardConnection counts frames without keeping them.
type discardConnection struct {
	userID int64
	writes atomic.Int64
}

func (d *discardConnection) UserID() int64                           { return d.userID }
func (d *discardConnection) RemoteAddr() string                      { return "127.0.0.1:0" }
func (d *discardConnection) Context() context.Context                { return context.Background() }
func (d *discardConnection) Close(websocket.StatusCode, string) error { return nil }
func (d *discardConnection) WriteJSON(interface{}) error {
	d.writes.Add(1)
	return nil
}

func newBenchRegistry(b *testing.B) *ConnectionManager {
	b.Helper()
	return NewConnectionManager(logger.NewFromZap(zap.NewNop()), config.NewStaticProvider(config.Defaults()))
}

func BenchmarkRegistry_RegisterDeregister(b *testing.B) {
	registry := newBenchRegistry(b)

	b.Run("Sequential", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			conn := &discardConnection{userID: int64(i%1000 + 1)}
			registry.RegisterConnection(conn.userID, conn)
			registry.DeregisterConnection(conn.userID, conn)
		}
	})

	b.Run("Parallel", func(b *testing.B) {
		var next atomic.Int64
		b.RunParallel(func(pb *testing.PB) {
			id := next.Add(1)
			for pb.Next() {
				conn := &discardConnection{userID: id}
				registry.RegisterConnection(id, conn)
				registry.DeregisterConnection(id, conn)
			}
		})
	})
}

func BenchmarkDispatcher(b *testing.B) {
	registry := newBenchRegistry(b)
	dispatcher := NewDispatcher(logger.NewFromZap(zap.NewNop()), registry)
	for id := int64(1); id <= 1000; id++ {
		registry.RegisterConnection(id, &discardConnection{userID: id})
	}
	frame := domain.OutboundChatMessage{ID: 1, SenderID: 1, ReceiverID: 2, Message: "hello", SenderUsername: "alice"}
	ctx := context.Background()

	b.Run("SendToOnline", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			dispatcher.SendTo(ctx, int64(i%1000+1), frame)
		}
	})

	b.Run("SendToOffline", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			dispatcher.SendTo(ctx, 5000, frame)
		}
	})

	b.Run("SendToParallel", func(b *testing.B) {
		b.RunParallel(func(pb *testing.PB) {
			i := 0
			for pb.Next() {
				dispatcher.SendTo(ctx, int64(i%1000+1), frame)
				i++
			}
		})
	})

	b.Run("BroadcastAll", func(b *testing.B) {
		notice := domain.NewSystemNotice("maintenance at midnight", frame.CreatedAt)
		for i := 0; i < b.N; i++ {
			dispatcher.BroadcastAll(ctx, notice)
		}
	})
}
