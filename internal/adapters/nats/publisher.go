package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// msgPublisher is the part of *nats.Conn the publisher needs.
type msgPublisher interface {
	Publish(subject string, data []byte) error
}

// PublisherAdapter publishes persisted chat messages on core NATS subjects so that other services
// (push notifications, unread counters) can react to them.
type PublisherAdapter struct {
	pub           msgPublisher
	logger        domain.Logger
	subjectPrefix string
}

// NewConnection connects to NATS when nats.enabled is set. The connection is retried in the
// background, so an unreachable server does not prevent startup. When disabled it returns a nil
// connection.
func NewConnection(ctx context.Context, cfgProvider config.Provider, appLogger domain.Logger) (*nats.Conn, func(), error) {
	cfg := cfgProvider.Get()
	if !cfg.NATS.Enabled {
		appLogger.Info(ctx, "NATS publishing disabled")
		return nil, func() {}, nil
	}

	appLogger.Info(ctx, "Connecting to NATS server", "url", cfg.NATS.URL)
	nc, err := nats.Connect(cfg.NATS.URL,
		nats.Name(cfg.App.ServiceName+"-publisher"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			appLogger.Error(context.Background(), "NATS error", "error", err.Error())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			appLogger.Info(context.Background(), "NATS connection closed")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			appLogger.Info(context.Background(), "NATS reconnected", "url", c.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				appLogger.Warn(context.Background(), "NATS disconnected", "error", err.Error())
			}
		}),
	)
	if err != nil {
		appLogger.Error(ctx, "Failed to connect to NATS", "url", cfg.NATS.URL, "error", err.Error())
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}

	cleanup := func() {
		if nc.IsClosed() {
			return
		}
		appLogger.Info(context.Background(), "Draining NATS connection...")
		if err := nc.Drain(); err != nil {
			appLogger.Error(context.Background(), "Error draining NATS connection", "error", err.Error())
		}
	}
	return nc, cleanup, nil
}

// NewPublisherAdapter publishes on nc, or discards events when nc is nil.
func NewPublisherAdapter(nc *nats.Conn, cfgProvider config.Provider, appLogger domain.Logger) domain.ChatEventPublisher {
	if nc == nil {
		return NoopPublisher{}
	}
	return newPublisher(nc, appLogger, cfgProvider.Get().NATS.SubjectPrefix)
}

func newPublisher(pub msgPublisher, logger domain.Logger, subjectPrefix string) *PublisherAdapter {
	if subjectPrefix == "" {
		subjectPrefix = "chat.messages"
	}
	return &PublisherAdapter{pub: pub, logger: logger, subjectPrefix: subjectPrefix}
}

// SubjectFor returns the subject a message for receiverID is published on.
func (a *PublisherAdapter) SubjectFor(receiverID int64) string {
	return fmt.Sprintf("%s.%d", a.subjectPrefix, receiverID)
}

// PublishChatMessage encodes msg as JSON and publishes it on the receiver's subject.
func (a *PublisherAdapter) PublishChatMessage(ctx context.Context, msg domain.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode chat event: %w", err)
	}
	subject := a.SubjectFor(msg.ReceiverID)
	if err := a.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	a.logger.Debug(ctx, "Chat event published", "subject", subject, "message_id", msg.ID)
	return nil
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishChatMessage(context.Context, domain.ChatMessage) error { return nil }
