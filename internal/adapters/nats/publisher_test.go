package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/logger"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

type recordingPublisher struct {
	subject string
	data    []byte
	err     error
}

func (r *recordingPublisher) Publish(subject string, data []byte) error {
	r.subject, r.data = subject, data
	return r.err
}

func TestPublisherAdapter_PublishChatMessage(t *testing.T) {
	rec := &recordingPublisher{}
	p := newPublisher(rec, logger.NewFromZap(zaptest.NewLogger(t)), "alumni.chat")

	msg := domain.ChatMessage{
		ID:         7,
		SenderID:   1,
		ReceiverID: 2,
		Message:    "hi",
		CreatedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, p.PublishChatMessage(context.Background(), msg))

	assert.Equal(t, "alumni.chat.2", rec.subject)
	var got domain.ChatMessage
	require.NoError(t, json.Unmarshal(rec.data, &got))
	assert.Equal(t, msg, got)
}

func TestPublisherAdapter_PublishError(t *testing.T) {
	rec := &recordingPublisher{err: nats.ErrConnectionClosed}
	p := newPublisher(rec, logger.NewFromZap(zaptest.NewLogger(t)), "")

	err := p.PublishChatMessage(context.Background(), domain.ChatMessage{ReceiverID: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, nats.ErrConnectionClosed))
	assert.Equal(t, "chat.messages.5", rec.subject)
}

func TestNewConnection_Disabled(t *testing.T) {
	cfg := config.Defaults()
	cfg.NATS.Enabled = false
	cfgProvider := config.NewStaticProvider(cfg)
	log := logger.NewFromZap(zaptest.NewLogger(t))

	nc, cleanup, err := NewConnection(context.Background(), cfgProvider, log)
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, nc)

	pub := NewPublisherAdapter(nc, cfgProvider, log)
	assert.IsType(t, NoopPublisher{}, pub)
	assert.NoError(t, pub.PublishChatMessage(context.Background(), domain.ChatMessage{ID: 1}))
}
