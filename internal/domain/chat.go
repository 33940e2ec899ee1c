package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RecencyCacheCapacity is the number of most recent messages kept per conversation in the cache.
const RecencyCacheCapacity = 100

// ChatMessage is a persisted unit of conversation. ID and CreatedAt are assigned by the store.
type ChatMessage struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// CachedChatMessage is the serialized form pushed into the recency cache.
type CachedChatMessage struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// CacheEntry returns the recency-cache representation of the message.
func (m ChatMessage) CacheEntry() CachedChatMessage {
	return CachedChatMessage{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Message:    m.Message,
		CreatedAt:  m.CreatedAt,
	}
}

// InboundChatMessage is the validated client frame {"receiver_id": <int>, "message": <string>}.
type InboundChatMessage struct {
	ReceiverID int64
	Message    string
}

// ParseInboundChatMessage decodes and validates a text frame. Any shape problem is reported as
// ErrMalformedPayload. Fields other than receiver_id and message are ignored.
func ParseInboundChatMessage(data []byte) (InboundChatMessage, error) {
	var raw struct {
		ReceiverID *int64  `json:"receiver_id"`
		Message    *string `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return InboundChatMessage{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if raw.ReceiverID == nil {
		return InboundChatMessage{}, fmt.Errorf("%w: receiver_id is required", ErrMalformedPayload)
	}
	if *raw.ReceiverID <= 0 {
		return InboundChatMessage{}, fmt.Errorf("%w: receiver_id must be positive, got %d", ErrMalformedPayload, *raw.ReceiverID)
	}
	if raw.Message == nil {
		return InboundChatMessage{}, fmt.Errorf("%w: message is required", ErrMalformedPayload)
	}
	if strings.TrimSpace(*raw.Message) == "" {
		return InboundChatMessage{}, fmt.Errorf("%w: message must not be blank", ErrMalformedPayload)
	}
	return InboundChatMessage{ReceiverID: *raw.ReceiverID, Message: *raw.Message}, nil
}

// OutboundChatMessage is the frame delivered to both sender and receiver after persistence.
type OutboundChatMessage struct {
	ID             int64     `json:"id"`
	SenderID       int64     `json:"sender_id"`
	ReceiverID     int64     `json:"receiver_id"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
	SenderUsername string    `json:"sender_username"`
	SenderFullName string    `json:"sender_full_name"`
}

// NewOutboundChatMessage enriches a persisted message with the sender's display names.
func NewOutboundChatMessage(msg ChatMessage, sender User) OutboundChatMessage {
	return OutboundChatMessage{
		ID:             msg.ID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		Message:        msg.Message,
		CreatedAt:      msg.CreatedAt,
		SenderUsername: sender.Username,
		SenderFullName: sender.FullName,
	}
}

// MessageTypeSystemNotice tags frames produced by the admin broadcast endpoint.
const MessageTypeSystemNotice = "system_notice"

// SystemNotice is a system-wide message delivered to every connected user.
type SystemNotice struct {
	Type    string    `json:"type"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// NewSystemNotice creates a system_notice frame.
func NewSystemNotice(message string, sentAt time.Time) SystemNotice {
	return SystemNotice{
		Type:    MessageTypeSystemNotice,
		Message: message,
		SentAt:  sentAt,
	}
}
