package domain

import (
	"context"
)

//go:generate mockgen -destination=mock/mock_domain.go -package=mock . ChatMessageStore,RecencyCache,ChatEventPublisher,UserDirectory

// ChatMessageStore durably stores chat records. SaveChatMessage either writes the whole record and
// returns it with its generated id and timestamp, or writes nothing and returns an error.
type ChatMessageStore interface {
	SaveChatMessage(ctx context.Context, senderID, receiverID int64, body string) (*ChatMessage, error)

	// ListConversation returns messages exchanged between userID and peerID, newest first.
	ListConversation(ctx context.Context, userID, peerID int64, skip, limit int) ([]ChatMessage, error)

	// ListConversationPartners returns the distinct ids userID has sent to or received from.
	ListConversationPartners(ctx context.Context, userID int64) ([]int64, error)

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
}

// RecencyCache is a best-effort bounded list cache keyed by conversation.
type RecencyCache interface {
	// AppendAndTrim pushes payload to the head of the list at key and trims it to maxLen entries.
	AppendAndTrim(ctx context.Context, key string, payload []byte, maxLen int64) error

	// Recent returns up to limit entries, most recent first. An empty list yields ErrCacheMiss.
	Recent(ctx context.Context, key string, limit int64) ([][]byte, error)
}

// ChatEventPublisher announces persisted chat messages to other services.
type ChatEventPublisher interface {
	PublishChatMessage(ctx context.Context, msg ChatMessage) error
}
