package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/metrics"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
	"gitlab.com/timkado/api/alumni-chat-service/pkg/rediskeys"
	"gitlab.com/timkado/api/alumni-chat-service/pkg/safego"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100

	defaultPersistTimeout = 5 * time.Second
	defaultCacheTimeout   = 500 * time.Millisecond
	defaultCacheQueueSize = 1024
)

type cacheWrite struct {
	logCtx  context.Context
	key     string
	payload []byte
}

// ChatService runs the per-message pipeline: persist, update the recency cache, publish, deliver.
type ChatService struct {
	logger         domain.Logger
	configProvider config.Provider
	store          domain.ChatMessageStore
	users          domain.UserDirectory
	cache          domain.RecencyCache
	publisher      domain.ChatEventPublisher
	dispatcher     *Dispatcher

	cacheQueue  chan cacheWrite
	queueMu     sync.RWMutex
	queueClosed bool
	writerWg    sync.WaitGroup
}

// NewChatService creates the service and starts its cache writer. cache and publisher may be nil.
func NewChatService(
	logger domain.Logger,
	configProvider config.Provider,
	store domain.ChatMessageStore,
	users domain.UserDirectory,
	cache domain.RecencyCache,
	publisher domain.ChatEventPublisher,
	dispatcher *Dispatcher,
) *ChatService {
	queueSize := configProvider.Get().App.CacheQueueSize
	if queueSize <= 0 {
		queueSize = defaultCacheQueueSize
	}
	s := &ChatService{
		logger:         logger,
		configProvider: configProvider,
		store:          store,
		users:          users,
		cache:          cache,
		publisher:      publisher,
		dispatcher:     dispatcher,
		cacheQueue:     make(chan cacheWrite, queueSize),
	}

	s.writerWg.Add(1)
	safego.Execute(context.Background(), logger, "RecencyCacheWriter", func() {
		defer s.writerWg.Done()
		s.runCacheWriter()
	})
	return s
}

// HandleInbound persists one inbound message from sender and delivers the enriched frame to the
// receiver and then to the sender. If persistence fails nothing is cached, published or delivered
// and the returned error wraps domain.ErrPersistence.
func (s *ChatService) HandleInbound(ctx context.Context, sender domain.User, in domain.InboundChatMessage) (*domain.OutboundChatMessage, error) {
	metrics.MessagesReceivedTotal.Inc()

	persistCtx, cancel := context.WithTimeout(ctx, s.persistTimeout())
	saved, err := s.store.SaveChatMessage(persistCtx, sender.ID, in.ReceiverID, in.Message)
	cancel()
	if err != nil {
		metrics.PersistFailuresTotal.Inc()
		s.logger.Error(ctx, "Failed to persist chat message", "receiver_id", in.ReceiverID, "error", err.Error())
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	metrics.MessagesPersistedTotal.Inc()

	s.enqueueCacheWrite(ctx, *saved)
	s.publish(ctx, *saved)

	out := domain.NewOutboundChatMessage(*saved, sender)
	s.dispatcher.SendTo(ctx, saved.ReceiverID, out)
	if saved.ReceiverID != sender.ID {
		s.dispatcher.SendTo(ctx, sender.ID, out)
	}

	s.logger.Debug(ctx, "Chat message handled", "message_id", saved.ID, "receiver_id", saved.ReceiverID)
	return &out, nil
}

func (s *ChatService) persistTimeout() time.Duration {
	if secs := s.configProvider.Get().App.PersistTimeoutSeconds; secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultPersistTimeout
}

func (s *ChatService) cacheTimeout() time.Duration {
	if ms := s.configProvider.Get().App.CacheTimeoutMs; ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultCacheTimeout
}

// enqueueCacheWrite never blocks the caller; a full queue drops the update.
func (s *ChatService) enqueueCacheWrite(ctx context.Context, msg domain.ChatMessage) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(msg.CacheEntry())
	if err != nil {
		metrics.CacheWriteFailuresTotal.Inc()
		s.logger.Error(ctx, "Failed to encode recency cache entry", "message_id", msg.ID, "error", err.Error())
		return
	}
	w := cacheWrite{
		logCtx:  context.WithoutCancel(ctx),
		key:     rediskeys.ConversationKey(msg.SenderID, msg.ReceiverID),
		payload: payload,
	}

	s.queueMu.RLock()
	defer s.queueMu.RUnlock()
	if s.queueClosed {
		return
	}
	select {
	case s.cacheQueue <- w:
	default:
		metrics.CacheWritesDroppedTotal.Inc()
		s.logger.Warn(ctx, "Recency cache queue full, update dropped", "key", w.key, "message_id", msg.ID)
	}
}

func (s *ChatService) runCacheWriter() {
	for w := range s.cacheQueue {
		s.writeCacheEntry(w)
	}
}

func (s *ChatService) writeCacheEntry(w cacheWrite) {
	defer safego.Recover(w.logCtx, s.logger, "RecencyCacheWriter")

	ctx, cancel := context.WithTimeout(context.Background(), s.cacheTimeout())
	defer cancel()
	if err := s.cache.AppendAndTrim(ctx, w.key, w.payload, domain.RecencyCacheCapacity); err != nil {
		metrics.CacheWriteFailuresTotal.Inc()
		s.logger.Warn(w.logCtx, "Recency cache update failed", "key", w.key, "error", err.Error())
	}
}

func (s *ChatService) publish(ctx context.Context, msg domain.ChatMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChatMessage(ctx, msg); err != nil {
		metrics.EventPublishFailuresTotal.Inc()
		s.logger.Warn(ctx, "Failed to publish chat event", "message_id", msg.ID, "error", err.Error())
	}
}

// History returns the persisted conversation between userID and peerID, oldest first. limit defaults
// to 50 and is capped at 100.
func (s *ChatService) History(ctx context.Context, userID, peerID int64, skip, limit int) ([]domain.ChatMessage, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	msgs, err := s.store.ListConversation(ctx, userID, peerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	slices.Reverse(msgs)
	return msgs, nil
}

// Conversations returns the users userID has exchanged at least one message with.
func (s *ChatService) Conversations(ctx context.Context, userID int64) ([]domain.User, error) {
	ids, err := s.store.ListConversationPartners(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversation partners: %w", err)
	}
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve conversation partners: %w", err)
	}
	return users, nil
}

// Recent returns the cached recency list for the conversation, oldest first. A cache miss yields an
// empty list.
func (s *ChatService) Recent(ctx context.Context, userID, peerID int64) ([]domain.CachedChatMessage, error) {
	if s.cache == nil {
		return []domain.CachedChatMessage{}, nil
	}
	raw, err := s.cache.Recent(ctx, rediskeys.ConversationKey(userID, peerID), domain.RecencyCacheCapacity)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return []domain.CachedChatMessage{}, nil
		}
		return nil, fmt.Errorf("read recency cache: %w", err)
	}

	entries := make([]domain.CachedChatMessage, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var entry domain.CachedChatMessage
		if err := json.Unmarshal(raw[i], &entry); err != nil {
			s.logger.Warn(ctx, "Skipping undecodable recency cache entry", "error", err.Error())
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Close stops accepting cache updates and waits for queued ones to finish.
func (s *ChatService) Close() {
	s.queueMu.Lock()
	if !s.queueClosed {
		s.queueClosed = true
		close(s.cacheQueue)
	}
	s.queueMu.Unlock()
	s.writerWg.Wait()
}
