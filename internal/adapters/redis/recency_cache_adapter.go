package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// RecencyCacheAdapter implements domain.RecencyCache with one Redis list per conversation, newest
// entry at the head.
type RecencyCacheAdapter struct {
	redisClient *redis.Client
	logger      domain.Logger
}

// NewRecencyCacheAdapter creates a new instance of RecencyCacheAdapter.
func NewRecencyCacheAdapter(redisClient *redis.Client, logger domain.Logger) *RecencyCacheAdapter {
	if redisClient == nil {
		panic("redisClient cannot be nil in NewRecencyCacheAdapter")
	}
	return &RecencyCacheAdapter{
		redisClient: redisClient,
		logger:      logger,
	}
}

// AppendAndTrim runs LPUSH and LTRIM in one MULTI/EXEC so the list never exceeds maxLen.
func (a *RecencyCacheAdapter) AppendAndTrim(ctx context.Context, key string, payload []byte, maxLen int64) error {
	if maxLen <= 0 {
		return fmt.Errorf("invalid recency cache length %d", maxLen)
	}
	_, err := a.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, maxLen-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis LPUSH/LTRIM for key '%s' failed: %w", key, err)
	}
	a.logger.Debug(ctx, "Recency cache updated", "key", key)
	return nil
}

// Recent returns up to limit entries, most recent first.
func (a *RecencyCacheAdapter) Recent(ctx context.Context, key string, limit int64) ([][]byte, error) {
	if limit <= 0 {
		limit = domain.RecencyCacheCapacity
	}
	vals, err := a.redisClient.LRange(ctx, key, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis LRANGE for key '%s' failed: %w", key, err)
	}
	if len(vals) == 0 {
		return nil, domain.ErrCacheMiss
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out, nil
}

// Ping reports whether Redis is reachable.
func (a *RecencyCacheAdapter) Ping(ctx context.Context) error {
	return a.redisClient.Ping(ctx).Err()
}
