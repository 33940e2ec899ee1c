package rediskeys

import (
	"fmt"
)

// ConversationKey generates the Redis key holding the recency list of a two-party conversation.
// The pair is ordered (min, max) so both directions map to the same key.
func ConversationKey(userA, userB int64) string {
	lo, hi := userA, userB
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("chat:%d:%d", lo, hi)
}
