package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// FetchTTL bounds how long an idle session keeps its fetch count.
const FetchTTL = 24 * time.Hour

func fetchKey(sessionID string) string { return "bottle:fetches:" + sessionID }

const messageCountKey = "bottle:stats:message_count"

// NextFetch increments the per-session fetch counter and returns the new value.
// The TTL is refreshed on every fetch.
func (c *Cache) NextFetch(ctx context.Context, sessionID string) (int64, error) {
	pipe := c.Client.TxPipeline()
	incr := pipe.Incr(ctx, fetchKey(sessionID))
	pipe.Expire(ctx, fetchKey(sessionID), FetchTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// GetMessageCount reports ok == false on a miss.
func (c *Cache) GetMessageCount(ctx context.Context) (int64, bool, error) {
	n, err := c.Client.Get(ctx, messageCountKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return n, true, nil
}

func (c *Cache) SetMessageCount(ctx context.Context, n int64, ttl time.Duration) error {
	return c.Client.Set(ctx, messageCountKey, n, ttl).Err()
}

func (c *Cache) InvalidateMessageCount(ctx context.Context) error {
	return c.Client.Del(ctx, messageCountKey).Err()
}
