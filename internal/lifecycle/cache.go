package lifecycle

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKey = "support-portal:active-state-ids"

// CachedClassifier is a read-through Redis cache around a Classifier.
// Cache failures fall through to the wrapped classifier; the cache is
// never authoritative.
type CachedClassifier struct {
	inner  Classifier
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedClassifier wraps inner with a Redis cache. A nil client or
// non-positive TTL disables caching.
func NewCachedClassifier(inner Classifier, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedClassifier{inner: inner, client: client, ttl: ttl, logger: logger}
}

// ActiveStateIDs serves from cache when possible, otherwise fills it.
func (c *CachedClassifier) ActiveStateIDs(ctx context.Context) ([]int, error) {
	if c.client == nil || c.ttl <= 0 {
		return c.inner.ActiveStateIDs(ctx)
	}

	cached, err := c.client.Get(ctx, cacheKey).Result()
	if err == nil {
		if ids, ok := decodeIDs(cached); ok {
			return ids, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("active-state cache read", zap.Error(err))
	}

	ids, err := c.inner.ActiveStateIDs(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, cacheKey, encodeIDs(ids), c.ttl).Err(); err != nil {
		c.logger.Warn("active-state cache write", zap.Error(err))
	}
	return ids, nil
}

func encodeIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}

func decodeIDs(raw string) ([]int, bool) {
	if raw == "" {
		return []int{}, true
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
