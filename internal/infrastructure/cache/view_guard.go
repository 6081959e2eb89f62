package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RedisViewGuard suppresses duplicate view counts per viewer per day. A
// viewer's first call for a portfolio sets a marker that expires at the next
// midnight, mirroring the day-scoped window the view counter is reported in.
type RedisViewGuard struct {
	redis *RedisClient
}

func NewRedisViewGuard(redis *RedisClient) *RedisViewGuard {
	return &RedisViewGuard{redis: redis}
}

// FirstViewToday reports whether this viewer has not yet viewed the
// portfolio today. The check-and-mark is a single SETNX so concurrent calls
// count at most once.
func (g *RedisViewGuard) FirstViewToday(ctx context.Context, portfolioID uuid.UUID, viewerKey string) (bool, error) {
	key := fmt.Sprintf("portfolio:viewed:%s:%s", portfolioID, viewerKey)

	ok, err := g.redis.Client.SetNX(ctx, key, 1, untilMidnight(time.Now())).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark view: %w", err)
	}
	return ok, nil
}

func untilMidnight(now time.Time) time.Duration {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return midnight.Sub(now)
}
