package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hotel-yunuen/service-reservation/internal/domain/statistics"
)

const statisticsKeyPrefix = "hotel:statistics:"

// StatisticsCache stores hotel statistics as JSON with a TTL.
type StatisticsCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewStatisticsCache creates a StatisticsCache. A non-positive ttl keeps
// entries until they are invalidated.
func NewStatisticsCache(client redis.Cmdable, ttl time.Duration) *StatisticsCache {
	if ttl < 0 {
		ttl = 0
	}
	return &StatisticsCache{client: client, ttl: ttl}
}

func statisticsKey(hotelID uuid.UUID) string {
	return statisticsKeyPrefix + hotelID.String()
}

// Get returns the cached statistics. A miss is (nil, false, nil).
func (c *StatisticsCache) Get(ctx context.Context, hotelID uuid.UUID) (*statistics.HotelStatistics, bool, error) {
	raw, err := c.client.Get(ctx, statisticsKey(hotelID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get statistics: %w", err)
	}

	var st statistics.HotelStatistics
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, false, fmt.Errorf("decode cached statistics: %w", err)
	}
	return &st, true, nil
}

// Set stores s under its hotel id.
func (c *StatisticsCache) Set(ctx context.Context, s *statistics.HotelStatistics) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode statistics: %w", err)
	}
	if err := c.client.Set(ctx, statisticsKey(s.HotelID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set statistics: %w", err)
	}
	return nil
}

// SetIfAbsent stores s only when the hotel has no cached entry. It reports
// whether s was stored.
func (c *StatisticsCache) SetIfAbsent(ctx context.Context, s *statistics.HotelStatistics) (bool, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return false, fmt.Errorf("encode statistics: %w", err)
	}
	stored, err := c.client.SetNX(ctx, statisticsKey(s.HotelID), raw, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("set statistics: %w", err)
	}
	return stored, nil
}

// Invalidate drops the cached statistics of a hotel.
func (c *StatisticsCache) Invalidate(ctx context.Context, hotelID uuid.UUID) error {
	if err := c.client.Del(ctx, statisticsKey(hotelID)).Err(); err != nil {
		return fmt.Errorf("invalidate statistics: %w", err)
	}
	return nil
}
