package cache

import (
	"context"
	"errors"
	"time"

	"github.com/petgroom/booking-api/internal/usecase"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (r *RedisCache) SetStatus(ctx context.Context, bookingID, status string) error {
	return r.rdb.Set(ctx, "booking:status:"+bookingID, status, r.ttl).Err()
}

func (r *RedisCache) GetStatus(ctx context.Context, bookingID string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, "booking:status:"+bookingID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

var _ usecase.BookingCache = (*RedisCache)(nil)
