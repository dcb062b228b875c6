package dedupe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Strategy = (*RedisStrategy)(nil)

// RedisStrategy 触发去重的 redis 实现
//
// SetNX 占位，窗口过期后自动失效。
type RedisStrategy struct {
	client  redis.Cmdable
	expires time.Duration
}

func (r *RedisStrategy) Exists(ctx context.Context, key string) (bool, error) {
	res, err := r.client.SetNX(ctx, r.redisKey(key), 1, r.expires).Result()
	if err != nil {
		return false, err
	}
	return !res, nil
}

func (r *RedisStrategy) redisKey(key string) string {
	return "dedupe:trigger:" + key
}

func NewRedisStrategy(client redis.Cmdable, expires time.Duration) *RedisStrategy {
	return &RedisStrategy{
		client:  client,
		expires: expires,
	}
}
