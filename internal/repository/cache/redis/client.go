package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JrMarcco/hookify/internal/domain"
	"github.com/JrMarcco/hookify/internal/repository/cache"
	"github.com/redis/go-redis/v9"
)

var _ cache.ClientCache = (*ClientRedisCache)(nil)

// ClientRedisCache 客户读模型的 redis 缓存
type ClientRedisCache struct {
	client  redis.Cmdable
	expires time.Duration
}

func (rc *ClientRedisCache) Get(ctx context.Context, id uint64) (domain.Client, error) {
	val, err := rc.client.Get(ctx, rc.redisKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Client{}, cache.ErrCacheMiss
		}
		return domain.Client{}, err
	}

	var c domain.Client
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

func (rc *ClientRedisCache) Set(ctx context.Context, client domain.Client) error {
	jsonBytes, err := json.Marshal(client)
	if err != nil {
		return err
	}
	return rc.client.Set(ctx, rc.redisKey(client.Id), jsonBytes, rc.expires).Err()
}

func (rc *ClientRedisCache) redisKey(id uint64) string {
	return fmt.Sprintf("client:%d", id)
}

func NewClientRedisCache(client redis.Cmdable, expires time.Duration) *ClientRedisCache {
	return &ClientRedisCache{
		client:  client,
		expires: expires,
	}
}
