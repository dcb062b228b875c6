package local

import (
	"context"
	"fmt"
	"time"

	"github.com/JrMarcco/hookify/internal/domain"
	"github.com/JrMarcco/hookify/internal/repository/cache"
	gcache "github.com/patrickmn/go-cache"
)

var _ cache.ClientCache = (*ClientLocalCache)(nil)

// ClientLocalCache 客户读模型的进程内缓存
type ClientLocalCache struct {
	c *gcache.Cache
}

func (lc *ClientLocalCache) Get(_ context.Context, id uint64) (domain.Client, error) {
	val, ok := lc.c.Get(lc.cacheKey(id))
	if !ok {
		return domain.Client{}, cache.ErrCacheMiss
	}
	return val.(domain.Client), nil
}

func (lc *ClientLocalCache) Set(_ context.Context, client domain.Client) error {
	lc.c.Set(lc.cacheKey(client.Id), client, gcache.DefaultExpiration)
	return nil
}

func (lc *ClientLocalCache) cacheKey(id uint64) string {
	return fmt.Sprintf("client:%d", id)
}

func NewClientLocalCache(expiration time.Duration) *ClientLocalCache {
	return &ClientLocalCache{
		c: gcache.New(expiration, 2*expiration),
	}
}
