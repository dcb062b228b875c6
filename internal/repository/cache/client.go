package cache

import (
	"context"
	"errors"

	"github.com/JrMarcco/hookify/internal/domain"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("[hookify] client cache miss")

// ClientCache 客户读模型缓存
type ClientCache interface {
	Get(ctx context.Context, id uint64) (domain.Client, error)
	Set(ctx context.Context, client domain.Client) error
}
