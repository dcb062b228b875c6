package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/JrMarcco/hookify/internal/domain"
	"github.com/JrMarcco/hookify/internal/errs"
	"github.com/JrMarcco/hookify/internal/repository/cache"
	"github.com/JrMarcco/hookify/internal/repository/dao"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ClientRepo interface {
	GetById(ctx context.Context, id uint64) (domain.Client, error)
}

var _ ClientRepo = (*DefaultClientRepo)(nil)

// DefaultClientRepo 客户读模型仓储
//
// 两级缓存：进程内 -> redis -> db，读到后逐级回填。
// 缓存故障只记日志不阻断读取。
type DefaultClientRepo struct {
	clientDAO  dao.ClientDAO
	localCache cache.ClientCache
	redisCache cache.ClientCache
	logger     *zap.Logger
}

func (r *DefaultClientRepo) GetById(ctx context.Context, id uint64) (domain.Client, error) {
	c, err := r.localCache.Get(ctx, id)
	if err == nil {
		return c, nil
	}

	c, err = r.redisCache.Get(ctx, id)
	if err == nil {
		if setErr := r.localCache.Set(ctx, c); setErr != nil {
			r.logger.Warn("[hookify] failed to backfill client local cache", zap.Uint64("client_id", id), zap.Error(setErr))
		}
		return c, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn("[hookify] failed to read client redis cache", zap.Uint64("client_id", id), zap.Error(err))
	}

	entity, err := r.clientDAO.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Client{}, fmt.Errorf("%w: id = %d", errs.ErrClientNotFound, id)
		}
		return domain.Client{}, err
	}

	c = r.toDomain(entity)
	if setErr := r.redisCache.Set(ctx, c); setErr != nil {
		r.logger.Warn("[hookify] failed to backfill client redis cache", zap.Uint64("client_id", id), zap.Error(setErr))
	}
	if setErr := r.localCache.Set(ctx, c); setErr != nil {
		r.logger.Warn("[hookify] failed to backfill client local cache", zap.Uint64("client_id", id), zap.Error(setErr))
	}
	return c, nil
}

func (r *DefaultClientRepo) toDomain(entity dao.Client) domain.Client {
	return domain.Client{
		Id:              entity.Id,
		CompanyName:     entity.CompanyName,
		CallbackUrl:     entity.CallbackUrl,
		CallbackEnabled: entity.CallbackEnabled,
	}
}

func NewDefaultClientRepo(
	clientDAO dao.ClientDAO,
	localCache cache.ClientCache,
	redisCache cache.ClientCache,
	logger *zap.Logger,
) *DefaultClientRepo {
	return &DefaultClientRepo{
		clientDAO:  clientDAO,
		localCache: localCache,
		redisCache: redisCache,
		logger:     logger,
	}
}
