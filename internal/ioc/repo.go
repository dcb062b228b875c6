package ioc

import (
	"time"

	"github.com/JrMarcco/hookify/internal/repository"
	"github.com/JrMarcco/hookify/internal/repository/cache"
	"github.com/JrMarcco/hookify/internal/repository/cache/local"
	rediscache "github.com/JrMarcco/hookify/internal/repository/cache/redis"
	"github.com/JrMarcco/hookify/internal/repository/dao"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var RepoFxOpt = fx.Options(
	// cache
	fx.Provide(
		fx.Annotate(
			InitClientLocalCache,
			fx.As(new(cache.ClientCache)),
			fx.ResultTags(`name:"client_local_cache"`),
		),
		fx.Annotate(
			InitClientRedisCache,
			fx.As(new(cache.ClientCache)),
			fx.ResultTags(`name:"client_redis_cache"`),
		),
	),

	// dao
	fx.Provide(
		// delivery dao
		fx.Annotate(
			dao.NewDefaultDeliveryDAO,
			fx.As(new(dao.DeliveryDAO)),
		),
		// client secret dao
		fx.Annotate(
			dao.NewDefaultClientSecretDAO,
			fx.As(new(dao.ClientSecretDAO)),
		),
		// client dao
		fx.Annotate(
			dao.NewDefaultClientDAO,
			fx.As(new(dao.ClientDAO)),
		),
		// order dao
		fx.Annotate(
			dao.NewDefaultOrderDAO,
			fx.As(new(dao.OrderDAO)),
		),
	),

	// repository
	fx.Provide(
		// delivery repository
		fx.Annotate(
			repository.NewDefaultDeliveryRepo,
			fx.As(new(repository.DeliveryRepo)),
		),
		// secret repository
		fx.Annotate(
			repository.NewDefaultSecretRepo,
			fx.As(new(repository.SecretRepo)),
		),
		// client repository
		fx.Annotate(
			repository.NewDefaultClientRepo,
			fx.As(new(repository.ClientRepo)),
			fx.ParamTags(``, `name:"client_local_cache"`, `name:"client_redis_cache"`, ``),
		),
		// order repository
		fx.Annotate(
			repository.NewDefaultOrderRepo,
			fx.As(new(repository.OrderRepo)),
		),
	),
)

func InitClientLocalCache() *local.ClientLocalCache {
	return local.NewClientLocalCache(clientCacheExpiration())
}

func InitClientRedisCache(client redis.Cmdable) *rediscache.ClientRedisCache {
	return rediscache.NewClientRedisCache(client, clientCacheExpiration())
}

func clientCacheExpiration() time.Duration {
	type config struct {
		Expiration time.Duration `mapstructure:"expiration"`
	}

	cfg := &config{}
	if err := viper.UnmarshalKey("cache.client", cfg); err != nil {
		panic(err)
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = 5 * time.Minute
	}
	return cfg.Expiration
}
