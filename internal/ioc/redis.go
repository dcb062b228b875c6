package ioc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var RedisFxOpt = fx.Provide(
	InitRedis,
)

// InitRedis 初始化 redis 客户端，客户缓存与触发去重共用同一个连接。
func InitRedis() redis.Cmdable {
	type config struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	}

	cfg := &config{}
	if err := viper.UnmarshalKey("redis", cfg); err != nil {
		panic(err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 启动期做一次连通性探测，连不上直接快速失败
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		panic(fmt.Errorf("[hookify] failed to connect redis at %s: %w", cfg.Addr, err))
	}
	return client
}
