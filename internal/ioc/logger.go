package ioc

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var LoggerFxOpt = fx.Provide(
	InitLogger,
)

var LoggerFxInvoke = fx.Invoke(
	LoggerLifecycle,
)

// InitLogger 按运行环境构建 zap 日志器，profile.level 可覆盖默认级别。
func InitLogger() *zap.Logger {
	type config struct {
		Env   string `mapstructure:"env"`
		Level string `mapstructure:"level"`
	}

	cfg := &config{}
	if err := viper.UnmarshalKey("profile", cfg); err != nil {
		panic(err)
	}

	var zapCfg zap.Config
	switch cfg.Env {
	case "prod":
		zapCfg = zap.NewProductionConfig()
	default:
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			panic(fmt.Errorf("[hookify] invalid log level %q: %w", cfg.Level, err))
		}
		zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	zLogger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return zLogger
}

func LoggerLifecycle(lc fx.Lifecycle, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// 退出前刷新日志缓冲区
			_ = logger.Sync()
			return nil
		},
	})
}
