package ioc

import (
	"time"

	"github.com/JrMarcco/hookify/internal/pkg/backoff"
	"github.com/JrMarcco/hookify/internal/pkg/dedupe"
	"github.com/JrMarcco/hookify/internal/pkg/ratelimit"
	"github.com/JrMarcco/hookify/internal/repository"
	"github.com/JrMarcco/hookify/internal/service/secret"
	"github.com/JrMarcco/hookify/internal/service/webhook"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ServiceFxOpt = fx.Options(
	fx.Provide(
		// secret service
		fx.Annotate(
			secret.NewDefaultService,
			fx.As(new(secret.Service)),
		),

		// payload builder
		webhook.NewPayloadBuilder,
		// delivery transport
		fx.Annotate(
			InitTransport,
			fx.As(new(webhook.Transport)),
		),
		// retry backoff
		backoff.New,
		// trigger dedupe
		fx.Annotate(
			InitDedupeStrategy,
			fx.As(new(dedupe.Strategy)),
		),
		// admin rate limiter
		fx.Annotate(
			InitAdminRateLimiter,
			fx.As(new(ratelimit.Limiter)),
		),

		// webhook orchestrator
		fx.Annotate(
			InitWebhookService,
			fx.As(new(webhook.Service)),
		),
		// sweep service
		fx.Annotate(
			InitSweepService,
			fx.As(new(webhook.SweepService)),
		),
	),
)

func InitTransport() *webhook.HttpTransport {
	type config struct {
		Timeout time.Duration `mapstructure:"timeout"`
	}

	cfg := &config{}
	if err := viper.UnmarshalKey("webhook.transport", cfg); err != nil {
		panic(err)
	}
	return webhook.NewHttpTransport(cfg.Timeout)
}

func InitDedupeStrategy(client redis.Cmdable) *dedupe.RedisStrategy {
	type config struct {
		Expiration time.Duration `mapstructure:"expiration"`
	}

	cfg := &config{}
	if err := viper.UnmarshalKey("webhook.dedupe", cfg); err != nil {
		panic(err)
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = time.Minute
	}
	return dedupe.NewRedisStrategy(client, cfg.Expiration)
}

func InitAdminRateLimiter() *ratelimit.FixedWindowLimiter {
	type config struct {
		Limit  int           `mapstructure:"limit"`
		Window time.Duration `mapstructure:"window"`
	}

	cfg := &config{}
	if err := viper.UnmarshalKey("webhook.ratelimit", cfg); err != nil {
		panic(err)
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 30
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return ratelimit.NewFixedWindowLimiter(cfg.Limit, cfg.Window, nil)
}

func InitWebhookService(
	clientRepo repository.ClientRepo,
	orderRepo repository.OrderRepo,
	deliveryRepo repository.DeliveryRepo,
	secretSvc secret.Service,
	builder *webhook.PayloadBuilder,
	transport webhook.Transport,
	bo *backoff.Backoff,
	dedupeStrategy dedupe.Strategy,
	logger *zap.Logger,
) *webhook.DefaultService {
	type config struct {
		MaxAttempts int32 `mapstructure:"max_attempts"`
	}

	cfg := &config{}
	if err := viper.UnmarshalKey("webhook", cfg); err != nil {
		panic(err)
	}

	return webhook.NewDefaultService(
		clientRepo,
		orderRepo,
		deliveryRepo,
		secretSvc,
		builder,
		transport,
		bo,
		dedupeStrategy,
		cfg.MaxAttempts,
		logger,
	)
}

func InitSweepService(
	deliveryRepo repository.DeliveryRepo,
	orchestrator webhook.Service,
	logger *zap.Logger,
) *webhook.DefaultSweepService {
	type config struct {
		BatchSize   int `mapstructure:"batch_size"`
		Concurrency int `mapstructure:"concurrency"`
	}

	cfg := &config{}
	if err := viper.UnmarshalKey("webhook.sweep", cfg); err != nil {
		panic(err)
	}

	return webhook.NewDefaultSweepService(deliveryRepo, orchestrator, cfg.BatchSize, cfg.Concurrency, logger)
}
