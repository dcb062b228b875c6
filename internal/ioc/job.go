package ioc

import (
	"time"

	"github.com/JrMarcco/dlock"
	"github.com/JrMarcco/hookify/internal/pkg/job"
	"github.com/JrMarcco/hookify/internal/service/webhook"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var JobFxOpt = fx.Provide(
	// dlock 客户端可缺省：未提供时扫描任务退化为单实例裸跑
	fx.Annotate(
		InitSweepLoopJob,
		fx.ParamTags(`optional:"true"`, ``, ``),
	),
)

func InitSweepLoopJob(
	dclient dlock.Dclient,
	sweepSvc webhook.SweepService,
	logger *zap.Logger,
) *job.SweepLoopJob {
	type config struct {
		Interval time.Duration `mapstructure:"interval"`
		Timeout  time.Duration `mapstructure:"timeout"`
	}

	cfg := &config{}
	if err := viper.UnmarshalKey("webhook.sweep", cfg); err != nil {
		panic(err)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}

	return job.NewSweepLoopJob("hookify:sweep", cfg.Interval, cfg.Timeout, dclient, logger, sweepSvc.Sweep)
}
