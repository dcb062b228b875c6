package ioc

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/JrMarcco/hookify/internal/pkg/job"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var AppFxOpt = fx.Provide(
	InitApp,
)

var AppFxInvoke = fx.Invoke(
	AppLifecycle,
)

type App struct {
	server   *http.Server
	addr     string
	timeout  time.Duration
	sweepJob *job.SweepLoopJob

	sweepCancel context.CancelFunc

	logger *zap.Logger
}

func InitApp(engine *gin.Engine, sweepJob *job.SweepLoopJob, zLogger *zap.Logger) *App {
	type config struct {
		Addr    string `mapstructure:"addr"`
		Timeout int    `mapstructure:"timeout"`
	}
	cfg := &config{}
	if err := viper.UnmarshalKey("app", cfg); err != nil {
		panic(err)
	}

	return &App{
		server: &http.Server{
			Handler: engine,
		},
		addr:     cfg.Addr,
		timeout:  time.Duration(cfg.Timeout) * time.Millisecond,
		sweepJob: sweepJob,
		logger:   zLogger,
	}
}

func AppLifecycle(lc fx.Lifecycle, app *App) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", app.addr)
			if err != nil {
				return err
			}

			// 启动管理接口
			go func() {
				if serveErr := app.server.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
					panic(serveErr)
				}
			}()

			// 启动到期重试扫描
			sweepCtx, cancel := context.WithCancel(context.Background())
			app.sweepCancel = cancel
			go app.sweepJob.Run(sweepCtx)

			app.logger.Info("[hookify] app started", zap.String("addr", app.addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if app.sweepCancel != nil {
				app.sweepCancel()
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, app.timeout)
			defer cancel()

			// 优雅退出
			return app.server.Shutdown(shutdownCtx)
		},
	})
}
