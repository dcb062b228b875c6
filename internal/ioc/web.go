package ioc

import (
	"github.com/JrMarcco/hookify/internal/api/web"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var WebFxOpt = fx.Provide(
	web.NewAdminHandler,
	InitGinEngine,
)

func InitGinEngine(adminHandler *web.AdminHandler) *gin.Engine {
	type config struct {
		Env string `mapstructure:"env"`
	}

	cfg := &config{}
	if err := viper.UnmarshalKey("profile", cfg); err != nil {
		panic(err)
	}

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	adminHandler.RegisterRoutes(engine)
	return engine
}
