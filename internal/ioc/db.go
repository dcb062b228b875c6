package ioc

import (
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DBFxOpt = fx.Provide(
	InitDB,
)

func InitDB() *gorm.DB {
	type dbConfig struct {
		DSN string `mapstructure:"dsn"`
	}

	cfg := &dbConfig{}
	if err := viper.UnmarshalKey("db.mysql", cfg); err != nil {
		panic(err)
	}

	// TranslateError 让唯一约束冲突以 gorm.ErrDuplicatedKey 暴露，
	// 密钥懒创建的冲突重读依赖这一点。
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}
	return db
}
