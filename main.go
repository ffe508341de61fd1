// @title LMS 后端 API
// @version 1.0
// @description 学习管理平台的后端服务器：模块、课时与测验。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"lms_backend/internal/app"
	"lms_backend/internal/config"
	"lms_backend/pkg/configwatcher"
	"lms_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 配置热更新：服务持有 *Config，原地替换即可生效
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if c, ok := newCfg.(*config.Config); ok {
			*cfg = *c
			logger.Log.Info("Config reloaded")
		}
	})

	application.Run()
}
