package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"teamdisk/internal/config"
	"teamdisk/internal/pkg/logger"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	// 初始化日志系统
	if err := os.MkdirAll("logs", 0755); err != nil {
		panic(err)
	}
	logger.InitLogger(cfg.Log.OutputPath, cfg.Log.ErrorPath, cfg.Log.Level)
	defer logger.Sync() // 确保在应用退出时刷新所有缓冲的日志条目

	srv, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize server", zap.Error(err))
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)
	srv.Run(stopChan)
}
