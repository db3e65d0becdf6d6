package main

import (
	"github.com/giovannimartelli/AlbertQuackmore/config"
	"github.com/giovannimartelli/AlbertQuackmore/internal/app"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/logger"
)

func main() {
	cfg := config.Get()

	logger := logger.New(logger.Options{
		LogLevel:        cfg.Logger.LogLevel,
		LogFile:         cfg.Logger.LogFilename,
		PrettyLogOutput: cfg.Logger.PrettyLogOutput,
	})

	app.Run(cfg, logger)
}
