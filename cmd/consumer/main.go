package main

import (
	"go-leave/internal/app"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := zap.NewDevelopment()
	if cfg.Production() {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := app.RunConsumer(cfg, logger); err != nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
}
