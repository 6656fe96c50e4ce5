package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"myworld/backend/internal/app"
	"myworld/backend/internal/config"
	"myworld/backend/internal/logging"
)

func main() {
	cfg, err := config.Load(config.New())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
