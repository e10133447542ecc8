package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fauzaanu/diet/internal/bot"
	"github.com/fauzaanu/diet/internal/config"
	"github.com/fauzaanu/diet/internal/database"
	"github.com/fauzaanu/diet/internal/logger"
	"github.com/fauzaanu/diet/internal/payments"
	"github.com/fauzaanu/diet/internal/session"

	"log/slog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("bot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	startedAt := time.Now()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	app := bot.NewApp(cfg,
		session.NewPostgresStore(db),
		payments.NewPostgresStore(db),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info(ctx, "app", "ready",
		slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
	)

	err = app.Run(ctx)

	logger.Info(context.Background(), "app", "shutdown")
	return err
}
