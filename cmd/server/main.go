package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/clickhouse"
	"gorm.io/gorm"

	"github.com/jalshrestha/capitolwatch/configs"
	"github.com/jalshrestha/capitolwatch/internal/feed"
	"github.com/jalshrestha/capitolwatch/internal/fetcher"
	"github.com/jalshrestha/capitolwatch/internal/gateway"
	"github.com/jalshrestha/capitolwatch/internal/handler"
	"github.com/jalshrestha/capitolwatch/internal/orchestrator"
	"github.com/jalshrestha/capitolwatch/internal/registry"
	"github.com/jalshrestha/capitolwatch/internal/router"
	"github.com/jalshrestha/capitolwatch/internal/scheduler"
	"github.com/jalshrestha/capitolwatch/internal/source"
	"github.com/jalshrestha/capitolwatch/internal/storage"
	"github.com/jalshrestha/capitolwatch/pkg/logger"
)

func main() {
	cfg := configs.AppLoad()
	lg := logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	db, err := gorm.Open(clickhouse.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	migrateFlag := flag.Bool("migrate", false, "Run database migrations and exit")
	flag.Parse()

	if *migrateFlag {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("Failed to get sql.DB: %v", err)
		}
		if err := goose.SetDialect("clickhouse"); err != nil {
			log.Fatalf("Goose: failed to set dialect: %v", err)
		}
		log.Println("Running database migrations...")
		if err := goose.Up(sqlDB, "migrations"); err != nil {
			log.Fatalf("Goose migration failed: %v", err)
		}
		return
	}

	reg, err := registry.Load()
	if err != nil {
		log.Fatalf("Failed to load member registry: %v", err)
	}

	store := storage.NewGormStore(db)
	defer store.Close()

	govClient := fetcher.New(fetcher.Config{
		MinDelay: cfg.Scrape.GovRequestDelay,
		Timeout:  cfg.Scrape.RequestTimeout,
	})
	apiClient := fetcher.New(fetcher.Config{
		MinDelay: cfg.Scrape.APIRequestDelay,
		Timeout:  cfg.Scrape.RequestTimeout,
	})

	connectors := []source.Connector{
		source.NewFeed(apiClient, lg, true),
		source.NewEdgar(apiClient, reg, lg),
		source.NewHouse(govClient, lg),
		source.NewSenate(govClient, lg),
	}
	synthetic := source.NewSynthetic(0, 0)

	var pub gateway.Publisher
	if cfg.Feed.Broker != "" {
		kp := feed.NewPublisher(cfg.Feed.Broker, cfg.Feed.Topic)
		defer kp.Close()
		pub = kp
		lg.Info("trade feed enabled", "broker", cfg.Feed.Broker, "topic", cfg.Feed.Topic)
	}

	gw := gateway.New(store, reg, pub, lg)
	runner := orchestrator.New(connectors, synthetic, gw, store, lg, cfg.Scrape.WindowDays)

	sched := scheduler.New(lg)
	if err := sched.RegisterDefaults(runner); err != nil {
		log.Fatalf("Failed to register scheduled jobs: %v", err)
	}
	sched.Start()

	h := handler.NewScrapeHandler(runner, sched, lg)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router.New(h),
	}

	go func() {
		lg.Info("server listening", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	lg.Info("Received shutdown signal, gracefully shutting down...")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("server shutdown failed", "error", err)
	}
}
