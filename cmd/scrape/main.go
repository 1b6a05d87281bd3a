package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/jalshrestha/capitolwatch/configs"
	"github.com/jalshrestha/capitolwatch/internal/feed"
	"github.com/jalshrestha/capitolwatch/internal/fetcher"
	"github.com/jalshrestha/capitolwatch/internal/gateway"
	"github.com/jalshrestha/capitolwatch/internal/orchestrator"
	"github.com/jalshrestha/capitolwatch/internal/registry"
	"github.com/jalshrestha/capitolwatch/internal/source"
	"github.com/jalshrestha/capitolwatch/internal/storage"
	"github.com/jalshrestha/capitolwatch/pkg/logger"
)

func main() {
	maxPages := flag.Int("max-pages", 0, "Listing page cap per source (0 = configured default)")
	testMode := flag.Bool("test", false, "Run only the synthetic sample source")
	flag.Parse()

	cfg := configs.AppLoad()

	// Human-readable progress output for interactive runs; the pipeline
	// itself logs through slog.
	cli := logrus.New()
	cli.SetLevel(logrus.InfoLevel)
	cli.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lg := logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	store, err := storage.Open(cfg.DBDSN)
	if err != nil {
		cli.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	reg, err := registry.Load()
	if err != nil {
		cli.Fatalf("Failed to load member registry: %v", err)
	}

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
	}

	gw := gateway.New(store, reg, pub, lg)
	runner := orchestrator.New(connectors, synthetic, gw, store, lg, cfg.Scrape.WindowDays)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cli.Info("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	pages := *maxPages
	if pages <= 0 {
		pages = cfg.Scrape.MaxPages
	}

	cli.Infof("Starting scrape run (maxPages=%d, testMode=%v)", pages, *testMode)
	res, err := runner.Run(ctx, orchestrator.Options{MaxPages: pages, TestMode: *testMode})
	if err != nil {
		cli.Fatalf("Run failed: %v", err)
	}

	cli.Infof("Run %s finished: status=%s found=%d saved=%d duration=%s",
		res.RunID, res.Status, res.TotalFound, res.TotalSaved, res.Duration)
	for src, n := range res.PerSourceSaved {
		cli.Infof("  %s: found=%d saved=%d", src, res.PerSourceFound[src], n)
	}
	for _, e := range res.Errors {
		cli.Warnf("  error: %s", e)
	}
	if len(res.Errors) > 0 {
		os.Exit(1)
	}
}
