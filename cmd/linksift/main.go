package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"linksift/internal/bot"
	"linksift/internal/config"
	"linksift/internal/logging"
	"linksift/internal/parser"
	"linksift/internal/scraper"
	"linksift/internal/service"
	"linksift/internal/storage"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.RequireBotToken(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{
		"badgerdb_path":      cfg.BadgerDBPath,
		"max_content_length": cfg.MaxContentLength,
		"max_url_count":      cfg.MaxURLCount,
		"scrape_enabled":     cfg.ScrapeEnabled,
	}).Info("Configuration loaded successfully")

	// --- Initialize Components ---
	repo, err := storage.NewBadgerRepository(cfg.BadgerDBPath, log)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}()

	var titles scraper.TitleFetcher
	if cfg.ScrapeEnabled {
		if scraper.Available() {
			titles = scraper.NewRodScraper(log, cfg.ScrapeTimeout)
		} else {
			log.Warn("SCRAPE_ENABLED is set but no browser was found; /titles is disabled")
			cfg.ScrapeEnabled = false
		}
	}

	svc := service.New(
		parser.New(parser.WithLogger(log)),
		repo,
		titles,
		service.Limits{MaxContentLength: cfg.MaxContentLength, MaxURLCount: cfg.MaxURLCount},
		log,
	)

	botHandler, err := bot.NewHandler(cfg, svc, log)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram bot handler: %v", err)
	}

	// --- Application Startup ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go botHandler.Start(ctx)

	log.Info("linksift is running. Press Ctrl+C to exit.")
	<-ctx.Done()

	log.Info("Shutting down linksift...")
	stop()
}
