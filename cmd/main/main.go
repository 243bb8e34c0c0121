package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/catalog/internal/config"
	"storefront/catalog/internal/container"

	log "github.com/sirupsen/logrus"
)

func init() {
	// Configure logrus
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}

func main() {
	task := flag.String("task", "serve", "Task to run (serve, export).")
	output := flag.String("out", "catalog.xlsx", "Output path for the export task.")
	flag.Parse()

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	configureLogging(cfg.Log)
	log.Info("Configuration loaded successfully")

	if err := run(cfg, *task, *output); err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}
	log.Info("Application finished successfully")
}

func run(cfg *config.Config, task, output string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize container with all dependencies
	app, err := container.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer app.Close()

	switch task {
	case "serve":
		log.Info("Starting storefront catalog...")
		return app.Run(ctx)
	case "export":
		return app.Export(ctx, output)
	default:
		return fmt.Errorf("unknown task %q", task)
	}
}

func configureLogging(cfg config.LogConfig) {
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	}
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("Invalid log level %q, using info", cfg.Level)
		return
	}
	log.SetLevel(level)
}
