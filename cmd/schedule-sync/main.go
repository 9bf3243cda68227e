// Package main provides the entry point for the schedule snapshot sync job.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/schedule"
)

func main() {
	configPath := flag.String("config", os.Getenv("GRIDIRON_EDGE_CONFIG"), "Path to configuration file")
	output := flag.String("output", "", "Override snapshot output path")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *output != "" {
		cfg.Schedule.OutputPath = *output
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)

	from, to, err := cfg.ScheduleRange()
	if err != nil {
		appLog.WithError(err).Fatal("Invalid schedule date range")
	}

	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.ProviderTimeout()
	httpCfg.MaxRetries = cfg.Provider.MaxRetries
	httpCfg.RateLimit = cfg.Provider.RateLimit
	httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, appLog)
	defer httpClient.Close()

	provider := datasource.NewProviderClient(cfg, httpClient, appLog)
	builder := schedule.NewBuilder(provider, appLog)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	appLog.WithFields(logrus.Fields{
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
		"output": cfg.Schedule.OutputPath,
	}).Info("Starting schedule snapshot sync")

	snap, err := builder.Build(ctx, from, to)
	if err != nil {
		// Write a valid empty snapshot so downstream consumers never read
		// a partial or missing file.
		if writeErr := schedule.Write(cfg.Schedule.OutputPath, schedule.Snapshot{}); writeErr != nil {
			appLog.WithError(writeErr).Error("Failed to write empty snapshot")
		}
		appLog.WithError(err).Fatal("Snapshot build failed")
	}

	if err := schedule.Write(cfg.Schedule.OutputPath, snap); err != nil {
		appLog.WithError(err).Fatal("Failed to write snapshot")
	}

	appLog.WithField("days", len(snap)).Info("Schedule snapshot sync completed")
}
