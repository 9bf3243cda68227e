// Package main provides the entry point for the win-probability service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/directory"
	"github.com/yourusername/gridiron-edge/internal/finals"
	"github.com/yourusername/gridiron-edge/internal/health"
	"github.com/yourusername/gridiron-edge/internal/lifecycle"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/market"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/prob"
	"github.com/yourusername/gridiron-edge/internal/ratings"
	"github.com/yourusername/gridiron-edge/internal/schedule"
	"github.com/yourusername/gridiron-edge/internal/scheduler"
	"github.com/yourusername/gridiron-edge/internal/server"
	"github.com/yourusername/gridiron-edge/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults(os.Getenv("GRIDIRON_EDGE_CONFIG"))
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

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Gridiron Edge starting")

	metrics.InitRegistry()

	if err := tracing.Initialize(tracing.Config{
		ServiceName: cfg.App.Name,
		Enabled:     cfg.Tracing.Enabled,
		DaemonAddr:  cfg.Tracing.DaemonAddr,
	}, appLog); err != nil {
		appLog.WithError(err).Warn("Failed to initialize tracing")
	}

	// Data provider and core components
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.ProviderTimeout()
	httpCfg.MaxRetries = cfg.Provider.MaxRetries
	httpCfg.RateLimit = cfg.Provider.RateLimit
	httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, appLog)
	defer httpClient.Close()

	provider := datasource.NewProviderClient(cfg, httpClient, appLog)
	if !provider.HasCredential() {
		appLog.Warn("No provider API key configured; market odds will be unavailable")
	}

	teamDir := directory.NewTeamDirectory(provider, appLog)
	finalsRepo := finals.NewRepository(provider, teamDir, cfg.RatingsCacheTTL(), appLog)

	params := ratings.Hyperparameters{
		Epochs:       cfg.Model.Epochs,
		LearningRate: cfg.Model.LearningRate,
		RecencyBase:  cfg.Model.RecencyBase,
		SigmaMin:     cfg.Model.SigmaMin,
		SigmaMax:     cfg.Model.SigmaMax,
		DefaultHFA:   cfg.Model.DefaultHFA,
		DefaultSigma: cfg.Model.DefaultSigma,
	}
	model := ratings.NewModel(finalsRepo, params, cfg.RatingsCacheTTL(), appLog)
	oddsAdapter := market.NewAdapter(provider, appLog)
	blender := prob.NewBlender(model, oddsAdapter, cfg.Model.MarketBlendWeight,
		cfg.Model.DefaultHFA, cfg.Model.DefaultSigma, appLog)

	controller := lifecycle.NewController(blender, lifecycle.RealClock{},
		cfg.FreezeLead(), cfg.RefreshInterval(), appLog)

	apiServer, err := server.New(cfg, provider, model, controller, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create API server")
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Health check server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Server.HealthPort,
		Logger:      appLog,
		Directory:   teamDir,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Background jobs: snapshot refresh and live score polling
	jobs := scheduler.NewScheduler(appLog)
	if cfg.Schedule.Cron != "" {
		builder := schedule.NewBuilder(provider, appLog)
		err := jobs.ScheduleSnapshotRefresh(cfg.Schedule.Cron, func(jobCtx context.Context) error {
			from, to, err := cfg.ScheduleRange()
			if err != nil {
				return err
			}
			snap, err := builder.Build(jobCtx, from, to)
			if err != nil {
				return err
			}
			if err := schedule.Write(cfg.Schedule.OutputPath, snap); err != nil {
				return err
			}
			apiServer.ReplaceSnapshot(snap)
			return nil
		})
		if err != nil {
			appLog.WithError(err).Fatal("Failed to schedule snapshot refresh")
		}
	}
	if err := jobs.ScheduleLivePolling(cfg.Lifecycle.LivePollSeconds, apiServer.PollLiveScores); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule live polling")
	}
	if err := jobs.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	// Warm the team directory so readiness flips as soon as the provider
	// answers.
	go func() {
		warmCtx, warmCancel := context.WithTimeout(ctx, 30*time.Second)
		defer warmCancel()
		if err := teamDir.Check(warmCtx); err != nil {
			appLog.WithError(err).Warn("Team directory warm-up failed; will retry on demand")
			healthServer.SetReady(true)
			return
		}
		healthServer.SetReady(true)
	}()

	// Run the API server; it returns when ctx is cancelled.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- apiServer.Start(ctx)
	}()

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			appLog.WithError(err).Error("API server exited")
		}
	}

	// Graceful shutdown
	cancel()
	if err := jobs.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}
	time.Sleep(1 * time.Second)

	appLog.Info("Gridiron Edge shut down successfully")
}
