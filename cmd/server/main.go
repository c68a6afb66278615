// Package main provides the entry point for the regatta service daemon.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/regatta-hub/internal/config"
	"github.com/yourusername/regatta-hub/internal/database"
	"github.com/yourusername/regatta-hub/internal/health"
	"github.com/yourusername/regatta-hub/internal/identity"
	"github.com/yourusername/regatta-hub/internal/logger"
	"github.com/yourusername/regatta-hub/internal/metrics"
	"github.com/yourusername/regatta-hub/internal/repository"
	"github.com/yourusername/regatta-hub/internal/scheduler"
	"github.com/yourusername/regatta-hub/internal/service"
)

// Set via -ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.LoadWithDefaults()
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
		if err := config.Validate(cfg); err != nil {
			log.Fatalf("Invalid configuration after secrets overlay: %v", err)
		}
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Regatta Hub starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	store, err := repository.NewPostgresStore(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create repository store")
	}

	metrics.InitRegistry()

	identityClient := identity.NewClient(identity.Config{
		BaseURL:  cfg.Identity.BaseURL,
		APIKey:   cfg.Identity.APIKey,
		CacheTTL: cfg.IdentityCacheTTL(),
		HTTP: identity.HTTPClientConfig{
			Timeout:           cfg.IdentityTimeout(),
			MaxRetries:        cfg.Identity.RetryAttempts,
			RetryWaitMin:      100 * time.Millisecond,
			RetryWaitMax:      5 * time.Second,
			RateLimit:         cfg.Identity.RateLimit,
			CircuitBreakerMax: 5,
		},
	}, appLog)
	defer identityClient.Close()

	allocator := service.NewBowAllocator(store, appLog)
	lifecycle := service.NewLifecycle(store, allocator, appLog)

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Health.Port,
		Logger:      appLog,
		DB:          db,
		Checks: map[string]health.CheckFunc{
			"identity": identityClient.HealthCheck,
		},
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.Metrics.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	sched := scheduler.NewScheduler(lifecycle, appLog)
	if cfg.Registration.SweepEnabled {
		if err := sched.ScheduleCloseSweep(cfg.Registration.CloseSweepSchedule); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule registration close sweep")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
	} else {
		appLog.Info("Registration close sweep disabled")
	}

	healthServer.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"sweep_enabled":   cfg.Registration.SweepEnabled,
		"metrics_enabled": cfg.Metrics.Enabled,
	}).Info("Regatta Hub running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Error stopping metrics server")
		}
		shutdownCancel()
	}

	appLog.Info("Regatta Hub shut down successfully")
}
