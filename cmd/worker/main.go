// Package main provides the entrypoint for the StatusDeck refresh worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusdeck/statusdeck/internal/monitor"
	"github.com/statusdeck/statusdeck/internal/provider"
	"github.com/statusdeck/statusdeck/internal/provider/resilience"
	"github.com/statusdeck/statusdeck/internal/telemetry"
	"github.com/statusdeck/statusdeck/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "statusdeck-worker"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting StatusDeck worker")

	// Worker also exposes a health endpoint for the container platform
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	fetchMetrics, err := provider.NewFetchMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize fetch metrics")
	}

	// Initialize the monitor over the default roster
	upstreams := resilience.NewRegistry()
	mon, err := monitor.NewService(monitor.ServiceDeps{
		Upstreams:    upstreams,
		FetchMetrics: fetchMetrics,
		Logger:       log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize monitor")
	}

	refreshConfig := worker.DefaultRefreshConfig()
	if interval := os.Getenv("REFRESH_INTERVAL"); interval != "" {
		parsed, parseErr := time.ParseDuration(interval)
		if parseErr != nil {
			log.Fatal().Err(parseErr).Str("value", interval).Msg("invalid REFRESH_INTERVAL")
		}
		refreshConfig.Interval = parsed
	}

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:  refreshConfig,
		Monitor: mon,
		Logger:  log,
	})

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if serveErr := server.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			log.Error().Err(serveErr).Msg("health server error")
		}
	}()

	// Prefer Pub/Sub-driven refreshes when a subscription is configured;
	// otherwise fall back to the internal ticker.
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")

	workerDone := make(chan struct{})
	if projectID != "" && subscription != "" {
		handler, handlerErr := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if handlerErr != nil {
			log.Fatal().Err(handlerErr).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			defer close(workerDone)
			if receiveErr := handler.Start(ctx); receiveErr != nil {
				log.Error().Err(receiveErr).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Info().Msg("no pubsub subscription configured, using periodic refresh")
		go func() {
			defer close(workerDone)
			refreshJob.RunPeriodic(ctx)
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	select {
	case <-workerDone:
	case <-time.After(30 * time.Second):
		log.Warn().Msg("worker did not stop in time")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
