package main

import (
	"context"   // context package is needed for Redis operations and shutdown
	"errors"    // Distinguish a clean server close
	"net/http"  // HTTP server
	"os"        // Signal channel type
	"os/signal" // Interrupt handling
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"ledger_system/internal/api"     // Custom package for API handlers
	"ledger_system/internal/config"  // Custom package for configuration
	"ledger_system/internal/db"      // Journal database
	"ledger_system/internal/events"  // Post-commit sinks
	"ledger_system/internal/ledger"  // Account ledger
	"ledger_system/internal/logger"  // Logger setup
	"ledger_system/internal/metrics" // Prometheus collectors

	"github.com/gin-gonic/gin"                       // Gin web framework
	"github.com/prometheus/client_golang/prometheus" // Metrics registry
	"github.com/redis/go-redis/v9"                   // Redis client
	"github.com/sirupsen/logrus"                     // Logrus for structured logging
)

const shutdownTimeout = 10 * time.Second

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Setup logger
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	l := ledger.New(cfg.AccountID, cfg.AccountReference) // The account served by this process
	log.WithFields(logrus.Fields{
		"account_id": cfg.AccountID,        // Account ID
		"reference":  cfg.AccountReference, // Account reference
	}).Info("Ledger initialized")

	sinks := events.Fanout{} // Post-commit sinks

	// Setup Redis publisher when configured
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		defer redisClient.Close()

		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		sinks = append(sinks, events.NewRedisPublisher(redisClient, cfg.RedisChannel))
		log.WithField("channel", cfg.RedisChannel).Info("Publishing transactions to Redis")
	}

	// Setup the audit journal when a database is configured
	if cfg.DBHost != "" {
		gdb, err := db.Open(cfg.DSN())
		if err != nil {
			log.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
		}
		sinks = append(sinks, db.NewJournal(gdb))
		log.WithField("host", cfg.DBHost).Info("Journaling transactions to MySQL")
	}

	// Setup metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewPrometheusCollector("ledger", func() float64 {
		return l.GetBalance().Balance.InexactFloat64()
	})
	if err := collector.Register(registry); err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewRouter(api.Dependencies{
		Ledger:   l,         // Account ledger
		Sink:     sinks,     // Post-commit sinks
		Recorder: collector, // Metrics recorder
		Gatherer: registry,  // Metrics registry
		Log:      log,       // Logger
	})
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort, // Listen address
		Handler:           r,                 // Gin router
		ReadHeaderTimeout: 5 * time.Second,   // Slow client guard
	}

	go func() {
		log.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for an interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	}
	log.Info("Server stopped")
}
