package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/teaching-prom/internal/config"
	"github.com/mauv0809/teaching-prom/internal/database"
	server "github.com/mauv0809/teaching-prom/internal/http"
	"github.com/mauv0809/teaching-prom/internal/jobrun"
	"github.com/mauv0809/teaching-prom/internal/metrics"
	"github.com/mauv0809/teaching-prom/internal/pubsub"
	"github.com/mauv0809/teaching-prom/internal/pushgateway"
	"github.com/mauv0809/teaching-prom/internal/sampling"
	"github.com/mauv0809/teaching-prom/internal/simulation"
)

func main() {
	log.SetFormatter(log.JSONFormatter)
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)

	metricsSvc, err := metrics.NewService()
	if err != nil {
		log.Fatal("Failed to register metrics", "error", err)
	}
	metricsHandler := metrics.NewMetricsHandler()

	pusher := &pushgateway.Client{
		URL:        cfg.PushGateway.URL,
		Attempts:   cfg.PushGateway.Attempts,
		RetryDelay: cfg.PushGateway.RetryDelay,
	}
	sim := simulation.New(metricsSvc, pusher, sampling.NewRandom(), cfg.SamplingRate, cfg.Jobs)

	var journal jobrun.Store
	if cfg.DBName != "" || cfg.Turso.PrimaryURL != "" {
		db, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
		if err != nil {
			log.Fatal("Failed to initialize database", "error", err)
		}
		defer func() {
			log.Info("Closing database connection")
			db.Close()
		}()
		journal = jobrun.New(db)
		sim.WithJournal(journal)
	}

	if cfg.ProjectID != "" {
		publisher, err := pubsub.New(context.Background(), cfg.ProjectID, cfg.TransitionsTopic)
		if err != nil {
			log.Fatal("Failed to initialize pubsub", "error", err)
		}
		defer publisher.Close()
		sim.WithPublisher(publisher)
	}

	s := server.NewServer(metricsHandler, journal, cfg)

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: s,
	}

	loops := sim.Start(context.Background())

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port, "pushgateway", cfg.PushGateway.URL)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	if err := loops.Stop(); err != nil {
		log.Error("Simulation loops stopped with error", "error", err)
	}
	log.Info("Server process shutting down")
}
