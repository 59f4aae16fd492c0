package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/app"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/config"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/db"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/validation"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, warning, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log, err := logging.New(cfg.LogLevel, cfg.IsProduction)
	if err != nil {
		logrus.WithError(err).Fatal("failed to build logger")
	}
	if warning != nil {
		log.WithError(warning).Debug("continuing with process environment only")
	}

	if err := validation.RegisterGin(); err != nil {
		log.WithError(err).Fatal("failed to register validators")
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to db")
	}
	defer pool.Close()

	container, err := app.NewContainer(cfg, pool, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build application")
	}

	// Notifications are delivered in the background and drained on shutdown.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		container.Dispatcher.Run(ctx)
	}()

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server forced to shutdown")
	}

	wg.Wait()
	log.Info("server exited gracefully")
}
