package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gregdel/pushover"

	"jobpush/app/api"
	"jobpush/app/cfg"
	"jobpush/app/database"
	"jobpush/app/feed"
	"jobpush/app/notify"
	"jobpush/app/worker"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting JobPush", "version", appCfg.Version)

	// Database connection
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	// Watch configuration (feeds and keywords), loaded once, immutable
	watchConfig, err := feed.LoadConfig(appCfg.WatchConfig)
	if err != nil {
		slog.Error("Failed to load watch configuration", "path", appCfg.WatchConfig, "error", err)
		os.Exit(1)
	}
	slog.Info("Watch configuration loaded", "feeds", len(watchConfig.Feeds), "keywords", len(watchConfig.Keywords))

	postingRepo := database.NewPostingRepository(db)

	// Pipeline components
	httpClient := &http.Client{}
	reader := feed.NewReader(httpClient, feed.NewParser(), appCfg.UserAgent)
	filterer := feed.NewFilterer()

	pushoverClient := pushover.New(appCfg.PushoverToken)
	recipient := pushover.NewRecipient(appCfg.PushoverUser)
	dispatcher := notify.NewDispatcher(pushoverClient, recipient, notify.NewComposer(),
		time.Duration(appCfg.SendDelay)*time.Second)

	// Polling worker
	pollWorker := worker.NewWorker(reader, filterer, dispatcher, postingRepo, watchConfig,
		time.Duration(appCfg.PollInterval)*time.Second)
	pollWorker.Start()
	defer pollWorker.Stop()
	slog.Info("Polling worker started", "interval", time.Duration(appCfg.PollInterval)*time.Second)

	// Status HTTP server
	apiHandler := api.NewHandler(postingRepo, watchConfig, pollWorker)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Status server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Worker is stopped via defer; an in-flight cycle completes its
	// database write before the loop exits.
	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
