package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/swiss-pairings/internal/archive"
	"github.com/AdamBeresnev/swiss-pairings/internal/config"
	"github.com/AdamBeresnev/swiss-pairings/internal/db"
	"github.com/AdamBeresnev/swiss-pairings/internal/live"
	"github.com/AdamBeresnev/swiss-pairings/internal/service"
	"github.com/AdamBeresnev/swiss-pairings/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	database, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB, cfg.DBDriver, cfg.MigrationsDir); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter, err := archive.New(ctx, cfg.Archive)
	if err != nil {
		log.Fatal("Failed to configure standings archive: ", err)
	}

	hub := live.NewHub(cfg.AllowedOrigins, logger)
	go hub.Run(ctx)

	tournamentStore := store.NewTournamentStore(database)
	a := &api{
		tournaments: service.NewTournamentService(database, tournamentStore),
		pairings:    service.NewPairingService(tournamentStore, tournamentStore, logger),
		hub:         hub,
		exporter:    exporter,
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(a, cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr, "driver", cfg.DBDriver, "archive", cfg.Archive.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
