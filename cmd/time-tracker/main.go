package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mauricedesaxe/time-tracker/internal/config"
	apphttp "github.com/mauricedesaxe/time-tracker/internal/http"
	applog "github.com/mauricedesaxe/time-tracker/internal/log"
	"github.com/mauricedesaxe/time-tracker/internal/storage"
	"github.com/mauricedesaxe/time-tracker/internal/store"
	"github.com/mauricedesaxe/time-tracker/internal/worker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.ComponentApp, slog.LevelInfo)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	snaps, err := openSnapshots(cfg)
	if err != nil {
		return fmt.Errorf("open snapshot backend: %w", err)
	}
	defer snaps.Close()

	st := store.New()

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	state, err := snaps.Load(loadCtx)
	loadCancel()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	st.Restore(state)
	st.InitDefaults()

	logger.Info("State loaded",
		applog.FieldBackend, cfg.SnapshotBackend,
		applog.FieldEntryCount, len(state.TimeEntries))

	srv := apphttp.NewServer(":"+cfg.Port, st, cfg.PruneDefaultDays)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	snapWorker := worker.NewSnapshotWorker(st, snaps,
		cfg.SaveDebounce, cfg.InvariantCheckInterval, logger)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting time-tracker server",
			"port", cfg.Port, applog.FieldBackend, cfg.SnapshotBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return snapWorker.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

func openSnapshots(cfg *config.Config) (storage.Snapshots, error) {
	switch cfg.SnapshotBackend {
	case "file":
		return storage.NewFileStore(cfg.SnapshotPath)
	case "sqlite":
		return storage.NewSQLiteStore(cfg.SQLiteDBPath)
	case "memory":
		return storage.Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
	}
}
