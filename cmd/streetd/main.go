package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/voidshard/streetgraph"
	"github.com/voidshard/streetgraph/internal/remote"
	"github.com/voidshard/streetgraph/internal/server"
	"github.com/voidshard/streetgraph/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)

	cfg := streetgraph.DefaultConfig()
	if fpath := os.Getenv("STREETGRAPH_CONFIG"); fpath != "" {
		var err error
		cfg, err = streetgraph.LoadConfig(fpath)
		if err != nil {
			logger.Error("failed to load config", "path", fpath, "err", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &streetgraph.Options{Logger: logger}

	if cfg.StoragePath != "" {
		db, err := store.OpenSQLite(ctx, cfg.StoragePath)
		if err != nil {
			logger.Error("failed to open storage", "path", cfg.StoragePath, "err", err)
			os.Exit(1)
		}
		defer db.Close()
		opts.Storage = db
	} else {
		logger.Warn("no storage_path set, saved maps are kept in memory")
		opts.Storage = store.NewMemory()
	}

	if cfg.SyncAddress != "" {
		opts.Syncer = remote.Dial(cfg.SyncAddress, &remote.Options{
			Logger: logger,
			OnStatus: func(s remote.Status, err error) {
				logger.Info("sync status changed", "status", s.String())
			},
		})
	}

	ed, err := streetgraph.New(cfg, opts)
	if err != nil {
		logger.Error("failed to create editor", "err", err)
		os.Exit(1)
	}
	defer ed.Close()

	srv := server.New(ed, logger)
	go func() {
		<-ctx.Done()
		srv.Shutdown()
	}()

	err = srv.Listen(getenv("STREETD_ADDR", ":3000"))
	if err != nil {
		logger.Error("server stopped", "err", err)
	}
}

func logLevel() slog.Level {
	if os.Getenv("STREETD_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
