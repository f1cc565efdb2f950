package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/alexjbarnes/immich-sync/immich"
	"github.com/alexjbarnes/immich-sync/internal/config"
	"github.com/alexjbarnes/immich-sync/internal/history"
	"github.com/alexjbarnes/immich-sync/internal/logging"
)

var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logOut, closeLog, err := logging.Output(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	logger := logging.NewLoggerTo(logOut, cfg.Environment)
	logger.Info("immich-sync starting",
		slog.String("version", Version),
		slog.String("dir", cfg.SyncDir),
		slog.String("album", cfg.AlbumName),
		slog.Bool("watch", cfg.EnableWatch),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := history.Open(cfg.HistoryBackend, cfg.HistoryPath, logger)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer store.Close()

	identity, err := immich.NewIdentity(cfg.DedupStrategy)
	if err != nil {
		return fmt.Errorf("configuring dedup strategy: %w", err)
	}

	// Endpoint selection and album resolution happen fresh on every
	// run: network topology and album ids may change between runs.
	runner := immich.RunnerFunc(func(ctx context.Context) (int, error) {
		return runOnce(ctx, cfg, store, identity, logger)
	})

	if !cfg.EnableWatch {
		n, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("done", slog.Int("processed", n))
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Drain any backlog before waiting on filesystem events.
		if _, err := runner.Run(gctx); err != nil {
			logger.Error("initial sync failed", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		w := immich.NewWatcher(cfg.SyncDir, cfg.Extensions, runner, logger)
		return w.Watch(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

// runOnce performs a complete sync pass: select the endpoint, build a
// client for it, and hand off to the Syncer.
func runOnce(ctx context.Context, cfg *config.Config, store history.Store, identity immich.Identity, logger *slog.Logger) (int, error) {
	baseURL, err := immich.SelectEndpoint(ctx, cfg.LocalURL, cfg.ExternalURL, immich.Probe(nil), logger)
	if err != nil {
		return 0, fmt.Errorf("selecting endpoint: %w", err)
	}

	client := immich.NewClient(nil, baseURL, cfg.APIKey)

	syncer := immich.NewSyncer(client, immich.SyncConfig{
		Dir:        cfg.SyncDir,
		AlbumName:  cfg.AlbumName,
		DeviceID:   cfg.DeviceName,
		Extensions: cfg.Extensions,
		Identity:   identity,
		Store:      store,
	}, logger)

	return syncer.Run(ctx)
}
