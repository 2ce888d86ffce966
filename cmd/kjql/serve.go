package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groblegark/kjql/internal/config"
	"github.com/groblegark/kjql/internal/events"
	"github.com/groblegark/kjql/internal/server"
	"github.com/groblegark/kjql/internal/snapshot"
	"github.com/groblegark/kjql/internal/store"
	"github.com/groblegark/kjql/internal/store/postgres"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the kjql search server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create an HTTP client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Pick the store: Postgres when configured, in-memory otherwise.
		var st store.Store
		if cfg.DatabaseURL != "" {
			st, err = postgres.New(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			logger.Info("using postgres store")
		} else {
			st = store.NewMemoryStore()
			logger.Info("using in-memory store (KJQL_DATABASE_URL not set)")
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				st.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (KJQL_NATS_URL not set)")
		}

		srv := server.NewServer(st, publisher)

		// Seed the catalog from the configured TOML file, then install
		// whatever revision the store holds.
		if cfg.CatalogPath != "" {
			cat, err := config.LoadCatalog(cfg.CatalogPath)
			if err != nil {
				publisher.Close()
				st.Close()
				return err
			}
			if err := srv.SeedCatalog(context.Background(), cat); err != nil {
				publisher.Close()
				st.Close()
				return err
			}
			logger.Info("catalog seed loaded", "path", cfg.CatalogPath)
		}
		if err := srv.LoadSnapshot(context.Background()); err != nil {
			publisher.Close()
			st.Close()
			return err
		}

		// Start HTTP server.
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: srv.NewHTTPHandler(cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start snapshot export scheduler if a destination is configured.
		var scheduler *snapshot.Scheduler
		if cfg.ExportInterval > 0 && cfg.ExportS3Bucket != "" {
			s3Dest, err := snapshot.NewS3Destination(
				context.Background(),
				cfg.ExportS3Bucket,
				cfg.ExportS3Key,
				cfg.ExportS3Region,
				cfg.ExportS3Endpoint,
			)
			if err != nil {
				logger.Error("failed to create S3 export destination", "err", err)
			} else {
				scheduler = snapshot.NewScheduler(st, []snapshot.Destination{s3Dest}, cfg.ExportInterval, logger)
				scheduler.Start()
				logger.Info("snapshot export started", "bucket", cfg.ExportS3Bucket, "key", cfg.ExportS3Key, "interval", cfg.ExportInterval)
			}
		}

		logger.Info("kjql server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if scheduler != nil {
			scheduler.Stop()
			logger.Info("snapshot export stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
