package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"

	"github.com/username/tradejournal/src/database"
	"github.com/username/tradejournal/src/handlers"
	"github.com/username/tradejournal/src/logger"
	"github.com/username/tradejournal/src/processors"
	"github.com/username/tradejournal/src/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the import HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			logger.L.Info("Trade journal server starting...")

			logger.L.Info("Initializing database...", "path", cfg.DatabasePath)
			if err := database.InitDB(cfg.DatabasePath); err != nil {
				return err
			}
			defer database.DB.Close()

			reportCache := cache.New(cfg.ParseCacheTTL, 2*cfg.ParseCacheTTL)

			store := services.NewSQLiteTradeStore(database.DB)
			importService := services.NewImportService(processors.NewTradeProcessor(), store, store, reportCache,
				services.WithBatchSize(cfg.ImportBatchSize))

			router := handlers.NewRouter(cfg,
				handlers.NewImportHandler(importService, store, cfg.MaxUploadSizeBytes),
				handlers.NewTradeHandler(store))

			server := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.L.Info("Server starting", "address", server.Addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.L.Error("Failed to start server", "error", err)
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.L.Info("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.L.Error("Graceful shutdown failed", "error", err)
				return err
			}
			logger.L.Info("Server stopped gracefully.")
			return nil
		},
	}
}
