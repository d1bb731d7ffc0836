package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/snowflake-ladder/snowflake/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the profile-store HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		slog.Info("starting snowflake server",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
			"driver", cfg.Database.Driver,
			"cache", cfg.Redis.Address != "",
			"auth", cfg.Auth.Secret != "",
		)

		initCtx, initCancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer initCancel()
		repo, err := openRepo(initCtx, cmd, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := repo.Close(); err != nil {
				slog.Error("close store", "error", err)
			}
		}()

		server := api.NewServer(api.Options{
			Registry:       reg,
			Repo:           repo,
			AuthSecret:     []byte(cfg.Auth.Secret),
			RequestTimeout: cfg.Server.RequestTimeout,
		})
		httpServer := &http.Server{
			Addr:         cfg.Addr(),
			Handler:      server.Router(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			slog.Info("HTTP server starting", "addr", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		slog.Info("shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
		slog.Info("snowflake server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "Listen port (overrides server.port)")
}
