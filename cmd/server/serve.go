package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/propman/internal/api"
	"github.com/lalith-99/propman/internal/auth"
	"github.com/lalith-99/propman/internal/db"
	"github.com/lalith-99/propman/internal/observ"
	"github.com/lalith-99/propman/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving (postgres only)")
	return cmd
}

func runServe(ctx context.Context, migrate bool) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	cfg, logger := a.cfg, a.logger

	if migrate {
		if err := a.requirePostgres("--migrate"); err != nil {
			return err
		}
		if err := a.database.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// ---------------------------------------------------------------
	// Services
	// ---------------------------------------------------------------
	metrics := observ.NewMetrics()
	tokens := auth.NewIssuer(cfg.JWT)
	jobs := service.NewJob(a.store, a.jobTypes, metrics, logger, cfg.JobNumberMaxAttempts)

	// The in-memory store starts empty; give it a usable catalogue.
	if a.database == nil {
		if _, err := jobs.SeedTypes(ctx, db.DefaultJobTypes); err != nil {
			return fmt.Errorf("seed job types: %w", err)
		}
	}

	// ---------------------------------------------------------------
	// HTTP server
	// ---------------------------------------------------------------
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Store:            a.store,
		Tokens:           tokens,
		Accounts:         service.NewAccount(a.store, tokens, metrics, logger),
		Jobs:             jobs,
		Properties:       service.NewProperty(a.store),
		ServiceProviders: service.NewServiceProvider(a.store),
		Metrics:          metrics,
		Logger:           logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting propman",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("storage", cfg.StorageDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Shutdown stops accepting connections and waits for in-flight requests.
	// ctx is already cancelled here, so the budget needs a fresh context.
	// Requests still running when it expires are cut off and the deferred
	// close releases the pool and redis client underneath them.
	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
