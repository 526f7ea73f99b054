// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/conlang-studio/studio/internal/auth"
	authpg "github.com/conlang-studio/studio/internal/auth/postgres"
	"github.com/conlang-studio/studio/internal/observability"
	"github.com/conlang-studio/studio/internal/project"
	projectpg "github.com/conlang-studio/studio/internal/project/postgres"
	"github.com/conlang-studio/studio/internal/store"
	"github.com/conlang-studio/studio/internal/web"
)

const (
	readinessTimeout = 2 * time.Second
	shutdownTimeout  = 5 * time.Second
)

// newServeCmd creates the serve subcommand.
func newServeCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Connect to PostgreSQL, apply pending migrations, and serve the HTTP API
together with the metrics/health endpoint and the expired-session sweeper.
Stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, deps)
		},
	}
}

func runServe(ctx context.Context, cmd *cobra.Command, deps *Deps) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting studio",
		"http_addr", cfg.HTTP.Addr,
		"metrics_addr", cfg.Metrics.Addr,
		"log_format", cfg.Log.Format,
	)

	pool, err := deps.Connect(ctx, cfg.Database.URL, cfg.Database.ConnectRetries)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := migrateUp(deps, cfg.Database.URL, logger); err != nil {
		return err
	}

	sessions, err := auth.NewSessionManager(
		authpg.NewSessionRepository(pool),
		auth.WithIdleTimeout(cfg.Session.IdleTimeout),
	)
	if err != nil {
		return err
	}
	authSvc, err := auth.NewAuthServiceWithLogger(
		authpg.NewUserRepository(pool),
		sessions,
		auth.NewArgon2idHasher(),
		store.NewTransactor(pool),
		logger,
	)
	if err != nil {
		return err
	}
	projects, err := project.NewServiceWithLogger(projectpg.NewProjectRepository(pool), logger)
	if err != nil {
		return err
	}
	sweeper, err := auth.NewSweeper(sessions, cfg.Session.SweepInterval, logger)
	if err != nil {
		return err
	}

	var (
		obs      *observability.Server
		observer web.RequestObserver
	)
	if cfg.Metrics.Addr != "" {
		obs = observability.NewServer(
			cfg.Metrics.Addr,
			store.ReadinessCheck(pool, readinessTimeout),
			logger,
			auth.RegisterMetrics,
			project.RegisterMetrics,
		)
		observer = obs.Metrics()
	}

	api, err := web.NewServer(web.Options{
		Auth:         authSvc,
		Projects:     projects,
		Observer:     observer,
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if obs != nil {
		obsErrCh, err := obs.Start()
		if err != nil {
			return err
		}
		g.Go(func() error { return superviseObservability(gctx, obs, obsErrCh) })
	}
	g.Go(func() error { return api.Run(gctx, cfg.HTTP.Addr) })
	g.Go(func() error { return sweeper.Run(gctx) })

	cmd.Println("Studio started")
	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}

// migrateUp applies pending migrations before anything serves traffic.
func migrateUp(deps *Deps, databaseURL string, logger *slog.Logger) (err error) {
	m, err := deps.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	pending, err := m.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	logger.Info("applying migrations", "count", len(pending))
	return m.Up()
}

// superviseObservability returns the observability server's serve error, or
// stops it once ctx is done.
func superviseObservability(ctx context.Context, obs *observability.Server, errCh <-chan error) error {
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return obs.Stop(shutdownCtx)
}
