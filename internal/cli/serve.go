package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tahirturgut/exchange/internal/api"
	"github.com/tahirturgut/exchange/internal/cache"
	"github.com/tahirturgut/exchange/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the maintenance scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.serve(cmd.Context())
		},
	}

	cmd.Flags().String("host", "", "address to listen on (SERVER_HOST)")
	cmd.Flags().String("port", "", "port to listen on (SERVER_PORT)")
	cmd.Flags().String("redis-url", "", "Redis URL for the quote cache (REDIS_URL)")
	_ = app.Viper.BindPFlag("SERVER_HOST", cmd.Flags().Lookup("host"))
	_ = app.Viper.BindPFlag("SERVER_PORT", cmd.Flags().Lookup("port"))
	_ = app.Viper.BindPFlag("REDIS_URL", cmd.Flags().Lookup("redis-url"))

	return cmd
}

func (a *App) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, _, err := a.openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	quotes, err := cache.New(ctx, a.Config.Cache.RedisURL, a.Config.Cache.TTL)
	if err != nil {
		return fmt.Errorf("failed to create quote cache: %w", err)
	}
	defer quotes.Close()

	c := a.wire(db, quotes)

	if n, err := c.services.Catalog.WarmCache(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("failed to warm quote cache")
	} else {
		a.Logger.Info().Int("instruments", n).Msg("quote cache warmed")
	}

	sched := scheduler.New(a.Logger)
	err = sched.Register(a.Config.Maintenance.Schedule, "maintenance", func(ctx context.Context) error {
		_, err := c.services.System.RunMaintenance(ctx)
		return err
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         a.Config.Server.Addr,
		Handler:      api.NewRouter(c.services, c.issuer, a.Config.CORS.AllowedOrigins, a.Logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return sched.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	a.Logger.Info().Msg("server exited")
	return nil
}
